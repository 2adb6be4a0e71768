package command

import "fmt"

// Result is the outcome of running one command.
type Result struct {
	// Output is the confirmation or listing shown to the user.
	Output string
	// Mutated is true when the collection changed and should be persisted.
	Mutated bool
	// Quit is true for Bye.
	Quit bool
}

// Execute runs cmd against the engine.
func (e *Engine) Execute(cmd Command) (Result, error) {
	switch c := cmd.(type) {
	case Bye:
		return Result{Quit: true}, nil
	case List:
		return Result{Output: e.List()}, nil
	case NewTask:
		out, err := e.Add(c.Raw)
		if err != nil {
			return Result{}, err
		}
		return Result{Output: out, Mutated: true}, nil
	case Done:
		out, changed, err := e.markDone(c.Index)
		if err != nil {
			return Result{}, err
		}
		return Result{Output: out, Mutated: changed}, nil
	case Delete:
		out, err := e.Delete(c.Index)
		if err != nil {
			return Result{}, err
		}
		return Result{Output: out, Mutated: true}, nil
	case Find:
		t, _, err := e.Find(c.Query)
		if err != nil {
			return Result{}, err
		}
		return Result{Output: t.String()}, nil
	default:
		return Result{}, fmt.Errorf("unhandled command %T", cmd)
	}
}

// Run parses line and executes it.
func (e *Engine) Run(line string) (Command, Result, error) {
	cmd, err := Parse(line)
	if err != nil {
		return nil, Result{}, err
	}
	res, err := e.Execute(cmd)
	return cmd, res, err
}
