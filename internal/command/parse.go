package command

import (
	"strconv"
	"strings"
)

// Command is one parsed input line. The set of implementations is closed:
// Bye, List, NewTask, Done, Delete and Find.
type Command interface {
	command()
}

// Bye ends the session.
type Bye struct{}

// List shows every task.
type List struct{}

// NewTask adds a task; Raw is the complete input line.
type NewTask struct {
	Raw string
}

// Done marks the task at the 1-based Index as done.
type Done struct {
	Index int
}

// Delete removes the task at the 1-based Index.
type Delete struct {
	Index int
}

// Find looks up the first task whose description equals Query.
type Find struct {
	Query string
}

func (Bye) command()     {}
func (List) command()    {}
func (NewTask) command() {}
func (Done) command()    {}
func (Delete) command()  {}
func (Find) command()    {}

// Verbs that introduce a new task.
const (
	VerbToDo     = "todo"
	VerbEvent    = "event"
	VerbDeadline = "deadline"
)

// Parse converts a single input line into a Command. Matching is
// case-sensitive and arguments are separated by single spaces.
func Parse(line string) (Command, error) {
	switch line {
	case "bye":
		return Bye{}, nil
	case "list":
		return List{}, nil
	}

	verb, rest, hasArgs := strings.Cut(line, " ")
	if !hasArgs {
		return nil, ErrInvalidCommand
	}

	switch verb {
	case "done":
		index, err := parseIndex(rest)
		if err != nil {
			return nil, err
		}
		return Done{Index: index}, nil
	case "delete":
		index, err := parseIndex(rest)
		if err != nil {
			return nil, err
		}
		return Delete{Index: index}, nil
	case "find":
		return Find{Query: rest}, nil
	case VerbToDo, VerbEvent, VerbDeadline:
		return NewTask{Raw: line}, nil
	default:
		return nil, ErrInvalidCommand
	}
}

// parseIndex reads the first space-separated argument as a non-negative
// integer with an optional leading '+'; anything after it is ignored.
func parseIndex(args string) (int, error) {
	arg, _, _ := strings.Cut(args, " ")
	if len(arg) > 1 && arg[0] == '+' && arg[1] >= '0' && arg[1] <= '9' {
		arg = arg[1:]
	}
	n, err := strconv.ParseUint(arg, 10, 0)
	if err != nil || n > uint64(maxInt) {
		return 0, ErrInvalidNumber
	}
	return int(n), nil
}

const maxInt = int(^uint(0) >> 1)

// Name returns the verb a command was issued with.
func Name(cmd Command) string {
	switch c := cmd.(type) {
	case Bye:
		return "bye"
	case List:
		return "list"
	case NewTask:
		verb, _, _ := strings.Cut(c.Raw, " ")
		return verb
	case Done:
		return "done"
	case Delete:
		return "delete"
	case Find:
		return "find"
	default:
		return ""
	}
}
