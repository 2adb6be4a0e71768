package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/duke-go/internal/task"
)

// Timing markers inside event and deadline bodies.
const (
	MarkerAt = "/at"
	MarkerBy = "/by"
)

// Engine owns an ordered task collection and applies commands to it.
// It is not safe for concurrent use.
type Engine struct {
	tasks []task.Task
}

// NewEngine returns an engine holding a copy of tasks, in order.
func NewEngine(tasks []task.Task) *Engine {
	e := &Engine{tasks: make([]task.Task, len(tasks))}
	copy(e.tasks, tasks)
	return e
}

// Len returns the number of tasks.
func (e *Engine) Len() int {
	return len(e.tasks)
}

// Tasks returns a copy of the collection in display order.
func (e *Engine) Tasks() []task.Task {
	out := make([]task.Task, len(e.tasks))
	copy(out, e.tasks)
	return out
}

// Task returns the task at the 1-based index.
func (e *Engine) Task(index int) (task.Task, error) {
	i, err := e.position(index)
	if err != nil {
		return task.Task{}, err
	}
	return e.tasks[i], nil
}

// position converts a 1-based index into a slice position.
func (e *Engine) position(index int) (int, error) {
	if index < 1 || index > len(e.tasks) {
		return 0, fmt.Errorf("%w: %d not in [1, %d]", ErrOutOfBounds, index, len(e.tasks))
	}
	return index - 1, nil
}

// Add parses a raw new-task line and appends the task. On any error the
// collection is unchanged.
func (e *Engine) Add(raw string) (string, error) {
	t, err := ParseTask(raw)
	if err != nil {
		return "", err
	}
	e.tasks = append(e.tasks, t)
	return addedMessage(t), nil
}

// List renders every task as "<i>: <task>", one per line.
func (e *Engine) List() string {
	if len(e.tasks) == 0 {
		return NoTaskMessage
	}
	var b strings.Builder
	for i, t := range e.tasks {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(": ")
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), " \t\r\n")
}

// Done marks the task at the 1-based index as done. Repeating it returns
// the same confirmation.
func (e *Engine) Done(index int) (string, error) {
	out, _, err := e.markDone(index)
	return out, err
}

// markDone also reports whether the task changed state.
func (e *Engine) markDone(index int) (string, bool, error) {
	i, err := e.position(index)
	if err != nil {
		return "", false, err
	}
	changed := !e.tasks[i].IsDone()
	if changed {
		e.tasks[i].Complete()
	}
	return doneMessage(e.tasks[i]), changed, nil
}

// Delete removes the task at the 1-based index; later tasks move up by one.
func (e *Engine) Delete(index int) (string, error) {
	i, err := e.position(index)
	if err != nil {
		return "", err
	}
	removed := e.tasks[i]
	e.tasks = append(e.tasks[:i], e.tasks[i+1:]...)
	return removedMessage(removed, len(e.tasks)), nil
}

// Find returns the first task, in insertion order, whose description equals
// query, together with its 1-based index. The comparison is exact and uses
// the stored description, which may carry whitespace the rendering trims.
func (e *Engine) Find(query string) (task.Task, int, error) {
	for i, t := range e.tasks {
		if t.Description() == query {
			return t, i + 1, nil
		}
	}
	return task.Task{}, 0, fmt.Errorf("%w: %q", ErrNotFound, query)
}

// ParseTask builds a task from a "todo", "event" or "deadline" line.
func ParseTask(raw string) (task.Task, error) {
	verb, body, _ := strings.Cut(raw, " ")

	switch verb {
	case VerbToDo:
		return task.NewToDo(body), nil
	case VerbEvent:
		description, at, err := splitTiming(body, MarkerAt)
		if err != nil {
			return task.Task{}, err
		}
		return task.NewEvent(description, at), nil
	case VerbDeadline:
		description, by, err := splitTiming(body, MarkerBy)
		if err != nil {
			return task.Task{}, err
		}
		return task.NewDeadline(description, by), nil
	default:
		return task.Task{}, fmt.Errorf("%w: %q", ErrUnknownType, verb)
	}
}

// splitTiming separates "<description> <marker> <timing>". The description
// is kept verbatim; the timing is trimmed and must match task.TimeLayout.
func splitTiming(body, marker string) (string, time.Time, error) {
	parts := strings.Split(body, marker)
	if len(parts) < 2 {
		return "", time.Time{}, fmt.Errorf("%w: missing %s", ErrMissingTiming, marker)
	}
	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		return "", time.Time{}, fmt.Errorf("%w: nothing after %s", ErrMissingTiming, marker)
	}
	timing, err := time.Parse(task.TimeLayout, raw)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrBadTimestamp, err)
	}
	return parts[0], timing, nil
}
