package task

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the canonical timestamp format (YYYY-MM-DD HH:MM:SS).
const TimeLayout = "2006-01-02 15:04:05"

// Kind identifies one of the closed set of task variants.
type Kind int

const (
	KindToDo Kind = iota
	KindEvent
	KindDeadline
)

// Letter returns the single-letter tag used in renderings and storage lines.
func (k Kind) Letter() string {
	switch k {
	case KindToDo:
		return "T"
	case KindEvent:
		return "E"
	case KindDeadline:
		return "D"
	default:
		panic(fmt.Sprintf("task: unknown kind %d", int(k)))
	}
}

// String returns the lower-case verb that creates this kind.
func (k Kind) String() string {
	switch k {
	case KindToDo:
		return "todo"
	case KindEvent:
		return "event"
	case KindDeadline:
		return "deadline"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// HasTiming reports whether tasks of this kind carry a timestamp.
func (k Kind) HasTiming() bool {
	return k == KindEvent || k == KindDeadline
}

// kindFromLetter maps a storage letter back to its kind.
func kindFromLetter(letter string) (Kind, bool) {
	switch letter {
	case "T":
		return KindToDo, true
	case "E":
		return KindEvent, true
	case "D":
		return KindDeadline, true
	default:
		return 0, false
	}
}

// Task is a single tracked item. The zero value is not valid; use NewToDo,
// NewEvent or NewDeadline.
type Task struct {
	kind        Kind
	description string
	timing      time.Time
	done        bool
}

// NewToDo returns a pending to-do.
func NewToDo(description string) Task {
	return Task{kind: KindToDo, description: description}
}

// NewEvent returns a pending event happening at the given time.
func NewEvent(description string, at time.Time) Task {
	return Task{kind: KindEvent, description: description, timing: at}
}

// NewDeadline returns a pending deadline due by the given time.
func NewDeadline(description string, by time.Time) Task {
	return Task{kind: KindDeadline, description: description, timing: by}
}

// Kind returns the task variant.
func (t Task) Kind() Kind {
	return t.kind
}

// Description returns the description exactly as it was entered or stored.
func (t Task) Description() string {
	return t.description
}

// Timing returns the timestamp of an event or deadline. The second result
// is false for to-dos.
func (t Task) Timing() (time.Time, bool) {
	if !t.kind.HasTiming() {
		return time.Time{}, false
	}
	return t.timing, true
}

// IsDone reports whether the task has been completed.
func (t Task) IsDone() bool {
	return t.done
}

// Complete marks the task done. Calling it again has no further effect;
// there is no way back to pending.
func (t *Task) Complete() {
	t.done = true
}

// Equal reports whether two tasks have the same kind, state, description
// and timing.
func (t Task) Equal(other Task) bool {
	return t.kind == other.kind &&
		t.done == other.done &&
		t.description == other.description &&
		t.timing.Equal(other.timing)
}

// String renders the task for display, e.g.
// "[E][✗] exam (at: 2024-05-01 09:00:00)".
func (t Task) String() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(t.kind.Letter())
	b.WriteString("][")
	b.WriteString(doneMark(t.done))
	b.WriteString("] ")
	b.WriteString(strings.TrimSpace(t.description))

	switch t.kind {
	case KindToDo:
	case KindEvent:
		fmt.Fprintf(&b, " (at: %s)", t.timing.Format(TimeLayout))
	case KindDeadline:
		fmt.Fprintf(&b, " (by: %s)", t.timing.Format(TimeLayout))
	}
	return b.String()
}

func doneMark(done bool) string {
	if done {
		return "✓"
	}
	return "✗"
}
