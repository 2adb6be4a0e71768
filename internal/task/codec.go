package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FieldSeparator joins the fields of a storage line.
const FieldSeparator = " | "

// ErrCorrupt is matched by every error returned from Parse.
var ErrCorrupt = errors.New("corrupt task line")

// CorruptError describes a storage line that could not be parsed.
type CorruptError struct {
	Line   int    // 1-based line number, 0 when unknown
	Text   string // offending line
	Reason string
	Err    error // underlying parse error, if any
}

func (e *CorruptError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, msg, e.Text)
	}
	return fmt.Sprintf("%s: %q", msg, e.Text)
}

// Unwrap returns the underlying error.
func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Is makes every CorruptError match ErrCorrupt.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}

// Serialize returns the storage line for the task, including the
// terminating newline.
func (t Task) Serialize() string {
	fields := []string{t.kind.Letter(), doneFlag(t.done), t.description}
	if t.kind.HasTiming() {
		fields = append(fields, t.timing.Format(TimeLayout))
	}
	return strings.Join(fields, FieldSeparator) + "\n"
}

func doneFlag(done bool) string {
	if done {
		return "1"
	}
	return "0"
}

// Parse decodes a storage line produced by Serialize. A trailing line break
// is ignored. Any malformed line yields a *CorruptError.
func Parse(line string) (Task, error) {
	line = strings.TrimRight(line, "\r\n")
	corrupt := func(reason string, err error) (Task, error) {
		return Task{}, &CorruptError{Text: line, Reason: reason, Err: err}
	}

	fields := strings.SplitN(line, FieldSeparator, 3)
	if len(fields) < 3 {
		return corrupt("missing fields", nil)
	}

	kind, ok := kindFromLetter(fields[0])
	if !ok {
		return corrupt(fmt.Sprintf("unknown kind %q", fields[0]), nil)
	}

	var done bool
	switch fields[1] {
	case "1":
		done = true
	case "0":
	default:
		return corrupt(fmt.Sprintf("bad completion flag %q", fields[1]), nil)
	}

	t := Task{kind: kind, description: fields[2], done: done}
	if kind.HasTiming() {
		// The timestamp never contains the separator, so the last one
		// splits it from a description that might.
		i := strings.LastIndex(fields[2], FieldSeparator)
		if i < 0 {
			return corrupt("missing timing", nil)
		}
		timing, err := time.Parse(TimeLayout, fields[2][i+len(FieldSeparator):])
		if err != nil {
			return corrupt("bad timing", err)
		}
		t.description = fields[2][:i]
		t.timing = timing
	}
	return t, nil
}
