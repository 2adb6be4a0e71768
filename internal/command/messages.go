package command

import (
	"errors"
	"fmt"

	"github.com/nibzard/duke-go/internal/task"
)

// User-facing message text.
const (
	NoTaskMessage          = "Currently no task available."
	DoneMessage            = "Nice! I've marked this task as done: "
	RemovedMessage         = "Noted. I've removed this task: "
	NotFoundMessage        = "No matching task found."
	OutOfBoundsMessage     = "Index given is out of bound! Please try again!"
	InvalidCommandMessage  = "Invalid command"
	InvalidNumberMessage   = "Invalid number"
	UnknownTypeMessage     = "unknown type"
	MissingTimingMessage   = "no timing given"
	BadTimestampMessage    = "Timing must look like " + task.TimeLayout
	CorruptMessage         = "Stored task could not be read"
	UnexpectedErrorMessage = "Something went wrong"
)

// Describe maps an error returned by Parse or an Engine operation to the
// message shown to the user.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidNumber):
		return InvalidNumberMessage
	case errors.Is(err, ErrInvalidCommand):
		return InvalidCommandMessage
	case errors.Is(err, ErrOutOfBounds):
		return OutOfBoundsMessage
	case errors.Is(err, ErrUnknownType):
		return UnknownTypeMessage
	case errors.Is(err, ErrMissingTiming):
		return MissingTimingMessage
	case errors.Is(err, ErrBadTimestamp):
		return BadTimestampMessage
	case errors.Is(err, ErrNotFound):
		return NotFoundMessage
	case errors.Is(err, ErrCorrupt):
		return CorruptMessage
	default:
		return fmt.Sprintf("%s: %v", UnexpectedErrorMessage, err)
	}
}

func addedMessage(t task.Task) string {
	return "added: " + t.String()
}

func doneMessage(t task.Task) string {
	return fmt.Sprintf("%s\n   %s", DoneMessage, t)
}

func removedMessage(t task.Task, remaining int) string {
	return fmt.Sprintf("%s\n   %s\nNow you have %d tasks in the list.", RemovedMessage, t, remaining)
}
