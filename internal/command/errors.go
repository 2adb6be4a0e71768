package command

import (
	"errors"

	"github.com/nibzard/duke-go/internal/task"
)

var (
	// ErrInvalidCommand reports an unknown verb or missing argument.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrInvalidNumber reports an index argument that is not a non-negative integer.
	ErrInvalidNumber = errors.New("invalid number")
	// ErrOutOfBounds reports an index outside [1, len].
	ErrOutOfBounds = errors.New("index out of bounds")
	// ErrUnknownType reports a new-task line whose verb is not todo, event or deadline.
	ErrUnknownType = errors.New("unknown type")
	// ErrMissingTiming reports an event or deadline without its /at or /by timing.
	ErrMissingTiming = errors.New("no timing given")
	// ErrBadTimestamp reports a timing that does not match task.TimeLayout.
	ErrBadTimestamp = errors.New("bad timestamp")
	// ErrNotFound reports a find query that matched no task.
	ErrNotFound = errors.New("task not found")
)

// ErrCorrupt is re-exported so callers handling every error kind need only
// this package.
var ErrCorrupt = task.ErrCorrupt
