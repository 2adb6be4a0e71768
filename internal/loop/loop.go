// Package loop runs the interactive read-line session.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/duke-go/internal/command"
	"github.com/nibzard/duke-go/internal/config"
	"github.com/nibzard/duke-go/internal/logging"
	"github.com/nibzard/duke-go/internal/storage"
)

// ByeMessage is printed when the session ends with "bye".
const ByeMessage = "Bye. Hope to see you again soon!"

// WelcomeMessage returns the banner printed when a session starts.
func WelcomeMessage(botName string) string {
	return fmt.Sprintf("Hello! I'm %s\nWhat can I do for you?", botName)
}

// Loop reads commands from in, executes them against the task collection
// and writes framed replies to out.
type Loop struct {
	engine  *command.Engine
	store   *storage.Store
	history *logging.History
	logger  *log.Logger

	in      io.Reader
	out     io.Writer
	botName string
	divider string
}

// Option configures a Loop.
type Option func(*Loop)

// WithInput sets the command source. Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(l *Loop) {
		l.in = r
	}
}

// WithOutput sets where replies are written. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(l *Loop) {
		l.out = w
	}
}

// WithHistory sets the session history. A nil history records nothing.
func WithHistory(h *logging.History) Option {
	return func(l *Loop) {
		l.history = h
	}
}

// New loads the task file named by cfg and returns a loop ready to run.
// Corrupt lines are skipped with a warning unless cfg.StrictLoad is set.
func New(cfg *config.Config, logger *log.Logger, opts ...Option) (*Loop, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	store := storage.New(cfg.DataFile,
		storage.WithStrict(cfg.StrictLoad),
		storage.WithLogger(logger),
	)
	loaded, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	l := &Loop{
		engine:  command.NewEngine(loaded.Tasks),
		store:   store,
		logger:  logger,
		in:      os.Stdin,
		out:     os.Stdout,
		botName: cfg.BotName,
		divider: strings.Repeat("-", cfg.DividerWidth),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Engine returns the command engine backing the loop.
func (l *Loop) Engine() *command.Engine {
	return l.engine
}

// Run prints the welcome banner and processes lines until "bye", end of
// input, or ctx is cancelled. End of input ends the session without the
// goodbye message.
func (l *Loop) Run(ctx context.Context) error {
	// Stops the reader when the session ends with input still pending.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	defer func() {
		if err := l.history.Close(); err != nil {
			l.logger.Warn("close history", "err", err)
		}
	}()

	l.say(WelcomeMessage(l.botName))

	lines := make(chan string)
	readErr := make(chan error, 1)
	go l.readLines(ctx, lines, readErr)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				l.logger.Debug("end of input")
				return nil
			}
			if quit := l.Step(line); quit {
				return nil
			}
		}
	}
}

func (l *Loop) readLines(ctx context.Context, lines chan<- string, readErr chan<- error) {
	defer close(lines)
	scanner := bufio.NewScanner(l.in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			readErr <- nil
			return
		}
	}
	readErr <- scanner.Err()
}

// Step executes one input line and writes its reply. It reports whether the
// session should end.
func (l *Loop) Step(line string) bool {
	input := strings.TrimSpace(line)
	cmd, res, err := l.engine.Run(input)
	l.record(input, cmd, err)

	if err != nil {
		l.logger.Debug("command failed", "input", input, "err", err)
		l.say(command.Describe(err))
		return false
	}
	if res.Quit {
		l.say(ByeMessage)
		return true
	}
	if res.Mutated {
		l.store.Flush(l.engine.Tasks())
	}
	l.say(res.Output)
	return false
}

func (l *Loop) record(input string, cmd command.Command, err error) {
	if hErr := l.history.Record(input, command.Name(cmd), err); hErr != nil {
		l.logger.Warn("history entry not written", "err", hErr)
	}
}

// say writes msg between two divider lines.
func (l *Loop) say(msg string) {
	fmt.Fprintf(l.out, "%s\n%s\n%s\n", l.divider, msg, l.divider)
}
