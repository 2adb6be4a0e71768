// Package storage reads and writes the flat task file.
package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/duke-go/internal/task"
)

// Store is a task file on disk.
type Store struct {
	Path string
	// Strict makes Load fail on the first corrupt line instead of skipping it.
	Strict bool
	// CreateMissing makes Load create an empty file when none exists.
	CreateMissing bool

	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithStrict sets strict loading.
func WithStrict(strict bool) Option {
	return func(s *Store) {
		s.Strict = strict
	}
}

// WithCreate sets whether Load creates a missing file. Read-only callers
// turn it off so that looking at tasks leaves no file behind.
func WithCreate(create bool) Option {
	return func(s *Store) {
		s.CreateMissing = create
	}
}

// WithLogger sets the logger used for skipped lines and flush failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New returns a store for path.
func New(path string, opts ...Option) *Store {
	s := &Store{Path: path, CreateMissing: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// LoadResult holds the tasks read from the file and the lines that were
// skipped because they could not be parsed.
type LoadResult struct {
	Tasks   []task.Task
	Skipped []*task.CorruptError
	Created bool // the file did not exist and was created empty
}

// Load reads every task from the file. A missing file is created empty (with
// its directory) unless CreateMissing is off, in which case it loads as an
// empty list. Blank lines are ignored.
func (s *Store) Load() (*LoadResult, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		if !s.CreateMissing {
			s.logger.Debug("task file not found", "path", s.Path)
			return &LoadResult{}, nil
		}
		if err := s.create(); err != nil {
			return nil, err
		}
		s.logger.Debug("created task file", "path", s.Path)
		return &LoadResult{Created: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open task file: %w", err)
	}
	defer f.Close()

	result, err := s.read(f)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("loaded tasks", "path", s.Path, "count", len(result.Tasks), "skipped", len(result.Skipped))
	return result, nil
}

func (s *Store) read(r io.Reader) (*LoadResult, error) {
	result := &LoadResult{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := task.Parse(line)
		if err != nil {
			var ce *task.CorruptError
			if !errors.As(err, &ce) {
				return nil, fmt.Errorf("parse line %d: %w", lineNo, err)
			}
			ce.Line = lineNo
			if s.Strict {
				return nil, fmt.Errorf("load task file %s: %w", s.Path, ce)
			}
			s.logger.Warn("skipping corrupt task line", "path", s.Path, "line", lineNo, "err", ce.Reason)
			result.Skipped = append(result.Skipped, ce)
			continue
		}
		result.Tasks = append(result.Tasks, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return result, nil
}

func (s *Store) create() error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create task dir: %w", err)
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create task file: %w", err)
	}
	return f.Close()
}

// Encode returns the file contents for tasks.
func Encode(tasks []task.Task) []byte {
	var buf bytes.Buffer
	for _, t := range tasks {
		buf.WriteString(t.Serialize())
	}
	return buf.Bytes()
}

// Save replaces the file with the serialized tasks. The write goes to a
// temporary file that is renamed over the target, so a failed save leaves
// the previous contents intact.
func (s *Store) Save(tasks []task.Task) error {
	if err := writeFileAtomic(s.Path, Encode(tasks), 0o644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	s.logger.Debug("saved tasks", "path", s.Path, "count", len(tasks))
	return nil
}

// Flush saves tasks and logs a failure instead of returning it. It reports
// whether the save succeeded.
func (s *Store) Flush(tasks []task.Task) bool {
	if err := s.Save(tasks); err != nil {
		s.logger.Warn("task file not saved; memory and disk may differ", "path", s.Path, "err", err)
		return false
	}
	return true
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
