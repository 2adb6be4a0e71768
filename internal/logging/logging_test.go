// Package logging provides tests for the diagnostic logger and session history.
package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.WarnLevel},
		{"bogus", log.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestConsoleLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerFromConfig(&buf, "warn", "text", false, false)

	logger.Info("hidden message")
	logger.Warn("visible message", "path", "storage.txt")

	output := buf.String()
	if strings.Contains(output, "hidden message") {
		t.Errorf("info message should be filtered at warn level: %s", output)
	}
	if !strings.Contains(output, "visible message") || !strings.Contains(output, "storage.txt") {
		t.Errorf("expected warn message with field, got: %s", output)
	}
	if !strings.Contains(output, "duke") {
		t.Errorf("expected prefix in output, got: %s", output)
	}
}

func TestConsoleLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerFromConfig(&buf, "debug", "json", false, false)
	logger.Debug("loaded tasks", "count", 3)

	output := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Errorf("expected JSON output, got: %s", output)
	}
	if !strings.Contains(output, `"count":3`) {
		t.Errorf("expected count field, got: %s", output)
	}
}

func TestHistoryRecordAndRead(t *testing.T) {
	base := t.TempDir()
	h, err := NewHistory(base, filepath.Join(t.TempDir(), "storage.txt"))
	if err != nil {
		t.Fatalf("NewHistory failed: %v", err)
	}
	if _, err := uuid.Parse(h.SessionID); err != nil {
		t.Errorf("SessionID %q is not a uuid: %v", h.SessionID, err)
	}
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	if err := h.Record("todo read book", "NewTask", nil); err != nil {
		t.Fatal(err)
	}
	if err := h.Record("done 9", "Done", errors.New("index out of bounds")); err != nil {
		t.Fatal(err)
	}
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := ReadEntries(h.Path)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	if !entries[0].OK || entries[0].Input != "todo read book" || !entries[0].Timestamp.Equal(fixed) {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].OK || entries[1].Error != "index out of bounds" {
		t.Errorf("second entry = %+v", entries[1])
	}
	if entries[0].Session != h.SessionID {
		t.Errorf("Session: got %q, want %q", entries[0].Session, h.SessionID)
	}
}

func TestNilHistory(t *testing.T) {
	var h *History
	if err := h.Record("list", "List", nil); err != nil {
		t.Errorf("Record on nil history: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("Close on nil history: %v", err)
	}
}

func TestNewHistoryEmptyDir(t *testing.T) {
	if _, err := NewHistory("", "storage.txt"); err == nil {
		t.Fatal("expected error for empty base dir")
	}
}

func TestSessionDirPerDataFile(t *testing.T) {
	base := t.TempDir()
	a := SessionDir(base, "/tmp/one/storage.txt")
	b := SessionDir(base, "/tmp/two/storage.txt")
	if a == b {
		t.Errorf("different task files share a history dir: %s", a)
	}
	if !strings.HasPrefix(filepath.Base(a), "storage-") {
		t.Errorf("history dir %q should start with the file name", a)
	}
}

func TestFindSessions(t *testing.T) {
	base := t.TempDir()
	dataFile := filepath.Join(t.TempDir(), "storage.txt")

	first, err := NewHistory(base, dataFile)
	if err != nil {
		t.Fatal(err)
	}
	first.Close()
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(first.Path, old, old); err != nil {
		t.Fatal(err)
	}

	second, err := NewHistory(base, dataFile)
	if err != nil {
		t.Fatal(err)
	}
	second.Close()

	if err := os.WriteFile(filepath.Join(first.Dir, "notes.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	sessions, err := FindSessions(first.Dir)
	if err != nil {
		t.Fatalf("FindSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions: got %d, want 2", len(sessions))
	}
	if sessions[0].ID != second.SessionID {
		t.Errorf("newest session: got %s, want %s", sessions[0].ID, second.SessionID)
	}
	if sessions[1].ID != first.SessionID {
		t.Errorf("oldest session: got %s, want %s", sessions[1].ID, first.SessionID)
	}
}

func TestFindSessionsMissingDir(t *testing.T) {
	sessions, err := FindSessions(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected no sessions, got %d", len(sessions))
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"storage", "storage"},
		{"my tasks!", "my_tasks"},
		{"", "tasks"},
		{"***", "tasks"},
	}
	for _, tt := range tests {
		if got := slugify(tt.input); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
