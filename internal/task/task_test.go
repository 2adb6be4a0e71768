package task

import (
	"errors"
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(TimeLayout, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func TestNewTaskNotDoneUntilComplete(t *testing.T) {
	at := mustTime(t, "2020-05-11 10:47:00")
	tasks := []Task{
		NewToDo(""),
		NewEvent("", at),
		NewDeadline("", at),
	}

	for _, tk := range tasks {
		t.Run(tk.Kind().String(), func(t *testing.T) {
			if tk.IsDone() {
				t.Fatal("new task should not be done")
			}
			tk.Complete()
			if !tk.IsDone() {
				t.Fatal("task should be done after Complete")
			}
			tk.Complete()
			if !tk.IsDone() {
				t.Fatal("second Complete should keep the task done")
			}
		})
	}
}

func TestString(t *testing.T) {
	at := mustTime(t, "2024-05-01 09:00:00")

	done := NewToDo("read book")
	done.Complete()

	tests := []struct {
		name string
		task Task
		want string
	}{
		{"pending todo", NewToDo("read book"), "[T][✗] read book"},
		{"done todo", done, "[T][✓] read book"},
		{"event", NewEvent("exam ", at), "[E][✗] exam (at: 2024-05-01 09:00:00)"},
		{"deadline", NewDeadline("submit", at), "[D][✗] submit (by: 2024-05-01 09:00:00)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSerialize(t *testing.T) {
	at := mustTime(t, "2024-05-01 09:00:00")

	done := NewDeadline("submit", at)
	done.Complete()

	tests := []struct {
		name string
		task Task
		want string
	}{
		{"todo", NewToDo("read book"), "T | 0 | read book\n"},
		{"event keeps description verbatim", NewEvent("exam ", at), "E | 0 | exam  | 2024-05-01 09:00:00\n"},
		{"done deadline", done, "D | 1 | submit | 2024-05-01 09:00:00\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.Serialize(); got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	at := mustTime(t, "2024-05-01 09:00:00")

	var tasks []Task
	for _, tk := range []Task{
		NewToDo("read book"),
		NewToDo(""),
		NewToDo("pipes | inside"),
		NewEvent("exam ", at),
		NewEvent("party | cake", at),
		NewDeadline("submit", at),
	} {
		tasks = append(tasks, tk)
		tk.Complete()
		tasks = append(tasks, tk)
	}

	for _, tk := range tasks {
		line := tk.Serialize()
		t.Run(line, func(t *testing.T) {
			got, err := Parse(line)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", line, err)
			}
			if !got.Equal(tk) {
				t.Errorf("round trip mismatch: got %q, want %q", got.Serialize(), line)
			}
			if got.Kind() != tk.Kind() || got.IsDone() != tk.IsDone() || got.Description() != tk.Description() {
				t.Errorf("fields differ: got %v/%v/%q, want %v/%v/%q",
					got.Kind(), got.IsDone(), got.Description(), tk.Kind(), tk.IsDone(), tk.Description())
			}
		})
	}
}

func TestParseWithoutNewline(t *testing.T) {
	got, err := Parse("E | 1 | exam  | 2024-05-01 09:00:00")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got.Kind() != KindEvent {
		t.Errorf("Kind: got %v, want event", got.Kind())
	}
	if !got.IsDone() {
		t.Error("expected task to be done")
	}
	if got.Description() != "exam " {
		t.Errorf("Description: got %q, want %q", got.Description(), "exam ")
	}
	timing, ok := got.Timing()
	if !ok {
		t.Fatal("expected event to have timing")
	}
	if want := mustTime(t, "2024-05-01 09:00:00"); !timing.Equal(want) {
		t.Errorf("Timing: got %v, want %v", timing, want)
	}
}

func TestParseCorrupt(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"kind only", "T"},
		{"missing description", "T | 0"},
		{"unknown kind", "X | 0 | something"},
		{"bad flag", "T | 2 | something"},
		{"event without timing", "E | 0 | exam"},
		{"deadline without timing", "D | 1 | submit"},
		{"bad timestamp", "E | 0 | exam | 2024-05-01"},
		{"garbage timestamp", "D | 0 | submit | tomorrow"},
		{"wrong separator", "T|0|read book"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.line)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", tt.line)
			}
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("Parse(%q) error %v does not match ErrCorrupt", tt.line, err)
			}
			var ce *CorruptError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *CorruptError, got %T", err)
			}
			if ce.Text != tt.line {
				t.Errorf("Text: got %q, want %q", ce.Text, tt.line)
			}
		})
	}
}

func TestTimingForToDo(t *testing.T) {
	if _, ok := NewToDo("x").Timing(); ok {
		t.Error("to-do should not report timing")
	}
}
