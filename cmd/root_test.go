// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/duke-go/internal/export"
	"github.com/nibzard/duke-go/internal/logging"
)

const sampleTasks = "T | 0 | read book\nE | 1 | exam  | 2024-05-01 09:00:00\nD | 0 | essay | 2024-05-03 23:59:00\n"

// isolate points config lookups and the working directory at temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, key := range []string{
		"DUKE_DATA_FILE", "DUKE_LOG_DIR", "DUKE_HISTORY", "DUKE_STRICT_LOAD",
		"DUKE_DIVIDER_WIDTH", "DUKE_BOT_NAME", "DUKE_LOG_LEVEL", "DUKE_LOG_FORMAT",
		"DUKE_LOG_TIMESTAMPS", "DUKE_LOG_CALLER",
	} {
		t.Setenv(key, "")
	}
	work := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return work
}

func writeTasks(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "storage.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = oldStdout
	}()

	done := make(chan []byte)
	go func() {
		data, _ := io.ReadAll(r)
		done <- data
	}()

	runErr := fn()
	_ = w.Close()
	output := <-done
	_ = r.Close()

	return string(output), runErr
}

func withStdin(t *testing.T, input string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(path, []byte(input), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	old := os.Stdin
	os.Stdin = f
	t.Cleanup(func() {
		os.Stdin = old
		f.Close()
	})
}

func TestRun(t *testing.T) {
	isolate(t)
	ctx := context.Background()

	for _, args := range [][]string{{"--help"}, {"-h"}, {"help"}, {"--version"}, {"-v"}, {"version"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if _, err := captureStdout(t, func() error { return Run(ctx, args) }); err != nil {
				t.Errorf("Run(%v) error = %v", args, err)
			}
		})
	}

	t.Run("version output", func(t *testing.T) {
		out, _ := captureStdout(t, func() error { return Run(ctx, []string{"version"}) })
		if !strings.Contains(out, "duke version "+Version) {
			t.Errorf("version output = %q", out)
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		err := Run(ctx, []string{"unknown-command"})
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
	})

	t.Run("invalid config value", func(t *testing.T) {
		err := Run(ctx, []string{"--log-level", "loud", "list"})
		if err == nil || !strings.Contains(err.Error(), "loading config") {
			t.Errorf("expected config error, got %v", err)
		}
	})
}

func TestRunSession(t *testing.T) {
	work := isolate(t)
	data := filepath.Join(work, "data", "storage.txt")
	withStdin(t, "todo read book\nlist\nbye\n")

	out, err := captureStdout(t, func() error {
		return Run(context.Background(), []string{"--data", data, "--history=false"})
	})
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	for _, needle := range []string{
		"Hello! I'm Duke",
		"added: [T][✗] read book",
		"1: [T][✗] read book",
		"Bye. Hope to see you again soon!",
	} {
		if !strings.Contains(out, needle) {
			t.Errorf("session output missing %q:\n%s", needle, out)
		}
	}

	saved, err := os.ReadFile(data)
	if err != nil {
		t.Fatal(err)
	}
	if string(saved) != "T | 0 | read book\n" {
		t.Errorf("task file = %q", saved)
	}
}

func TestRunSessionRecordsHistory(t *testing.T) {
	work := isolate(t)
	data := writeTasks(t, work, "")
	logDir := filepath.Join(work, "logs")
	withStdin(t, "done 1\nbye\n")

	if _, err := captureStdout(t, func() error {
		return Run(context.Background(), []string{"--data", data, "--log-dir", logDir, "run"})
	}); err != nil {
		t.Fatalf("Run error = %v", err)
	}

	sessions, err := logging.FindSessions(logging.SessionDir(logDir, data))
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("sessions: got %d, want 1", len(sessions))
	}

	out, err := captureStdout(t, func() error {
		return Run(context.Background(), []string{"--data", data, "--log-dir", logDir, "history"})
	})
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(out, sessions[0].ID) || !strings.Contains(out, `"done 1"`) || !strings.Contains(out, "error:") {
		t.Errorf("history output = %q", out)
	}

	out, err = captureStdout(t, func() error {
		return Run(context.Background(), []string{"--data", data, "--log-dir", logDir, "history", "-sessions"})
	})
	if err != nil {
		t.Fatalf("history -sessions error = %v", err)
	}
	if !strings.Contains(out, "SESSION") || !strings.Contains(out, sessions[0].ID) {
		t.Errorf("history -sessions output = %q", out)
	}

	if err := Run(context.Background(), []string{"--data", data, "--log-dir", logDir, "history", "nope"}); err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestRunFileArgument(t *testing.T) {
	work := isolate(t)
	data := writeTasks(t, work, sampleTasks)
	withStdin(t, "list\n")

	out, err := captureStdout(t, func() error {
		return Run(context.Background(), []string{"--history=false", data})
	})
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if !strings.Contains(out, "3: [D][✗] essay (by: 2024-05-03 23:59:00)") {
		t.Errorf("output = %q", out)
	}
}

func TestListCommand(t *testing.T) {
	work := isolate(t)
	data := writeTasks(t, work, sampleTasks)

	out, err := captureStdout(t, func() error {
		return Run(context.Background(), []string{"--data", data, "list"})
	})
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	want := "1: [T][✗] read book\n2: [E][✓] exam (at: 2024-05-01 09:00:00)\n3: [D][✗] essay (by: 2024-05-03 23:59:00)\n"
	if out != want {
		t.Errorf("list output:\ngot  %q\nwant %q", out, want)
	}

	empty := filepath.Join(work, "empty", "storage.txt")
	out, err = captureStdout(t, func() error {
		return Run(context.Background(), []string{"list", empty})
	})
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if strings.TrimSpace(out) != "Currently no task available." {
		t.Errorf("empty list output = %q", out)
	}
	if _, err := os.Stat(filepath.Dir(empty)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("list should not create the task file or its directory, stat err = %v", err)
	}
}

func TestListStrictCorrupt(t *testing.T) {
	work := isolate(t)
	data := writeTasks(t, work, "X | 0 | what\n")

	err := Run(context.Background(), []string{"--data", data, "--strict", "list"})
	if err == nil {
		t.Fatal("expected strict load error")
	}
}

func TestExportCommand(t *testing.T) {
	work := isolate(t)
	data := writeTasks(t, work, sampleTasks)

	t.Run("json to stdout", func(t *testing.T) {
		out, err := captureStdout(t, func() error {
			return Run(context.Background(), []string{"--data", data, "export", "--validate"})
		})
		if err != nil {
			t.Fatalf("export error = %v", err)
		}
		if err := export.ValidateJSON([]byte(out)); err != nil {
			t.Errorf("stdout export does not validate: %v\n%s", err, out)
		}
	})

	t.Run("yaml to file", func(t *testing.T) {
		path := filepath.Join(work, "tasks.yaml")
		if err := Run(context.Background(), []string{"--data", data, "export", "--format", "yaml", "--out", path}); err != nil {
			t.Fatalf("export error = %v", err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		doc, err := export.Read(f, export.FormatYAML)
		if err != nil {
			t.Fatalf("read export: %v", err)
		}
		if doc.Count != 3 || doc.Tasks[1].Description != "exam " {
			t.Errorf("unexpected document: %+v", doc)
		}
	})

	t.Run("schema", func(t *testing.T) {
		out, err := captureStdout(t, func() error {
			return Run(context.Background(), []string{"export", "--schema"})
		})
		if err != nil {
			t.Fatal(err)
		}
		if out != string(export.Schema()) {
			t.Errorf("schema output differs from embedded schema")
		}
	})

	t.Run("missing file is not created", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "data", "storage.txt")
		out, err := captureStdout(t, func() error {
			return Run(context.Background(), []string{"--data", missing, "export"})
		})
		if err != nil {
			t.Fatalf("export error = %v", err)
		}
		if !strings.Contains(out, `"count": 0`) {
			t.Errorf("expected an empty export, got:\n%s", out)
		}
		if _, err := os.Stat(filepath.Dir(missing)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("export should not create the task file, stat err = %v", err)
		}
	})

	t.Run("bad format", func(t *testing.T) {
		if err := Run(context.Background(), []string{"--data", data, "export", "--format", "csv"}); err == nil {
			t.Error("expected error for unsupported format")
		}
	})
}

func TestConfigCommand(t *testing.T) {
	work := isolate(t)
	if err := os.WriteFile(filepath.Join(work, "duke.toml"), []byte("bot_name = \"Jarvis\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := captureStdout(t, func() error {
		return Run(context.Background(), []string{"--divider-width", "10", "config"})
	})
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	for _, needle := range []string{"Jarvis", "(project file)", "(flag)", "(default)", "duke.toml"} {
		if !strings.Contains(out, needle) {
			t.Errorf("config output missing %q:\n%s", needle, out)
		}
	}

	out, err = captureStdout(t, func() error {
		return Run(context.Background(), []string{"config", "--example"})
	})
	if err != nil {
		t.Fatalf("config --example error = %v", err)
	}
	if !strings.Contains(out, "data_file = ") {
		t.Errorf("example config output = %q", out)
	}
}

func TestDoctorCommand(t *testing.T) {
	work := isolate(t)

	t.Run("healthy", func(t *testing.T) {
		data := writeTasks(t, work, sampleTasks)
		out, err := captureStdout(t, func() error {
			return Run(context.Background(), []string{"--data", data, "--log-dir", filepath.Join(work, "logs"), "doctor", "-v"})
		})
		if err != nil {
			t.Fatalf("doctor error = %v\n%s", err, out)
		}
		if !strings.Contains(out, "All checks passed") || !strings.Contains(out, "OK (3 tasks)") {
			t.Errorf("doctor output:\n%s", out)
		}
	})

	t.Run("corrupt line", func(t *testing.T) {
		data := writeTasks(t, t.TempDir(), sampleTasks+"D | 0 | essay | someday\n")
		out, err := captureStdout(t, func() error {
			return Run(context.Background(), []string{"--data", data, "doctor"})
		})
		if err == nil {
			t.Fatal("expected doctor to fail")
		}
		if !strings.Contains(out, "line 4") {
			t.Errorf("doctor output should name the bad line:\n%s", out)
		}
	})

	t.Run("missing file is not created", func(t *testing.T) {
		data := filepath.Join(t.TempDir(), "none.txt")
		if _, err := captureStdout(t, func() error {
			return Run(context.Background(), []string{"--data", data, "doctor"})
		}); err != nil {
			t.Errorf("doctor error = %v", err)
		}
		if _, err := os.Stat(data); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("doctor should not create the task file, stat err = %v", err)
		}
	})
}
