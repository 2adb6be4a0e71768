package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nibzard/duke-go/internal/config"
	"github.com/nibzard/duke-go/internal/export"
	"github.com/nibzard/duke-go/internal/logging"
	"github.com/nibzard/duke-go/internal/storage"
	"github.com/nibzard/duke-go/internal/task"
)

// doctorCommand checks config, the task file and the export schema.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("duke doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := dataFileArg(cfg, fs.Args()); err != nil {
		return err
	}

	fmt.Println("Duke Doctor")
	fmt.Println("===========")
	fmt.Println()

	allOK := true

	// Check config
	fmt.Println("Config:")
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	// Check task file
	fmt.Printf("Task file: %s\n", cfg.DataFile)
	tasks, ok := checkTaskFile(cfg.DataFile, *verbose)
	if !ok {
		allOK = false
	}
	fmt.Println()

	// Check export schema against the loaded tasks
	fmt.Println("Export schema:")
	if err := checkExport(tasks); err != nil {
		fmt.Printf("  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Println("  ✅ Export of current tasks validates")
	}
	fmt.Println()

	// Check log directory
	fmt.Printf("Log directory: %s\n", cfg.LogDir)
	if !cfg.History {
		fmt.Println("  ⚠️  History disabled")
	} else if info, err := os.Stat(cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("  ⚠️  Not found (will be created on run)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Println("  ❌ Error: path is not a directory")
		allOK = false
	} else {
		sessions, err := logging.FindSessions(logging.SessionDir(cfg.LogDir, cfg.DataFile))
		if err != nil {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		} else {
			fmt.Printf("  ✅ OK (%d sessions for this task file)\n", len(sessions))
		}
	}
	fmt.Println()

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Duke may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkTaskFile reads the task file without creating it and reports every
// line that cannot be parsed.
func checkTaskFile(path string, verbose bool) ([]task.Task, bool) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("  ⚠️  Not found (will be created on run)")
			return nil, true
		}
		fmt.Printf("  ❌ Error: %v\n", err)
		return nil, false
	}
	if info.IsDir() {
		fmt.Println("  ❌ Error: path is a directory")
		return nil, false
	}

	loaded, err := storage.New(path).Load()
	if err != nil {
		fmt.Printf("  ❌ Load error: %v\n", err)
		return nil, false
	}

	ok := true
	if len(loaded.Skipped) == 0 {
		fmt.Printf("  ✅ OK (%d tasks)\n", len(loaded.Tasks))
	} else {
		fmt.Printf("  ❌ %d unreadable lines (%d tasks readable):\n", len(loaded.Skipped), len(loaded.Tasks))
		for _, ce := range loaded.Skipped {
			fmt.Printf("     - line %d: %s\n", ce.Line, ce.Reason)
		}
		ok = false
	}
	if verbose {
		for i, t := range loaded.Tasks {
			fmt.Printf("    %d: %s\n", i+1, t)
		}
	}
	return loaded.Tasks, ok
}

// checkExport validates an export of tasks and that it converts back to the
// same tasks.
func checkExport(tasks []task.Task) error {
	doc := export.NewDocument(tasks, "doctor", time.Now())
	if err := export.Validate(doc); err != nil {
		return err
	}
	back, err := doc.ToTasks()
	if err != nil {
		return err
	}
	if len(back) != len(tasks) {
		return errors.New("export lost tasks")
	}
	for i := range tasks {
		if !back[i].Equal(tasks[i]) {
			return fmt.Errorf("task %d changed in export: %s", i+1, back[i])
		}
	}
	return nil
}
