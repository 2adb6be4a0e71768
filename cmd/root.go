// Package cmd implements the CLI command structure for duke.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/duke-go/internal/command"
	"github.com/nibzard/duke-go/internal/config"
	"github.com/nibzard/duke-go/internal/logging"
	"github.com/nibzard/duke-go/internal/loop"
	"github.com/nibzard/duke-go/internal/storage"
	"github.com/nibzard/duke-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the duke CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("duke", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	logger := logging.NewConsoleLoggerFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	logger.Debug("config loaded", "data_file", cfg.DataFile, "files", cws.Files)

	// If no args or first arg is a flag, use "run" as default
	subcommand := "run"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		if !strings.HasPrefix(remainingArgs[0], "-") {
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	switch subcommand {
	case "run":
		return runCommand(ctx, cfg, logger, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, logger, remainingArgs)
	case "list", "ls":
		return listCommand(cfg, logger, remainingArgs)
	case "export":
		return exportCommand(cfg, logger, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "history":
		return historyCommand(cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		// An existing file is taken as the task file for run
		if fi, err := os.Stat(subcommand); err == nil && !fi.IsDir() {
			setDataFile(cfg, subcommand)
			return runCommand(ctx, cfg, logger, remainingArgs)
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// runCommand starts an interactive session on stdin and stdout.
func runCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("duke run", flag.ContinueOnError)
	noHistory := fs.Bool("no-history", false, "Do not record session history")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := dataFileArg(cfg, fs.Args()); err != nil {
		return err
	}

	var opts []loop.Option
	var history *logging.History
	if cfg.History && !*noHistory {
		h, err := logging.NewHistory(cfg.LogDir, cfg.DataFile)
		if err != nil {
			logger.Warn("session history disabled", "err", err)
		} else {
			history = h
			opts = append(opts, loop.WithHistory(h))
			logger.Debug("recording session history", "session", h.SessionID, "path", h.Path)
		}
	}

	l, err := loop.New(cfg, logger, opts...)
	if err != nil {
		_ = history.Close()
		return fmt.Errorf("initializing session: %w", err)
	}
	return l.Run(ctx)
}

// tuiCommand launches the task browser.
func tuiCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("duke tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := dataFileArg(cfg, fs.Args()); err != nil {
		return err
	}
	return ui.RunTUI(ctx, cfg, logger)
}

// listCommand prints the task list once, the same way the list command does
// in a session.
func listCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("duke list", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := dataFileArg(cfg, fs.Args()); err != nil {
		return err
	}

	engine, _, err := openEngine(cfg, logger)
	if err != nil {
		return err
	}
	fmt.Println(engine.List())
	return nil
}

// configCommand prints the effective configuration, or an example file.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("duke config", flag.ContinueOnError)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Print(config.ExampleConfig())
		return nil
	}

	printConfig(os.Stdout, cws)
	return nil
}

func printConfig(w io.Writer, cws *config.ConfigWithSources) {
	fmt.Fprintln(w, "Effective configuration:")
	for _, f := range cws.Fields() {
		fmt.Fprintf(w, "  %-15s = %-30s (%s)\n", f.Key, f.Value, f.Source)
	}
	if len(cws.Files) == 0 {
		fmt.Fprintln(w, "\nNo config files found.")
		return
	}
	fmt.Fprintln(w, "\nConfig files:")
	for _, path := range cws.Files {
		fmt.Fprintf(w, "  %s\n", path)
	}
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("duke version %s\n", Version)
	return nil
}

// openEngine loads the task file into a fresh engine for read-only
// commands. A missing file reads as an empty list and is not created.
func openEngine(cfg *config.Config, logger *log.Logger) (*command.Engine, *storage.LoadResult, error) {
	store := storage.New(cfg.DataFile,
		storage.WithStrict(cfg.StrictLoad),
		storage.WithCreate(false),
		storage.WithLogger(logger),
	)
	loaded, err := store.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading tasks: %w", err)
	}
	return command.NewEngine(loaded.Tasks), loaded, nil
}

// dataFileArg applies an optional positional task file argument.
func dataFileArg(cfg *config.Config, remaining []string) error {
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		setDataFile(cfg, remaining[0])
	}
	return nil
}

func setDataFile(cfg *config.Config, path string) {
	if !filepath.IsAbs(path) && cfg.WorkDir != "" {
		path = filepath.Join(cfg.WorkDir, path)
	}
	cfg.DataFile = path
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Duke - a command-line task tracker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  duke [options] [command] [command options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run [file]       Start an interactive session (default command)")
	fmt.Fprintln(w, "  tui [file]       Browse tasks in a terminal UI")
	fmt.Fprintln(w, "  list [file]      Print the task list")
	fmt.Fprintln(w, "  export           Export tasks as JSON or YAML")
	fmt.Fprintln(w, "  doctor           Check config, task file and export schema")
	fmt.Fprintln(w, "  history [id]     Show recorded session history")
	fmt.Fprintln(w, "  config           Show effective configuration")
	fmt.Fprintln(w, "  version          Show version information")
	fmt.Fprintln(w, "  help             Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Session commands:")
	fmt.Fprintln(w, "  todo <description>")
	fmt.Fprintln(w, "  event <description> /at YYYY-MM-DD HH:MM:SS")
	fmt.Fprintln(w, "  deadline <description> /by YYYY-MM-DD HH:MM:SS")
	fmt.Fprintln(w, "  list | done <n> | delete <n> | find <description> | bye")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run Options:")
	fmt.Fprintln(w, "  -no-history")
	fmt.Fprintln(w, "        Do not record session history")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options:")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        json or yaml (default \"json\")")
	fmt.Fprintln(w, "  -out string")
	fmt.Fprintln(w, "        Write to a file instead of stdout")
	fmt.Fprintln(w, "  -validate")
	fmt.Fprintln(w, "        Check the export against the schema before writing")
	fmt.Fprintln(w, "  -schema")
	fmt.Fprintln(w, "        Print the export JSON Schema and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "History Options:")
	fmt.Fprintln(w, "  -sessions")
	fmt.Fprintln(w, "        List sessions instead of showing the latest one")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of entries to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
}
