package config

import (
	"flag"
)

// flagFields maps flag names to the config field they set.
var flagFields = map[string]string{
	"data":           "data_file",
	"log-dir":        "log_dir",
	"history":        "history",
	"strict":         "strict_load",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"divider-width":  "divider_width",
	"name":           "bot_name",
}

// parseFlags defines and parses CLI flags. If sources is non-nil, flags that
// were set explicitly are recorded there.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("duke", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.DataFile, "data", cfg.DataFile, "Path to the task file")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Session history directory")

	// Storage and history
	fs.BoolVar(&cfg.History, "history", cfg.History, "Record a JSONL history of each session")
	fs.BoolVar(&cfg.StrictLoad, "strict", cfg.StrictLoad, "Abort on corrupt task lines instead of skipping them")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	// Output
	fs.IntVar(&cfg.DividerWidth, "divider-width", cfg.DividerWidth, "Width of the divider line around replies")
	fs.StringVar(&cfg.BotName, "name", cfg.BotName, "Name used in the welcome message")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
