package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultDataFile     = "./data/storage.txt"
	DefaultLogDir       = "~/.duke/logs"
	DefaultHistory      = true
	DefaultStrictLoad   = false
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
	DefaultDividerWidth = 30
	DefaultBotName      = "Duke"
)

// Config holds the full configuration for duke.
type Config struct {
	// Paths
	DataFile string `toml:"data_file"`
	LogDir   string `toml:"log_dir"`

	// History enables the per-session JSONL command log.
	History bool `toml:"history"`

	// StrictLoad aborts startup on a corrupt task line instead of skipping it.
	StrictLoad bool `toml:"strict_load"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Output
	DividerWidth int    `toml:"divider_width"`
	BotName      string `toml:"bot_name"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_file",
		"log_dir",
		"history",
		"strict_load",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"divider_width",
		"bot_name",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataFile = DefaultDataFile
	cfg.LogDir = DefaultLogDir
	cfg.History = DefaultHistory
	cfg.StrictLoad = DefaultStrictLoad
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.DividerWidth = DefaultDividerWidth
	cfg.BotName = DefaultBotName
}
