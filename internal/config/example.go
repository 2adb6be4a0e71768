package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# Duke configuration file
# Values can be overridden by DUKE_* environment variables or CLI flags

# Task file (relative paths are resolved against the working directory)
data_file = "./data/storage.txt"

# Session history directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.duke/logs"

# Record a JSONL line per command in log_dir
history = true

# Abort on corrupt task lines instead of skipping them
strict_load = false

# Diagnostics on stderr: debug, info, warn, error
log_level = "warn"
# text, json or logfmt
log_format = "text"
log_timestamps = false
log_caller = false

# Replies are framed by a line of this many dashes
divider_width = 30

# Name used in the welcome message
bot_name = "Duke"
`
}
