package config

import (
	"fmt"
	"os"
	"strings"
)

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("DUKE_DATA_FILE"); v != "" {
		cfg.DataFile = v
		set("data_file")
	}
	if v := os.Getenv("DUKE_LOG_DIR"); v != "" {
		cfg.LogDir = v
		set("log_dir")
	}
	if v := os.Getenv("DUKE_HISTORY"); v != "" {
		cfg.History = boolFromString(v)
		set("history")
	}
	if v := os.Getenv("DUKE_STRICT_LOAD"); v != "" {
		cfg.StrictLoad = boolFromString(v)
		set("strict_load")
	}
	if v := os.Getenv("DUKE_DIVIDER_WIDTH"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.DividerWidth = i
			set("divider_width")
		}
	}
	if v := os.Getenv("DUKE_BOT_NAME"); v != "" {
		cfg.BotName = v
		set("bot_name")
	}

	// Logging configuration
	if v := os.Getenv("DUKE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv("DUKE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv("DUKE_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v := os.Getenv("DUKE_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
