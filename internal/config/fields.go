package config

import "strconv"

// Field is one effective configuration value and where it came from.
type Field struct {
	Key    string
	Value  string
	Source ConfigSource
}

// Fields returns every configurable value in a stable order.
func (c *ConfigWithSources) Fields() []Field {
	keys := configFields()
	fields := make([]Field, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, Field{
			Key:    key,
			Value:  c.Config.value(key),
			Source: c.Sources[key],
		})
	}
	return fields
}

func (c *Config) value(key string) string {
	switch key {
	case "data_file":
		return c.DataFile
	case "log_dir":
		return c.LogDir
	case "history":
		return strconv.FormatBool(c.History)
	case "strict_load":
		return strconv.FormatBool(c.StrictLoad)
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps)
	case "log_caller":
		return strconv.FormatBool(c.LogCaller)
	case "divider_width":
		return strconv.Itoa(c.DividerWidth)
	case "bot_name":
		return c.BotName
	default:
		return ""
	}
}
