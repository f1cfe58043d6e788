package config

import (
	"os"
	"strings"
)

// envKeys maps environment variables to config keys.
var envKeys = []struct {
	name string
	key  string
}{
	{"TASKER_FILE", "task_file"},
	{"TASKER_BACKEND", "backend"},
	{"TASKER_FORMAT", "format"},
	{"TASKER_STRICT", "strict"},
	{"TASKER_HOOK", "hook_command"},
	{"TASKER_LOG_DIR", "log_dir"},
	{"TASKER_JOURNAL", "journal"},
	{"TASKER_COLOR", "color"},
	{"TASKER_LOG_LEVEL", "log_level"},
	{"TASKER_LOG_FORMAT", "log_format"},
	{"TASKER_LOG_TIMESTAMPS", "log_timestamps"},
	{"TASKER_LOG_CALLER", "log_caller"},
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	for _, e := range envKeys {
		v, ok := os.LookupEnv(e.name)
		if !ok || v == "" {
			continue
		}
		cfg.set(e.key, v)
		cfg.setSource(e.key, SourceEnv)
	}
}

// set assigns a string value to key, parsing booleans as needed.
func (c *Config) set(key, v string) {
	switch key {
	case "task_file":
		c.TaskFile = v
	case "backend":
		c.Backend = v
	case "format":
		c.Format = v
	case "strict":
		c.Strict = boolFromString(v)
	case "hook_command":
		c.HookCommand = v
	case "log_dir":
		c.LogDir = v
	case "journal":
		c.Journal = boolFromString(v)
	case "color":
		c.Color = v
	case "log_level":
		c.LogLevel = v
	case "log_format":
		c.LogFormat = v
	case "log_timestamps":
		c.LogTimestamps = boolFromString(v)
	case "log_caller":
		c.LogCaller = boolFromString(v)
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
