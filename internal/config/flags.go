package config

import (
	"flag"
)

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"file":           "task_file",
	"backend":        "backend",
	"format":         "format",
	"strict":         "strict",
	"hook":           "hook_command",
	"log-dir":        "log_dir",
	"journal":        "journal",
	"color":          "color",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs, parses args and records which
// keys were set on the command line.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasker", flag.ContinueOnError)
	}

	// Storage flags
	fs.StringVar(&cfg.TaskFile, "file", cfg.TaskFile, "Path to task file")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Storage backend (file|sqlite)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Task file format (json|yaml, default from extension)")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "Validate the task file against the schema on load")

	// Hook and journal flags
	fs.StringVar(&cfg.HookCommand, "hook", cfg.HookCommand, "Hook command to run after each change")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Journal directory")
	fs.BoolVar(&cfg.Journal, "journal", cfg.Journal, "Record changes in the activity journal")

	// Output flags
	fs.StringVar(&cfg.Color, "color", cfg.Color, "Color output (auto|always|never)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller information in log output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			cfg.setSource(key, SourceFlag)
		}
	})
	return nil
}
