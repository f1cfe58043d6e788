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

// Default values.
const (
	DefaultTaskFile   = "tasks.json"
	DefaultSQLiteFile = "tasks.db"
	DefaultBackend    = "file"
	DefaultLogDir     = "~/.tasker"
	DefaultColor      = "auto"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for tasker.
type Config struct {
	// Storage
	TaskFile string `toml:"task_file"`
	Backend  string `toml:"backend"` // file or sqlite
	Format   string `toml:"format"`  // json or yaml; empty detects from the extension
	Strict   bool   `toml:"strict"`  // schema-validate the task file on every load

	// Hooks
	HookCommand string `toml:"hook_command"`

	// Activity journal
	LogDir  string `toml:"log_dir"`
	Journal bool   `toml:"journal"`

	// Output
	Color string `toml:"color"` // auto, always or never

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`

	sources map[string]ConfigSource
}

// configKeys lists the keys that can be set from files, env and flags.
func configKeys() []string {
	return []string{
		"task_file",
		"backend",
		"format",
		"strict",
		"hook_command",
		"log_dir",
		"journal",
		"color",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Source returns the layer that last set key.
func (c *Config) Source(key string) ConfigSource {
	if c.sources == nil {
		return SourceDefault
	}
	if s, ok := c.sources[key]; ok {
		return s
	}
	return SourceDefault
}

func (c *Config) setSource(key string, source ConfigSource) {
	if c.sources == nil {
		c.sources = make(map[string]ConfigSource)
	}
	c.sources[key] = source
}

// Keys returns the configurable keys in display order.
func Keys() []string {
	return configKeys()
}

// Value returns the effective value of key formatted for display.
func (c *Config) Value(key string) string {
	switch key {
	case "task_file":
		return c.TaskFile
	case "backend":
		return c.Backend
	case "format":
		return c.Format
	case "strict":
		return boolString(c.Strict)
	case "hook_command":
		return c.HookCommand
	case "log_dir":
		return c.LogDir
	case "journal":
		return boolString(c.Journal)
	case "color":
		return c.Color
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return boolString(c.LogTimestamps)
	case "log_caller":
		return boolString(c.LogCaller)
	}
	return ""
}

// ColorEnabled reports whether output should be colored given whether the
// output is a terminal.
func (c *Config) ColorEnabled(isTTY bool) bool {
	switch c.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return isTTY
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
