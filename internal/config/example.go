package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasker configuration file
# Values can be overridden by TASKER_* environment variables or CLI flags

# Task file (relative to the working directory, supports ~ expansion)
task_file = "tasks.json"

# Storage backend: file or sqlite
# With sqlite and no task_file set, tasks are kept in tasks.db
backend = "file"

# Task file format: json or yaml (empty picks from the file extension)
# format = "yaml"

# Validate the task file against the JSON schema on every load
strict = false

# Command to run after each change; receives <op> <task-id> <status>
# hook_command = "/path/to/hook.sh"

# Activity journal directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.tasker"

# Record every change in the activity journal
journal = true

# Color output: auto, always or never
color = "auto"

# Logging
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
