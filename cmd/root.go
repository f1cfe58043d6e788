// Package cmd implements the CLI command structure for tasker.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasker/internal/config"
	"github.com/nibzard/tasker/internal/hooks"
	"github.com/nibzard/tasker/internal/logging"
	"github.com/nibzard/tasker/internal/store"
	"github.com/nibzard/tasker/internal/task"
	"github.com/nibzard/tasker/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries the loaded configuration and I/O streams for one invocation.
type app struct {
	cfg     *config.Config
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	log     *log.Logger
	printer *ui.Printer
}

// Run executes the tasker CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasker", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, stderr)
		return fmt.Errorf("no command given")
	}
	subcommand, remaining := remaining[0], remaining[1:]

	a := &app{
		cfg:    cfg,
		in:     stdin,
		out:    stdout,
		errOut: stderr,
		log:    logging.NewConsoleFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller),
	}
	a.printer = ui.NewPrinter(stdout, cfg.ColorEnabled(ui.IsTTY(stdout)))
	a.log.Debug("config loaded", "task_file", cfg.TaskFile, "backend", cfg.Backend)

	// Execute the subcommand
	switch subcommand {
	case "add":
		return a.addCommand(ctx, remaining)
	case "list", "ls":
		return a.listCommand(ctx, remaining)
	case "update":
		return a.updateCommand(ctx, remaining)
	case "mark-in-progress":
		return a.markCommand(ctx, task.StatusInProgress, remaining)
	case "mark-done":
		return a.markCommand(ctx, task.StatusDone, remaining)
	case "mark-todo":
		return a.markCommand(ctx, task.StatusTodo, remaining)
	case "mark":
		return a.markAnyCommand(ctx, remaining)
	case "delete", "rm":
		return a.deleteCommand(ctx, remaining)
	case "clear":
		return a.clearCommand(ctx, remaining)
	case "board":
		return a.boardCommand(ctx, remaining)
	case "doctor":
		return a.doctorCommand(ctx, remaining)
	case "history":
		return a.historyCommand(remaining)
	case "config":
		return a.configCommand(remaining)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// withService opens the configured store for the duration of fn.
func (a *app) withService(ctx context.Context, fn func(svc *task.Service) error) error {
	backend, err := store.Open(ctx, store.Options{
		Backend: a.cfg.Backend,
		Path:    a.cfg.TaskFile,
		Format:  a.cfg.Format,
		Strict:  a.cfg.Strict,
		Logger:  a.log,
	})
	if err != nil {
		return fmt.Errorf("opening task store: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			a.log.Warn("closing task store", "err", err)
		}
	}()
	return fn(task.NewService(backend, task.WithLogger(a.log)))
}

// record appends a journal entry and runs the hook for a saved change.
// Failures are reported as warnings; the change itself stands.
func (a *app) record(ctx context.Context, ev logging.Event) {
	if a.cfg.Journal {
		journal, err := logging.OpenJournal(a.cfg.LogDir, a.cfg.TaskFile)
		if err == nil {
			err = journal.Append(ev)
		}
		if err != nil {
			a.log.Warn("journal write failed", "err", err)
		}
	}

	result, err := hooks.Invoke(ctx, hooks.Options{
		Command: a.cfg.HookCommand,
		Op:      ev.Op,
		TaskID:  ev.TaskID,
		Status:  ev.Status,
		File:    a.cfg.TaskFile,
		WorkDir: a.cfg.ProjectRoot,
		Stdout:  a.out,
		Stderr:  a.errOut,
	})
	if err != nil {
		a.log.Warn("hook failed", "command", a.cfg.HookCommand, "exit_code", result.ExitCode, "err", err)
	}
}

// parseID parses a task id argument. Ids are positive integers.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q: must be a positive integer", arg)
	}
	return id, nil
}

// parseArgs parses flags that may appear before or after positional
// arguments and returns the positional arguments in order.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasker version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasker - track personal tasks from the command line")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasker [options] <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <description>         Add a new task")
	fmt.Fprintln(w, "  list [status] [-v]        List tasks, optionally by status (todo|in-progress|done)")
	fmt.Fprintln(w, "  update <id> <description> Replace a task's description")
	fmt.Fprintln(w, "  mark-in-progress <id>     Mark a task as in progress")
	fmt.Fprintln(w, "  mark-done <id>            Mark a task as done")
	fmt.Fprintln(w, "  mark-todo <id>            Mark a task as todo")
	fmt.Fprintln(w, "  mark <id> <status>        Set a task's status")
	fmt.Fprintln(w, "  delete <id>               Delete a task")
	fmt.Fprintln(w, "  clear [-y]                Delete all tasks after confirmation")
	fmt.Fprintln(w, "  board                     Live view of all tasks (requires a terminal)")
	fmt.Fprintln(w, "  doctor [-v]               Check config, storage and task file validity")
	fmt.Fprintln(w, "  history [-n N]            Show recent changes from the activity journal")
	fmt.Fprintln(w, "  config [example]          Show effective configuration or an example file")
	fmt.Fprintln(w, "  version                   Show version information")
	fmt.Fprintln(w, "  help                      Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment Variables:")
	fmt.Fprintln(w, "  TASKER_FILE          Task file path")
	fmt.Fprintln(w, "  TASKER_BACKEND       Storage backend (file|sqlite)")
	fmt.Fprintln(w, "  TASKER_FORMAT        Task file format (json|yaml)")
	fmt.Fprintln(w, "  TASKER_STRICT        Validate the task file on load (true|false)")
	fmt.Fprintln(w, "  TASKER_HOOK          Hook command run after each change")
	fmt.Fprintln(w, "  TASKER_LOG_DIR       Journal directory")
	fmt.Fprintln(w, "  TASKER_JOURNAL       Record changes in the journal (true|false)")
	fmt.Fprintln(w, "  TASKER_COLOR         Color output (auto|always|never)")
	fmt.Fprintln(w, "  TASKER_LOG_LEVEL     Log level (debug|info|warn|error)")
	fmt.Fprintln(w, "  TASKER_LOG_FORMAT    Log format (text|json|logfmt)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config files: ~/.tasker/tasker.toml, then ./tasker.toml or ./.tasker.toml")
}
