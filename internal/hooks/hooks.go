// Package hooks invokes the external command configured to run after each
// task change.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
)

// Options configures a hook invocation.
type Options struct {
	Command string
	Op      string
	TaskID  int
	Status  string
	File    string
	WorkDir string

	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
}

// Invoke runs the hook command as `<command> <op> <task-id> <status>` with
// TASKER_OP, TASKER_TASK_ID, TASKER_STATUS and TASKER_FILE set. An empty
// command is a no-op. Operations without a task pass an empty id.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	if opts.Command == "" {
		return Result{}, nil
	}
	if opts.Op == "" {
		return Result{}, fmt.Errorf("hook operation is empty")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	id := ""
	if opts.TaskID > 0 {
		id = strconv.Itoa(opts.TaskID)
	}
	args := []string{opts.Op, id, opts.Status}

	cmd := exec.CommandContext(ctx, opts.Command, args...)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Env = append(os.Environ(),
		"TASKER_OP="+opts.Op,
		"TASKER_TASK_ID="+id,
		"TASKER_STATUS="+opts.Status,
		"TASKER_FILE="+opts.File,
	)
	cmd.Stdout = opts.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = opts.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
