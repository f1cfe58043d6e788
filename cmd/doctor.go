package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/nibzard/tasker/internal/config"
	"github.com/nibzard/tasker/internal/logging"
	"github.com/nibzard/tasker/internal/store"
)

// doctorCommand checks configuration, storage and the task file.
func (a *app) doctorCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasker doctor", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := a.out
	cfg := a.cfg
	fmt.Fprintln(w, "tasker doctor")
	fmt.Fprintln(w, "=============")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintln(w, "Config:")
	files := config.ConfigFiles()
	if len(files) == 0 {
		fmt.Fprintln(w, "  ✅ No config files (using defaults)")
	}
	for _, f := range files {
		fmt.Fprintf(w, "  ✅ Loaded %s\n", f)
	}
	if *verbose {
		for _, key := range config.Keys() {
			fmt.Fprintf(w, "     %s = %q (%s)\n", key, cfg.Value(key), cfg.Source(key))
		}
	}
	fmt.Fprintln(w)

	// Storage
	fmt.Fprintf(w, "Task storage: %s (%s)\n", cfg.TaskFile, cfg.Backend)
	switch cfg.Backend {
	case store.BackendSQLite:
		allOK = checkSQLite(ctx, w, cfg.TaskFile, *verbose) && allOK
	default:
		allOK = checkTaskFile(w, cfg.TaskFile, cfg.Format, *verbose) && allOK
	}
	fmt.Fprintln(w)

	// Journal
	if cfg.Journal {
		fmt.Fprintf(w, "Journal directory: %s\n", cfg.LogDir)
		if info, err := os.Stat(cfg.LogDir); err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintln(w, "  ⚠️  Not found (will be created on first change)")
			} else {
				fmt.Fprintf(w, "  ❌ Error: %v\n", err)
				allOK = false
			}
		} else if !info.IsDir() {
			fmt.Fprintln(w, "  ❌ Error: path is not a directory")
			allOK = false
		} else {
			fmt.Fprintln(w, "  ✅ OK")
			if *verbose {
				if path, err := logging.JournalPath(cfg.LogDir, cfg.TaskFile); err == nil {
					fmt.Fprintf(w, "     journal: %s\n", path)
				}
			}
		}
	} else {
		fmt.Fprintln(w, "Journal: disabled")
	}
	fmt.Fprintln(w)

	// Hook
	if cfg.HookCommand != "" {
		fmt.Fprintf(w, "Hook command: %s\n", cfg.HookCommand)
		if path, err := exec.LookPath(cfg.HookCommand); err != nil {
			fmt.Fprintf(w, "  ❌ Not executable: %v\n", err)
			allOK = false
		} else {
			fmt.Fprintf(w, "  ✅ %s\n", path)
		}
		fmt.Fprintln(w)
	}

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. tasker may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

func checkTaskFile(w io.Writer, path, explicitFormat string, verbose bool) bool {
	format, err := store.DetectFormat(path, explicitFormat)
	if err != nil {
		fmt.Fprintf(w, "  ❌ %v\n", err)
		return false
	}
	fmt.Fprintf(w, "  Format: %s\n", format)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first use)")
			return true
		}
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	if info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	result := store.Validate(data, format)
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	if !result.Valid {
		fmt.Fprintln(w, "  ❌ Schema validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintln(w, "  ✅ Valid")

	if verbose {
		tasks, err := store.Decode(data, format)
		if err != nil {
			fmt.Fprintf(w, "  ❌ Load failed: %v\n", err)
			return false
		}
		fmt.Fprintf(w, "  Tasks: %d\n", len(tasks))
	}
	return true
}

func checkSQLite(ctx context.Context, w io.Writer, path string, verbose bool) bool {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first use)")
			return true
		}
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}

	s, err := store.OpenSQLite(ctx, path, nil)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Open failed: %v\n", err)
		return false
	}
	defer s.Close()

	tasks, err := s.Load(ctx)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Load failed: %v\n", err)
		return false
	}
	fmt.Fprintln(w, "  ✅ OK")
	if verbose {
		fmt.Fprintf(w, "  Tasks: %d\n", len(tasks))
		fmt.Fprintf(w, "  Directory: %s\n", filepath.Dir(path))
	}
	return true
}
