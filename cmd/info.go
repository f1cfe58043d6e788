package cmd

import (
	"flag"
	"fmt"

	"github.com/nibzard/tasker/internal/config"
	"github.com/nibzard/tasker/internal/logging"
)

// historyCommand prints recent journal entries for the task file.
func (a *app) historyCommand(args []string) error {
	fs := flag.NewFlagSet("tasker history", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	n := fs.Int("n", 20, "Number of entries to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *n < 0 {
		return fmt.Errorf("-n must not be negative")
	}

	journal, err := logging.OpenJournal(a.cfg.LogDir, a.cfg.TaskFile)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	events, err := journal.Tail(*n)
	if err != nil {
		return err
	}
	a.printer.History(events)
	return nil
}

// configCommand prints the effective configuration or an example file.
func (a *app) configCommand(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	if len(args) == 1 {
		if args[0] != "example" {
			return fmt.Errorf("unknown config subcommand: %s (expected example)", args[0])
		}
		fmt.Fprint(a.out, config.ExampleConfig())
		return nil
	}

	for _, key := range config.Keys() {
		fmt.Fprintf(a.out, "%-15s = %-40q # %s\n", key, a.cfg.Value(key), a.cfg.Source(key))
	}
	return nil
}
