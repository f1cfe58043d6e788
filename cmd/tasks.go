package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/tasker/internal/logging"
	"github.com/nibzard/tasker/internal/task"
	"github.com/nibzard/tasker/internal/ui"
)

// addCommand adds a task. All arguments form the description.
func (a *app) addCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tasker add <description>")
	}
	description := strings.Join(args, " ")

	return a.withService(ctx, func(svc *task.Service) error {
		id, err := svc.Add(ctx, description)
		if err != nil {
			return err
		}
		a.printer.Added(id)
		a.record(ctx, logging.Event{
			Op:          "add",
			TaskID:      id,
			Status:      string(task.StatusTodo),
			Description: description,
		})
		return nil
	})
}

// listCommand lists tasks, optionally filtered by status.
func (a *app) listCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasker list", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	verbose := fs.Bool("v", false, "Show timestamps")

	remaining, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}

	var status task.Status
	if len(remaining) == 1 {
		status, err = task.ParseStatus(remaining[0])
		if err != nil {
			return err
		}
	}

	return a.withService(ctx, func(svc *task.Service) error {
		tasks, err := svc.List(ctx, status)
		if err != nil {
			return err
		}
		a.printer.Tasks(tasks, *verbose)
		return nil
	})
}

// updateCommand replaces a task's description.
func (a *app) updateCommand(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: tasker update <id> <description>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	description := strings.Join(args[1:], " ")

	return a.withService(ctx, func(svc *task.Service) error {
		if err := svc.Update(ctx, id, description); err != nil {
			return err
		}
		a.printer.Updated(id)

		ev := logging.Event{Op: "update", TaskID: id, Description: description}
		if t, err := svc.Get(ctx, id); err == nil {
			ev.Status = string(t.Status)
		}
		a.record(ctx, ev)
		return nil
	})
}

// markCommand sets a fixed status on one task.
func (a *app) markCommand(ctx context.Context, status task.Status, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tasker mark-%s <id>", status)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return a.mark(ctx, id, status)
}

// markAnyCommand sets a status given on the command line.
func (a *app) markAnyCommand(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: tasker mark <id> <status>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	status, err := task.ParseStatus(args[1])
	if err != nil {
		return err
	}
	return a.mark(ctx, id, status)
}

func (a *app) mark(ctx context.Context, id int, status task.Status) error {
	return a.withService(ctx, func(svc *task.Service) error {
		if err := svc.Mark(ctx, id, status); err != nil {
			return err
		}
		a.printer.Marked(id, status)
		a.record(ctx, logging.Event{Op: "mark", TaskID: id, Status: string(status)})
		return nil
	})
}

// deleteCommand removes one task.
func (a *app) deleteCommand(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tasker delete <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return a.withService(ctx, func(svc *task.Service) error {
		t, err := svc.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := svc.Delete(ctx, id); err != nil {
			return err
		}
		a.printer.Deleted(id)
		a.record(ctx, logging.Event{
			Op:          "delete",
			TaskID:      id,
			Status:      string(t.Status),
			Description: t.Description,
		})
		return nil
	})
}

// clearCommand removes every task after confirmation.
func (a *app) clearCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasker clear", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	yes := fs.Bool("y", false, "Skip the confirmation prompt")
	fs.BoolVar(yes, "yes", false, "Skip the confirmation prompt")

	remaining, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(remaining) > 0 {
		return fmt.Errorf("unexpected arguments: %v", remaining)
	}

	confirmed := *yes
	if !confirmed {
		confirmed, err = ui.Confirm(ctx, a.in, a.out, "Delete all tasks?")
		if err != nil {
			return err
		}
	}

	return a.withService(ctx, func(svc *task.Service) error {
		err := svc.Clear(ctx, confirmed)
		if errors.Is(err, task.ErrNotConfirmed) {
			a.printer.Aborted()
			return nil
		}
		if err != nil {
			return err
		}
		a.printer.Cleared()
		a.record(ctx, logging.Event{Op: "clear"})
		return nil
	})
}

// boardCommand shows the live task board.
func (a *app) boardCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasker board", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	interval := fs.Duration("interval", 0, "Refresh interval (default 2s)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return a.withService(ctx, func(svc *task.Service) error {
		load := func(ctx context.Context) (task.Collection, error) {
			return svc.List(ctx, "")
		}
		return ui.RunBoard(ctx, load,
			ui.WithRefreshInterval(*interval),
			ui.WithColor(a.cfg.ColorEnabled(true)),
			ui.WithSource(a.cfg.TaskFile),
		)
	})
}
