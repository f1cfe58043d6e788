package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/nibzard/tasker/internal/logging"
	"github.com/nibzard/tasker/internal/task"
)

const timeLayout = "2006-01-02 15:04:05"

// Printer writes command output, coloring statuses when enabled.
type Printer struct {
	w      io.Writer
	status map[task.Status]lipgloss.Style
	dim    lipgloss.Style
	bold   lipgloss.Style
}

// NewPrinter returns a Printer for w. With color false, output is plain text.
func NewPrinter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		w: w,
		status: map[task.Status]lipgloss.Style{
			task.StatusTodo:       r.NewStyle().Foreground(lipgloss.Color("3")),
			task.StatusInProgress: r.NewStyle().Foreground(lipgloss.Color("4")),
			task.StatusDone:       r.NewStyle().Foreground(lipgloss.Color("2")),
		},
		dim:  r.NewStyle().Faint(true),
		bold: r.NewStyle().Bold(true),
	}
}

// Tasks prints one line per task. Verbose adds timestamps.
func (p *Printer) Tasks(tasks task.Collection, verbose bool) {
	if len(tasks) == 0 {
		fmt.Fprintln(p.w, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(p.w, p.taskLine(t))
		if verbose {
			fmt.Fprintln(p.w, p.dim.Render(fmt.Sprintf("      created %s  updated %s",
				formatTime(&t.CreatedAt), formatTime(t.UpdatedAt))))
		}
	}
}

func (p *Printer) taskLine(t task.Task) string {
	return fmt.Sprintf("%4d  %s  %s", t.ID, p.Status(t.Status), t.Description)
}

// Status returns the padded, styled status label.
func (p *Printer) Status(s task.Status) string {
	return p.style(s, fmt.Sprintf("%-11s", s))
}

func (p *Printer) style(s task.Status, label string) string {
	if style, ok := p.status[s]; ok {
		return style.Render(label)
	}
	return label
}

// Added reports a new task.
func (p *Printer) Added(id int) {
	fmt.Fprintf(p.w, "Task added successfully (ID: %d)\n", id)
}

// Updated reports a description change.
func (p *Printer) Updated(id int) {
	fmt.Fprintf(p.w, "Task %d updated\n", id)
}

// Marked reports a status change.
func (p *Printer) Marked(id int, s task.Status) {
	fmt.Fprintf(p.w, "Task %d marked as %s\n", id, p.style(s, string(s)))
}

// Deleted reports a removed task.
func (p *Printer) Deleted(id int) {
	fmt.Fprintf(p.w, "Task %d deleted\n", id)
}

// Cleared reports that every task was removed.
func (p *Printer) Cleared() {
	fmt.Fprintln(p.w, "All tasks cleared")
}

// Aborted reports a declined confirmation.
func (p *Printer) Aborted() {
	fmt.Fprintln(p.w, "Aborted, no tasks were removed")
}

// History prints journal events, oldest first.
func (p *Printer) History(events []logging.Event) {
	if len(events) == 0 {
		fmt.Fprintln(p.w, "No history recorded.")
		return
	}
	for _, ev := range events {
		line := fmt.Sprintf("%s  %-16s", ev.Time.UTC().Format(timeLayout), ev.Op)
		if ev.TaskID > 0 {
			line += fmt.Sprintf("  #%d", ev.TaskID)
		}
		if ev.Status != "" {
			line += "  " + p.style(task.Status(ev.Status), ev.Status)
		}
		if ev.Description != "" {
			line += "  " + ev.Description
		}
		fmt.Fprintln(p.w, line)
	}
}

// Heading prints a bold section title.
func (p *Printer) Heading(title string) {
	fmt.Fprintln(p.w, p.bold.Render(title))
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.UTC().Format(timeLayout)
}
