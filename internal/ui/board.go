package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasker/internal/task"
)

// LoadFunc returns the current task collection.
type LoadFunc func(ctx context.Context) (task.Collection, error)

// BoardOption configures the board.
type BoardOption func(*boardConfig)

type boardConfig struct {
	interval time.Duration
	color    bool
	source   string
}

// WithRefreshInterval sets how often the board reloads tasks.
func WithRefreshInterval(d time.Duration) BoardOption {
	return func(c *boardConfig) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithColor enables colored statuses.
func WithColor(enabled bool) BoardOption {
	return func(c *boardConfig) {
		c.color = enabled
	}
}

// WithSource sets the storage location shown in the footer.
func WithSource(source string) BoardOption {
	return func(c *boardConfig) {
		c.source = source
	}
}

// RunBoard shows a live, read-only view of the tasks until the user quits.
func RunBoard(ctx context.Context, load LoadFunc, opts ...BoardOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("board requires a TTY")
	}
	c := boardConfig{interval: 2 * time.Second}
	for _, opt := range opts {
		opt(&c)
	}

	model := newBoardModel(ctx, load, c)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type boardModel struct {
	ctx      context.Context
	load     LoadFunc
	cfg      boardConfig
	tasks    task.Collection
	loadErr  error
	loaded   bool
	filter   task.Status
	showHelp bool
}

type tickMsg time.Time

func newBoardModel(ctx context.Context, load LoadFunc, cfg boardConfig) *boardModel {
	return &boardModel{ctx: ctx, load: load, cfg: cfg}
}

func (m *boardModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.cfg.interval)
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
		case "h", "?":
			m.showHelp = !m.showHelp
		case "1":
			m.filter = task.StatusTodo
		case "2":
			m.filter = task.StatusInProgress
		case "3":
			m.filter = task.StatusDone
		case "0":
			m.filter = ""
		}
		return m, nil
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.cfg.interval)
	}
	return m, nil
}

func (m *boardModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.cfg)
		return b.String()
	}

	if m.filter != "" {
		fmt.Fprintf(&b, "Filter: %s (0 to clear)\n\n", m.filter)
	}

	switch {
	case m.loadErr != nil:
		b.WriteString("Error loading tasks:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
	case !m.loaded:
		b.WriteString("Loading...\n\n")
	default:
		writeOverview(&b, m.tasks)
		p := NewPrinter(&b, m.cfg.color)
		p.Tasks(m.tasks.Filter(m.filter), false)
		b.WriteString("\n")
	}

	writeFooter(&b, m.cfg)
	return b.String()
}

func (m *boardModel) refresh() {
	tasks, err := m.load(m.ctx)
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.loaded = true
	m.tasks = tasks
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func writeTitle(w io.Writer) {
	title := "tasker board"
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintln(w)
}

func writeOverview(w io.Writer, tasks task.Collection) {
	counts := make(map[task.Status]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	fmt.Fprintf(w, "  Todo: %d  In progress: %d  Done: %d\n\n",
		counts[task.StatusTodo],
		counts[task.StatusInProgress],
		counts[task.StatusDone],
	)
}

func writeHelp(w io.Writer) {
	fmt.Fprint(w, "Keyboard Shortcuts\n\n")
	fmt.Fprintln(w, "  q, ctrl+c    Quit")
	fmt.Fprintln(w, "  r, F5        Refresh now")
	fmt.Fprintln(w, "  h, ?         Toggle this help screen")
	fmt.Fprintln(w, "  1            Filter by todo")
	fmt.Fprintln(w, "  2            Filter by in-progress")
	fmt.Fprintln(w, "  3            Filter by done")
	fmt.Fprint(w, "  0            Clear filter\n\n")
}

func writeFooter(w io.Writer, cfg boardConfig) {
	if cfg.source != "" {
		fmt.Fprintf(w, "%s\n", cfg.source)
	}
	fmt.Fprintf(w, "Press h for help | q to quit | Refreshing every %s\n", cfg.interval)
}
