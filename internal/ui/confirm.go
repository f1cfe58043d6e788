package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Confirm asks a yes/no question and reports whether the user agreed. On a
// terminal it reads a single key press; otherwise it reads one line and
// accepts "y" or "yes". Anything else, including end of input, is a no.
func Confirm(ctx context.Context, in io.Reader, out io.Writer, prompt string) (bool, error) {
	if interactive(in, out) {
		return confirmTTY(ctx, in, out, prompt)
	}
	return confirmLine(in, out, prompt)
}

func confirmLine(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	if err != nil && line == "" {
		fmt.Fprintln(out)
	}
	return isYes(line), nil
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func confirmTTY(ctx context.Context, in io.Reader, out io.Writer, prompt string) (bool, error) {
	program := tea.NewProgram(newConfirmModel(prompt),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithContext(ctx),
	)
	final, err := program.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(*confirmModel)
	if !ok {
		return false, nil
	}
	return m.answer, nil
}

type confirmModel struct {
	prompt string
	answer bool
	done   bool
}

func newConfirmModel(prompt string) *confirmModel {
	return &confirmModel{prompt: prompt}
}

func (m *confirmModel) Init() tea.Cmd {
	return nil
}

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answer = true
		m.done = true
		return m, tea.Quit
	case "n", "N", "enter", "esc", "q", "ctrl+c":
		m.answer = false
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *confirmModel) View() string {
	if m.done {
		if m.answer {
			return fmt.Sprintf("%s [y/N]: y\n", m.prompt)
		}
		return fmt.Sprintf("%s [y/N]: n\n", m.prompt)
	}
	return fmt.Sprintf("%s [y/N]: ", m.prompt)
}
