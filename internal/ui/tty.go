// Package ui renders task output and drives the interactive prompts.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTTY returns true if w is a terminal.
func IsTTY(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// interactive reports whether both ends of a prompt are terminals.
func interactive(in io.Reader, out io.Writer) bool {
	return IsTTY(in) && IsTTY(out)
}
