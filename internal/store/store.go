// Package store persists the task collection as a single unit.
//
// Two backends are available:
//
//   - file: a JSON (default) or YAML document holding the whole collection,
//     rewritten atomically via a temporary file and rename
//   - sqlite: a local SQLite database accessed through GORM, rewritten in one
//     transaction
//
// Both satisfy task.Store. Neither takes locks; concurrent writers race and
// the last Save wins.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasker/internal/task"
)

// ErrMalformed is returned when persisted data is not a valid task collection.
var ErrMalformed = errors.New("malformed task data")

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Format is the encoding of a file backend.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Backend is a task.Store that holds resources until closed.
type Backend interface {
	task.Store
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string // "file" (default) or "sqlite"
	Path    string
	// Format forces the file encoding; empty means detect from Path.
	Format string
	// Strict validates file contents against the task file schema on load.
	Strict bool
	Logger *log.Logger
}

// Open returns the backend described by opts.
func Open(ctx context.Context, opts Options) (Backend, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, fmt.Errorf("task file path is empty")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		format, err := DetectFormat(opts.Path, opts.Format)
		if err != nil {
			return nil, err
		}
		return NewFileStore(opts.Path, FileOptions{
			Format: format,
			Strict: opts.Strict,
			Logger: logger,
		}), nil
	case BackendSQLite:
		return OpenSQLite(ctx, opts.Path, logger)
	default:
		return nil, fmt.Errorf("unknown backend %q (expected file|sqlite)", opts.Backend)
	}
}

// DetectFormat returns the explicit format if set, otherwise the format
// implied by the file extension.
func DetectFormat(path, explicit string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(explicit)) {
	case "":
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json|yaml)", explicit)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return FormatJSON, nil
	}
}
