package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasker/internal/task"
)

// FileOptions configures a FileStore.
type FileOptions struct {
	Format Format
	Strict bool
	Logger *log.Logger
}

// FileStore keeps the collection in a single JSON or YAML file.
type FileStore struct {
	path   string
	format Format
	strict bool
	logger *log.Logger
}

// NewFileStore creates a file store at path. Nothing is read or written
// until Load or Save is called.
func NewFileStore(path string, opts FileOptions) *FileStore {
	format := opts.Format
	if format == "" {
		format = FormatJSON
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &FileStore{
		path:   path,
		format: format,
		strict: opts.Strict,
		logger: logger,
	}
}

// Path returns the task file path.
func (s *FileStore) Path() string {
	return s.path
}

// Format returns the encoding used for the task file.
func (s *FileStore) Format() Format {
	return s.format
}

// Load reads the task file. A missing or empty file is initialized with an
// empty collection.
func (s *FileStore) Load(ctx context.Context) (task.Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		if err := s.Save(ctx, task.Collection{}); err != nil {
			return nil, fmt.Errorf("initialize task file: %w", err)
		}
		s.logger.Info("initialized task file", "path", s.path)
		return task.Collection{}, nil
	}

	if s.strict {
		result := Validate(data, s.format)
		if !result.Valid {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, errors.Join(result.Errors...))
		}
	}

	c, err := decode(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}
	s.logger.Debug("loaded tasks", "path", s.path, "count", len(c))
	return c, nil
}

// Save replaces the task file with c. The data is written to a temporary
// file in the same directory and renamed over the target.
func (s *FileStore) Save(ctx context.Context, c task.Collection) error {
	data, err := encode(c, s.format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create task file dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write task file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close task file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod task file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace task file: %w", err)
	}

	s.logger.Debug("saved tasks", "path", s.path, "count", len(c))
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *FileStore) Close() error {
	return nil
}
