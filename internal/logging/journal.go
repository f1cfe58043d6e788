package logging

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Event is one journal entry describing a successful mutation.
type Event struct {
	Time        time.Time `json:"time"`
	Op          string    `json:"op"`
	TaskID      int       `json:"task_id,omitempty"`
	Status      string    `json:"status,omitempty"`
	Description string    `json:"description,omitempty"`
	File        string    `json:"file"`
}

// Journal appends events for one task file to a JSONL log.
type Journal struct {
	Path     string
	taskFile string
	now      func() time.Time
}

// OpenJournal returns the journal for taskFile under baseDir. The file is
// created lazily on the first Append.
func OpenJournal(baseDir, taskFile string) (*Journal, error) {
	path, err := JournalPath(baseDir, taskFile)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(taskFile)
	if err != nil {
		abs = taskFile
	}
	return &Journal{
		Path:     path,
		taskFile: abs,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// JournalPath returns <baseDir>/<file-slug>-<hash>.jsonl for taskFile.
func JournalPath(baseDir, taskFile string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("log base dir is empty")
	}
	if strings.TrimSpace(taskFile) == "" {
		return "", fmt.Errorf("task file is empty")
	}
	abs, err := filepath.Abs(taskFile)
	if err != nil {
		return "", fmt.Errorf("resolve task file: %w", err)
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolve log dir: %w", err)
	}
	return filepath.Join(base, fileSlug(abs)+".jsonl"), nil
}

// Append writes ev as a single JSON line. Time and File are filled in when
// unset.
func (j *Journal) Append(ev Event) error {
	if j == nil {
		return nil
	}
	if ev.Time.IsZero() {
		ev.Time = j.now()
	}
	if ev.File == "" {
		ev.File = j.taskFile
	}

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode journal event: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(j.Path), 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(j.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("write journal: %w", err)
	}
	return f.Close()
}

// Tail returns the last n events in the journal, oldest first. n <= 0
// returns every event. A missing journal yields no events. Lines that do not
// decode are skipped.
func (j *Journal) Tail(n int) ([]Event, error) {
	f, err := os.Open(j.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		events = append(events, ev)
		if n > 0 && len(events) > n {
			events = events[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return events, nil
}

func fileSlug(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return fmt.Sprintf("%s-%s", slugify(name), hashPath(path))
}

func slugify(input string) string {
	if strings.TrimSpace(input) == "" {
		return "tasks"
	}

	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "tasks"
	}
	return slug
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}
