package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/tasker/internal/task"
)

// encode renders the collection in format. JSON output uses 2-space
// indentation and a trailing newline.
func encode(c task.Collection, format Format) ([]byte, error) {
	records := toRecords(c)

	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return nil, fmt.Errorf("marshal tasks: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshal tasks: %w", err)
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal tasks: %w", err)
		}
		return append(data, '\n'), nil
	}
}

func decode(data []byte, format Format) (task.Collection, error) {
	var records []record

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse tasks: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse tasks: %w", err)
		}
	}

	return fromRecords(records)
}

// Decode parses a task document without touching the filesystem. Blank
// input is an empty collection.
func Decode(data []byte, format Format) (task.Collection, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return task.Collection{}, nil
	}
	c, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return c, nil
}
