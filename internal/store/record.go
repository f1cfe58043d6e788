package store

import (
	"fmt"
	"time"

	"github.com/nibzard/tasker/internal/task"
)

// record is the persisted shape of a task, shared by every backend.
type record struct {
	ID          int    `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Status      string `json:"status" yaml:"status"`
	CreatedAt   string `json:"created_at" yaml:"created_at"`
	UpdatedAt   string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// timestampLayouts are tried in order when reading timestamps. The zone-less
// layouts cover task files that store local times without an offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func toRecords(c task.Collection) []record {
	records := make([]record, 0, len(c))
	for _, t := range c {
		r := record{
			ID:          t.ID,
			Description: t.Description,
			Status:      string(t.Status),
			CreatedAt:   formatTimestamp(t.CreatedAt),
		}
		if t.UpdatedAt != nil {
			r.UpdatedAt = formatTimestamp(*t.UpdatedAt)
		}
		records = append(records, r)
	}
	return records
}

// fromRecords converts and checks decoded records. Ids must be positive and
// unique, statuses known, and created_at present.
func fromRecords(records []record) (task.Collection, error) {
	c := make(task.Collection, 0, len(records))
	seen := make(map[int]bool, len(records))
	for i, r := range records {
		path := fmt.Sprintf("[%d]", i)
		if r.ID < 1 {
			return nil, fmt.Errorf("%s.id: must be a positive integer, got %d", path, r.ID)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("%s.id: duplicate id %d", path, r.ID)
		}
		seen[r.ID] = true

		status := task.Status(r.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%s.status: invalid status %q", path, r.Status)
		}
		if r.CreatedAt == "" {
			return nil, fmt.Errorf("%s.created_at: missing required field", path)
		}
		created, err := parseTimestamp(r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s.created_at: %w", path, err)
		}

		t := task.Task{
			ID:          r.ID,
			Description: r.Description,
			Status:      status,
			CreatedAt:   created,
		}
		if r.UpdatedAt != "" {
			updated, err := parseTimestamp(r.UpdatedAt)
			if err != nil {
				return nil, fmt.Errorf("%s.updated_at: %w", path, err)
			}
			t.UpdatedAt = &updated
		}
		c = append(c, t)
	}
	return c, nil
}
