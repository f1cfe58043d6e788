package task

import (
	"fmt"
	"strings"
	"time"
)

// Status represents a task status.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses returns the allowed statuses in display order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// Valid reports whether s is one of the allowed statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseStatus converts user input into a Status.
// Matching is case-insensitive and accepts "in_progress" and "inprogress"
// as aliases for "in-progress".
func ParseStatus(input string) (Status, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "in_progress", "inprogress":
		s = string(StatusInProgress)
	}
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q, must be one of: todo, in-progress, done", ErrInvalidStatus, input)
	}
	return status, nil
}

// Task represents a single task in the collection.
type Task struct {
	ID          int
	Description string
	Status      Status
	CreatedAt   time.Time
	// UpdatedAt is nil for records written before updated_at existed.
	UpdatedAt *time.Time
}

// Collection is the ordered list of tasks, persisted as one unit.
type Collection []Task

// Index returns the position of the task with id, or -1.
func (c Collection) Index(id int) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns a task by ID, or nil if not found.
func (c Collection) Get(id int) *Task {
	if i := c.Index(id); i >= 0 {
		return &c[i]
	}
	return nil
}

// NextID returns 1 + the highest id in the collection.
func (c Collection) NextID() int {
	max := 0
	for _, t := range c {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// Filter returns the tasks whose status equals status, in stored order.
// An empty status returns a copy of the whole collection.
func (c Collection) Filter(status Status) Collection {
	out := make(Collection, 0, len(c))
	for _, t := range c {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Without returns a new collection with the task id removed.
// The relative order of the remaining tasks is preserved.
func (c Collection) Without(id int) Collection {
	out := make(Collection, 0, len(c))
	for _, t := range c {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
