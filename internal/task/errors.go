package task

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidStatus is returned for a status outside todo, in-progress, done.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrEmptyDescription is returned when a description is blank.
	ErrEmptyDescription = errors.New("description is empty")
	// ErrNotConfirmed is returned by Clear when the caller did not confirm.
	ErrNotConfirmed = errors.New("clear not confirmed")
)

// PersistenceError wraps a store failure during load or save.
type PersistenceError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s tasks: %v", e.Op, e.Err)
}

// Unwrap returns the underlying store error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func notFound(id int) error {
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}
