package task

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Store persists the whole collection as one unit.
type Store interface {
	// Load returns the persisted collection, or an empty one on first run.
	Load(ctx context.Context) (Collection, error)
	// Save replaces the persisted collection with c.
	Save(ctx context.Context, c Collection) error
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger used for debug output of each mutation.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service implements the task lifecycle operations.
type Service struct {
	store  Store
	now    func() time.Time
	logger *log.Logger
}

// NewService creates a service backed by store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a new todo task and returns its id.
func (s *Service) Add(ctx context.Context, description string) (int, error) {
	if err := checkDescription(description); err != nil {
		return 0, err
	}
	c, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	t := Task{
		ID:          c.NextID(),
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   &now,
	}
	c = append(c, t)

	if err := s.save(ctx, c); err != nil {
		return 0, err
	}
	s.logger.Debug("task added", "id", t.ID)
	return t.ID, nil
}

// List returns the tasks in stored order, restricted to status when it is
// non-empty.
func (s *Service) List(ctx context.Context, status Status) (Collection, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	c, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return c.Filter(status), nil
}

// Get returns a copy of task id.
func (s *Service) Get(ctx context.Context, id int) (Task, error) {
	c, err := s.load(ctx)
	if err != nil {
		return Task{}, err
	}
	t := c.Get(id)
	if t == nil {
		return Task{}, notFound(id)
	}
	return *t, nil
}

// Update replaces the description of task id.
func (s *Service) Update(ctx context.Context, id int, description string) error {
	if err := checkDescription(description); err != nil {
		return err
	}
	return s.mutate(ctx, id, func(t *Task) {
		t.Description = description
	})
}

// Mark sets the status of task id. The status is validated before the
// store is touched.
func (s *Service) Mark(ctx context.Context, id int, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.mutate(ctx, id, func(t *Task) {
		t.Status = status
	})
}

// Delete removes task id.
func (s *Service) Delete(ctx context.Context, id int) error {
	c, err := s.load(ctx)
	if err != nil {
		return err
	}
	if c.Index(id) < 0 {
		return notFound(id)
	}
	if err := s.save(ctx, c.Without(id)); err != nil {
		return err
	}
	s.logger.Debug("task deleted", "id", id)
	return nil
}

// Clear removes every task. It refuses to run unless confirmed is true.
func (s *Service) Clear(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := s.save(ctx, Collection{}); err != nil {
		return err
	}
	s.logger.Debug("tasks cleared")
	return nil
}

// mutate applies fn to task id and refreshes its updated_at.
func (s *Service) mutate(ctx context.Context, id int, fn func(*Task)) error {
	c, err := s.load(ctx)
	if err != nil {
		return err
	}
	t := c.Get(id)
	if t == nil {
		return notFound(id)
	}
	fn(t)
	now := s.now()
	t.UpdatedAt = &now

	if err := s.save(ctx, c); err != nil {
		return err
	}
	s.logger.Debug("task updated", "id", id, "status", t.Status)
	return nil
}

func (s *Service) load(ctx context.Context) (Collection, error) {
	c, err := s.store.Load(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	return c, nil
}

func (s *Service) save(ctx context.Context, c Collection) error {
	if err := s.store.Save(ctx, c); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func checkDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	return nil
}
