package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store that counts calls and can fail on demand.
type memStore struct {
	tasks   Collection
	loads   int
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load(ctx context.Context) (Collection, error) {
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return cloneCollection(m.tasks), nil
}

func (m *memStore) Save(ctx context.Context, c Collection) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tasks = cloneCollection(c)
	return nil
}

func cloneCollection(c Collection) Collection {
	out := make(Collection, len(c))
	for i, t := range c {
		out[i] = t
		if t.UpdatedAt != nil {
			u := *t.UpdatedAt
			out[i].UpdatedAt = &u
		}
	}
	return out
}

// stepClock returns a clock that advances one minute per call.
func stepClock() func() time.Time {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	store := &memStore{}
	return NewService(store, WithClock(stepClock())), store
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("ids are max plus one", func(t *testing.T) {
		svc, store := newTestService(t)
		for want := 1; want <= 5; want++ {
			before := store.tasks.NextID()
			id, err := svc.Add(ctx, "task")
			require.NoError(t, err)
			assert.Equal(t, want, id)
			assert.Equal(t, before, id)
		}
		require.Len(t, store.tasks, 5)
	})

	t.Run("new task is todo with equal timestamps", func(t *testing.T) {
		svc, store := newTestService(t)
		id, err := svc.Add(ctx, "buy milk")
		require.NoError(t, err)

		got := store.tasks.Get(id)
		require.NotNil(t, got)
		assert.Equal(t, "buy milk", got.Description)
		assert.Equal(t, StatusTodo, got.Status)
		require.NotNil(t, got.UpdatedAt)
		assert.True(t, got.CreatedAt.Equal(*got.UpdatedAt))
	})

	t.Run("reuses highest id after delete", func(t *testing.T) {
		svc, _ := newTestService(t)
		for i := 0; i < 3; i++ {
			_, err := svc.Add(ctx, "task")
			require.NoError(t, err)
		}
		require.NoError(t, svc.Delete(ctx, 3))

		id, err := svc.Add(ctx, "again")
		require.NoError(t, err)
		assert.Equal(t, 3, id)
	})

	t.Run("gap below max is not filled", func(t *testing.T) {
		svc, _ := newTestService(t)
		for i := 0; i < 3; i++ {
			_, err := svc.Add(ctx, "task")
			require.NoError(t, err)
		}
		require.NoError(t, svc.Delete(ctx, 2))

		id, err := svc.Add(ctx, "next")
		require.NoError(t, err)
		assert.Equal(t, 4, id)
	})

	t.Run("blank description is rejected without touching the store", func(t *testing.T) {
		svc, store := newTestService(t)
		_, err := svc.Add(ctx, "   ")
		assert.ErrorIs(t, err, ErrEmptyDescription)
		assert.Zero(t, store.loads)
		assert.Zero(t, store.saves)
	})

	t.Run("description is stored verbatim", func(t *testing.T) {
		svc, store := newTestService(t)
		id, err := svc.Add(ctx, "  padded  ")
		require.NoError(t, err)
		assert.Equal(t, "  padded  ", store.tasks.Get(id).Description)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	for _, d := range []string{"a", "b", "c", "d"} {
		_, err := svc.Add(ctx, d)
		require.NoError(t, err)
	}
	require.NoError(t, svc.Mark(ctx, 2, StatusDone))
	require.NoError(t, svc.Mark(ctx, 4, StatusDone))
	require.NoError(t, svc.Mark(ctx, 3, StatusInProgress))
	savesBefore := store.saves

	tests := []struct {
		name   string
		status Status
		want   []int
	}{
		{"all", "", []int{1, 2, 3, 4}},
		{"todo", StatusTodo, []int{1}},
		{"in-progress", StatusInProgress, []int{3}},
		{"done keeps stored order", StatusDone, []int{2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.status)
			require.NoError(t, err)
			ids := make([]int, 0, len(got))
			for _, task := range got {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	t.Run("is read only", func(t *testing.T) {
		assert.Equal(t, savesBefore, store.saves)
	})

	t.Run("invalid filter", func(t *testing.T) {
		_, err := svc.List(ctx, Status("later"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("empty collection", func(t *testing.T) {
		empty, _ := newTestService(t)
		got, err := empty.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("changes description and refreshes updated_at", func(t *testing.T) {
		svc, store := newTestService(t)
		id, err := svc.Add(ctx, "buy milk")
		require.NoError(t, err)
		before := store.tasks.Get(id)
		created := before.CreatedAt
		updated := *before.UpdatedAt

		require.NoError(t, svc.Update(ctx, id, "buy oat milk"))

		tasks, err := svc.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "buy oat milk", tasks[0].Description)
		assert.True(t, tasks[0].CreatedAt.Equal(created))
		assert.False(t, tasks[0].UpdatedAt.Before(updated))
		assert.True(t, tasks[0].UpdatedAt.After(updated))
	})

	t.Run("missing id does not save", func(t *testing.T) {
		svc, store := newTestService(t)
		_, err := svc.Add(ctx, "a")
		require.NoError(t, err)
		saves := store.saves

		err = svc.Update(ctx, 42, "b")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, saves, store.saves)
		assert.Equal(t, "a", store.tasks[0].Description)
	})

	t.Run("blank description", func(t *testing.T) {
		svc, _ := newTestService(t)
		id, err := svc.Add(ctx, "a")
		require.NoError(t, err)
		assert.ErrorIs(t, svc.Update(ctx, id, ""), ErrEmptyDescription)
	})
}

func TestMark(t *testing.T) {
	ctx := context.Background()

	t.Run("updates status and updated_at only", func(t *testing.T) {
		svc, store := newTestService(t)
		id, err := svc.Add(ctx, "a")
		require.NoError(t, err)
		created := store.tasks[0].CreatedAt

		require.NoError(t, svc.Mark(ctx, id, StatusInProgress))
		got := store.tasks.Get(id)
		assert.Equal(t, StatusInProgress, got.Status)
		assert.Equal(t, "a", got.Description)
		assert.True(t, got.CreatedAt.Equal(created))
		assert.True(t, got.UpdatedAt.After(created))
	})

	t.Run("invalid status never touches the store", func(t *testing.T) {
		svc, store := newTestService(t)
		_, err := svc.Add(ctx, "a")
		require.NoError(t, err)
		snapshot := cloneCollection(store.tasks)
		loads, saves := store.loads, store.saves

		for _, s := range []Status{"", "blocked", "DONE", "in progress"} {
			err := svc.Mark(ctx, 1, s)
			assert.ErrorIs(t, err, ErrInvalidStatus, "status %q", s)
		}
		assert.Equal(t, loads, store.loads)
		assert.Equal(t, saves, store.saves)
		assert.Equal(t, snapshot, store.tasks)
	})

	t.Run("missing id", func(t *testing.T) {
		svc, store := newTestService(t)
		err := svc.Mark(ctx, 7, StatusDone)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Zero(t, store.saves)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	id, err := svc.Add(ctx, "read the manual")
	require.NoError(t, err)
	saves := store.saves

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "read the manual", got.Description)
	assert.Equal(t, StatusTodo, got.Status)

	got.Description = "changed"
	assert.Equal(t, "read the manual", store.tasks[0].Description)

	_, err = svc.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, saves, store.saves)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes exactly one and preserves order", func(t *testing.T) {
		svc, store := newTestService(t)
		for _, d := range []string{"a", "b", "c", "d"} {
			_, err := svc.Add(ctx, d)
			require.NoError(t, err)
		}

		require.NoError(t, svc.Delete(ctx, 2))
		require.Len(t, store.tasks, 3)
		assert.Equal(t, []int{1, 3, 4}, []int{store.tasks[0].ID, store.tasks[1].ID, store.tasks[2].ID})
		assert.Equal(t, "c", store.tasks[1].Description)
	})

	t.Run("missing id changes nothing", func(t *testing.T) {
		svc, store := newTestService(t)
		_, err := svc.Add(ctx, "a")
		require.NoError(t, err)
		snapshot := cloneCollection(store.tasks)
		saves := store.saves

		assert.ErrorIs(t, svc.Delete(ctx, 9), ErrNotFound)
		assert.Equal(t, saves, store.saves)
		assert.Equal(t, snapshot, store.tasks)
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()

	t.Run("requires confirmation", func(t *testing.T) {
		svc, store := newTestService(t)
		_, err := svc.Add(ctx, "a")
		require.NoError(t, err)
		saves := store.saves

		assert.ErrorIs(t, svc.Clear(ctx, false), ErrNotConfirmed)
		assert.Equal(t, saves, store.saves)
		assert.Len(t, store.tasks, 1)
	})

	t.Run("empties the collection for every filter", func(t *testing.T) {
		svc, _ := newTestService(t)
		for _, d := range []string{"a", "b"} {
			_, err := svc.Add(ctx, d)
			require.NoError(t, err)
		}
		require.NoError(t, svc.Mark(ctx, 2, StatusDone))

		require.NoError(t, svc.Clear(ctx, true))
		for _, s := range append(Statuses(), "") {
			got, err := svc.List(ctx, s)
			require.NoError(t, err)
			assert.Empty(t, got)
		}
	})

	t.Run("works on an empty store", func(t *testing.T) {
		svc, store := newTestService(t)
		require.NoError(t, svc.Clear(ctx, true))
		assert.Equal(t, 1, store.saves)
	})
}

func TestPersistenceErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")

	t.Run("load failure", func(t *testing.T) {
		svc, store := newTestService(t)
		store.loadErr = boom

		_, err := svc.Add(ctx, "a")
		var perr *PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "load", perr.Op)
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, store.saves)
	})

	t.Run("save failure keeps previous state", func(t *testing.T) {
		svc, store := newTestService(t)
		_, err := svc.Add(ctx, "a")
		require.NoError(t, err)
		snapshot := cloneCollection(store.tasks)
		store.saveErr = boom

		ops := map[string]func() error{
			"add":    func() error { _, err := svc.Add(ctx, "b"); return err },
			"update": func() error { return svc.Update(ctx, 1, "b") },
			"mark":   func() error { return svc.Mark(ctx, 1, StatusDone) },
			"delete": func() error { return svc.Delete(ctx, 1) },
			"clear":  func() error { return svc.Clear(ctx, true) },
		}
		for name, op := range ops {
			err := op()
			var perr *PersistenceError
			require.ErrorAs(t, err, &perr, name)
			assert.Equal(t, "save", perr.Op, name)
			assert.Equal(t, snapshot, store.tasks, name)
		}
	})
}

func TestScenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	id, err := svc.Add(ctx, "buy milk")
	require.NoError(t, err)
	require.Equal(t, 1, id)

	tasks, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, StatusTodo, tasks[0].Status)
	created := tasks[0].CreatedAt

	require.NoError(t, svc.Mark(ctx, 1, StatusInProgress))
	require.NoError(t, svc.Update(ctx, 1, "buy oat milk"))

	inProgress, err := svc.List(ctx, StatusInProgress)
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, "buy oat milk", inProgress[0].Description)
	assert.True(t, inProgress[0].CreatedAt.Equal(created))

	require.NoError(t, svc.Delete(ctx, 1))
	tasks, err = svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
