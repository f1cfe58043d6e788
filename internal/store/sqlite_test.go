package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/tasker/internal/task"
)

func openTestSQLite(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.db")
	s, err := OpenSQLite(context.Background(), path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestSQLiteStoreEmpty(t *testing.T) {
	s, _ := openTestSQLite(t)

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestSQLite(t)

	want := sampleCollection()
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assertSameCollection(t, want, got)
}

func TestSQLiteStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestSQLite(t)

	require.NoError(t, s.Save(ctx, sampleCollection()))
	smaller := sampleCollection()[:1]
	require.NoError(t, s.Save(ctx, smaller))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assertSameCollection(t, smaller, got)

	require.NoError(t, s.Save(ctx, task.Collection{}))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTestSQLite(t)
	require.NoError(t, s.Save(ctx, sampleCollection()))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(ctx, path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	assertSameCollection(t, sampleCollection(), got)
}

func TestSQLiteStoreWithService(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestSQLite(t)
	svc := task.NewService(s)

	first, err := svc.Add(ctx, "one")
	require.NoError(t, err)
	second, err := svc.Add(ctx, "two")
	require.NoError(t, err)
	require.NoError(t, svc.Mark(ctx, second, task.StatusDone))
	require.NoError(t, svc.Delete(ctx, first))

	got, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, second, got[0].ID)
	assert.Equal(t, task.StatusDone, got[0].Status)
}
