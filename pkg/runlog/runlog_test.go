package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenAt(context.Background(), filepath.Join(t.TempDir(), "storage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecord(id string, startedAt time.Time) Record {
	argv, _ := EncodeArgv([]string{"flutter", "pub", "get"})
	return Record{
		ID:         id,
		Command:    "flutter-pub",
		Subcommand: "get",
		Argv:       argv,
		ExitCode:   0,
		DurationMS: 1200,
		StartedAt:  startedAt,
	}
}

func TestSaveAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	record := testRecord("run-1", time.Now().UTC())
	require.NoError(t, store.Save(ctx, record))

	loaded, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "flutter-pub", loaded.Command)
	assert.Equal(t, "get", loaded.Subcommand)
	assert.Equal(t, 0, loaded.ExitCode)

	argv, err := loaded.ArgvSlice()
	require.NoError(t, err)
	assert.Equal(t, []string{"flutter", "pub", "get"}, argv)
}

func TestGetNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, store.Save(ctx, testRecord("run-old", base.Add(-2*time.Hour))))
	require.NoError(t, store.Save(ctx, testRecord("run-new", base)))
	require.NoError(t, store.Save(ctx, testRecord("run-mid", base.Add(-time.Hour))))

	records, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "run-new", records[0].ID)
	assert.Equal(t, "run-mid", records[1].ID)
	assert.Equal(t, "run-old", records[2].ID)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "run-new", limited[0].ID)
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, store.Save(ctx, testRecord("run-ancient", base.Add(-48*time.Hour))))
	require.NoError(t, store.Save(ctx, testRecord("run-recent", base)))

	deleted, err := store.Prune(ctx, base.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	records, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "run-recent", records[0].ID)
}

func TestOpenAtIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.db")
	ctx := context.Background()

	store, err := OpenAt(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, testRecord("run-1", time.Now().UTC())))
	require.NoError(t, store.Close())

	// Reopening applies no duplicate migrations and keeps existing data
	store, err = OpenAt(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	records, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
