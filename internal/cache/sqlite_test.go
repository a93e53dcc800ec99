package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T, ttl time.Duration) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SetGet(t *testing.T) {
	store := newTestSQLiteStore(t, time.Hour)

	require.NoError(t, store.Set("k", []byte("v")))

	value, ok, err := store.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), value)
}

func TestSQLiteStore_MissingKey(t *testing.T) {
	store := newTestSQLiteStore(t, time.Hour)

	_, ok, err := store.Get("absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_Upsert(t *testing.T) {
	store := newTestSQLiteStore(t, time.Hour)

	require.NoError(t, store.Set("k", []byte("old")))
	require.NoError(t, store.Set("k", []byte("new")))

	value, ok, err := store.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("new"), value)
}

func TestSQLiteStore_TTLExpiry(t *testing.T) {
	store := newTestSQLiteStore(t, time.Hour)

	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Set("k", []byte("v")))

	_, ok, err := store.Get("k")
	require.NoError(t, err)
	require.True(t, ok)

	store.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, ok, err = store.Get("k")
	require.NoError(t, err)
	assert.False(t, ok, "entry past TTL is treated as a miss")

	// The expired row is deleted lazily, so a rewind stays a miss.
	store.now = func() time.Time { return now }
	_, ok, err = store.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_ZeroTTLNeverExpires(t *testing.T) {
	store := newTestSQLiteStore(t, 0)

	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Set("k", []byte("v")))

	store.now = func() time.Time { return now.Add(1000 * time.Hour) }
	_, ok, err := store.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := NewSQLiteStore(path, time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", []byte("v")))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path, time.Hour)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), value)
}
