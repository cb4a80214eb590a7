package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	core "github.com/AndrewSinukov/service-bus/data/db"
	"github.com/AndrewSinukov/service-bus/data/db/basic"
)

func newTestSQLStore(t *testing.T) *SQLStore[string] {
	t.Helper()
	database, err := basic.New(core.DBConfig{Driver: "sqlite", Database: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	store := NewSQLStore[string](database, "aggregate_snapshot")
	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func TestSQLStore_SaveInsertsWhenMissing(t *testing.T) {
	store := newTestSQLStore(t)
	snap := Snapshot[string]{AggregateID: "order-1", Version: 1, Data: []byte(`{"v":1}`), Timestamp: time.Now().UTC().Truncate(time.Second)}

	require.NoError(t, store.Save(context.Background(), snap))

	loaded, err := store.Load(context.Background(), "order-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, uint64(1), loaded.Version)
	assert.Equal(t, snap.Data, loaded.Data)
}

func TestSQLStore_SaveUpdatesExistingRow(t *testing.T) {
	store := newTestSQLStore(t)
	require.NoError(t, store.Save(context.Background(), Snapshot[string]{AggregateID: "order-1", Version: 1, Data: []byte(`{}`), Timestamp: time.Now()}))
	require.NoError(t, store.Save(context.Background(), Snapshot[string]{AggregateID: "order-1", Version: 2, Data: []byte(`{"v":2}`), Timestamp: time.Now()}))

	loaded, err := store.Load(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), loaded.Version)
}

func TestSQLStore_LoadReturnsNilWhenMissing(t *testing.T) {
	store := newTestSQLStore(t)
	loaded, err := store.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSQLStore_RemoveIsIdempotent(t *testing.T) {
	store := newTestSQLStore(t)
	require.NoError(t, store.Save(context.Background(), Snapshot[string]{AggregateID: "order-1", Version: 1, Data: []byte(`{}`), Timestamp: time.Now()}))
	require.NoError(t, store.Remove(context.Background(), "order-1"))
	require.NoError(t, store.Remove(context.Background(), "order-1"))

	loaded, err := store.Load(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
