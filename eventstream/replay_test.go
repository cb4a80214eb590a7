package eventstream

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewSinukov/service-bus/snapshot"
)

type counterAggregate struct {
	value     int
	restored  bool
	applied   []Event
}

func (a *counterAggregate) Apply(event Event) error {
	switch event.Type {
	case "incremented":
		a.value++
	case "decremented":
		a.value--
	default:
		return fmt.Errorf("unknown event type %q", event.Type)
	}
	a.applied = append(a.applied, event)
	return nil
}

func (a *counterAggregate) RestoreFromSnapshot(data []byte) error {
	a.restored = true
	a.value = len(data)
	return nil
}

type notRestorableAggregate struct {
	applied []Event
}

func (a *notRestorableAggregate) Apply(event Event) error {
	a.applied = append(a.applied, event)
	return nil
}

type memoryEventStore struct {
	events map[string][]Event
}

func newMemoryEventStore() *memoryEventStore {
	return &memoryEventStore{events: make(map[string][]Event)}
}

func (s *memoryEventStore) LoadEventsAfter(ctx context.Context, aggregateID string, afterVersion uint64) ([]Event, error) {
	var result []Event
	for _, evt := range s.events[aggregateID] {
		if evt.Version > afterVersion {
			result = append(result, evt)
		}
	}
	return result, nil
}

func TestReplay_LoadWithNoSnapshotAppliesAllEvents(t *testing.T) {
	events := newMemoryEventStore()
	events.events["order-1"] = []Event{
		{Type: "incremented", Version: 1, OccurredAt: time.Now()},
		{Type: "incremented", Version: 2, OccurredAt: time.Now()},
	}

	replay := NewReplay[string](nil, events)
	aggregate := &counterAggregate{}

	version, err := replay.Load(context.Background(), "order-1", aggregate)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), version)
	assert.Equal(t, 2, aggregate.value)
	assert.False(t, aggregate.restored)
}

func TestReplay_LoadRestoresFromSnapshotThenAppliesLaterEvents(t *testing.T) {
	events := newMemoryEventStore()
	events.events["order-1"] = []Event{
		{Type: "incremented", Version: 1},
		{Type: "incremented", Version: 2},
		{Type: "decremented", Version: 3},
	}
	snapshots := snapshot.NewMemoryStore[string]()
	require.NoError(t, snapshots.Save(context.Background(), snapshot.Snapshot[string]{
		AggregateID: "order-1",
		Version:     2,
		Data:        []byte(`{"v":2}`),
	}))

	replay := NewReplay[string](snapshots, events)
	aggregate := &counterAggregate{}

	version, err := replay.Load(context.Background(), "order-1", aggregate)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), version)
	assert.True(t, aggregate.restored)
	require.Len(t, aggregate.applied, 1)
	assert.Equal(t, "decremented", aggregate.applied[0].Type)
}

func TestReplay_LoadIgnoresSnapshotWhenAggregateNotRestorable(t *testing.T) {
	events := newMemoryEventStore()
	events.events["order-1"] = []Event{{Type: "incremented", Version: 1}}
	snapshots := snapshot.NewMemoryStore[string]()
	require.NoError(t, snapshots.Save(context.Background(), snapshot.Snapshot[string]{
		AggregateID: "order-1",
		Version:     1,
		Data:        []byte(`{}`),
	}))

	replay := NewReplay[string](snapshots, events)
	aggregate := &notRestorableAggregate{}

	version, err := replay.Load(context.Background(), "order-1", aggregate)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)
	require.Len(t, aggregate.applied, 1)
}

func TestReplay_LoadReturnsErrorWhenApplyFails(t *testing.T) {
	events := newMemoryEventStore()
	events.events["order-1"] = []Event{{Type: "unknown", Version: 1}}

	replay := NewReplay[string](nil, events)
	aggregate := &counterAggregate{}

	_, err := replay.Load(context.Background(), "order-1", aggregate)
	assert.Error(t, err)
}

func TestReplay_LoadReturnsZeroVersionWhenNoEventsAndNoSnapshot(t *testing.T) {
	replay := NewReplay[string](nil, newMemoryEventStore())
	aggregate := &counterAggregate{}

	version, err := replay.Load(context.Background(), "missing", aggregate)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), version)
}
