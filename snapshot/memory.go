package snapshot

import (
	"context"
	"sync"
)

// MemoryStore 是 Store[ID] 的内存实现，每个聚合保留一份最新快照。
//
// 与 eventing/store/snapshot.MemoryStore 同构：一把读写锁保护一个 map。
type MemoryStore[ID comparable] struct {
	mu        sync.RWMutex
	snapshots map[ID]Snapshot[ID]
}

// NewMemoryStore 创建一个空的内存快照存储。
func NewMemoryStore[ID comparable]() *MemoryStore[ID] {
	return &MemoryStore[ID]{snapshots: make(map[ID]Snapshot[ID])}
}

func (s *MemoryStore[ID]) Save(ctx context.Context, snapshot Snapshot[ID]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.AggregateID] = snapshot
	return nil
}

func (s *MemoryStore[ID]) Load(ctx context.Context, id ID) (*Snapshot[ID], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[id]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *MemoryStore[ID]) Remove(ctx context.Context, id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, id)
	return nil
}
