// Package sagastore 提供 saga.Store 的具体落地实现：内存版（测试/单机）
// 与 SQL 版（生产）。
package sagastore

import (
	"context"
	"sync"

	apperrors "github.com/AndrewSinukov/service-bus/errors"
	"github.com/AndrewSinukov/service-bus/saga"
)

// MemoryStore 是 saga.Store 的内存实现，按 (class, value) 键存一份快照。
//
// 与 saga/state_store_memory.go 同构：一把读写锁保护一个 map，不做任何
// 持久化；用于单机部署或测试。
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]saga.StoredSaga
}

// NewMemoryStore 创建一个空的内存 saga 存储。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]saga.StoredSaga)}
}

func (s *MemoryStore) key(id saga.ID) string { return id.String() }

func (s *MemoryStore) Save(ctx context.Context, stored saga.StoredSaga) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.key(stored.ID)
	if _, exists := s.rows[key]; exists {
		return apperrors.NewUniqueConstraintViolationError("saga already exists: " + key)
	}
	s.rows[key] = stored
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, stored saga.StoredSaga) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.key(stored.ID)
	if _, exists := s.rows[key]; !exists {
		return apperrors.NewNotFoundError("saga not found: " + key)
	}
	s.rows[key] = stored
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, id saga.ID) (*saga.StoredSaga, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[s.key(id)]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *MemoryStore) Remove(ctx context.Context, id saga.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, s.key(id))
	return nil
}
