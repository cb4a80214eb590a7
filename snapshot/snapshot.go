// Package snapshot 提供一个聚合/saga 无关的快照存储契约：Save/Load/
// Remove 一份不透明状态 blob 加上一个版本号，用作重放加速层。
package snapshot

import (
	"context"
	"time"
)

// Snapshot 是某个聚合在某个版本点上的不透明快照。
type Snapshot[ID comparable] struct {
	AggregateID ID
	Version     uint64
	Data        []byte
	Timestamp   time.Time
}

// Store 是快照的持久化契约（C11 SnapshotStore），参数化到聚合 id 类型，
// 与 eventing/store/snapshot/strategy.go 的 ISnapshotAggregate[ID] 同构。
//
// 只保留加速重放所需的最小操作：每个聚合只保留一份最新快照。
type Store[ID comparable] interface {
	// Save 插入或覆盖指定聚合的快照。
	Save(ctx context.Context, snapshot Snapshot[ID]) error

	// Load 返回指定聚合的最新快照；不存在时返回 (nil, nil)。
	Load(ctx context.Context, id ID) (*Snapshot[ID], error)

	// Remove 删除指定聚合的快照；幂等。
	Remove(ctx context.Context, id ID) error
}
