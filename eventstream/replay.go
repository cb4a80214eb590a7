// Package eventstream 提供基于快照加速的聚合重放能力：先从快照恢复状态，
// 再应用快照版本之后的事件追赶到最新版本，避免每次都从事件零开始重放。
package eventstream

import (
	"context"
	"fmt"
	"time"

	"github.com/AndrewSinukov/service-bus/snapshot"
)

// Event 是重放过程中应用到聚合上的单个事件视图。
type Event struct {
	Type       string
	Version    uint64
	Data       []byte
	OccurredAt time.Time
}

// Aggregate 是可重放聚合需要实现的最小契约：按版本顺序应用事件，修改自身状态。
// 实现应为幂等，与 domain/eventsourced/entity.go 的 ApplyEvent 约定一致。
type Aggregate interface {
	Apply(event Event) error
}

// SnapshotRestorer 是聚合的可选扩展接口：从快照载荷恢复状态。
// 未实现该接口的聚合只能从版本零开始重放，快照会被忽略。
type SnapshotRestorer interface {
	RestoreFromSnapshot(data []byte) error
}

// EventStore 是 Replay 所需的最小事件源：按版本加载某个聚合在指定版本之后的事件。
type EventStore[ID comparable] interface {
	LoadEventsAfter(ctx context.Context, aggregateID ID, afterVersion uint64) ([]Event, error)
}

// Replay 将快照与事件源组合起来，把聚合恢复/追赶到最新版本。
type Replay[ID comparable] struct {
	snapshots snapshot.Store[ID]
	events    EventStore[ID]
}

// NewReplay 创建一个重放器。snapshots 为 nil 时退化为从版本零全量重放。
func NewReplay[ID comparable](snapshots snapshot.Store[ID], events EventStore[ID]) *Replay[ID] {
	if events == nil {
		panic("eventstream.NewReplay: events cannot be nil")
	}
	return &Replay[ID]{snapshots: snapshots, events: events}
}

// Load 把 aggregate 恢复到其最新已持久化版本：
//  1. 若存在快照且 aggregate 实现了 SnapshotRestorer，先从快照恢复状态；
//  2. 再加载快照版本（或 0）之后的事件，按版本升序依次 Apply。
//
// 返回值是重放完成后聚合所处的版本号。
func (r *Replay[ID]) Load(ctx context.Context, id ID, aggregate Aggregate) (uint64, error) {
	fromVersion, err := r.restoreFromSnapshot(ctx, id, aggregate)
	if err != nil {
		return 0, err
	}

	events, err := r.events.LoadEventsAfter(ctx, id, fromVersion)
	if err != nil {
		return fromVersion, fmt.Errorf("eventstream: load events after version %d: %w", fromVersion, err)
	}

	version := fromVersion
	for _, evt := range events {
		if err := aggregate.Apply(evt); err != nil {
			return version, fmt.Errorf("eventstream: apply event type=%s version=%d: %w", evt.Type, evt.Version, err)
		}
		version = evt.Version
	}
	return version, nil
}

func (r *Replay[ID]) restoreFromSnapshot(ctx context.Context, id ID, aggregate Aggregate) (uint64, error) {
	if r.snapshots == nil {
		return 0, nil
	}
	snap, err := r.snapshots.Load(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("eventstream: load snapshot: %w", err)
	}
	if snap == nil {
		return 0, nil
	}
	restorer, ok := aggregate.(SnapshotRestorer)
	if !ok {
		return 0, nil
	}
	if err := restorer.RestoreFromSnapshot(snap.Data); err != nil {
		return 0, fmt.Errorf("eventstream: restore from snapshot version %d: %w", snap.Version, err)
	}
	return snap.Version, nil
}
