package saga

import (
	"context"
	"time"
)

// StoredSaga 是持久化的 saga 行：一份不透明的序列化快照加上核心需要
// 按索引/生命周期管理的列。(id.Value, id.Class) 是唯一键。
type StoredSaga struct {
	ID         ID
	Status     Status
	Payload    []byte
	CreatedAt  time.Time
	ExpireDate time.Time
	ClosedAt   *time.Time
}

// Store 是 saga 的持久化契约（C9 SagaStore）。
//
// 错误面收敛到存储契约允许的四类：ConnectionFailed、
// StorageInteractingFailed、UniqueConstraintViolation、OperationFailed
// （见 errors.IsTransientStorageError 和 errors/storage_errors.go）。
type Store interface {
	// Save 插入一个新行；(id.Value, id.Class) 已存在时返回
	// UniqueConstraintViolation。
	Save(ctx context.Context, stored StoredSaga) error

	// Update 按键更新已存在的行；未命中返回 NotFound（errors.ErrCodeNotFound）。
	Update(ctx context.Context, stored StoredSaga) error

	// Load 返回指定 id 的存储行；不存在时返回 (nil, nil)。
	Load(ctx context.Context, id ID) (*StoredSaga, error)

	// Remove 删除指定 id 的行；幂等——不存在时也返回 nil。
	Remove(ctx context.Context, id ID) error
}
