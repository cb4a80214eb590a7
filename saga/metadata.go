package saga

import (
	"fmt"
	"sync"
	"time"

	"github.com/AndrewSinukov/service-bus/messaging"
)

// ExpireDateModifier 从 saga 的创建时刻计算过期时间点。
type ExpireDateModifier func(createdAt time.Time) time.Time

// NewFunc 按触发命令构造一个新 saga 实例，已经处于 inProgress 状态并
// 执行完领域 start 入口逻辑。
type NewFunc func(id ID, createdAt, expireDate time.Time, trigger messaging.IMessage) (Instance, error)

// RehydrateFunc 从持久化的记账块和领域状态 JSON 重建一个 saga 实例，
// 供 Codec.Decode 使用；不经过 inProgress 初始状态或 New 入口逻辑。
type RehydrateFunc func(base Base, stateJSON []byte) (Instance, error)

// Metadata 是某个 saga 类在编译期已知的静态信息。
type Metadata struct {
	SagaClass string

	// ExpireDateModifier 计算过期时间点；nil 时默认 24 小时。
	ExpireDateModifier ExpireDateModifier

	// IDFieldInMessage 描述如何从触发消息里提取 id（读取 Metadata 的 key 名）。
	IDFieldInMessage string

	// New 实例化一个新 saga 并运行其 start 入口。
	New NewFunc

	// Rehydrate 从存储行重建一个已存在的 saga 实例。
	Rehydrate RehydrateFunc
}

func (m Metadata) expireDate(createdAt time.Time) time.Time {
	if m.ExpireDateModifier == nil {
		return createdAt.Add(24 * time.Hour)
	}
	return m.ExpireDateModifier(createdAt)
}

// MetadataRegistry 是一份冻结的 saga 类 -> Metadata 映射。
//
// 与 eventing/registry.Registry 同构：按名字注册一个静态描述，核心
// 在 start/obtain 时查表而不是反射探测具体类型。
type MetadataRegistry struct {
	mu   sync.RWMutex
	byID map[string]Metadata
}

// NewMetadataRegistry 创建空的元数据注册表。
func NewMetadataRegistry() *MetadataRegistry {
	return &MetadataRegistry{byID: make(map[string]Metadata)}
}

// Register 注册一个 saga 类的元数据。
func (r *MetadataRegistry) Register(m Metadata) error {
	if m.SagaClass == "" {
		return fmt.Errorf("saga: metadata missing saga class")
	}
	if m.New == nil {
		return fmt.Errorf("saga: metadata for %s missing New factory", m.SagaClass)
	}
	if m.Rehydrate == nil {
		return fmt.Errorf("saga: metadata for %s missing Rehydrate factory", m.SagaClass)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[m.SagaClass]; exists {
		return fmt.Errorf("saga: metadata already registered for class %s", m.SagaClass)
	}
	r.byID[m.SagaClass] = m
	return nil
}

// MustRegister 同 Register，失败时 panic。
func (r *MetadataRegistry) MustRegister(m Metadata) {
	if err := r.Register(m); err != nil {
		panic(err)
	}
}

// Lookup 按 saga 类名取出元数据。
func (r *MetadataRegistry) Lookup(sagaClass string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[sagaClass]
	return m, ok
}
