package saga

import (
	"time"

	"github.com/AndrewSinukov/service-bus/messaging"
)

// Status 是 saga 状态机里的一个状态。
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusExpired    Status = "expired"
)

// Instance 是核心（SagaProvider）对任意具体 saga 类型所需要的只读视图
// 加上一组显式的转换方法。具体 saga 类型通过嵌入 Base 自动满足这个接口；
// 核心绝不通过反射读取 saga 的私有字段（见 DESIGN NOTES）。
type Instance interface {
	ID() ID
	Status() Status
	CreatedAt() time.Time
	ExpireDate() time.Time
	ClosedAt() *time.Time

	// TakeFiredMessages 取出并清空待投递的命令/事件队列。
	TakeFiredMessages() ([]messaging.IMessage, []messaging.IMessage)

	// MakeExpired 把 inProgress 状态转换为 expired；对已关闭的 saga 是空操作。
	MakeExpired()
}

// StatefulInstance 是 Instance 的一个可选扩展：声明了自己领域状态的
// saga 类型实现它，Codec 才能把该状态一并序列化。没有领域状态的 saga
// （纯粹靠触发消息驱动）可以不实现它。
type StatefulInstance interface {
	Instance
	// State 返回需要被序列化的领域字段（不含 Base 记账字段）。
	State() any
}

// Base 被每个具体 saga 类型嵌入，提供核心需要的记账字段：状态、时间戳、
// 待投递消息队列。领域字段由嵌入它的具体类型自行声明。
type Base struct {
	id         ID
	status     Status
	createdAt  time.Time
	expireDate time.Time
	closedAt   *time.Time

	firedCommands []messaging.IMessage
	raisedEvents  []messaging.IMessage
}

// NewBase 构造一个处于 inProgress 状态的新 saga 记账块。
func NewBase(id ID, createdAt, expireDate time.Time) Base {
	return Base{
		id:         id,
		status:     StatusInProgress,
		createdAt:  createdAt,
		expireDate: expireDate,
	}
}

// RestoreBase 由 Codec.Decode 用来重建一个已持久化 saga 的记账块，
// 不经过 inProgress 初始状态。
func RestoreBase(id ID, status Status, createdAt, expireDate time.Time, closedAt *time.Time) Base {
	return Base{id: id, status: status, createdAt: createdAt, expireDate: expireDate, closedAt: closedAt}
}

func (b *Base) ID() ID               { return b.id }
func (b *Base) Status() Status        { return b.status }
func (b *Base) CreatedAt() time.Time  { return b.createdAt }
func (b *Base) ExpireDate() time.Time { return b.expireDate }
func (b *Base) ClosedAt() *time.Time  { return b.closedAt }
func (b *Base) IsClosed() bool        { return b.status != StatusInProgress }

// FireCommand 把一个命令加入待投递队列；在 doStore 成功持久化之前不会被发送。
func (b *Base) FireCommand(cmd messaging.IMessage) {
	b.firedCommands = append(b.firedCommands, cmd)
}

// RaiseEvent 把一个事件加入待投递队列；在 doStore 成功持久化之前不会被发送。
func (b *Base) RaiseEvent(evt messaging.IMessage) {
	b.raisedEvents = append(b.raisedEvents, evt)
}

// TakeFiredMessages 实现 Instance。
func (b *Base) TakeFiredMessages() ([]messaging.IMessage, []messaging.IMessage) {
	cmds, evts := b.firedCommands, b.raisedEvents
	b.firedCommands = nil
	b.raisedEvents = nil
	return cmds, evts
}

// MakeExpired 实现 Instance。inProgress -> expired；其余状态不变（终态不可逆）。
func (b *Base) MakeExpired() {
	b.transitionTo(StatusExpired)
}

// Complete 把 inProgress 转换为 completed。
func (b *Base) Complete() {
	b.transitionTo(StatusCompleted)
}

// Fail 把 inProgress 转换为 failed。
func (b *Base) Fail() {
	b.transitionTo(StatusFailed)
}

func (b *Base) transitionTo(status Status) {
	if b.status != StatusInProgress {
		return
	}
	b.status = status
	closed := time.Now()
	b.closedAt = &closed
}
