package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IncomingPackage 是传输层投递给核心的不透明信封。
//
// 核心只依赖这个接口，不依赖具体的传输实现（AMQP/NATS/Redis Streams 等）。
// Ack/Nack 必须是幂等的：同一个 Package 上只应该有一次终态确认生效，
// 多余的调用应被安全地忽略（见 NewIncomingPackage 中的 sync.Once 实现）。
type IncomingPackage interface {
	ID() string
	TraceID() string
	Payload() []byte
	Headers() map[string]string

	// Ack 确认该包已被成功处理。幂等。
	Ack(ctx context.Context) error

	// Nack 拒绝该包。requeue 为 true 时应由传输层重新投递。幂等。
	Nack(ctx context.Context, requeue bool) error
}

// AckFunc/NackFunc 由具体传输驱动提供，供 incomingPackage 在终态确认时调用。
type AckFunc func(ctx context.Context) error
type NackFunc func(ctx context.Context, requeue bool) error

// incomingPackage 是 IncomingPackage 的默认实现。
//
// once（sync.Once）保证"至多一次终态确认"：第一次 Ack/Nack 调用
// 实际转发给传输层，此后的调用原样返回 nil，不再触碰底层连接；
// settled 记录是否已经确认过。
type incomingPackage struct {
	id      string
	traceID string
	payload []byte
	headers map[string]string

	ackFunc  AckFunc
	nackFunc NackFunc

	once    sync.Once
	settled bool
	mu      sync.Mutex
}

// NewIncomingPackage 由传输驱动调用，构造一个待处理的入站包。
func NewIncomingPackage(id, traceID string, payload []byte, headers map[string]string, ackFn AckFunc, nackFn NackFunc) IncomingPackage {
	if headers == nil {
		headers = make(map[string]string)
	}
	return &incomingPackage{
		id:       id,
		traceID:  traceID,
		payload:  payload,
		headers:  headers,
		ackFunc:  ackFn,
		nackFunc: nackFn,
	}
}

func (p *incomingPackage) ID() string                 { return p.id }
func (p *incomingPackage) TraceID() string             { return p.traceID }
func (p *incomingPackage) Payload() []byte             { return p.payload }
func (p *incomingPackage) Headers() map[string]string { return p.headers }

func (p *incomingPackage) Ack(ctx context.Context) error {
	var err error
	p.once.Do(func() {
		p.mu.Lock()
		p.settled = true
		p.mu.Unlock()
		if p.ackFunc != nil {
			err = p.ackFunc(ctx)
		}
	})
	return err
}

func (p *incomingPackage) Nack(ctx context.Context, requeue bool) error {
	var err error
	p.once.Do(func() {
		p.mu.Lock()
		p.settled = true
		p.mu.Unlock()
		if p.nackFunc != nil {
			err = p.nackFunc(ctx, requeue)
		}
	})
	return err
}

// IsSettled 报告该包是否已经被 Ack 或 Nack 过（主要用于测试断言）。
func (p *incomingPackage) IsSettled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settled
}

// OutgoingPackage 是 KernelContext/EndpointRouter 交给传输层发送的信封。
type OutgoingPackage struct {
	Headers       map[string]string
	Payload       []byte
	Destination   string
	TraceID       string
	DeliveryDelay *time.Duration
}

// NewOutgoingPackage 构造一个待发送的出站包，自动填充一个新的消息头 ID。
func NewOutgoingPackage(destination string, payload []byte, traceID string) *OutgoingPackage {
	return &OutgoingPackage{
		Headers:     map[string]string{"x-message-id": uuid.NewString()},
		Payload:     payload,
		Destination: destination,
		TraceID:     traceID,
	}
}
