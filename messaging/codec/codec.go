// Package codec 提供消息的编解码契约：把传输层的不透明字节负载转换为
// 具体的领域消息类型，以及反向的序列化。
package codec

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/AndrewSinukov/service-bus/messaging"
)

// HeaderMessageType 是用于携带消息类型标识的头部约定键。
const HeaderMessageType = "x-message-type"

// IMessageDecoder 将传输包解码为领域消息
//
// 失败时必须返回 DecodeFailed（*DecodeFailedError，通过 errors.Is/errors.As 可判别），
// 调用方（EntryPointProcessor）据此决定只记录日志并 ack，而不是让错误向上传播。
type IMessageDecoder interface {
	Decode(pkg messaging.IncomingPackage) (messaging.IMessage, error)
}

// IMessageEncoder 将领域消息编码为传输负载
type IMessageEncoder interface {
	Encode(msg messaging.IMessage) ([]byte, error)
}

// Factory 按需创建一个空的消息实例，供 JSON 反序列化写入
type Factory func() messaging.IMessage

// TypeRegistry 是消息类型到具体 Go 类型工厂的映射表。
//
// 与 eventing/registry.Registry 同构：按 typeKey 注册一个工厂函数，
// 解码时先看头部的类型标识，再用工厂构造一个空实例接收 JSON payload。
type TypeRegistry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewTypeRegistry 创建空的类型注册表
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{factories: make(map[string]Factory)}
}

// Register 注册一个消息类型标识到其工厂函数
func (r *TypeRegistry) Register(typeKey string, factory Factory) error {
	if typeKey == "" {
		return fmt.Errorf("codec: type key cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("codec: factory cannot be nil for type %s", typeKey)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[typeKey]; exists {
		return fmt.Errorf("codec: type already registered: %s", typeKey)
	}
	r.factories[typeKey] = factory
	return nil
}

// MustRegister 同 Register，失败时 panic（用于组合根的静态注册）
func (r *TypeRegistry) MustRegister(typeKey string, factory Factory) {
	if err := r.Register(typeKey, factory); err != nil {
		panic(err)
	}
}

// Lookup 按类型标识取出工厂函数
func (r *TypeRegistry) Lookup(typeKey string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[typeKey]
	return f, ok
}

// JSONCodec 是默认的 JSON 编解码实现
//
// 解码依据 IncomingPackage.Headers()[HeaderMessageType] 查找工厂，
// 未注册的类型标识或 JSON 格式错误都归一为 DecodeFailed。
type JSONCodec struct {
	types *TypeRegistry
}

// NewJSONCodec 创建基于给定类型注册表的 JSON 编解码器
func NewJSONCodec(types *TypeRegistry) *JSONCodec {
	return &JSONCodec{types: types}
}

// Decode 实现 IMessageDecoder
func (c *JSONCodec) Decode(pkg messaging.IncomingPackage) (messaging.IMessage, error) {
	typeKey := pkg.Headers()[HeaderMessageType]
	if typeKey == "" {
		return nil, NewDecodeFailedError(pkg.ID(), pkg.TraceID(), "missing "+HeaderMessageType+" header")
	}

	factory, ok := c.types.Lookup(typeKey)
	if !ok {
		return nil, NewDecodeFailedError(pkg.ID(), pkg.TraceID(), "unregistered message type: "+typeKey)
	}

	msg := factory()
	if err := json.Unmarshal(pkg.Payload(), msg); err != nil {
		return nil, NewDecodeFailedErrorWithCause(pkg.ID(), pkg.TraceID(), "malformed json payload", err)
	}

	return msg, nil
}

// Encode 实现 IMessageEncoder
func (c *JSONCodec) Encode(msg messaging.IMessage) ([]byte, error) {
	return json.Marshal(msg)
}

var (
	_ IMessageDecoder = (*JSONCodec)(nil)
	_ IMessageEncoder = (*JSONCodec)(nil)
)
