// Package endpoint 提供 outgoing 消息类型到命名端点（传输 + 逻辑目的地）的映射。
package endpoint

import (
	"fmt"

	"github.com/AndrewSinukov/service-bus/messaging"
	"github.com/AndrewSinukov/service-bus/router"
)

// Ref 是一个命名端点：一个传输实现加上该传输内部使用的逻辑目的地
// （主题名/队列名），供日志和调试展示。
type Ref struct {
	Name        string
	Transport   messaging.ITransport
	Destination string
}

// Router 把 outgoing 消息类型映射到一个或多个命名端点。
//
// 构建完成后冻结：Resolve 只读访问。命令类型必须精确映射到一个端点，
// 事件类型可以映射到零个或多个端点（扇出）。
type Router struct {
	byType map[router.TypeKey][]Ref
}

// ResolveCommand 为命令类型解析唯一端点；零个或多于一个都是配置错误。
func (r *Router) ResolveCommand(messageType router.TypeKey) (Ref, error) {
	refs := r.byType[messageType]
	switch len(refs) {
	case 0:
		return Ref{}, fmt.Errorf("endpoint: no endpoint configured for %s", messageType)
	case 1:
		return refs[0], nil
	default:
		return Ref{}, fmt.Errorf("endpoint: %d endpoints configured for command %s, expected exactly one", len(refs), messageType)
	}
}

// ResolveEvent 为事件类型解析所有匹配端点；允许为空（调用方应记录 debug 日志）。
func (r *Router) ResolveEvent(messageType router.TypeKey) []Ref {
	return r.byType[messageType]
}

// Builder 用于在组合根里逐条声明端点映射，最后冻结成 Router。
type Builder struct {
	byType map[router.TypeKey][]Ref
}

// NewBuilder 创建一个空的 builder。
func NewBuilder() *Builder {
	return &Builder{byType: make(map[router.TypeKey][]Ref)}
}

// Bind 把一个消息类型绑定到一个命名端点，支持链式多次调用以实现扇出。
func (b *Builder) Bind(messageType router.TypeKey, ref Ref) *Builder {
	b.byType[messageType] = append(b.byType[messageType], ref)
	return b
}

// Build 冻结成不可变的 Router。
func (b *Builder) Build() *Router {
	frozen := make(map[router.TypeKey][]Ref, len(b.byType))
	for k, v := range b.byType {
		cp := make([]Ref, len(v))
		copy(cp, v)
		frozen[k] = cp
	}
	return &Router{byType: frozen}
}
