// Package router 提供消息类型注册表、静态 HandlerCatalog 和多态路由。
//
// 与源语言依赖运行时类名派发不同，这里用一个稳定的字符串 typeKey 代表
// 消息的"声明类型"，并在注册时显式声明其父类型链，路由时不做任何反射：
// 全部信息在启动阶段计算完毕并冻结（见 DESIGN NOTES）。
package router

import (
	"fmt"
	"sync"
)

// TypeKey 是一个消息类型的稳定标识符，通常与 codec.TypeRegistry 里
// 使用的类型标识保持一致（例如 "order.created"、"order.cancel"）。
type TypeKey string

// TypeRegistry 记录每个 typeKey 的父类型链（supertype chain）。
//
// Chain(key) 返回"从最远祖先到自身"的有序列表：
//
//	Chain("order.created") == []TypeKey{"event", "order.event", "order.created"}
//
// Router.Match 依赖这个顺序决定父类型 handler 先于子类型 handler 执行。
type TypeRegistry struct {
	mu     sync.RWMutex
	chains map[TypeKey][]TypeKey
}

// NewTypeRegistry 创建空的类型注册表
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{chains: make(map[TypeKey][]TypeKey)}
}

// Declare 注册一个消息类型及其父类型链（由远到近，不含自身）。
//
// 例如 Declare("order.created", "event", "order.event") 声明
// order.created 是 order.event 的子类型，而 order.event 又是 event 的子类型。
func (r *TypeRegistry) Declare(key TypeKey, supertypes ...TypeKey) error {
	if key == "" {
		return fmt.Errorf("router: type key cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.chains[key]; exists {
		return fmt.Errorf("router: type already declared: %s", key)
	}

	chain := make([]TypeKey, 0, len(supertypes)+1)
	chain = append(chain, supertypes...)
	chain = append(chain, key)
	r.chains[key] = chain
	return nil
}

// MustDeclare 同 Declare，失败时 panic（用于组合根的静态注册）
func (r *TypeRegistry) MustDeclare(key TypeKey, supertypes ...TypeKey) {
	if err := r.Declare(key, supertypes...); err != nil {
		panic(err)
	}
}

// Chain 返回给定类型的父类型链（含自身，由远到近）。
// 未声明的类型退化为只含自身的单元素链，使得未显式注册父类型的
// 消息仍然可以按精确类型匹配。
func (r *TypeRegistry) Chain(key TypeKey) []TypeKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if chain, ok := r.chains[key]; ok {
		out := make([]TypeKey, len(chain))
		copy(out, chain)
		return out
	}
	return []TypeKey{key}
}
