package router

import "fmt"

// HandlerCatalog 是一份冻结的 typeKey -> []HandlerDescriptor 映射。
//
// 构建完成后不可变：Router.Match 只读访问，天然并发安全，不需要锁。
type HandlerCatalog struct {
	byType map[TypeKey][]HandlerDescriptor
}

// Handlers 返回某个精确类型键上注册的 handler（不含父/子类型）。
func (c *HandlerCatalog) Handlers(key TypeKey) []HandlerDescriptor {
	return c.byType[key]
}

// Len 返回注册的 typeKey 数量，便于启动日志里打印一个概要。
func (c *HandlerCatalog) Len() int {
	return len(c.byType)
}

// CatalogBuilder 用来在组合根里逐个声明 handler，最后一次性冻结成 HandlerCatalog。
type CatalogBuilder struct {
	byType map[TypeKey][]HandlerDescriptor
	err    error
}

// NewCatalogBuilder 创建一个空的 builder
func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{byType: make(map[TypeKey][]HandlerDescriptor)}
}

// Register 登记一个 handler。同一个 typeKey 可以注册多个 handler
// （例如多个独立的事件订阅者），它们会按注册顺序依次调用。
func (b *CatalogBuilder) Register(desc HandlerDescriptor) *CatalogBuilder {
	if b.err != nil {
		return b
	}
	if desc.MessageType == "" {
		b.err = fmt.Errorf("router: handler descriptor missing message type")
		return b
	}
	if desc.Invoke == nil {
		b.err = fmt.Errorf("router: handler descriptor for %s missing invoke func", desc.MessageType)
		return b
	}
	b.byType[desc.MessageType] = append(b.byType[desc.MessageType], desc)
	return b
}

// Build 冻结成不可变的 HandlerCatalog。如果注册期间出现了错误会原样返回。
func (b *CatalogBuilder) Build() (*HandlerCatalog, error) {
	if b.err != nil {
		return nil, b.err
	}
	frozen := make(map[TypeKey][]HandlerDescriptor, len(b.byType))
	for k, v := range b.byType {
		cp := make([]HandlerDescriptor, len(v))
		copy(cp, v)
		frozen[k] = cp
	}
	return &HandlerCatalog{byType: frozen}, nil
}

// MustBuild 同 Build，失败时 panic，适合组合根里的静态装配代码。
func (b *CatalogBuilder) MustBuild() *HandlerCatalog {
	cat, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cat
}
