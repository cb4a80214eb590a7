package router

// Router 把一个已解码的消息类型解析成需要依次调用的 handler 列表。
//
// Match 按 TypeRegistry.Chain 给出的顺序遍历（由远祖先到消息自身的精确
// 类型），逐级收集 HandlerCatalog 里登记的 handler：父类型的 handler
// 总是排在子类型 handler 之前执行，且同一 typeKey 下的多个 handler
// 保持注册顺序。没有任何 handler 命中时返回空切片，调用方据此判定
// 消息是否"无人处理"。
type Router struct {
	types   *TypeRegistry
	catalog *HandlerCatalog
}

// NewRouter 组合一个类型注册表和一份冻结的 handler 目录。
func NewRouter(types *TypeRegistry, catalog *HandlerCatalog) *Router {
	return &Router{types: types, catalog: catalog}
}

// Match 返回应当按顺序调用的 handler 描述符。
func (r *Router) Match(messageType TypeKey) []HandlerDescriptor {
	chain := r.types.Chain(messageType)

	var matched []HandlerDescriptor
	for _, key := range chain {
		matched = append(matched, r.catalog.Handlers(key)...)
	}
	return matched
}

// HasAnyHandler 是 Match 的一个轻量判定版本，避免分配返回切片。
func (r *Router) HasAnyHandler(messageType TypeKey) bool {
	for _, key := range r.types.Chain(messageType) {
		if len(r.catalog.Handlers(key)) > 0 {
			return true
		}
	}
	return false
}
