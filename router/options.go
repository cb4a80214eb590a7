package router

import (
	"github.com/AndrewSinukov/service-bus/messaging"
	"github.com/AndrewSinukov/service-bus/validation"
)

// ValidationFailedEventFactory 在校验失败且配置了 DefaultValidationFailedEvent
// 时用于构造要发布的事件（spec §4.4 步骤 2）。
type ValidationFailedEventFactory func(original messaging.IMessage, violations []validation.Violation) messaging.IMessage

// ThrowableEventFactory 在 handler 抛出错误且配置了 DefaultThrowableEvent
// 时用于构造要发布的事件（spec §4.4 步骤 4）。
type ThrowableEventFactory func(original messaging.IMessage, throwable string, traceID string) messaging.IMessage

// Options 对应 spec 的 HandlerDescriptor.options。
type Options struct {
	// Validate 为 true 时，MessageExecutor 在调用 handler 前先跑校验。
	Validate bool

	// ValidationGroups 传给 validation.IGroupValidator.ValidateGroups。
	ValidationGroups []string

	// DefaultValidationFailedEvent 非空时，校验失败不会抛出 ValidationFailed，
	// 而是发布一个携带违规列表的事件。
	DefaultValidationFailedEvent ValidationFailedEventFactory

	// DefaultThrowableEvent 非空时，handler 抛出的错误会被转换为事件发布，
	// 而不是向 EntryPointProcessor 传播。
	DefaultThrowableEvent ThrowableEventFactory

	// LoggerChannel 是该 handler 专属的日志通道名。
	LoggerChannel string

	// Description 是人类可读的 handler 说明，便于调试/catalog 自省。
	Description string
}

// ExecutionContext 是 handler 在执行期间可见的上下文能力。
//
// kernel.Context 实现了这个接口；router 包本身不依赖 kernel 包，
// 避免 router <-> kernel 之间出现包级别的循环依赖。
type ExecutionContext interface {
	CurrentExecutionOptions() Options
}

// Handler 是一个已解析好依赖的 handler 调用体。
//
// 参数：message 是已解码的领域消息；execCtx 是本次调用安装好 Options 的
// 执行上下文；deps 是按声明类型解析出的额外依赖。
type Handler func(message messaging.IMessage, execCtx ExecutionContext, deps Dependencies) error

// Dependencies 是按字符串类型键解析出的依赖集合，详见 executor 包。
type Dependencies interface {
	// Get 按类型名（完整包路径+类型名）取出一个已解析的依赖。
	Get(key string) (any, bool)
}

// HandlerDescriptor 对应 spec 的 HandlerDescriptor。
type HandlerDescriptor struct {
	MessageType TypeKey
	Invoke      Handler
	Options     Options

	// RequiredDependencies 列出 handler 声明需要注入的依赖类型键，
	// 与 executor.Resolver 的注册键一致。留空表示不需要额外依赖。
	RequiredDependencies []string
}
