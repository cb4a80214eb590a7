// Package kernel 提供每条消息一份的执行上下文：handler 通过它发送/
// 发布后续消息、写结构化日志，并读取当前生效的执行选项。
package kernel

import (
	"context"
	"time"

	"github.com/AndrewSinukov/service-bus/endpoint"
	apperrors "github.com/AndrewSinukov/service-bus/errors"
	"github.com/AndrewSinukov/service-bus/logging"
	"github.com/AndrewSinukov/service-bus/messaging"
	"github.com/AndrewSinukov/service-bus/router"
)

// DeliveryOptions 携带一次 send/publish/delivery 调用的传递选项。
type DeliveryOptions struct {
	// TraceID 为空时沿用 incoming package 的 traceId。
	TraceID string

	// Headers 会被合并进消息的 Metadata（已存在的 key 不会被覆盖）。
	Headers map[string]string

	// DeliveryDelay 非空时表示期望的投递延迟；是否生效取决于底层传输。
	DeliveryDelay *time.Duration
}

// Context 是每条消息独享的执行上下文，绝不跨消息共享。
//
// 同一个 Context 上的 InstallOptions/CurrentExecutionOptions 只在
// EntryPointProcessor 对同一个 package 顺序调用 executor 期间使用，
// 不需要额外同步（见 §5 Ordering guarantees：一个 package 内的
// executor 严格顺序执行）。
type Context struct {
	pkg       messaging.IncomingPackage
	endpoints *endpoint.Router
	logger    logging.ILogger

	currentOptions router.Options
}

// NewContext 为一个 incoming package 构造一个全新的执行上下文。
func NewContext(pkg messaging.IncomingPackage, endpoints *endpoint.Router, logger logging.ILogger) *Context {
	return &Context{pkg: pkg, endpoints: endpoints, logger: logger}
}

// InstallOptions 由 executor 在调用用户 handler 之前安装本次调用的选项。
func (c *Context) InstallOptions(opts router.Options) {
	c.currentOptions = opts
}

// CurrentExecutionOptions 实现 router.ExecutionContext。
func (c *Context) CurrentExecutionOptions() router.Options {
	return c.currentOptions
}

// TraceID 返回本次消息处理关联的 trace id（取自 incoming package）。
func (c *Context) TraceID() string {
	if c.pkg == nil {
		return ""
	}
	return c.pkg.TraceID()
}

// Send 把 cmd 路由到唯一一个命令端点；零个或多于一个端点都是
// EndpointNotConfigured 错误。
func (c *Context) Send(ctx context.Context, cmd messaging.IMessage, opts *DeliveryOptions) error {
	ref, err := c.endpoints.ResolveCommand(router.TypeKey(cmd.GetType()))
	if err != nil {
		return apperrors.NewEndpointNotConfiguredError(cmd.GetType())
	}
	c.stamp(cmd, opts)
	return ref.Transport.Publish(ctx, cmd)
}

// Publish 把 evt 扇出到所有匹配的事件端点；零个匹配不是错误，只记 debug 日志。
func (c *Context) Publish(ctx context.Context, evt messaging.IMessage, opts *DeliveryOptions) error {
	refs := c.endpoints.ResolveEvent(router.TypeKey(evt.GetType()))
	if len(refs) == 0 {
		c.logger.Debug(ctx, "publish: no endpoint configured", logging.String("messageType", evt.GetType()))
		return nil
	}
	c.stamp(evt, opts)
	for _, ref := range refs {
		if err := ref.Transport.Publish(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

// Delivery 对命令调用 Send，对其余一切（事件、查询）调用 Publish。
func (c *Context) Delivery(ctx context.Context, msg messaging.IMessage, opts *DeliveryOptions) error {
	if msg.GetType() == messaging.MessageTypeCommand {
		return c.Send(ctx, msg, opts)
	}
	return c.Publish(ctx, msg, opts)
}

// LogContextMessage 把日志路由到当前生效 handler options 声明的 channel。
func (c *Context) LogContextMessage(ctx context.Context, message messaging.IMessage, text string, level logging.Level, extra map[string]any) {
	channel := c.currentOptions.LoggerChannel
	if channel == "" {
		channel = "default"
	}
	fields := make([]logging.Field, 0, len(extra)+2)
	fields = append(fields, logging.String("channel", channel))
	if message != nil {
		fields = append(fields, logging.String("messageId", message.GetID()))
	}
	for k, v := range extra {
		fields = append(fields, logging.Any(k, v))
	}

	switch level {
	case logging.DebugLevel:
		c.logger.Debug(ctx, text, fields...)
	case logging.WarnLevel:
		c.logger.Warn(ctx, text, fields...)
	case logging.ErrorLevel:
		c.logger.Error(ctx, text, fields...)
	default:
		c.logger.Info(ctx, text, fields...)
	}
}

// stamp 把 traceId 和 headers 写入消息的 Metadata，缺省时取自 incoming package。
func (c *Context) stamp(msg messaging.IMessage, opts *DeliveryOptions) {
	meta := msg.GetMetadata()
	if meta == nil {
		return
	}

	traceID := ""
	var headers map[string]string
	if opts != nil {
		traceID = opts.TraceID
		headers = opts.Headers
	}
	if traceID == "" && c.pkg != nil {
		traceID = c.pkg.TraceID()
	}
	if traceID != "" {
		if _, ok := meta["trace_id"]; !ok {
			meta["trace_id"] = traceID
		}
	}
	for k, v := range headers {
		if _, ok := meta[k]; !ok {
			meta[k] = v
		}
	}
	if opts != nil && opts.DeliveryDelay != nil {
		meta["delivery_delay"] = opts.DeliveryDelay.String()
	}
}
