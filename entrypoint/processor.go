// Package entrypoint 驱动每个传入包的完整处理流水线：
// 解码 -> 路由 -> 按顺序执行 handler -> 确认。
package entrypoint

import (
	"context"

	"github.com/AndrewSinukov/service-bus/endpoint"
	apperrors "github.com/AndrewSinukov/service-bus/errors"
	"github.com/AndrewSinukov/service-bus/executor"
	"github.com/AndrewSinukov/service-bus/kernel"
	"github.com/AndrewSinukov/service-bus/logging"
	"github.com/AndrewSinukov/service-bus/messaging"
	"github.com/AndrewSinukov/service-bus/messaging/codec"
	"github.com/AndrewSinukov/service-bus/router"
)

// Processor 是 EntryPointProcessor：没有可变的实例状态，持有的协作者
// 全部在构造后冻结，因此对不同 package 的并发 Handle 调用是安全的。
type Processor struct {
	decoder   codec.IMessageDecoder
	router    *router.Router
	exec      *executor.Executor
	endpoints *endpoint.Router
	logger    logging.ILogger
}

// New 组合一个入口处理器。
func New(decoder codec.IMessageDecoder, r *router.Router, exec *executor.Executor, endpoints *endpoint.Router, logger logging.ILogger) *Processor {
	return &Processor{decoder: decoder, router: r, exec: exec, endpoints: endpoints, logger: logger}
}

// Handle 实现 §4.1 的四个步骤。只有 ack/nack 本身的传输层错误才会从这里
// 逃逸；所有 handler/领域错误都被吸收并记录。
func (p *Processor) Handle(ctx context.Context, pkg messaging.IncomingPackage) error {
	// 步骤 1：解码。
	msg, err := p.decoder.Decode(pkg)
	if err != nil {
		p.logger.Error(ctx, "decode failed",
			logging.String("packageId", pkg.ID()),
			logging.String("traceId", pkg.TraceID()),
			logging.String("payload", string(pkg.Payload())),
			logging.Error(err))
		return pkg.Ack(ctx)
	}

	// 步骤 2：路由。
	matched := p.router.Match(router.TypeKey(msg.GetType()))
	if len(matched) == 0 {
		p.logger.Debug(ctx, "no handlers matched",
			logging.String("packageId", pkg.ID()),
			logging.String("messageType", msg.GetType()))
		return pkg.Ack(ctx)
	}

	// 步骤 3：按路由顺序依次执行，单个 executor 失败不影响后续 executor。
	for _, desc := range matched {
		kctx := kernel.NewContext(pkg, p.endpoints, p.logger)
		if runErr := p.exec.Run(ctx, desc, msg, kctx); runErr != nil {
			p.logger.Error(ctx, "handler failed",
				logging.String("packageId", pkg.ID()),
				logging.String("messageType", string(desc.MessageType)),
				logging.String("errorCode", string(apperrors.GetErrorCode(runErr))),
				logging.Error(runErr))
		}
	}

	// 步骤 4：确认。
	return pkg.Ack(ctx)
}
