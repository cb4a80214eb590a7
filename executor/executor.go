package executor

import (
	"context"

	apperrors "github.com/AndrewSinukov/service-bus/errors"
	"github.com/AndrewSinukov/service-bus/kernel"
	"github.com/AndrewSinukov/service-bus/messaging"
	"github.com/AndrewSinukov/service-bus/router"
	"github.com/AndrewSinukov/service-bus/validation"
)

// Executor 执行一个 HandlerDescriptor，实现 §4.4 的五个步骤。
type Executor struct {
	validator validation.IGroupValidator
	resolver  Resolver
}

// New 创建一个 Executor。validator 为 nil 时等价于总是通过的校验器。
func New(validator validation.IGroupValidator, resolver Resolver) *Executor {
	if validator == nil {
		validator = validation.NoopGroupValidator{}
	}
	if resolver == nil {
		resolver = Resolver{}
	}
	return &Executor{validator: validator, resolver: resolver}
}

// Run 对一条消息执行一个 handler 描述符。
func (e *Executor) Run(ctx context.Context, desc router.HandlerDescriptor, msg messaging.IMessage, kctx *kernel.Context) error {
	// 步骤 1：安装本次调用的选项，供 handler 通过 context 读取。
	kctx.InstallOptions(desc.Options)

	// 步骤 2：按需校验。
	if desc.Options.Validate {
		violations, err := e.validator.ValidateGroups(ctx, msg, desc.Options.ValidationGroups)
		if err != nil {
			return err
		}
		if len(violations) > 0 {
			if desc.Options.DefaultValidationFailedEvent != nil {
				evt := desc.Options.DefaultValidationFailedEvent(msg, violations)
				return kctx.Publish(ctx, evt, nil)
			}
			return apperrors.NewValidationFailedError("validation failed", violationDetails(violations))
		}
	}

	// 步骤 3：解析依赖。
	deps, err := e.resolver.Resolve(desc.RequiredDependencies)
	if err != nil {
		return err
	}

	// 步骤 4：调用 handler，按需把抛出的错误转译成事件。
	invokeErr := apperrors.Normalize(desc.Invoke(msg, kctx, deps))
	if invokeErr != nil {
		if desc.Options.DefaultThrowableEvent != nil {
			evt := desc.Options.DefaultThrowableEvent(msg, invokeErr.Error(), kctx.TraceID())
			return kctx.Publish(ctx, evt, nil)
		}
		return invokeErr
	}

	return nil
}

func violationDetails(violations []validation.Violation) map[string]any {
	details := make(map[string]any, 1)
	details["violations"] = violations
	return details
}

func newArgumentResolutionError(key string, cause error) error {
	if cause == nil {
		return apperrors.NewArgumentResolutionFailedError("no resolver registered for dependency: " + key)
	}
	return apperrors.NewArgumentResolutionFailedError("failed to resolve dependency " + key + ": " + cause.Error())
}
