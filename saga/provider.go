package saga

import (
	"context"
	"time"

	apperrors "github.com/AndrewSinukov/service-bus/errors"
	"github.com/AndrewSinukov/service-bus/kernel"
	"github.com/AndrewSinukov/service-bus/logging"
	"github.com/AndrewSinukov/service-bus/messaging"
	"github.com/AndrewSinukov/service-bus/patterns/retry"
)

func componentLogger() logging.ILogger {
	return logging.ComponentLogger("saga.provider")
}

// storeRetryConfig 实现 §4.5 doStore 的重试策略：最多 5 次尝试，
// 2000ms 常量退避（BackoffFactor 1.0 令 retry.Do 的指数退避退化为常量）。
var storeRetryConfig = retry.Config{
	MaxAttempts:   5,
	InitialDelay:  2000 * time.Millisecond,
	BackoffFactor: 1.0,
	MaxDelay:      2000 * time.Millisecond,
}

// DeliveryContext 是 SagaProvider 投递已持久化消息所需的最小能力；
// kernel.Context 结构性地满足它。
type DeliveryContext interface {
	Delivery(ctx context.Context, msg messaging.IMessage, opts *kernel.DeliveryOptions) error
}

// Provider 实现 C10 SagaProvider：start/obtain/save 三个生命周期操作，
// 过期处理，瞬时存储错误重试，以及"先持久化再投递"的发送语义。
type Provider struct {
	store    Store
	metadata *MetadataRegistry
	codec    *Codec
	locks    *keyedLock
}

// NewProvider 组合一个 saga 生命周期管理器。
func NewProvider(store Store, metadata *MetadataRegistry, codec *Codec) *Provider {
	return &Provider{store: store, metadata: metadata, codec: codec, locks: newKeyedLock()}
}

// retryTransientStorageErrors 只对 ConnectionFailed/StorageInteractingFailed
// 重试，其余错误立即返回（见 §4.5 doStore 步骤 3 和 §7 传播策略）。
func (p *Provider) retryTransientStorageErrors(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error
	wrapped := func(ctx context.Context) error {
		err := op(ctx)
		lastErr = err
		if err == nil {
			return nil
		}
		if !apperrors.IsTransientStorageError(err) {
			// 非瞬时错误：不再重试，把它当作"重试循环已终止"上报。
			return nil
		}
		return err
	}
	_ = retry.Do(ctx, wrapped, storeRetryConfig)
	return lastErr
}
