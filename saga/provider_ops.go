package saga

import (
	"context"
	"time"

	apperrors "github.com/AndrewSinukov/service-bus/errors"
	"github.com/AndrewSinukov/service-bus/logging"
	"github.com/AndrewSinukov/service-bus/messaging"
)

// Start 实现 §4.5 start：查元数据、计算过期时间、实例化并运行 start
// 入口、持久化。返回存活的 saga 实例。
func (p *Provider) Start(ctx context.Context, id ID, trigger messaging.IMessage, dctx DeliveryContext) (Instance, error) {
	unlock := p.locks.Lock(id.String())
	defer unlock()

	meta, ok := p.metadata.Lookup(id.Class)
	if !ok {
		return nil, apperrors.NewSagaMetaDataNotFoundError(id.Class)
	}

	createdAt := time.Now()
	expireDate := meta.expireDate(createdAt)

	instance, err := meta.New(id, createdAt, expireDate, trigger)
	if err != nil {
		return nil, apperrors.NewStartSagaFailedError("saga constructor failed", err)
	}

	if err := p.doStore(ctx, instance, dctx, true); err != nil {
		if apperrors.GetErrorCode(err) == apperrors.ErrCodeUniqueConstraintViolation {
			return nil, apperrors.NewDuplicateSagaIDError(id.String(), err)
		}
		return nil, apperrors.NewStartSagaFailedError("failed to persist new saga", err)
	}

	return instance, nil
}

// Obtain 实现 §4.5 obtain：加载、检测过期、按需关闭过期 saga。
func (p *Provider) Obtain(ctx context.Context, id ID, dctx DeliveryContext) (Instance, error) {
	unlock := p.locks.Lock(id.String())
	defer unlock()

	stored, err := p.store.Load(ctx, id)
	if err != nil {
		return nil, apperrors.NewLoadSagaFailedError("failed to load saga", err)
	}
	if stored == nil {
		return nil, nil
	}

	instance, err := p.codec.Decode(*stored)
	if err != nil {
		return nil, apperrors.NewLoadSagaFailedError("failed to decode saga payload", err)
	}

	if instance.ExpireDate().After(time.Now()) {
		return instance, nil
	}

	if err := p.doCloseExpired(ctx, instance, dctx); err != nil {
		return nil, apperrors.NewLoadSagaFailedError("failed to close expired saga", err)
	}
	return nil, apperrors.NewExpiredSagaLoadedError(id.String())
}

// Save 实现 §4.5 save：要求行必须已存在，否则拒绝隐式 upsert 一个
// 从未 start 过的 saga（见 DESIGN.md 的 Open Question 决定）。
func (p *Provider) Save(ctx context.Context, instance Instance, dctx DeliveryContext) error {
	id := instance.ID()
	unlock := p.locks.Lock(id.String())
	defer unlock()

	existing, err := p.store.Load(ctx, id)
	if err != nil {
		return apperrors.NewSaveSagaFailedError("failed to check existing saga row", err)
	}
	if existing == nil {
		return apperrors.NewSaveSagaFailedError("saga row does not exist; use Start", nil)
	}

	if err := p.doStore(ctx, instance, dctx, false); err != nil {
		return apperrors.NewSaveSagaFailedError("failed to persist saga", err)
	}
	return nil
}

// doCloseExpired 实现 §4.5：inProgress 的 saga 转为 expired 并保存；
// 其余状态不做任何事。
func (p *Provider) doCloseExpired(ctx context.Context, instance Instance, dctx DeliveryContext) error {
	if instance.Status() != StatusInProgress {
		return nil
	}
	instance.MakeExpired()
	return p.doStore(ctx, instance, dctx, false)
}

// doStore 实现 §4.5 doStore 的四个步骤：序列化、提取队列、
// 带重试的持久化、持久化成功后按顺序投递并清空队列。
func (p *Provider) doStore(ctx context.Context, instance Instance, dctx DeliveryContext, isNew bool) error {
	payload, err := p.codec.Encode(instance)
	if err != nil {
		return err
	}

	stored := StoredSaga{
		ID:         instance.ID(),
		Status:     instance.Status(),
		Payload:    payload,
		CreatedAt:  instance.CreatedAt(),
		ExpireDate: instance.ExpireDate(),
		ClosedAt:   instance.ClosedAt(),
	}

	persistErr := p.retryTransientStorageErrors(ctx, func(ctx context.Context) error {
		if isNew {
			return p.store.Save(ctx, stored)
		}
		return p.store.Update(ctx, stored)
	})
	if persistErr != nil {
		return persistErr
	}

	cmds, evts := instance.TakeFiredMessages()
	if dctx == nil {
		return nil
	}
	for _, cmd := range cmds {
		if err := dctx.Delivery(ctx, cmd, nil); err != nil {
			componentLogger().Error(ctx, "failed to deliver fired command after saga persisted",
				logging.String("sagaId", instance.ID().String()), logging.Error(err))
			return err
		}
	}
	for _, evt := range evts {
		if err := dctx.Delivery(ctx, evt, nil); err != nil {
			componentLogger().Error(ctx, "failed to deliver raised event after saga persisted",
				logging.String("sagaId", instance.ID().String()), logging.Error(err))
			return err
		}
	}
	return nil
}
