// busd 是一个最小可运行的组合根，演示如何把 router/endpoint/kernel/
// executor/entrypoint/saga/sagastore/snapshot 这些组件装配成一个真正
// 跑起来的服务：一条 order.create 命令触发一个 order saga，saga 发出
// order.confirm 命令和 order.created 事件，都经由内存传输回环投递。
package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/AndrewSinukov/service-bus/codegen/snowflake"
	core "github.com/AndrewSinukov/service-bus/data/db"
	"github.com/AndrewSinukov/service-bus/data/db/basic"
	"github.com/AndrewSinukov/service-bus/endpoint"
	"github.com/AndrewSinukov/service-bus/entrypoint"
	"github.com/AndrewSinukov/service-bus/executor"
	"github.com/AndrewSinukov/service-bus/kernel"
	"github.com/AndrewSinukov/service-bus/logging"
	"github.com/AndrewSinukov/service-bus/messaging"
	"github.com/AndrewSinukov/service-bus/messaging/codec"
	"github.com/AndrewSinukov/service-bus/messaging/transport/memory"
	"github.com/AndrewSinukov/service-bus/router"
	"github.com/AndrewSinukov/service-bus/saga"
	"github.com/AndrewSinukov/service-bus/sagastore"
	"github.com/AndrewSinukov/service-bus/server"
	"github.com/AndrewSinukov/service-bus/snapshot"

	_ "modernc.org/sqlite"
)

const (
	typeOrderCreate  = "order.create"
	typeOrderConfirm = "order.confirm"
	typeOrderCreated = "order.created"
)

// orderSaga 是 saga.Instance 的一个最小实现：收到 order.create 后立刻
// 触发确认命令并广播已创建事件，然后自行完成。
type orderSaga struct {
	saga.Base
}

func (s *orderSaga) State() any { return struct{}{} }

func newOrderSagaMetadata(idGen *snowflake.Generator) saga.Metadata {
	nextID := func() string {
		return strconv.FormatInt(idGen.Generate(), 10)
	}
	return saga.Metadata{
		SagaClass: "order",
		New: func(id saga.ID, createdAt, expireDate time.Time, trigger messaging.IMessage) (saga.Instance, error) {
			s := &orderSaga{Base: saga.NewBase(id, createdAt, expireDate)}
			s.FireCommand(&messaging.Message{ID: nextID(), Type: typeOrderConfirm, Payload: trigger.GetPayload()})
			s.RaiseEvent(&messaging.Message{ID: nextID(), Type: typeOrderCreated, Payload: trigger.GetPayload()})
			s.Complete()
			return s, nil
		},
		Rehydrate: func(base saga.Base, stateJSON []byte) (saga.Instance, error) {
			return &orderSaga{Base: base}, nil
		},
	}
}

// busdServer 实现 server.IServer 的模板方法生命周期钩子。
type busdServer struct {
	db        core.IDatabase
	processor *entrypoint.Processor
	transport *memory.MemoryTransport
	logger    logging.ILogger
}

func (s *busdServer) Name() string { return "busd" }

func (s *busdServer) LoadConfig() error { return nil }

func (s *busdServer) SetupDependencies(ctx context.Context) error {
	logger := logging.GetLogger().WithField("component", "busd")
	s.logger = logger

	db, err := basic.New(core.DBConfig{Driver: "sqlite", Database: "busd.sqlite"})
	if err != nil {
		return err
	}
	s.db = db

	sagaStore := sagastore.NewSQLStore(db, "saga_instance")
	if err := sagaStore.EnsureSchema(ctx); err != nil {
		return err
	}
	snapshotStore := snapshot.NewSQLStore[string](db, "aggregate_snapshot")
	if err := snapshotStore.EnsureSchema(ctx); err != nil {
		return err
	}

	idGen, err := snowflake.NewGenerator(snowflake.DefaultDatacenterID, snowflake.DefaultWorkerID)
	if err != nil {
		return err
	}

	metadataRegistry := saga.NewMetadataRegistry()
	metadataRegistry.MustRegister(newOrderSagaMetadata(idGen))
	sagaCodec := saga.NewCodec(metadataRegistry)
	provider := saga.NewProvider(sagaStore, metadataRegistry, sagaCodec)

	transport := memory.NewMemoryTransport(1024, 4)
	s.transport = transport

	types := codec.NewTypeRegistry()
	types.MustRegister(typeOrderCreate, func() messaging.IMessage { return &messaging.Message{} })
	types.MustRegister(typeOrderConfirm, func() messaging.IMessage { return &messaging.Message{} })
	types.MustRegister(typeOrderCreated, func() messaging.IMessage { return &messaging.Message{} })
	jsonCodec := codec.NewJSONCodec(types)

	typeRegistry := router.NewTypeRegistry()
	typeRegistry.MustDeclare(typeOrderCreate)
	typeRegistry.MustDeclare(typeOrderConfirm)
	typeRegistry.MustDeclare(typeOrderCreated)

	catalog := router.NewCatalogBuilder().
		Register(router.HandlerDescriptor{
			MessageType: typeOrderCreate,
			Invoke: func(message messaging.IMessage, execCtx router.ExecutionContext, deps router.Dependencies) error {
				kctx := execCtx.(*kernel.Context)
				id := saga.ID{Class: "order", Value: message.GetID()}
				_, err := provider.Start(ctx, id, message, kctx)
				return err
			},
		}).
		Register(router.HandlerDescriptor{
			MessageType: typeOrderConfirm,
			Invoke: func(message messaging.IMessage, execCtx router.ExecutionContext, deps router.Dependencies) error {
				logger.Info(ctx, "order confirmed", logging.String("orderId", message.GetID()))
				return nil
			},
		}).
		MustBuild()
	r := router.NewRouter(typeRegistry, catalog)

	exec := executor.New(nil, nil)

	endpoints := endpoint.NewBuilder().
		Bind(router.TypeKey(typeOrderConfirm), endpoint.Ref{Name: "orders", Transport: transport, Destination: typeOrderConfirm}).
		Bind(router.TypeKey(typeOrderCreated), endpoint.Ref{Name: "orders", Transport: transport, Destination: typeOrderCreated}).
		Build()

	processor := entrypoint.New(jsonCodec, r, exec, endpoints, logger)
	s.processor = processor

	handler := entrypoint.NewTransportHandler(processor, jsonCodec, "busd")
	for _, t := range []string{typeOrderCreate, typeOrderConfirm, typeOrderCreated} {
		if err := transport.Subscribe(t, handler); err != nil {
			return err
		}
	}

	return nil
}

func (s *busdServer) StartBackgroundTasks(ctx context.Context) error {
	return s.transport.Start(ctx)
}

func (s *busdServer) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (s *busdServer) Shutdown(ctx context.Context) error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func main() {
	log.SetFlags(0)
	eng := server.NewEngine(&busdServer{}, server.WithVersion("0.1.0"))
	if err := eng.Start(); err != nil {
		log.Println("busd exited with error:", err)
		os.Exit(1)
	}
}
