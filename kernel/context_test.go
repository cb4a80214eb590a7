package kernel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewSinukov/service-bus/endpoint"
	"github.com/AndrewSinukov/service-bus/logging"
	"github.com/AndrewSinukov/service-bus/messaging"
	"github.com/AndrewSinukov/service-bus/router"
)

type fakeTransport struct {
	published []messaging.IMessage
	failWith  error
}

func (t *fakeTransport) Publish(ctx context.Context, message messaging.IMessage) error {
	if t.failWith != nil {
		return t.failWith
	}
	t.published = append(t.published, message)
	return nil
}
func (t *fakeTransport) PublishAll(ctx context.Context, messages []messaging.IMessage) error {
	for _, m := range messages {
		if err := t.Publish(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
func (t *fakeTransport) Subscribe(messageType string, handler messaging.IMessageHandler) error   { return nil }
func (t *fakeTransport) Unsubscribe(messageType string, handler messaging.IMessageHandler) error { return nil }
func (t *fakeTransport) Start(ctx context.Context) error                                         { return nil }
func (t *fakeTransport) Close() error                                                             { return nil }
func (t *fakeTransport) Stats() messaging.TransportStats                                         { return messaging.TransportStats{} }

func newTestPkg(traceID string) messaging.IncomingPackage {
	return messaging.NewIncomingPackage("p1", traceID, nil, nil,
		func(ctx context.Context) error { return nil },
		func(ctx context.Context, requeue bool) error { return nil })
}

func TestContext_SendRoutesToUniqueEndpoint(t *testing.T) {
	tr := &fakeTransport{}
	endpoints := endpoint.NewBuilder().
		Bind("order.create", endpoint.Ref{Name: "orders", Transport: tr, Destination: "orders.create"}).
		Build()

	ctx := NewContext(newTestPkg("trace-1"), endpoints, logging.NewNoopLogger())
	cmd := &messaging.Message{ID: "m1", Type: "order.create", Metadata: map[string]interface{}{}}

	err := ctx.Send(context.Background(), cmd, nil)
	require.NoError(t, err)
	require.Len(t, tr.published, 1)
	assert.Equal(t, "trace-1", tr.published[0].GetMetadata()["trace_id"])
}

func TestContext_SendFailsWithoutEndpoint(t *testing.T) {
	endpoints := endpoint.NewBuilder().Build()
	ctx := NewContext(newTestPkg("t1"), endpoints, logging.NewNoopLogger())
	cmd := &messaging.Message{ID: "m1", Type: "order.create", Metadata: map[string]interface{}{}}

	err := ctx.Send(context.Background(), cmd, nil)
	assert.Error(t, err)
}

func TestContext_PublishFansOutToAllEndpoints(t *testing.T) {
	tr1 := &fakeTransport{}
	tr2 := &fakeTransport{}
	endpoints := endpoint.NewBuilder().
		Bind("order.created", endpoint.Ref{Name: "a", Transport: tr1}).
		Bind("order.created", endpoint.Ref{Name: "b", Transport: tr2}).
		Build()

	ctx := NewContext(newTestPkg("t1"), endpoints, logging.NewNoopLogger())
	evt := &messaging.Message{ID: "e1", Type: "order.created", Metadata: map[string]interface{}{}}

	err := ctx.Publish(context.Background(), evt, nil)
	require.NoError(t, err)
	assert.Len(t, tr1.published, 1)
	assert.Len(t, tr2.published, 1)
}

func TestContext_PublishNoMatchIsNotAnError(t *testing.T) {
	endpoints := endpoint.NewBuilder().Build()
	ctx := NewContext(newTestPkg("t1"), endpoints, logging.NewNoopLogger())
	evt := &messaging.Message{ID: "e1", Type: "order.created", Metadata: map[string]interface{}{}}

	err := ctx.Publish(context.Background(), evt, nil)
	assert.NoError(t, err)
}

func TestContext_DeliveryDispatchesByMessageType(t *testing.T) {
	tr := &fakeTransport{}
	endpoints := endpoint.NewBuilder().
		Bind(router.TypeKey(messaging.MessageTypeCommand), endpoint.Ref{Name: "cmds", Transport: tr}).
		Build()
	ctx := NewContext(newTestPkg("t1"), endpoints, logging.NewNoopLogger())

	cmd := &messaging.Message{ID: "c1", Type: messaging.MessageTypeCommand, Metadata: map[string]interface{}{}}
	require.NoError(t, ctx.Delivery(context.Background(), cmd, nil))
	assert.Len(t, tr.published, 1)
}

func TestContext_StampDoesNotOverrideExplicitTraceID(t *testing.T) {
	tr := &fakeTransport{}
	endpoints := endpoint.NewBuilder().
		Bind("order.create", endpoint.Ref{Name: "a", Transport: tr}).
		Build()
	ctx := NewContext(newTestPkg("pkg-trace"), endpoints, logging.NewNoopLogger())

	cmd := &messaging.Message{ID: "m1", Type: "order.create", Metadata: map[string]interface{}{}}
	delay := 2 * time.Second
	require.NoError(t, ctx.Send(context.Background(), cmd, &DeliveryOptions{TraceID: "explicit", DeliveryDelay: &delay}))

	assert.Equal(t, "explicit", tr.published[0].GetMetadata()["trace_id"])
	assert.Equal(t, "2s", tr.published[0].GetMetadata()["delivery_delay"])
}

func TestContext_InstallOptionsIsVisibleToHandler(t *testing.T) {
	ctx := NewContext(newTestPkg("t1"), endpoint.NewBuilder().Build(), logging.NewNoopLogger())
	ctx.InstallOptions(router.Options{LoggerChannel: "orders"})
	assert.Equal(t, "orders", ctx.CurrentExecutionOptions().LoggerChannel)
}
