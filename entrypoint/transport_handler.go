package entrypoint

import (
	"context"

	"github.com/AndrewSinukov/service-bus/messaging"
	"github.com/AndrewSinukov/service-bus/messaging/codec"
)

// TransportHandler 适配 messaging.IMessageHandler，把推送式传输
// （如 memory/sync，直接交付已反序列化的 IMessage）接入字节导向的
// Decode -> Route -> FanOut -> Ack 流水线：先用 encoder 把消息重新编码
// 为负载字节并打上类型头，再包成一个立即可 ack 的 IncomingPackage 交给
// Processor.Handle。这样同一个 Processor 既能服务 wire 传输
// （natsjetstream/redisstreams，原生交付字节），也能服务进程内传输。
type TransportHandler struct {
	processor *Processor
	encoder   codec.IMessageEncoder
	name      string
}

// NewTransportHandler 创建一个绑定到给定 Processor 的传输层处理器适配。
func NewTransportHandler(processor *Processor, encoder codec.IMessageEncoder, name string) *TransportHandler {
	return &TransportHandler{processor: processor, encoder: encoder, name: name}
}

// Handle 实现 messaging.IMessageHandler。
func (h *TransportHandler) Handle(ctx context.Context, message messaging.IMessage) error {
	payload, err := h.encoder.Encode(message)
	if err != nil {
		return err
	}
	headers := map[string]string{codec.HeaderMessageType: message.GetType()}
	pkg := messaging.NewIncomingPackage(message.GetID(), "", payload, headers,
		func(ctx context.Context) error { return nil },
		func(ctx context.Context, requeue bool) error { return nil })
	return h.processor.Handle(ctx, pkg)
}

// Type 实现 messaging.IMessageHandler。
func (h *TransportHandler) Type() string {
	if h.name != "" {
		return h.name
	}
	return "entrypoint.TransportHandler"
}

var _ messaging.IMessageHandler = (*TransportHandler)(nil)
