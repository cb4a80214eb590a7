package saga

import (
	"encoding/json"
	"fmt"
)

// envelopeVersion 是当前持久化信封格式的版本号。加载到不认识的版本
// 必须立即失败，绝不能静默按旧格式猜测解析（见 DESIGN NOTES）。
const envelopeVersion = 1

// envelope 是写入 StoredSaga.Payload 的序列化外壳：记账字段加上一份
// 不透明的领域状态 JSON。
type envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state,omitempty"`
}

// Codec 在 Instance 和 StoredSaga.Payload 之间转换。
type Codec struct {
	metadata *MetadataRegistry
}

// NewCodec 创建一个绑定到给定元数据注册表的编解码器。
func NewCodec(metadata *MetadataRegistry) *Codec {
	return &Codec{metadata: metadata}
}

// Encode 把一个 saga 实例序列化为不透明 blob。
func (c *Codec) Encode(instance Instance) ([]byte, error) {
	env := envelope{Version: envelopeVersion}

	if stateful, ok := instance.(StatefulInstance); ok {
		stateJSON, err := json.Marshal(stateful.State())
		if err != nil {
			return nil, fmt.Errorf("saga: failed to encode state: %w", err)
		}
		env.State = stateJSON
	}

	return json.Marshal(env)
}

// Decode 把一行存储记录重建为一个 saga 实例。sagaClass 必须有对应的
// 已注册 Metadata.Rehydrate；信封版本不匹配会立即失败。
func (c *Codec) Decode(stored StoredSaga) (Instance, error) {
	meta, ok := c.metadata.Lookup(stored.ID.Class)
	if !ok {
		return nil, fmt.Errorf("saga: no metadata registered for class %s", stored.ID.Class)
	}

	var env envelope
	if err := json.Unmarshal(stored.Payload, &env); err != nil {
		return nil, fmt.Errorf("saga: malformed saga payload: %w", err)
	}
	if env.Version != envelopeVersion {
		return nil, fmt.Errorf("saga: unsupported saga payload version %d (want %d)", env.Version, envelopeVersion)
	}

	base := RestoreBase(stored.ID, stored.Status, stored.CreatedAt, stored.ExpireDate, stored.ClosedAt)
	return meta.Rehydrate(base, env.State)
}
