package saga

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_EncodeDecodeRoundTrip(t *testing.T) {
	metadata := NewMetadataRegistry()
	metadata.MustRegister(newOrderSagaMetadata())
	codec := NewCodec(metadata)

	id := ID{Value: "o1", Class: "order"}
	original := &orderSaga{Base: NewBase(id, time.Now(), time.Now().Add(time.Hour)), OrderID: "o1"}

	payload, err := codec.Encode(original)
	require.NoError(t, err)

	stored := StoredSaga{
		ID: id, Status: original.Status(), Payload: payload,
		CreatedAt: original.CreatedAt(), ExpireDate: original.ExpireDate(),
	}
	decoded, err := codec.Decode(stored)
	require.NoError(t, err)
	assert.Equal(t, id, decoded.ID())
	assert.Equal(t, StatusInProgress, decoded.Status())
}

func TestCodec_DecodeFailsLoudlyOnUnknownEnvelopeVersion(t *testing.T) {
	metadata := NewMetadataRegistry()
	metadata.MustRegister(newOrderSagaMetadata())
	codec := NewCodec(metadata)

	badEnvelope, err := json.Marshal(envelope{Version: envelopeVersion + 1})
	require.NoError(t, err)

	stored := StoredSaga{ID: ID{Value: "o1", Class: "order"}, Payload: badEnvelope}
	_, err = codec.Decode(stored)
	assert.Error(t, err)
}

func TestCodec_DecodeFailsWhenMetadataMissing(t *testing.T) {
	metadata := NewMetadataRegistry()
	codec := NewCodec(metadata)

	stored := StoredSaga{ID: ID{Value: "o1", Class: "unknown"}, Payload: []byte(`{"version":1}`)}
	_, err := codec.Decode(stored)
	assert.Error(t, err)
}
