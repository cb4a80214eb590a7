package saga

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewSinukov/service-bus/messaging"
)

func noopNew(id ID, createdAt, expireDate time.Time, trigger messaging.IMessage) (Instance, error) {
	s := &orderSaga{Base: NewBase(id, createdAt, expireDate)}
	return s, nil
}

func noopRehydrate(base Base, stateJSON []byte) (Instance, error) {
	return &orderSaga{Base: base}, nil
}

func TestMetadataRegistry_RegisterRejectsIncompleteMetadata(t *testing.T) {
	reg := NewMetadataRegistry()

	assert.Error(t, reg.Register(Metadata{}))
	assert.Error(t, reg.Register(Metadata{SagaClass: "order"}))
	assert.Error(t, reg.Register(Metadata{SagaClass: "order", New: noopNew}))
}

func TestMetadataRegistry_RegisterRejectsDuplicateClass(t *testing.T) {
	reg := NewMetadataRegistry()
	meta := Metadata{SagaClass: "order", New: noopNew, Rehydrate: noopRehydrate}
	require.NoError(t, reg.Register(meta))

	err := reg.Register(meta)
	assert.Error(t, err)
}

func TestMetadataRegistry_LookupReturnsRegisteredMetadata(t *testing.T) {
	reg := NewMetadataRegistry()
	meta := Metadata{SagaClass: "order", New: noopNew, Rehydrate: noopRehydrate}
	reg.MustRegister(meta)

	got, ok := reg.Lookup("order")
	assert.True(t, ok)
	assert.Equal(t, "order", got.SagaClass)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestMetadata_ExpireDateDefaultsTo24Hours(t *testing.T) {
	meta := Metadata{SagaClass: "order", New: noopNew, Rehydrate: noopRehydrate}
	createdAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, createdAt.Add(24*time.Hour), meta.expireDate(createdAt))
}

func TestMetadata_ExpireDateUsesCustomModifier(t *testing.T) {
	meta := Metadata{
		SagaClass:          "order",
		New:                noopNew,
		Rehydrate:          noopRehydrate,
		ExpireDateModifier: func(createdAt time.Time) time.Time { return createdAt.Add(time.Minute) },
	}
	createdAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, createdAt.Add(time.Minute), meta.expireDate(createdAt))
}
