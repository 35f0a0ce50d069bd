package kafka

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	UserID string `json:"user_id"`
	Total  int    `json:"total"`
}

func TestNewEvent(t *testing.T) {
	evt, err := NewEvent("storefront.cart.updated", "user-1", "cart", "cart-service", samplePayload{UserID: "user-1", Total: 3})
	require.NoError(t, err)

	assert.Equal(t, "storefront.cart.updated", evt.EventType)
	assert.Equal(t, "user-1", evt.AggregateID)
	assert.Equal(t, "cart", evt.AggregateType)
	assert.Equal(t, "cart-service", evt.Source)
	assert.Equal(t, 1, evt.Version)
	assert.False(t, evt.Timestamp.IsZero())

	_, err = uuid.Parse(evt.EventID)
	assert.NoError(t, err)
}

func TestEvent_DataRoundTrip(t *testing.T) {
	evt, err := NewEvent("storefront.cart.updated", "user-1", "cart", "cart-service", samplePayload{UserID: "user-1", Total: 3})
	require.NoError(t, err)

	var got samplePayload
	require.NoError(t, evt.UnmarshalData(&got))
	assert.Equal(t, samplePayload{UserID: "user-1", Total: 3}, got)
}

func TestNewEvent_UnserializableData(t *testing.T) {
	_, err := NewEvent("x", "y", "z", "s", make(chan int))
	assert.Error(t, err)
}
