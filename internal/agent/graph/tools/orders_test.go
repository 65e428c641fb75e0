package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-support-poc/server/internal/agent/model"
)

func TestDefaultOrderRegistry(t *testing.T) {
	r := DefaultOrderRegistry()
	assert.Equal(t, []string{"ORD123", "ORD456", "ORD789"}, r.IDs())

	rec, ok := r.Lookup(" ord123 ")
	require.True(t, ok)
	assert.Equal(t, model.OrderShipped, rec.Status)
	assert.Equal(t, "TRK789456", rec.Tracking)
	assert.Equal(t, "Expected Dec 28, 2024", rec.Delivery)

	rec, ok = r.Lookup("ORD456")
	require.True(t, ok)
	assert.Equal(t, model.OrderProcessing, rec.Status)
	assert.Empty(t, rec.Tracking)

	_, ok = r.Lookup("ORD999")
	assert.False(t, ok)
}

func TestNewOrderRegistry_NormalizesIDs(t *testing.T) {
	r := NewOrderRegistry([]model.OrderRecord{{ID: " ord1 ", Status: model.OrderDelivered, Delivery: "d"}})
	rec, ok := r.Lookup("ORD1")
	require.True(t, ok)
	assert.Equal(t, "ORD1", rec.ID)
	assert.Equal(t, 1, r.Len())
}
