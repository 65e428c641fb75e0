package tools

import (
	"sort"
	"strings"

	"github.com/Chative-support-poc/server/internal/agent/model"
)

// ===================================
// Order Registry
// ===================================

// OrderRegistry is a read-only lookup of orders by identifier.
type OrderRegistry struct {
	orders map[string]model.OrderRecord
}

// NewOrderRegistry indexes records by their upper-cased id. Later duplicates win.
func NewOrderRegistry(records []model.OrderRecord) *OrderRegistry {
	r := &OrderRegistry{orders: make(map[string]model.OrderRecord, len(records))}
	for _, rec := range records {
		id := NormalizeOrderID(rec.ID)
		rec.ID = id
		r.orders[id] = rec
	}
	return r
}

// DefaultOrderRegistry returns the registry seeded with MockOrders.
func DefaultOrderRegistry() *OrderRegistry {
	return NewOrderRegistry(MockOrders)
}

// Lookup returns the record for id after normalisation.
func (r *OrderRegistry) Lookup(id string) (model.OrderRecord, bool) {
	rec, ok := r.orders[NormalizeOrderID(id)]
	return rec, ok
}

// IDs lists the registered order ids in lexical order.
func (r *OrderRegistry) IDs() []string {
	ids := make([]string, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of orders.
func (r *OrderRegistry) Len() int {
	return len(r.orders)
}

// NormalizeOrderID upper-cases and trims a raw identifier.
func NormalizeOrderID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

var MockOrders = []model.OrderRecord{
	{
		ID:       "ORD123",
		Status:   model.OrderShipped,
		Tracking: "TRK789456",
		Delivery: "Expected Dec 28, 2024",
	},
	{
		ID:       "ORD456",
		Status:   model.OrderProcessing,
		Delivery: "Expected Dec 30, 2024",
	},
	{
		ID:       "ORD789",
		Status:   model.OrderDelivered,
		Tracking: "TRK123789",
		Delivery: "Delivered Dec 25, 2024",
	},
}
