package dialogue

import (
	"fmt"

	"github.com/Chative-support-poc/server/internal/agent/graph/tools"
	"github.com/Chative-support-poc/server/internal/agent/model"
)

// LookupStatus reports the status of rawID and remembers it as the last
// referenced order, found or not.
func (e *Engine) LookupStatus(state *model.DialogueState, rawID string) string {
	id := tools.NormalizeOrderID(rawID)
	if state != nil {
		state.LastOrderID = id
	}

	order, ok := e.orders.Lookup(id)
	if !ok {
		return notFound(id)
	}

	switch order.Status {
	case model.OrderShipped:
		return fmt.Sprintf("Order %s: %s - Tracking: %s - %s", id, order.Status, order.Tracking, order.Delivery)
	default:
		return fmt.Sprintf("Order %s: %s - %s", id, order.Status, order.Delivery)
	}
}

// CancelOrder answers a cancellation request. The registry is left untouched:
// the reply is advisory only.
func (e *Engine) CancelOrder(rawID string) string {
	id := tools.NormalizeOrderID(rawID)

	order, ok := e.orders.Lookup(id)
	if !ok {
		return notFound(id)
	}

	switch order.Status {
	case model.OrderProcessing:
		return fmt.Sprintf("Order %s has been successfully cancelled. You will receive a confirmation email shortly.", id)
	case model.OrderShipped:
		return fmt.Sprintf("Order %s has already shipped and cannot be cancelled. Please contact support for return options.", id)
	case model.OrderDelivered:
		return fmt.Sprintf("Order %s has been delivered and cannot be cancelled. Please see our return policy for options.", id)
	default:
		return notFound(id)
	}
}

func notFound(id string) string {
	return fmt.Sprintf("Order %s not found. Please check your order number or contact support.", id)
}
