package model

// OrderStatus is the fulfilment stage of an order.
type OrderStatus string

const (
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
)

// OrderRecord is a read-only registry entry. Tracking is empty unless a
// carrier number exists.
type OrderRecord struct {
	ID       string      `json:"id"`
	Status   OrderStatus `json:"status"`
	Tracking string      `json:"tracking,omitempty"`
	Delivery string      `json:"delivery"`
}
