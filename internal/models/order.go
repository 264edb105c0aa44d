package models

import "time"

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// CanCancel reports whether an order in this status may still be cancelled.
// Delivered and already-cancelled orders are final.
func (s OrderStatus) CanCancel() bool {
	return s == OrderStatusProcessing || s == OrderStatusShipped
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}

	return false
}

// Address uses the same camelCase keys the original checkout form persisted.
type Address struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Address1  string `json:"address1" validate:"required"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Zip       string `json:"zip" validate:"required"`
	Country   string `json:"country" validate:"required"`
}

// Order is a completed checkout. Items are independent copies of the cart
// line items at purchase time, so later cart edits never touch history.
type Order struct {
	ID                string      `json:"id"`
	Items             []LineItem  `json:"items"`
	Total             string      `json:"total"`
	Date              time.Time   `json:"date"`
	Status            OrderStatus `json:"status"`
	ShippingAddress   Address     `json:"shipping"`
	TrackingID        string      `json:"trackingId,omitempty"`
	EstimatedDelivery time.Time   `json:"estimatedDelivery"`
}

type CancelOrderRequest struct {
	Confirm bool `json:"confirm" validate:"required"`
}

type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}

// OrderStats are derived on every read, never persisted, so they cannot
// drift from the order history itself.
type OrderStats struct {
	TotalOrders    int    `json:"total_orders"`
	DeliveredCount int    `json:"delivered_count"`
	PendingCount   int    `json:"pending_count"`
	TotalSpent     string `json:"total_spent"`
}

type TrackingInfo struct {
	OrderID           string      `json:"order_id"`
	TrackingID        string      `json:"tracking_id,omitempty"`
	Status            OrderStatus `json:"status"`
	EstimatedDelivery time.Time   `json:"estimated_delivery"`
	Available         bool        `json:"available"`
}
