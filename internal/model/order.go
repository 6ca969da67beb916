package model

import "time"

// OrderStatus tracks an order line through the kitchen/bar pipeline.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPreparing OrderStatus = "PREPARING"
	OrderReady     OrderStatus = "READY"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Cancellable reports whether an order in this status may still be
// cancelled.  Delivered orders are final; cancellation additionally always
// requires manager authorization, which is enforced by the billing service.
func (s OrderStatus) Cancellable() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady:
		return true
	}
	return false
}

// OrderLine is one (product, quantity) entry of a batch submission.
type OrderLine struct {
	ProductID uint64 `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Order is one persisted order record as returned by the billing service.
// A batch submission of N cart lines yields N of these.
type Order struct {
	ID        uint64      `json:"id"`
	GuestID   uint64      `json:"guestId"`
	ProductID uint64      `json:"productId"`
	Product   string      `json:"product,omitempty"`
	Quantity  int         `json:"quantity"`
	Amount    Centavos    `json:"amount"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}
