package domain

import "time"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
	OrderRefunded  OrderStatus = "refunded"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderPaid, OrderCancelled},
	OrderPaid:    {OrderShipped, OrderRefunded},
	OrderShipped: {OrderDelivered},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ReleasesStock reports whether entering this status puts reserved stock back on sale.
func (s OrderStatus) ReleasesStock() bool {
	return s == OrderCancelled || s == OrderRefunded
}

// OrderItem is one line of an order. An empty EditionID means the original.
type OrderItem struct {
	ArtworkID string `json:"artwork_id" bson:"artwork_id"`
	EditionID string `json:"edition_id,omitempty" bson:"edition_id,omitempty"`
	Title     string `json:"title" bson:"title"`
	UnitPrice int64  `json:"unit_price" bson:"unit_price"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// StatusHistoryEntry records a single status transition on an order.
type StatusHistoryEntry struct {
	Status    OrderStatus `json:"status" bson:"status"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
	Notes     string      `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Order is a customer's purchase.
type Order struct {
	ID            string               `json:"id" bson:"_id"`
	Number        string               `json:"number" bson:"number"`
	UserID        string               `json:"user_id" bson:"user_id"`
	Items         []OrderItem          `json:"items" bson:"items"`
	Total         int64                `json:"total" bson:"total"`
	Currency      string               `json:"currency" bson:"currency"`
	Status        OrderStatus          `json:"status" bson:"status"`
	StatusHistory []StatusHistoryEntry `json:"status_history" bson:"status_history"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
}
