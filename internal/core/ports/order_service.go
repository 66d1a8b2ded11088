package ports

import (
	"context"

	"github.com/atelier/storefront/internal/core/domain"
)

// OrderItemInput is one requested line of a new order. An empty EditionID
// requests the original.
type OrderItemInput struct {
	Slug      string
	EditionID string
	Quantity  int
}

// ListOrdersInput is the order listing query as received from the transport layer.
type ListOrdersInput struct {
	UserID string
	Status string
	Page   int
	Limit  int
}

// OrderService defines customer and admin order operations.
type OrderService interface {
	Place(ctx context.Context, userID string, items []OrderItemInput) (*domain.Order, error)
	List(ctx context.Context, input ListOrdersInput) (*Page[*domain.Order], error)
	// Get retrieves an order by number; a non-empty userID scopes the lookup to that customer.
	Get(ctx context.Context, number, userID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, number, status, notes string) (*domain.Order, error)
}
