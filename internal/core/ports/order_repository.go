package ports

import (
	"context"
	"time"

	"github.com/atelier/storefront/internal/core/domain"
)

// ListOrdersFilter carries all query parameters for listing orders.
type ListOrdersFilter struct {
	UserID string // empty = all customers (admin)
	Status string // optional
	Page   int
	Limit  int
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	// FindByNumber retrieves an order. When userID is non-empty the lookup is
	// scoped to that customer.
	FindByNumber(ctx context.Context, number, userID string) (*domain.Order, error)
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, int64, error)
	// UpdateStatus moves an order from `from` to `to` and appends a history entry.
	// It returns domain.ErrInvalidTransition when the stored status is no longer `from`.
	UpdateStatus(ctx context.Context, number string, from, to domain.OrderStatus, at time.Time, notes string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
