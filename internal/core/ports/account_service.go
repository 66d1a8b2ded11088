package ports

import (
	"context"

	"github.com/atelier/storefront/internal/core/domain"
)

// CustomerDashboard is the landing page of a logged-in customer.
type CustomerDashboard struct {
	RecentOrders   []*domain.Order   `json:"recent_orders"`
	FavoritesCount int64             `json:"favorites_count"`
	RecentViews    []*domain.Artwork `json:"recent_views"`
}

// AccountService covers the customer's own favorites, recent views and dashboard.
type AccountService interface {
	Favorites(ctx context.Context, userID string) ([]*domain.Artwork, error)
	AddFavorite(ctx context.Context, userID, slug string) error
	RemoveFavorite(ctx context.Context, userID, slug string) error
	RecentViews(ctx context.Context, userID string) ([]*domain.Artwork, error)
	Dashboard(ctx context.Context, userID string) (*CustomerDashboard, error)
}
