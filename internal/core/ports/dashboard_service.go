package ports

import (
	"context"

	"github.com/atelier/storefront/internal/core/domain"
)

// AdminDashboard aggregates the back-office counters.
type AdminDashboard struct {
	Users          *UserStats              `json:"users"`
	Artworks       *ArtworkCounts          `json:"artworks"`
	OrdersByStatus map[string]int64        `json:"orders_by_status"`
	SecurityEvents []*domain.SecurityEvent `json:"security_events"`
}

// DashboardService builds the admin dashboard and serves the security log viewer.
type DashboardService interface {
	Admin(ctx context.Context) (*AdminDashboard, error)
	SecurityEvents(ctx context.Context, filter SecurityEventFilter) (*Page[*domain.SecurityEvent], error)
}
