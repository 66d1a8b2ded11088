package ports

import (
	"context"
	"time"

	"github.com/atelier/storefront/internal/core/domain"
)

// ListUsersFilter carries the query parameters for the admin user listing.
type ListUsersFilter struct {
	Role   string // optional: matches the primary role or any legacy role
	Banned *bool  // optional: shadow-ban state
	Search string // optional: partial match on name or email
	Page   int    // 1-based
	Limit  int
}

// UserStats are the counters shown on the admin dashboard.
type UserStats struct {
	Total  int64            `json:"total"`
	ByRole map[string]int64 `json:"by_role"`
	Banned int64            `json:"banned"`
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	// SetRole replaces the user's role and drops any legacy role assignments.
	SetRole(ctx context.Context, id string, role domain.Role, at time.Time) error
	SetShadowBan(ctx context.Context, id string, banned bool, reason string, at time.Time) error
	// FindWithLegacyRoles returns users still carrying imported role arrays.
	FindWithLegacyRoles(ctx context.Context) ([]*domain.User, error)
	Stats(ctx context.Context) (*UserStats, error)
}
