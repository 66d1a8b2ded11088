package ports

import (
	"context"

	"github.com/atelier/storefront/internal/core/domain"
)

// ListUsersInput is the admin listing query as received from the transport layer.
type ListUsersInput struct {
	Role   string
	Banned *bool
	Search string
	Page   int
	Limit  int
}

// RoleRepair describes what normalize-roles did to one account.
type RoleRepair struct {
	UserID  string      `json:"user_id"`
	Email   string      `json:"email"`
	Before  []string    `json:"before"`
	After   domain.Role `json:"after"`
	Demoted bool        `json:"demoted"`
}

// UserService defines the admin back-office operations on accounts.
type UserService interface {
	List(ctx context.Context, input ListUsersInput) (*Page[*domain.User], error)
	Get(ctx context.Context, id string) (*domain.User, error)
	AssignRole(ctx context.Context, actor *domain.User, userID, role string) (*domain.User, error)
	ShadowBan(ctx context.Context, actor *domain.User, userID, reason string) (*domain.User, error)
	LiftShadowBan(ctx context.Context, actor *domain.User, userID string) (*domain.User, error)
	NormalizeRoles(ctx context.Context) ([]RoleRepair, error)
}
