package ports

import (
	"context"

	"github.com/atelier/storefront/internal/core/domain"
)

// AuthService registers customers and verifies credentials.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}
