package ports

import (
	"context"
	"time"

	"github.com/atelier/storefront/internal/core/domain"
)

// SessionStore persists server-side session state.
type SessionStore interface {
	// Get returns domain.ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session, ttl time.Duration) error
	Destroy(ctx context.Context, id string) error
}

// RecentViewStore keeps a short, newest-first list of artworks a user looked at.
type RecentViewStore interface {
	Push(ctx context.Context, userID, slug string) error
	List(ctx context.Context, userID string, limit int) ([]string, error)
}
