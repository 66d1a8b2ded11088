package ports

import (
	"context"

	"github.com/atelier/storefront/internal/core/domain"
)

// SecurityEventFilter carries the log viewer's query parameters.
type SecurityEventFilter struct {
	Kind     string
	Severity string
	UserID   string
	Page     int
	Limit    int
}

// SecurityEventRepository persists the access-control audit trail.
type SecurityEventRepository interface {
	Insert(ctx context.Context, event *domain.SecurityEvent) error
	List(ctx context.Context, filter SecurityEventFilter) ([]*domain.SecurityEvent, int64, error)
}

// SecurityAuditor accepts audit events without blocking the caller.
type SecurityAuditor interface {
	Record(event domain.SecurityEvent)
}
