package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

const dashboardSecurityEvents = 10

type DashboardService struct {
	users    ports.UserRepository
	artworks ports.ArtworkRepository
	orders   ports.OrderRepository
	events   ports.SecurityEventRepository
}

func NewDashboardService(
	users ports.UserRepository,
	artworks ports.ArtworkRepository,
	orders ports.OrderRepository,
	events ports.SecurityEventRepository,
) *DashboardService {
	return &DashboardService{users: users, artworks: artworks, orders: orders, events: events}
}

func (s *DashboardService) Admin(ctx context.Context) (*ports.AdminDashboard, error) {
	users, err := s.users.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard users: %w", err)
	}
	artworks, err := s.artworks.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard artworks: %w", err)
	}
	byStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard orders: %w", err)
	}
	events, _, err := s.events.List(ctx, ports.SecurityEventFilter{Page: 1, Limit: dashboardSecurityEvents})
	if err != nil {
		return nil, fmt.Errorf("dashboard security events: %w", err)
	}
	if events == nil {
		events = []*domain.SecurityEvent{}
	}

	return &ports.AdminDashboard{
		Users:          users,
		Artworks:       artworks,
		OrdersByStatus: byStatus,
		SecurityEvents: events,
	}, nil
}

// SecurityEvents pages the access-control audit trail for the log viewer.
func (s *DashboardService) SecurityEvents(ctx context.Context, f ports.SecurityEventFilter) (*ports.Page[*domain.SecurityEvent], error) {
	page, limit := ports.NormalizePage(f.Page, f.Limit)
	f.Page, f.Limit = page, limit
	f.Kind = strings.TrimSpace(f.Kind)
	f.Severity = strings.TrimSpace(f.Severity)
	f.UserID = strings.TrimSpace(f.UserID)

	items, total, err := s.events.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list security events: %w", err)
	}
	return ports.NewPage(items, total, page, limit), nil
}
