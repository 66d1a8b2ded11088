package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

const (
	recentViewsShown      = 12
	dashboardRecentOrders = 5
)

// AccountService implements the customer's own account area.
type AccountService struct {
	favorites ports.FavoriteRepository
	artworks  ports.ArtworkRepository
	views     ports.RecentViewStore
	orders    ports.OrderRepository
	log       zerolog.Logger
}

func NewAccountService(
	favorites ports.FavoriteRepository,
	artworks ports.ArtworkRepository,
	views ports.RecentViewStore,
	orders ports.OrderRepository,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		favorites: favorites,
		artworks:  artworks,
		views:     views,
		orders:    orders,
		log:       log,
	}
}

// Favorites returns saved artworks, most recently saved first. Artworks that
// were deleted or unpublished since are skipped.
func (s *AccountService) Favorites(ctx context.Context, userID string) ([]*domain.Artwork, error) {
	ids, err := s.favorites.ListArtworkIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Artwork{}, nil
	}

	found, err := s.artworks.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	byID := make(map[string]*domain.Artwork, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}
	return orderedPublished(ids, byID), nil
}

func (s *AccountService) AddFavorite(ctx context.Context, userID, slug string) error {
	a, err := s.artworks.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if !a.Published {
		return domain.ErrArtworkNotFound
	}
	return s.favorites.Add(ctx, userID, a.ID)
}

func (s *AccountService) RemoveFavorite(ctx context.Context, userID, slug string) error {
	a, err := s.artworks.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.favorites.Remove(ctx, userID, a.ID)
}

// RecentViews resolves the recent-view list to artworks, preserving its order.
// Without a view store (memory session driver) the list is always empty.
func (s *AccountService) RecentViews(ctx context.Context, userID string) ([]*domain.Artwork, error) {
	if s.views == nil {
		return []*domain.Artwork{}, nil
	}
	slugs, err := s.views.List(ctx, userID, recentViewsShown)
	if err != nil {
		return nil, fmt.Errorf("recent views: %w", err)
	}
	if len(slugs) == 0 {
		return []*domain.Artwork{}, nil
	}

	found, err := s.artworks.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, fmt.Errorf("recent views: %w", err)
	}
	bySlug := make(map[string]*domain.Artwork, len(found))
	for _, a := range found {
		bySlug[a.Slug] = a
	}
	return orderedPublished(slugs, bySlug), nil
}

func (s *AccountService) Dashboard(ctx context.Context, userID string) (*ports.CustomerDashboard, error) {
	orders, _, err := s.orders.List(ctx, ports.ListOrdersFilter{UserID: userID, Page: 1, Limit: dashboardRecentOrders})
	if err != nil {
		return nil, fmt.Errorf("dashboard orders: %w", err)
	}
	favCount, err := s.favorites.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard favorites: %w", err)
	}

	// Recent views live in Redis; the dashboard still renders without them.
	views, err := s.RecentViews(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("dashboard recent views unavailable")
		views = []*domain.Artwork{}
	}

	if orders == nil {
		orders = []*domain.Order{}
	}
	return &ports.CustomerDashboard{
		RecentOrders:   orders,
		FavoritesCount: favCount,
		RecentViews:    views,
	}, nil
}

func orderedPublished(keys []string, index map[string]*domain.Artwork) []*domain.Artwork {
	out := make([]*domain.Artwork, 0, len(keys))
	for _, k := range keys {
		if a, ok := index[k]; ok && a.Published {
			out = append(out, a)
		}
	}
	return out
}
