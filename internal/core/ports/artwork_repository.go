package ports

import (
	"context"

	"github.com/atelier/storefront/internal/core/domain"
)

// Artwork listing sort orders.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// ListArtworksFilter carries all query parameters for listing artworks.
type ListArtworksFilter struct {
	IncludeUnpublished bool   // admin listings only
	Artist             string // optional: exact artist, case-insensitive
	Medium             string // optional: exact medium, case-insensitive
	Search             string // optional: partial match on title or artist
	Sort               string // newest (default), price_asc, price_desc
	Page               int
	Limit              int
}

// ArtworkCounts are the catalogue counters shown on the admin dashboard.
type ArtworkCounts struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
}

// ArtworkRepository defines persistence operations for the catalogue.
type ArtworkRepository interface {
	Create(ctx context.Context, a *domain.Artwork) error
	Update(ctx context.Context, a *domain.Artwork) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Artwork, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Artwork, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Artwork, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]*domain.Artwork, error)
	List(ctx context.Context, filter ListArtworksFilter) ([]*domain.Artwork, int64, error)
	Counts(ctx context.Context) (*ArtworkCounts, error)

	// ReserveEdition atomically increments the sold count if enough prints remain,
	// returning domain.ErrEditionSoldOut otherwise.
	ReserveEdition(ctx context.Context, artworkID string, edition domain.Edition, qty int) error
	ReleaseEdition(ctx context.Context, artworkID, editionID string, qty int) error
	// ReserveOriginal flips original_available off, returning domain.ErrOriginalSold
	// when another order got there first.
	ReserveOriginal(ctx context.Context, artworkID string) error
	ReleaseOriginal(ctx context.Context, artworkID string) error
}

// FavoriteRepository stores the customer's saved artworks.
type FavoriteRepository interface {
	// Add is idempotent.
	Add(ctx context.Context, userID, artworkID string) error
	Remove(ctx context.Context, userID, artworkID string) error
	// ListArtworkIDs returns saved artwork ids, most recent first.
	ListArtworkIDs(ctx context.Context, userID string) ([]string, error)
	Count(ctx context.Context, userID string) (int64, error)
}
