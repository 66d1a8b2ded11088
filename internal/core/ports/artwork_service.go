package ports

import (
	"context"

	"github.com/atelier/storefront/internal/core/domain"
)

// EditionInput describes a print edition on create/update.
type EditionInput struct {
	ID          string // empty for new editions
	Name        string
	Size        string
	Price       int64
	EditionSize int
}

// ArtworkInput carries all editable fields of an artwork.
type ArtworkInput struct {
	Slug              string // optional; derived from Title when empty
	Title             string
	Artist            string
	Description       string
	Medium            string
	Year              int
	Dimensions        string
	Price             int64
	Currency          string
	OriginalAvailable bool
	Published         bool
	Editions          []EditionInput
}

// ListArtworksInput is the gallery query as received from the transport layer.
type ListArtworksInput struct {
	Artist string
	Medium string
	Search string
	Sort   string
	Page   int
	Limit  int
}

// ArtworkService covers public gallery browsing and admin catalogue management.
type ArtworkService interface {
	ListPublished(ctx context.Context, input ListArtworksInput) (*Page[*domain.Artwork], error)
	// GetPublished returns a published artwork by slug; a non-empty viewerID
	// records the visit in the viewer's recent views.
	GetPublished(ctx context.Context, slug, viewerID string) (*domain.Artwork, error)

	ListAll(ctx context.Context, input ListArtworksInput) (*Page[*domain.Artwork], error)
	Get(ctx context.Context, id string) (*domain.Artwork, error)
	Create(ctx context.Context, input ArtworkInput) (*domain.Artwork, error)
	Update(ctx context.Context, id string, input ArtworkInput) (*domain.Artwork, error)
	SetPublished(ctx context.Context, id string, published bool) (*domain.Artwork, error)
	Delete(ctx context.Context, id string) error
}
