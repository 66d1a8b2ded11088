package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

const defaultCurrency = "EUR"

type ArtworkService struct {
	repo   ports.ArtworkRepository
	views  ports.RecentViewStore
	logger zerolog.Logger
}

func NewArtworkService(repo ports.ArtworkRepository, views ports.RecentViewStore, logger zerolog.Logger) *ArtworkService {
	return &ArtworkService{repo: repo, views: views, logger: logger}
}

func (s *ArtworkService) ListPublished(ctx context.Context, in ports.ListArtworksInput) (*ports.Page[*domain.Artwork], error) {
	return s.list(ctx, in, false)
}

func (s *ArtworkService) ListAll(ctx context.Context, in ports.ListArtworksInput) (*ports.Page[*domain.Artwork], error) {
	return s.list(ctx, in, true)
}

func (s *ArtworkService) list(ctx context.Context, in ports.ListArtworksInput, includeUnpublished bool) (*ports.Page[*domain.Artwork], error) {
	page, limit := ports.NormalizePage(in.Page, in.Limit)
	sort := in.Sort
	switch sort {
	case ports.SortPriceAsc, ports.SortPriceDesc:
	default:
		sort = ports.SortNewest
	}

	items, total, err := s.repo.List(ctx, ports.ListArtworksFilter{
		IncludeUnpublished: includeUnpublished,
		Artist:             strings.TrimSpace(in.Artist),
		Medium:             strings.TrimSpace(in.Medium),
		Search:             strings.TrimSpace(in.Search),
		Sort:               sort,
		Page:               page,
		Limit:              limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list artworks: %w", err)
	}
	return ports.NewPage(items, total, page, limit), nil
}

// GetPublished returns a published artwork. Unpublished artworks are reported
// as not found so drafts never leak to the gallery.
func (s *ArtworkService) GetPublished(ctx context.Context, slug, viewerID string) (*domain.Artwork, error) {
	a, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !a.Published {
		return nil, domain.ErrArtworkNotFound
	}

	if viewerID != "" && s.views != nil {
		if err := s.views.Push(ctx, viewerID, a.Slug); err != nil {
			s.logger.Warn().Err(err).Str("user_id", viewerID).Str("slug", a.Slug).Msg("failed to record recent view")
		}
	}
	return a, nil
}

func (s *ArtworkService) Get(ctx context.Context, id string) (*domain.Artwork, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ArtworkService) Create(ctx context.Context, in ports.ArtworkInput) (*domain.Artwork, error) {
	now := time.Now().UTC()
	a := &domain.Artwork{
		ID:        uuid.NewString(),
		CreatedAt: now,
	}
	if err := applyArtworkInput(a, in, now); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info().Str("artwork_id", a.ID).Str("slug", a.Slug).Msg("artwork created")
	return a, nil
}

// Update replaces the editable fields. Sold counts of existing editions are
// preserved; editions missing from the input are removed.
func (s *ArtworkService) Update(ctx context.Context, id string, in ports.ArtworkInput) (*domain.Artwork, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyArtworkInput(a, in, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info().Str("artwork_id", a.ID).Msg("artwork updated")
	return a, nil
}

func (s *ArtworkService) SetPublished(ctx context.Context, id string, published bool) (*domain.Artwork, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Published = published
	a.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info().Str("artwork_id", a.ID).Bool("published", published).Msg("artwork visibility changed")
	return a, nil
}

func (s *ArtworkService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("artwork_id", id).Msg("artwork deleted")
	return nil
}

func applyArtworkInput(a *domain.Artwork, in ports.ArtworkInput, now time.Time) error {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.Price < 0 {
		return fmt.Errorf("%w: title is required and price must not be negative", domain.ErrInvalidArtwork)
	}

	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return fmt.Errorf("%w: cannot derive a slug from %q", domain.ErrInvalidArtwork, title)
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	editions := make([]domain.Edition, 0, len(in.Editions))
	for _, e := range in.Editions {
		if e.EditionSize <= 0 || e.Price < 0 {
			return fmt.Errorf("%w: edition %q needs a positive size", domain.ErrInvalidArtwork, e.Name)
		}
		ed := domain.Edition{
			ID:          e.ID,
			Name:        strings.TrimSpace(e.Name),
			Size:        strings.TrimSpace(e.Size),
			Price:       e.Price,
			EditionSize: e.EditionSize,
		}
		if existing, ok := a.Edition(e.ID); ok && e.ID != "" {
			ed.Sold = existing.Sold
			if ed.EditionSize < ed.Sold {
				return fmt.Errorf("%w: edition %q already sold %d prints", domain.ErrInvalidArtwork, ed.Name, ed.Sold)
			}
		} else {
			ed.ID = uuid.NewString()
		}
		editions = append(editions, ed)
	}

	a.Slug = slug
	a.Title = title
	a.Artist = strings.TrimSpace(in.Artist)
	a.Description = strings.TrimSpace(in.Description)
	a.Medium = strings.TrimSpace(in.Medium)
	a.Year = in.Year
	a.Dimensions = strings.TrimSpace(in.Dimensions)
	a.Price = in.Price
	a.Currency = currency
	a.OriginalAvailable = in.OriginalAvailable
	a.Published = in.Published
	a.Editions = editions
	a.UpdatedAt = now
	return nil
}

// Slugify lower-cases s and joins its letters and digits with single dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
