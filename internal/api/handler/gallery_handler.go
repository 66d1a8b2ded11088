package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/atelier/storefront/internal/api/middleware"
	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

const featuredCount = 8

type GalleryHandler struct {
	artworkService ports.ArtworkService
	pages          *Pages
}

func NewGalleryHandler(artworkService ports.ArtworkService, pages *Pages) *GalleryHandler {
	return &GalleryHandler{artworkService: artworkService, pages: pages}
}

type galleryFilters struct {
	Artist string `json:"artist"`
	Medium string `json:"medium"`
	Search string `json:"search"`
	Sort   string `json:"sort"`
}

// Home renders the landing page with the newest published artworks.
//
// @Summary      Home page
// @Tags         gallery
// @Produce      json
// @Success      200  {object}  Page
// @Router       / [get]
func (h *GalleryHandler) Home(c echo.Context) error {
	featured, err := h.artworkService.ListPublished(c.Request().Context(), ports.ListArtworksInput{
		Sort:  ports.SortNewest,
		Page:  1,
		Limit: featuredCount,
	})
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Home", map[string]any{"featured": featured.Items})
}

// Index lists published artworks.
//
// @Summary      Browse the gallery
// @Tags         gallery
// @Produce      json
// @Param        artist  query     string  false  "Exact artist, case-insensitive"
// @Param        medium  query     string  false  "Exact medium, case-insensitive"
// @Param        search  query     string  false  "Partial match on title or artist"
// @Param        sort    query     string  false  "newest | price_asc | price_desc"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Success      200     {object}  Page
// @Router       /gallery [get]
func (h *GalleryHandler) Index(c echo.Context) error {
	filters := galleryFilters{
		Artist: c.QueryParam("artist"),
		Medium: c.QueryParam("medium"),
		Search: c.QueryParam("search"),
		Sort:   c.QueryParam("sort"),
	}
	result, err := h.artworkService.ListPublished(c.Request().Context(), ports.ListArtworksInput{
		Artist: filters.Artist,
		Medium: filters.Medium,
		Search: filters.Search,
		Sort:   filters.Sort,
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", ports.DefaultPageSize),
	})
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Gallery/Index", map[string]any{
		"artworks": result,
		"filters":  filters,
	})
}

// Show renders one published artwork. Signed-in customers get the visit
// recorded in their recent views.
//
// @Summary      Artwork detail
// @Tags         gallery
// @Produce      json
// @Param        slug  path      string  true  "Artwork slug"
// @Success      200   {object}  Page
// @Failure      404   {object}  errorBody
// @Router       /gallery/{slug} [get]
func (h *GalleryHandler) Show(c echo.Context) error {
	var viewerID string
	if u := middleware.CurrentUser(c); u != nil && !u.HasAmbiguousRoles() && u.HasRole(domain.RoleCustomer) && !u.IsShadowBanned {
		viewerID = u.ID
	}

	artwork, err := h.artworkService.GetPublished(c.Request().Context(), c.Param("slug"), viewerID)
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Gallery/Show", map[string]any{"artwork": artwork})
}
