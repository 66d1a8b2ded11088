package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelier/storefront/internal/core/ports"
)

const pathAdminArtworks = "/admin/artworks"

// AdminArtworkHandler manages the catalogue.
type AdminArtworkHandler struct {
	artworkService ports.ArtworkService
	pages          *Pages
}

func NewAdminArtworkHandler(artworkService ports.ArtworkService, pages *Pages) *AdminArtworkHandler {
	return &AdminArtworkHandler{artworkService: artworkService, pages: pages}
}

type editionRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required,max=120"`
	Size        string `json:"size" validate:"max=60"`
	Price       int64  `json:"price" validate:"gt=0"`
	EditionSize int    `json:"edition_size" validate:"gte=1"`
}

type artworkRequest struct {
	Slug              string           `json:"slug" validate:"max=200"`
	Title             string           `json:"title" validate:"required,max=200"`
	Artist            string           `json:"artist" validate:"required,max=120"`
	Description       string           `json:"description" validate:"max=5000"`
	Medium            string           `json:"medium" validate:"required,max=120"`
	Year              int              `json:"year" validate:"gte=0,max=9999"`
	Dimensions        string           `json:"dimensions" validate:"max=120"`
	Price             int64            `json:"price" validate:"gte=0"`
	Currency          string           `json:"currency" validate:"required,len=3"`
	OriginalAvailable bool             `json:"original_available"`
	Published         bool             `json:"published"`
	Editions          []editionRequest `json:"editions" validate:"max=20,dive"`
}

func (r artworkRequest) toInput() ports.ArtworkInput {
	in := ports.ArtworkInput{
		Slug:              r.Slug,
		Title:             r.Title,
		Artist:            r.Artist,
		Description:       r.Description,
		Medium:            r.Medium,
		Year:              r.Year,
		Dimensions:        r.Dimensions,
		Price:             r.Price,
		Currency:          r.Currency,
		OriginalAvailable: r.OriginalAvailable,
		Published:         r.Published,
		Editions:          make([]ports.EditionInput, 0, len(r.Editions)),
	}
	for _, e := range r.Editions {
		in.Editions = append(in.Editions, ports.EditionInput{
			ID:          e.ID,
			Name:        e.Name,
			Size:        e.Size,
			Price:       e.Price,
			EditionSize: e.EditionSize,
		})
	}
	return in
}

// Index lists the whole catalogue, drafts included.
//
// @Summary      List artworks (admin)
// @Tags         admin-artworks
// @Produce      json
// @Param        artist  query     string  false  "Exact artist"
// @Param        medium  query     string  false  "Exact medium"
// @Param        search  query     string  false  "Partial match on title or artist"
// @Param        sort    query     string  false  "newest | price_asc | price_desc"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Success      200     {object}  Page
// @Router       /admin/artworks [get]
func (h *AdminArtworkHandler) Index(c echo.Context) error {
	result, err := h.artworkService.ListAll(c.Request().Context(), ports.ListArtworksInput{
		Artist: c.QueryParam("artist"),
		Medium: c.QueryParam("medium"),
		Search: c.QueryParam("search"),
		Sort:   c.QueryParam("sort"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", ports.DefaultPageSize),
	})
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Admin/Artworks/Index", map[string]any{"artworks": result})
}

// Show renders one artwork by id.
//
// @Summary      Get artwork (admin)
// @Tags         admin-artworks
// @Produce      json
// @Param        id   path      string  true  "Artwork ID"
// @Success      200  {object}  Page
// @Failure      404  {object}  errorBody
// @Router       /admin/artworks/{id} [get]
func (h *AdminArtworkHandler) Show(c echo.Context) error {
	artwork, err := h.artworkService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Admin/Artworks/Edit", map[string]any{"artwork": artwork})
}

// Create adds an artwork to the catalogue.
//
// @Summary      Create artwork
// @Tags         admin-artworks
// @Accept       json
// @Produce      json
// @Param        X-CSRF-Token  header    string          true  "Anti-forgery token"
// @Param        body          body      artworkRequest  true  "Artwork"
// @Success      201           {object}  domain.Artwork
// @Failure      409           {object}  errorBody
// @Failure      422           {object}  errorBody
// @Router       /admin/artworks [post]
func (h *AdminArtworkHandler) Create(c echo.Context) error {
	var req artworkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	artwork, err := h.artworkService.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return h.pages.Done(c, http.StatusCreated, artwork, "Artwork created.", pathAdminArtworks+"/"+artwork.ID)
}

// Update replaces an artwork's editable fields.
//
// @Summary      Update artwork
// @Tags         admin-artworks
// @Accept       json
// @Produce      json
// @Param        X-CSRF-Token  header    string          true  "Anti-forgery token"
// @Param        id            path      string          true  "Artwork ID"
// @Param        body          body      artworkRequest  true  "Artwork"
// @Success      200           {object}  domain.Artwork
// @Failure      404           {object}  errorBody
// @Failure      409           {object}  errorBody
// @Failure      422           {object}  errorBody
// @Router       /admin/artworks/{id} [put]
func (h *AdminArtworkHandler) Update(c echo.Context) error {
	var req artworkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	artwork, err := h.artworkService.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return h.pages.Done(c, http.StatusOK, artwork, "Artwork updated.", pathAdminArtworks+"/"+artwork.ID)
}

// Publish makes an artwork visible in the gallery.
//
// @Summary      Publish artwork
// @Tags         admin-artworks
// @Produce      json
// @Param        X-CSRF-Token  header    string  true  "Anti-forgery token"
// @Param        id            path      string  true  "Artwork ID"
// @Success      200           {object}  domain.Artwork
// @Failure      404           {object}  errorBody
// @Router       /admin/artworks/{id}/publish [post]
func (h *AdminArtworkHandler) Publish(c echo.Context) error {
	return h.setPublished(c, true, "Artwork published.")
}

// Unpublish hides an artwork from the gallery.
//
// @Summary      Unpublish artwork
// @Tags         admin-artworks
// @Produce      json
// @Param        X-CSRF-Token  header    string  true  "Anti-forgery token"
// @Param        id            path      string  true  "Artwork ID"
// @Success      200           {object}  domain.Artwork
// @Failure      404           {object}  errorBody
// @Router       /admin/artworks/{id}/publish [delete]
func (h *AdminArtworkHandler) Unpublish(c echo.Context) error {
	return h.setPublished(c, false, "Artwork unpublished.")
}

func (h *AdminArtworkHandler) setPublished(c echo.Context, published bool, flash string) error {
	artwork, err := h.artworkService.SetPublished(c.Request().Context(), c.Param("id"), published)
	if err != nil {
		return err
	}
	return h.pages.Done(c, http.StatusOK, artwork, flash, pathAdminArtworks+"/"+artwork.ID)
}

// Delete removes an artwork.
//
// @Summary      Delete artwork
// @Tags         admin-artworks
// @Param        X-CSRF-Token  header  string  true  "Anti-forgery token"
// @Param        id            path    string  true  "Artwork ID"
// @Success      204
// @Failure      404  {object}  errorBody
// @Router       /admin/artworks/{id} [delete]
func (h *AdminArtworkHandler) Delete(c echo.Context) error {
	if err := h.artworkService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return h.pages.Done(c, http.StatusNoContent, nil, "Artwork deleted.", pathAdminArtworks)
}
