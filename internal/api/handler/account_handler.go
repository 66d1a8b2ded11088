package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelier/storefront/internal/core/ports"
)

const pathFavorites = "/account/favorites"

// AccountHandler serves the signed-in customer's own area.
type AccountHandler struct {
	accountService ports.AccountService
	orderService   ports.OrderService
	pages          *Pages
}

func NewAccountHandler(accountService ports.AccountService, orderService ports.OrderService, pages *Pages) *AccountHandler {
	return &AccountHandler{accountService: accountService, orderService: orderService, pages: pages}
}

type favoriteRequest struct {
	Slug string `json:"slug" form:"slug" validate:"required,max=200"`
}

type orderItemRequest struct {
	Slug      string `json:"slug" validate:"required"`
	EditionID string `json:"edition_id"`
	Quantity  int    `json:"quantity" validate:"gte=1,max=10"`
}

type placeOrderRequest struct {
	Items []orderItemRequest `json:"items" validate:"required,min=1,max=20,dive"`
}

// Dashboard renders the customer landing page.
//
// @Summary      Customer dashboard
// @Tags         account
// @Produce      json
// @Success      200  {object}  Page
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Router       /dashboard [get]
func (h *AccountHandler) Dashboard(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	dash, err := h.accountService.Dashboard(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Account/Dashboard", dash)
}

// Favorites lists the customer's saved artworks.
//
// @Summary      List favorites
// @Tags         account
// @Produce      json
// @Success      200  {object}  Page
// @Router       /account/favorites [get]
func (h *AccountHandler) Favorites(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	artworks, err := h.accountService.Favorites(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Account/Favorites", map[string]any{"artworks": artworks})
}

// AddFavorite saves an artwork. Saving it twice is a no-op.
//
// @Summary      Add a favorite
// @Tags         account
// @Accept       json
// @Param        X-CSRF-Token  header  string           true  "Anti-forgery token"
// @Param        body          body    favoriteRequest  true  "Artwork to save"
// @Success      204
// @Failure      404  {object}  errorBody
// @Failure      419  {object}  errorBody
// @Router       /account/favorites [post]
func (h *AccountHandler) AddFavorite(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req favoriteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.accountService.AddFavorite(c.Request().Context(), user.ID, req.Slug); err != nil {
		return err
	}
	return h.pages.Done(c, http.StatusNoContent, nil, "Added to your favorites.", pathFavorites)
}

// RemoveFavorite drops a saved artwork. Removing an unsaved artwork is a no-op.
//
// @Summary      Remove a favorite
// @Tags         account
// @Param        X-CSRF-Token  header  string  true  "Anti-forgery token"
// @Param        slug          path    string  true  "Artwork slug"
// @Success      204
// @Failure      404  {object}  errorBody
// @Router       /account/favorites/{slug} [delete]
func (h *AccountHandler) RemoveFavorite(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.accountService.RemoveFavorite(c.Request().Context(), user.ID, c.Param("slug")); err != nil {
		return err
	}
	return h.pages.Done(c, http.StatusNoContent, nil, "Removed from your favorites.", pathFavorites)
}

// RecentViews lists the artworks the customer looked at last.
//
// @Summary      Recently viewed artworks
// @Tags         account
// @Produce      json
// @Success      200  {object}  Page
// @Router       /account/recent-views [get]
func (h *AccountHandler) RecentViews(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	artworks, err := h.accountService.RecentViews(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Account/RecentViews", map[string]any{"artworks": artworks})
}

// Orders lists the customer's own orders.
//
// @Summary      List own orders
// @Tags         account
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Success      200     {object}  Page
// @Router       /account/orders [get]
func (h *AccountHandler) Orders(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	result, err := h.orderService.List(c.Request().Context(), ports.ListOrdersInput{
		UserID: user.ID,
		Status: c.QueryParam("status"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", ports.DefaultPageSize),
	})
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Account/Orders", map[string]any{"orders": result})
}

// Order shows one of the customer's orders. Other customers' orders are reported as missing.
//
// @Summary      Get own order
// @Tags         account
// @Produce      json
// @Param        number  path      string  true  "Order number"
// @Success      200     {object}  Page
// @Failure      404     {object}  errorBody
// @Router       /account/orders/{number} [get]
func (h *AccountHandler) Order(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	order, err := h.orderService.Get(c.Request().Context(), c.Param("number"), user.ID)
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Account/Order", map[string]any{"order": order})
}

// PlaceOrder checks out the requested items at catalogue prices.
//
// @Summary      Place an order
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        X-CSRF-Token  header    string             true  "Anti-forgery token"
// @Param        body          body      placeOrderRequest  true  "Items to buy"
// @Success      201           {object}  domain.Order
// @Failure      404           {object}  errorBody
// @Failure      409           {object}  errorBody
// @Failure      422           {object}  errorBody
// @Router       /account/orders [post]
func (h *AccountHandler) PlaceOrder(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req placeOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	items := make([]ports.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.OrderItemInput{Slug: it.Slug, EditionID: it.EditionID, Quantity: it.Quantity})
	}

	order, err := h.orderService.Place(c.Request().Context(), user.ID, items)
	if err != nil {
		return err
	}
	return h.pages.Done(c, http.StatusCreated, order, "Order "+order.Number+" placed.", "/account/orders/"+order.Number)
}
