package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelier/storefront/internal/core/ports"
)

type AdminOrderHandler struct {
	orderService ports.OrderService
	pages        *Pages
}

func NewAdminOrderHandler(orderService ports.OrderService, pages *Pages) *AdminOrderHandler {
	return &AdminOrderHandler{orderService: orderService, pages: pages}
}

type updateStatusRequest struct {
	Status string `json:"status" form:"status" validate:"required,oneof=pending paid shipped delivered cancelled refunded"`
	Notes  string `json:"notes" form:"notes" validate:"max=500"`
}

// Index lists orders across all customers.
//
// @Summary      List orders (admin)
// @Tags         admin-orders
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Success      200     {object}  Page
// @Router       /admin/orders [get]
func (h *AdminOrderHandler) Index(c echo.Context) error {
	result, err := h.orderService.List(c.Request().Context(), ports.ListOrdersInput{
		Status: c.QueryParam("status"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", ports.DefaultPageSize),
	})
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Admin/Orders/Index", map[string]any{"orders": result})
}

// Show renders one order.
//
// @Summary      Get order (admin)
// @Tags         admin-orders
// @Produce      json
// @Param        number  path      string  true  "Order number"
// @Success      200     {object}  Page
// @Failure      404     {object}  errorBody
// @Router       /admin/orders/{number} [get]
func (h *AdminOrderHandler) Show(c echo.Context) error {
	order, err := h.orderService.Get(c.Request().Context(), c.Param("number"), "")
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Admin/Orders/Show", map[string]any{"order": order})
}

// UpdateStatus moves an order along its status machine.
//
// @Summary      Update order status
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        X-CSRF-Token  header    string               true  "Anti-forgery token"
// @Param        number        path      string               true  "Order number"
// @Param        body          body      updateStatusRequest  true  "Target status"
// @Success      200           {object}  domain.Order
// @Failure      404           {object}  errorBody
// @Failure      422           {object}  errorBody
// @Router       /admin/orders/{number}/status [put]
func (h *AdminOrderHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.orderService.UpdateStatus(c.Request().Context(), c.Param("number"), req.Status, req.Notes)
	if err != nil {
		return err
	}
	return h.pages.Done(c, http.StatusOK, order, "Order "+order.Number+" is now "+string(order.Status)+".", "/admin/orders/"+order.Number)
}
