package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/atelier/storefront/internal/core/ports"
)

type AdminDashboardHandler struct {
	dashboardService ports.DashboardService
	pages            *Pages
}

func NewAdminDashboardHandler(dashboardService ports.DashboardService, pages *Pages) *AdminDashboardHandler {
	return &AdminDashboardHandler{dashboardService: dashboardService, pages: pages}
}

// Dashboard renders the back-office counters.
//
// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Success      200  {object}  Page
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Router       /admin [get]
func (h *AdminDashboardHandler) Dashboard(c echo.Context) error {
	dash, err := h.dashboardService.Admin(c.Request().Context())
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Admin/Dashboard", dash)
}

// SecurityEvents pages the access-control audit trail, newest first.
//
// @Summary      Security event log
// @Tags         admin
// @Produce      json
// @Param        kind      query     string  false  "Event kind"
// @Param        severity  query     string  false  "info | warn | error"
// @Param        user_id   query     string  false  "User ID"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Page size (default 20, max 100)"
// @Success      200       {object}  Page
// @Router       /admin/security-events [get]
func (h *AdminDashboardHandler) SecurityEvents(c echo.Context) error {
	filter := ports.SecurityEventFilter{
		Kind:     c.QueryParam("kind"),
		Severity: c.QueryParam("severity"),
		UserID:   c.QueryParam("user_id"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", ports.DefaultPageSize),
	}
	result, err := h.dashboardService.SecurityEvents(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Admin/SecurityEvents", map[string]any{
		"events": result,
		"filters": map[string]string{
			"kind":     filter.Kind,
			"severity": filter.Severity,
			"user_id":  filter.UserID,
		},
	})
}
