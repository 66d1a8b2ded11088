package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/atelier/storefront/internal/api/middleware"
	"github.com/atelier/storefront/internal/core/domain"
)

// requireUser returns the user attached by AuthGate. Reaching a gated handler
// without one means the route was registered outside the gate chain, so the
// request is rejected instead of served anonymously.
func requireUser(c echo.Context) (*domain.User, error) {
	u := middleware.CurrentUser(c)
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authenticated user")
	}
	return u, nil
}

// queryInt parses an integer query parameter, falling back to def.
func queryInt(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return def
	}
	return v
}

// queryBool parses an optional boolean query parameter.
func queryBool(c echo.Context, name string) *bool {
	v, err := strconv.ParseBool(c.QueryParam(name))
	if err != nil {
		return nil
	}
	return &v
}
