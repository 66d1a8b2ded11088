package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/atelier/storefront/internal/core/domain"
)

const userContextKey = "user"

// CurrentUser returns the user attached by AuthGate, or nil on public routes.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(userContextKey).(*domain.User)
	return u
}

func setUser(c echo.Context, u *domain.User) {
	c.Set(userContextKey, u)
}
