package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/atelier/storefront/internal/api/session"
)

// LoadSession resolves the request's session and attaches it to the context.
// The session lifetime is extended on every request that reaches the handler.
func LoadSession(sessions *session.Manager, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := sessions.Load(c); err != nil {
				log.Error().Err(err).Msg("session store unavailable")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
			}
			if err := sessions.Touch(c); err != nil {
				log.Warn().Err(err).Msg("failed to extend session")
			}
			return next(c)
		}
	}
}
