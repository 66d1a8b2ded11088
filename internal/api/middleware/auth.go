package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelier/storefront/internal/api/metrics"
	"github.com/atelier/storefront/internal/api/session"
	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

// AuthGate admits only requests carrying an authenticated session. The
// session's user is loaded and attached to the context for the next gates.
func AuthGate(sessions *session.Manager, users ports.UserRepository, audit *Audit) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := session.FromContext(c)
			if !sess.Authenticated() {
				return unauthenticated(c, audit)
			}

			user, err := users.FindByID(c.Request().Context(), sess.UserID)
			if errors.Is(err, domain.ErrUserNotFound) {
				if _, err := sessions.Invalidate(c); err != nil {
					return err
				}
				audit.Emit(c, Event{
					Kind:     domain.EventStaleSessionDropped,
					Severity: domain.SeverityWarn,
					Detail:   "session user no longer exists: " + sess.UserID,
				})
				return unauthenticated(c, audit)
			}
			if err != nil {
				return err
			}

			setUser(c, user)
			return next(c)
		}
	}
}

func unauthenticated(c echo.Context, audit *Audit) error {
	metrics.AccessDeniedTotal.WithLabelValues("auth", "").Inc()
	audit.Emit(c, Event{Kind: domain.EventUnauthenticated, Severity: domain.SeverityInfo})

	if ExpectsJSON(c.Request()) {
		return jsonError(c, http.StatusUnauthorized, "unauthenticated")
	}
	return Redirect(c, PathLogin)
}

// ResolveUser attaches the signed-in user on public routes without denying
// anyone. Lookup failures leave the request anonymous.
func ResolveUser(users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sess := session.FromContext(c); sess.Authenticated() {
				if user, err := users.FindByID(c.Request().Context(), sess.UserID); err == nil {
					setUser(c, user)
				}
			}
			return next(c)
		}
	}
}
