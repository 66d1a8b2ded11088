package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelier/storefront/internal/api/metrics"
	"github.com/atelier/storefront/internal/api/session"
	"github.com/atelier/storefront/internal/core/domain"
)

const bannedMessage = "Your account is not active. Please contact support."

// BanGate logs shadow-banned users out before they reach any protected route.
// It must run after AuthGate.
func BanGate(sessions *session.Manager, audit *Audit) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "ban gate reached without an authenticated user")
			}
			if !user.IsShadowBanned {
				return next(c)
			}

			if err := forceLogout(c, sessions, bannedMessage); err != nil {
				return err
			}
			metrics.AccessDeniedTotal.WithLabelValues("ban", "").Inc()
			metrics.SecurityViolationsTotal.WithLabelValues(string(domain.EventShadowBannedAccess)).Inc()
			audit.Emit(c, Event{
				Kind:     domain.EventShadowBannedAccess,
				Severity: domain.SeverityWarn,
				User:     user,
				Detail:   user.ShadowBanReason,
			})

			if ExpectsJSON(c.Request()) {
				return jsonError(c, http.StatusForbidden, "forbidden")
			}
			return Redirect(c, PathLogin)
		}
	}
}

// forceLogout replaces the session with a fresh anonymous one and leaves an
// error flash on it.
func forceLogout(c echo.Context, sessions *session.Manager, message string) error {
	if _, err := sessions.Invalidate(c); err != nil {
		return err
	}
	setUser(c, nil)
	return sessions.Flash(c, domain.FlashError, message)
}
