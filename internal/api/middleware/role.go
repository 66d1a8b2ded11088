package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelier/storefront/internal/api/metrics"
	"github.com/atelier/storefront/internal/api/session"
	"github.com/atelier/storefront/internal/core/domain"
)

const (
	roleConflictMessage = "There is a problem with your account permissions. Please contact support."
	roleDeniedMessage   = "You do not have access to that page."
)

// RoleEnforcer admits users whose single role equals required. It must run
// after AuthGate and BanGate.
//
// Accounts whose role set cannot be resolved to one known role are treated as
// compromised and logged out. Plain mismatches are redirected to the area the
// user belongs to with an info flash.
func RoleEnforcer(sessions *session.Manager, audit *Audit, required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "role enforcer reached without an authenticated user")
			}

			if user.HasAmbiguousRoles() {
				if err := forceLogout(c, sessions, roleConflictMessage); err != nil {
					return err
				}
				metrics.SecurityViolationsTotal.WithLabelValues(string(domain.EventMultipleRoles)).Inc()
				audit.Emit(c, Event{
					Kind:         domain.EventMultipleRoles,
					Severity:     domain.SeverityError,
					User:         user,
					RequiredRole: required,
				})

				if ExpectsJSON(c.Request()) {
					return jsonError(c, http.StatusForbidden, "forbidden")
				}
				return Redirect(c, PathHome)
			}

			if user.HasRole(required) {
				return next(c)
			}

			metrics.AccessDeniedTotal.WithLabelValues("role", string(required)).Inc()
			audit.Emit(c, Event{
				Kind:         domain.EventRoleDenied,
				Severity:     domain.SeverityWarn,
				User:         user,
				RequiredRole: required,
			})

			if ExpectsJSON(c.Request()) {
				return jsonError(c, http.StatusForbidden, "forbidden")
			}
			if err := sessions.Flash(c, domain.FlashInfo, roleDeniedMessage); err != nil {
				return err
			}
			return Redirect(c, deniedDestination(c, user, required))
		}
	}
}

// deniedDestination picks where a user without the required role is sent.
func deniedDestination(c echo.Context, user *domain.User, required domain.Role) string {
	switch {
	case required == domain.RoleAdmin && user.HasRole(domain.RoleCustomer):
		if ref := safeReferer(c); ref != "" {
			return ref
		}
		return PathCustomerHome
	case required == domain.RoleCustomer && user.HasRole(domain.RoleAdmin):
		return PathAdminHome
	default:
		return PathHome
	}
}
