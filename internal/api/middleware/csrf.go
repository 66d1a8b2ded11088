package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelier/storefront/internal/api/session"
	"github.com/atelier/storefront/internal/core/domain"
)

// StatusPageExpired is returned when the anti-forgery token does not match.
const StatusPageExpired = 419

const (
	HeaderCSRFToken = "X-CSRF-Token"
	headerXSRFToken = "X-XSRF-TOKEN"
	formCSRFField   = "_token"
)

// VerifyCSRF rejects state-changing requests whose token does not match the
// session's. Safe methods pass through untouched.
func VerifyCSRF(audit *Audit) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			sess := session.FromContext(c)
			if sess != nil && tokensMatch(requestToken(c), sess.CSRFToken) {
				return next(c)
			}

			audit.Emit(c, Event{
				Kind:     domain.EventCSRFMismatch,
				Severity: domain.SeverityWarn,
				User:     CurrentUser(c),
				Detail:   "csrf token mismatch",
			})
			return jsonError(c, StatusPageExpired, "csrf token mismatch")
		}
	}
}

func requestToken(c echo.Context) string {
	if t := c.Request().Header.Get(HeaderCSRFToken); t != "" {
		return t
	}
	if t := c.Request().Header.Get(headerXSRFToken); t != "" {
		return t
	}
	return c.FormValue(formCSRFField)
}

func tokensMatch(got, want string) bool {
	if got == "" || want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
