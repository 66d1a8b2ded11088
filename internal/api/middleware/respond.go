package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// Well-known destinations of the gate chain.
const (
	PathHome          = "/"
	PathLogin         = "/login"
	PathCustomerHome  = "/dashboard"
	PathAdminHome     = "/admin"
	adminAreaPrefix   = "/admin/"
	headerInertia     = "X-Inertia"
	headerRequestedBy = "X-Requested-With"
)

// ExpectsJSON reports whether the caller wants a JSON error instead of a
// redirect: an API or XHR request that is not an Inertia page visit.
func ExpectsJSON(r *http.Request) bool {
	if r.Header.Get(headerInertia) != "" {
		return false
	}
	if strings.Contains(strings.ToLower(r.Header.Get(echo.HeaderAccept)), "json") {
		return true
	}
	return strings.EqualFold(r.Header.Get(headerRequestedBy), "XMLHttpRequest")
}

// Redirect sends the browser to path. Non-GET requests get 303 so the follow-up
// is always a GET.
func Redirect(c echo.Context, path string) error {
	status := http.StatusFound
	if m := c.Request().Method; m != http.MethodGet && m != http.MethodHead {
		status = http.StatusSeeOther
	}
	return c.Redirect(status, path)
}

func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// isAdminPath reports whether p is the admin dashboard or below it.
func isAdminPath(p string) bool {
	return p == PathAdminHome || strings.HasPrefix(p, adminAreaPrefix)
}

// safeReferer returns the path of the Referer header when it points back at
// this host and outside the admin area, or "" otherwise.
func safeReferer(c echo.Context) string {
	raw := c.Request().Referer()
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.IsAbs() || u.Host != "" {
		if u.Scheme != "http" && u.Scheme != "https" {
			return ""
		}
		if !strings.EqualFold(u.Host, c.Request().Host) {
			return ""
		}
	}

	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	decoded := u.Path
	if decoded == "" {
		decoded = "/"
	}
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(decoded, "//") || isAdminPath(decoded) {
		return ""
	}
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return p
}
