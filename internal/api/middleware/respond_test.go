package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestExpectsJSON(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    bool
	}{
		{"browser navigation", map[string]string{"Accept": "text/html"}, false},
		{"no headers", nil, false},
		{"json accept", map[string]string{"Accept": "application/json"}, true},
		{"vendor json accept", map[string]string{"Accept": "application/vnd.api+json"}, true},
		{"xhr", map[string]string{"X-Requested-With": "XMLHttpRequest"}, true},
		{"inertia visit", map[string]string{"X-Inertia": "true", "X-Requested-With": "XMLHttpRequest", "Accept": "application/json"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ExpectsJSON(req); got != tt.want {
				t.Fatalf("ExpectsJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRedirect_StatusByMethod(t *testing.T) {
	e := echo.New()
	for method, want := range map[string]int{
		http.MethodGet:    http.StatusFound,
		http.MethodHead:   http.StatusFound,
		http.MethodPost:   http.StatusSeeOther,
		http.MethodDelete: http.StatusSeeOther,
	} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(method, "/x", nil), rec)
		if err := Redirect(c, "/login"); err != nil {
			t.Fatalf("redirect: %v", err)
		}
		if rec.Code != want {
			t.Fatalf("%s: expected %d, got %d", method, want, rec.Code)
		}
	}
}

func TestLoginThrottle(t *testing.T) {
	e := echo.New()
	throttle := NewLoginThrottle(1, 2, NewAudit(zerolog.Nop(), nil))
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, throttle.Middleware())

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := send("10.0.0.1"); rec.Code != http.StatusNoContent {
			t.Fatalf("attempt %d: expected 204, got %d", i+1, rec.Code)
		}
	}

	rec := send("10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	if rec := send("10.0.0.2"); rec.Code != http.StatusNoContent {
		t.Fatalf("other clients must not be throttled, got %d", rec.Code)
	}
}
