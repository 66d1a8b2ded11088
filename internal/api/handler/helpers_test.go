package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/atelier/storefront/internal/api/middleware"
	"github.com/atelier/storefront/internal/api/session"
	"github.com/atelier/storefront/internal/core/domain"
)

type recordingAuditor struct {
	mu     sync.Mutex
	events []domain.SecurityEvent
}

func (a *recordingAuditor) Record(e domain.SecurityEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

type testEnv struct {
	e        *echo.Echo
	store    *session.MemoryStore
	sessions *session.Manager
	pages    *Pages
	audit    *middleware.Audit
	auditor  *recordingAuditor
}

func newTestEnv() *testEnv {
	store := session.NewMemoryStore()
	mgr := session.NewManager(store, session.Options{
		CookieName: "storefront_session",
		Secret:     "0123456789abcdef0123456789abcdef",
		TTL:        time.Hour,
	}, zerolog.Nop())
	auditor := &recordingAuditor{}

	e := echo.New()
	e.Validator = NewValidator()
	return &testEnv{
		e:        e,
		store:    store,
		sessions: mgr,
		pages:    NewPages(mgr),
		audit:    middleware.NewAudit(zerolog.Nop(), auditor),
		auditor:  auditor,
	}
}

// newContext builds a request context with a loaded session. jsonCaller
// switches between an API call and a page visit.
func (env *testEnv) newContext(t *testing.T, method, path, body string, jsonCaller bool) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if jsonCaller {
		req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	if _, err := env.sessions.Load(c); err != nil {
		t.Fatalf("load session: %v", err)
	}
	return c, rec
}

// signIn binds the context's session to user and exposes the user the way AuthGate does.
func (env *testEnv) signIn(t *testing.T, c echo.Context, user *domain.User) {
	t.Helper()
	if _, err := env.sessions.Start(c, user.ID); err != nil {
		t.Fatalf("start session: %v", err)
	}
	c.Set("user", user)
}

func statusOf(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther && rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}
