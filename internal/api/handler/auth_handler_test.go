package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/atelier/storefront/internal/api/session"
	"github.com/atelier/storefront/internal/core/domain"
)

type stubAuthService struct {
	registerFn     func(ctx context.Context, name, email, password string) (*domain.User, error)
	authenticateFn func(ctx context.Context, email, password string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return s.authenticateFn(ctx, email, password)
}

const validRegistration = `{"name":"Alice","email":"alice@example.com","password":"correct-horse","password_confirmation":"correct-horse"}`

func TestAuthHandler_Register_Success(t *testing.T) {
	env := newTestEnv()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*domain.User, error) {
			if name != "Alice" || email != "alice@example.com" || password != "correct-horse" {
				t.Fatalf("unexpected args: %s %s %s", name, email, password)
			}
			return &domain.User{ID: "u-1", Name: name, Email: email, Role: domain.RoleCustomer}, nil
		},
	}
	h := NewAuthHandler(stub, env.sessions, env.pages, env.audit)

	c, rec := env.newContext(t, http.MethodPost, "/register", validRegistration, true)
	anonymous := session.FromContext(c)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["redirect"] != "/dashboard" {
		t.Fatalf("unexpected redirect: %v", resp["redirect"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "alice@example.com" || user["role"] != "customer" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, ok := user["PasswordHash"]; ok {
		t.Fatalf("password hash leaked")
	}

	sess := session.FromContext(c)
	if sess.UserID != "u-1" {
		t.Fatalf("session not bound to new user: %q", sess.UserID)
	}
	if sess.ID == anonymous.ID {
		t.Fatalf("session id must rotate on sign-up")
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	env := newTestEnv()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub, env.sessions, env.pages, env.audit)

	c, _ := env.newContext(t, http.MethodPost, "/register", validRegistration, true)
	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_UserExistsPageVisit(t *testing.T) {
	env := newTestEnv()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub, env.sessions, env.pages, env.audit)

	c, rec := env.newContext(t, http.MethodPost, "/register", validRegistration, false)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectRedirect(t, rec, "/register")
	if msg := session.FromContext(c).Flash[domain.FlashError]; msg == "" {
		t.Fatalf("expected an error flash")
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	env := newTestEnv()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, env.sessions, env.pages, env.audit)

	cases := map[string]struct {
		body string
		want int
	}{
		"not json":           {"not-json", http.StatusBadRequest},
		"short password":     {`{"name":"A","email":"a@example.com","password":"short","password_confirmation":"short"}`, http.StatusUnprocessableEntity},
		"mismatched confirm": {`{"name":"A","email":"a@example.com","password":"long-enough","password_confirmation":"different"}`, http.StatusUnprocessableEntity},
		"bad email":          {`{"name":"A","email":"nope","password":"long-enough","password_confirmation":"long-enough"}`, http.StatusUnprocessableEntity},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := env.newContext(t, http.MethodPost, "/register", tc.body, true)
			if got := statusOf(h.Register(c)); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	env := newTestEnv()
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			if email != "admin@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.User{ID: "admin-1", Email: email, Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(stub, env.sessions, env.pages, env.audit)

	c, rec := env.newContext(t, http.MethodPost, "/login", `{"email":"admin@example.com","password":"secret"}`, true)
	before := session.FromContext(c)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Redirect != "/admin" {
		t.Fatalf("admin should land on /admin, got %q", resp.Redirect)
	}

	after := session.FromContext(c)
	if after.ID == before.ID || after.CSRFToken == before.CSRFToken {
		t.Fatalf("login must rotate the session and its token")
	}
	if _, err := env.store.Get(context.Background(), before.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("pre-login session must be destroyed, got %v", err)
	}
}

func TestAuthHandler_Login_PageVisitRedirectsHome(t *testing.T) {
	env := newTestEnv()
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return &domain.User{ID: "cust-1", Email: email, Role: domain.RoleCustomer}, nil
		},
	}
	h := NewAuthHandler(stub, env.sessions, env.pages, env.audit)

	c, rec := env.newContext(t, http.MethodPost, "/login", `{"email":"c@example.com","password":"secret"}`, false)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectRedirect(t, rec, "/dashboard")
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	env := newTestEnv()
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, env.sessions, env.pages, env.audit)

	c, _ := env.newContext(t, http.MethodPost, "/login", `{"email":"Bob@Example.com","password":"wrong"}`, true)
	err := h.Login(c)
	if statusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	if msg := err.(*echo.HTTPError).Message; msg != loginFailedMessage {
		t.Fatalf("login error must be generic, got %v", msg)
	}
	if session.FromContext(c).Authenticated() {
		t.Fatalf("failed login must not authenticate the session")
	}

	if len(env.auditor.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(env.auditor.events))
	}
	ev := env.auditor.events[0]
	if ev.Kind != domain.EventLoginFailed || ev.Email != "bob@example.com" {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
}

func TestAuthHandler_Login_InvalidCredentialsPageVisit(t *testing.T) {
	env := newTestEnv()
	stub := &stubAuthService{
		authenticateFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, env.sessions, env.pages, env.audit)

	c, rec := env.newContext(t, http.MethodPost, "/login", `{"email":"bob@example.com","password":"wrong"}`, false)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectRedirect(t, rec, "/login")
	if got := session.FromContext(c).Flash[domain.FlashError]; got != loginFailedMessage {
		t.Fatalf("unexpected flash: %q", got)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	env := newTestEnv()
	h := NewAuthHandler(&stubAuthService{}, env.sessions, env.pages, env.audit)

	c, rec := env.newContext(t, http.MethodPost, "/logout", "", false)
	env.signIn(t, c, &domain.User{ID: "cust-1", Role: domain.RoleCustomer})
	signedIn := session.FromContext(c)

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectRedirect(t, rec, "/")

	fresh := session.FromContext(c)
	if fresh.Authenticated() {
		t.Fatalf("session must be anonymous after logout")
	}
	if fresh.CSRFToken == signedIn.CSRFToken {
		t.Fatalf("csrf token must be regenerated on logout")
	}
	if fresh.Flash[domain.FlashInfo] != loggedOutMessage {
		t.Fatalf("expected info flash, got %v", fresh.Flash)
	}
}

func TestAuthHandler_CSRFToken(t *testing.T) {
	env := newTestEnv()
	h := NewAuthHandler(&stubAuthService{}, env.sessions, env.pages, env.audit)

	c, rec := env.newContext(t, http.MethodGet, "/csrf-token", "", true)
	if err := h.CSRFToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp csrfResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token == "" || resp.Token != session.FromContext(c).CSRFToken {
		t.Fatalf("unexpected token %q", resp.Token)
	}
}

func TestHomeFor(t *testing.T) {
	cases := []struct {
		user *domain.User
		want string
	}{
		{&domain.User{Role: domain.RoleAdmin}, "/admin"},
		{&domain.User{Role: domain.RoleCustomer}, "/dashboard"},
		{&domain.User{}, "/"},
		{&domain.User{Role: domain.RoleAdmin, LegacyRoles: []domain.Role{domain.RoleCustomer}}, "/"},
	}
	for _, tc := range cases {
		if got := homeFor(tc.user); got != tc.want {
			t.Fatalf("homeFor(%v) = %q, want %q", tc.user.RoleNames(), got, tc.want)
		}
	}
}
