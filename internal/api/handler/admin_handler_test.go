package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

type stubUserService struct {
	ports.UserService
	actor    *domain.User
	role     string
	reason   string
	listWith ports.ListUsersInput
}

func (s *stubUserService) List(_ context.Context, in ports.ListUsersInput) (*ports.Page[*domain.User], error) {
	s.listWith = in
	return ports.NewPage[*domain.User](nil, 0, in.Page, in.Limit), nil
}

func (s *stubUserService) AssignRole(_ context.Context, actor *domain.User, userID, role string) (*domain.User, error) {
	if actor.ID == userID {
		return nil, domain.ErrSelfModification
	}
	s.actor, s.role = actor, role
	return &domain.User{ID: userID, Role: domain.Role(role)}, nil
}

func (s *stubUserService) ShadowBan(_ context.Context, actor *domain.User, userID, reason string) (*domain.User, error) {
	if reason == "" {
		return nil, domain.ErrBanReasonRequired
	}
	s.actor, s.reason = actor, reason
	return &domain.User{ID: userID, IsShadowBanned: true, ShadowBanReason: reason}, nil
}

var testAdmin = &domain.User{ID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}

func TestAdminUserHandler_Index_ParsesFilters(t *testing.T) {
	env := newTestEnv()
	users := &stubUserService{}
	h := NewAdminUserHandler(users, env.pages)

	c, _ := env.newContext(t, http.MethodGet, "/admin/users?role=customer&banned=true&search=ali&page=3", "", true)
	if err := h.Index(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	in := users.listWith
	if in.Role != "customer" || in.Search != "ali" || in.Page != 3 || in.Limit != ports.DefaultPageSize {
		t.Fatalf("unexpected input: %+v", in)
	}
	if in.Banned == nil || !*in.Banned {
		t.Fatalf("banned filter not parsed")
	}
}

func TestAdminUserHandler_AssignRole(t *testing.T) {
	env := newTestEnv()
	users := &stubUserService{}
	h := NewAdminUserHandler(users, env.pages)

	c, rec := env.newContext(t, http.MethodPut, "/admin/users/cust-1/role", `{"role":"admin"}`, true)
	c.SetParamNames("id")
	c.SetParamValues("cust-1")
	env.signIn(t, c, testAdmin)

	if err := h.AssignRole(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if users.actor.ID != "admin-1" || users.role != "admin" {
		t.Fatalf("unexpected call: actor=%v role=%q", users.actor, users.role)
	}
}

func TestAdminUserHandler_AssignRole_Rejections(t *testing.T) {
	env := newTestEnv()
	h := NewAdminUserHandler(&stubUserService{}, env.pages)

	c, _ := env.newContext(t, http.MethodPut, "/admin/users/cust-1/role", `{"role":"editor"}`, true)
	c.SetParamNames("id")
	c.SetParamValues("cust-1")
	env.signIn(t, c, testAdmin)
	if got := statusOf(h.AssignRole(c)); got != http.StatusUnprocessableEntity {
		t.Fatalf("unknown role: expected 422, got %d", got)
	}

	c, _ = env.newContext(t, http.MethodPut, "/admin/users/admin-1/role", `{"role":"customer"}`, true)
	c.SetParamNames("id")
	c.SetParamValues("admin-1")
	env.signIn(t, c, testAdmin)
	if err := h.AssignRole(c); !errors.Is(err, domain.ErrSelfModification) {
		t.Fatalf("self demotion: expected ErrSelfModification, got %v", err)
	}
}

func TestAdminUserHandler_Ban(t *testing.T) {
	env := newTestEnv()
	users := &stubUserService{}
	h := NewAdminUserHandler(users, env.pages)

	c, rec := env.newContext(t, http.MethodPost, "/admin/users/cust-1/ban", `{"reason":"chargeback fraud"}`, false)
	c.SetParamNames("id")
	c.SetParamValues("cust-1")
	env.signIn(t, c, testAdmin)

	if err := h.Ban(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectRedirect(t, rec, "/admin/users/cust-1")
	if users.reason != "chargeback fraud" {
		t.Fatalf("reason not forwarded: %q", users.reason)
	}

	c, _ = env.newContext(t, http.MethodPost, "/admin/users/cust-1/ban", `{}`, true)
	c.SetParamNames("id")
	c.SetParamValues("cust-1")
	env.signIn(t, c, testAdmin)
	if err := h.Ban(c); !errors.Is(err, domain.ErrBanReasonRequired) {
		t.Fatalf("expected ErrBanReasonRequired, got %v", err)
	}
}

func TestAdminOrderHandler_UpdateStatus(t *testing.T) {
	env := newTestEnv()
	orders := &stubOrderService{}
	h := NewAdminOrderHandler(orders, env.pages)

	c, rec := env.newContext(t, http.MethodPut, "/admin/orders/ART-1/status", `{"status":"paid"}`, true)
	c.SetParamNames("number")
	c.SetParamValues("ART-1")
	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || orders.status != "paid" {
		t.Fatalf("unexpected result: code=%d status=%q", rec.Code, orders.status)
	}

	c, _ = env.newContext(t, http.MethodPut, "/admin/orders/ART-1/status", `{"status":"lost"}`, true)
	c.SetParamNames("number")
	c.SetParamValues("ART-1")
	if got := statusOf(h.UpdateStatus(c)); got != http.StatusUnprocessableEntity {
		t.Fatalf("unknown status: expected 422, got %d", got)
	}
}

func TestAdminOrderHandler_Show_IsNotScoped(t *testing.T) {
	env := newTestEnv()
	orders := &stubOrderService{getUserID: "unset"}
	h := NewAdminOrderHandler(orders, env.pages)

	c, _ := env.newContext(t, http.MethodGet, "/admin/orders/ART-1", "", true)
	c.SetParamNames("number")
	c.SetParamValues("ART-1")
	if err := h.Show(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if orders.getUserID != "" {
		t.Fatalf("admin lookup must not be scoped, got %q", orders.getUserID)
	}
}
