package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelier/storefront/internal/core/ports"
)

// AdminUserHandler manages accounts from the back-office.
type AdminUserHandler struct {
	userService ports.UserService
	pages       *Pages
}

func NewAdminUserHandler(userService ports.UserService, pages *Pages) *AdminUserHandler {
	return &AdminUserHandler{userService: userService, pages: pages}
}

type assignRoleRequest struct {
	Role string `json:"role" form:"role" validate:"required,oneof=admin customer"`
}

type banRequest struct {
	Reason string `json:"reason" form:"reason" validate:"max=500"`
}

// Index lists accounts.
//
// @Summary      List users
// @Tags         admin-users
// @Produce      json
// @Param        role    query     string  false  "admin | customer"
// @Param        banned  query     bool    false  "Shadow-ban state"
// @Param        search  query     string  false  "Partial match on name or email"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Success      200     {object}  Page
// @Failure      403     {object}  errorBody
// @Router       /admin/users [get]
func (h *AdminUserHandler) Index(c echo.Context) error {
	result, err := h.userService.List(c.Request().Context(), ports.ListUsersInput{
		Role:   c.QueryParam("role"),
		Banned: queryBool(c, "banned"),
		Search: c.QueryParam("search"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", ports.DefaultPageSize),
	})
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Admin/Users/Index", map[string]any{"users": result})
}

// Show renders one account.
//
// @Summary      Get user
// @Tags         admin-users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  Page
// @Failure      404  {object}  errorBody
// @Router       /admin/users/{id} [get]
func (h *AdminUserHandler) Show(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return h.pages.Render(c, "Admin/Users/Show", map[string]any{"user": user})
}

// AssignRole replaces the account's role and clears any imported role list.
//
// @Summary      Assign role
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Param        X-CSRF-Token  header    string             true  "Anti-forgery token"
// @Param        id            path      string             true  "User ID"
// @Param        body          body      assignRoleRequest  true  "New role"
// @Success      200           {object}  domain.User
// @Failure      404           {object}  errorBody
// @Failure      422           {object}  errorBody
// @Router       /admin/users/{id}/role [put]
func (h *AdminUserHandler) AssignRole(c echo.Context) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	var req assignRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userService.AssignRole(c.Request().Context(), actor, c.Param("id"), req.Role)
	if err != nil {
		return err
	}
	return h.pages.Done(c, http.StatusOK, user, "Role updated.", "/admin/users/"+user.ID)
}

// Ban shadow-bans an account. The user is logged out on their next request.
//
// @Summary      Shadow-ban user
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Param        X-CSRF-Token  header    string      true  "Anti-forgery token"
// @Param        id            path      string      true  "User ID"
// @Param        body          body      banRequest  true  "Ban reason"
// @Success      200           {object}  domain.User
// @Failure      404           {object}  errorBody
// @Failure      422           {object}  errorBody
// @Router       /admin/users/{id}/ban [post]
func (h *AdminUserHandler) Ban(c echo.Context) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	var req banRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userService.ShadowBan(c.Request().Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		return err
	}
	return h.pages.Done(c, http.StatusOK, user, "User banned.", "/admin/users/"+user.ID)
}

// Unban lifts a shadow ban.
//
// @Summary      Lift shadow ban
// @Tags         admin-users
// @Produce      json
// @Param        X-CSRF-Token  header    string  true  "Anti-forgery token"
// @Param        id            path      string  true  "User ID"
// @Success      200           {object}  domain.User
// @Failure      404           {object}  errorBody
// @Failure      422           {object}  errorBody
// @Router       /admin/users/{id}/ban [delete]
func (h *AdminUserHandler) Unban(c echo.Context) error {
	actor, err := requireUser(c)
	if err != nil {
		return err
	}
	user, err := h.userService.LiftShadowBan(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return h.pages.Done(c, http.StatusOK, user, "Ban lifted.", "/admin/users/"+user.ID)
}
