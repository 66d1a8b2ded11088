package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelier/storefront/internal/api/metrics"
	"github.com/atelier/storefront/internal/api/middleware"
	"github.com/atelier/storefront/internal/api/session"
	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

const (
	loginFailedMessage = "These credentials do not match our records."
	loggedOutMessage   = "You have been logged out."
	pathRegister       = "/register"
)

type AuthHandler struct {
	authService ports.AuthService
	sessions    *session.Manager
	pages       *Pages
	audit       *middleware.Audit
}

func NewAuthHandler(authService ports.AuthService, sessions *session.Manager, pages *Pages, audit *middleware.Audit) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, pages: pages, audit: audit}
}

type registerRequest struct {
	Name                 string `json:"name" form:"name" validate:"required,max=120"`
	Email                string `json:"email" form:"email" validate:"required,email"`
	Password             string `json:"password" form:"password" validate:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" validate:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type authResponse struct {
	User     *domain.User `json:"user"`
	Redirect string       `json:"redirect"`
}

type csrfResponse struct {
	Token string `json:"csrf_token"`
}

// ShowLogin renders the login page.
//
// @Summary      Login page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Page
// @Router       /login [get]
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	return h.pages.Render(c, "Auth/Login", map[string]any{})
}

// ShowRegister renders the sign-up page.
//
// @Summary      Registration page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Page
// @Router       /register [get]
func (h *AuthHandler) ShowRegister(c echo.Context) error {
	return h.pages.Render(c, "Auth/Register", map[string]any{})
}

// CSRFToken returns the anti-forgery token of the current session.
//
// @Summary      Anti-forgery token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  csrfResponse
// @Router       /csrf-token [get]
func (h *AuthHandler) CSRFToken(c echo.Context) error {
	sess := session.FromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "session unavailable")
	}
	return c.JSON(http.StatusOK, csrfResponse{Token: sess.CSRFToken})
}

// Register creates a customer account and signs it in.
//
// @Summary      Register a new customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-CSRF-Token  header    string           true  "Anti-forgery token"
// @Param        body          body      registerRequest  true  "Registration details"
// @Success      201           {object}  authResponse
// @Failure      400           {object}  errorBody
// @Failure      409           {object}  errorBody
// @Failure      419           {object}  errorBody
// @Failure      422           {object}  errorBody
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.rejectForm(c, err, pathRegister)
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			err = echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid registration details")
		}
		return h.rejectForm(c, err, pathRegister)
	}

	if _, err := h.sessions.Start(c, user.ID); err != nil {
		return err
	}

	dest := homeFor(user)
	return h.pages.Done(c, http.StatusCreated, authResponse{User: user, Redirect: dest}, "Welcome, "+user.Name+".", dest)
}

// Login verifies credentials and rotates the session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-CSRF-Token  header    string        true  "Anti-forgery token"
// @Param        body          body      loginRequest  true  "Login credentials"
// @Success      200           {object}  authResponse
// @Failure      400           {object}  errorBody
// @Failure      419           {object}  errorBody
// @Failure      422           {object}  errorBody
// @Failure      429           {object}  errorBody
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.rejectForm(c, err, middleware.PathLogin)
	}

	user, err := h.authService.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			return err
		}
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		h.audit.Emit(c, middleware.Event{
			Kind:     domain.EventLoginFailed,
			Severity: domain.SeverityWarn,
			User:     &domain.User{Email: domain.NormalizeEmail(req.Email)},
			Detail:   "login failed",
		})
		return h.rejectForm(c, echo.NewHTTPError(http.StatusUnprocessableEntity, loginFailedMessage), middleware.PathLogin)
	}

	if _, err := h.sessions.Start(c, user.ID); err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	dest := homeFor(user)
	return h.pages.Done(c, http.StatusOK, authResponse{User: user, Redirect: dest}, "", dest)
}

// Logout ends the session and issues a fresh anonymous one.
//
// @Summary      Logout
// @Tags         auth
// @Param        X-CSRF-Token  header  string  true  "Anti-forgery token"
// @Success      204
// @Success      303
// @Failure      401  {object}  errorBody
// @Failure      419  {object}  errorBody
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := h.sessions.Invalidate(c); err != nil {
		return err
	}
	if middleware.ExpectsJSON(c.Request()) {
		return c.NoContent(http.StatusNoContent)
	}
	if err := h.sessions.Flash(c, domain.FlashInfo, loggedOutMessage); err != nil {
		return err
	}
	return middleware.Redirect(c, middleware.PathHome)
}

// rejectForm returns err to JSON callers and turns it into an error flash plus
// a redirect back to the form for page visits.
func (h *AuthHandler) rejectForm(c echo.Context, err error, form string) error {
	if middleware.ExpectsJSON(c.Request()) {
		return err
	}
	msg := err.Error()
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		msg, _ = he.Message.(string)
	case errors.Is(err, domain.ErrUserExists):
		msg = "An account with this email already exists."
	default:
		return err
	}
	if ferr := h.sessions.Flash(c, domain.FlashError, msg); ferr != nil {
		return ferr
	}
	return middleware.Redirect(c, form)
}

// homeFor is where a freshly signed-in user lands.
func homeFor(u *domain.User) string {
	switch {
	case u.HasAmbiguousRoles():
		return middleware.PathHome
	case u.HasRole(domain.RoleAdmin):
		return middleware.PathAdminHome
	case u.HasRole(domain.RoleCustomer):
		return middleware.PathCustomerHome
	}
	return middleware.PathHome
}
