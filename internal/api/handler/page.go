package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelier/storefront/internal/api/middleware"
	"github.com/atelier/storefront/internal/api/session"
	"github.com/atelier/storefront/internal/core/domain"
)

// Page is the payload a front-end renders: the component to mount, its props,
// and the shared state every page receives.
type Page struct {
	Component string            `json:"component"`
	Props     any               `json:"props"`
	URL       string            `json:"url"`
	Flash     map[string]string `json:"flash"`
	Auth      pageAuth          `json:"auth"`
	CSRFToken string            `json:"csrf_token"`
}

type pageAuth struct {
	User *domain.User `json:"user"`
}

// Pages renders page payloads and consumes the session's flash messages.
type Pages struct {
	sessions *session.Manager
}

func NewPages(sessions *session.Manager) *Pages {
	return &Pages{sessions: sessions}
}

// Render responds with the page payload for component.
func (p *Pages) Render(c echo.Context, component string, props any) error {
	flash, err := p.sessions.PullFlash(c)
	if err != nil {
		return err
	}
	if flash == nil {
		flash = map[string]string{}
	}

	page := Page{
		Component: component,
		Props:     props,
		URL:       c.Request().URL.RequestURI(),
		Flash:     flash,
		Auth:      pageAuth{User: middleware.CurrentUser(c)},
	}
	if sess := session.FromContext(c); sess != nil {
		page.CSRFToken = sess.CSRFToken
	}

	c.Response().Header().Set("Vary", "X-Inertia")
	return c.JSON(http.StatusOK, page)
}

// Done finishes a state-changing request. JSON callers receive status and
// body; page visits get flash and a redirect to target.
func (p *Pages) Done(c echo.Context, status int, body any, flash, target string) error {
	if middleware.ExpectsJSON(c.Request()) {
		if body == nil {
			return c.NoContent(status)
		}
		return c.JSON(status, body)
	}
	if flash != "" {
		if err := p.sessions.Flash(c, domain.FlashSuccess, flash); err != nil {
			return err
		}
	}
	return middleware.Redirect(c, target)
}

// errorBody documents the error envelope rendered by the central error handler.
type errorBody struct {
	Error string `json:"error"`
}
