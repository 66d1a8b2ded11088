package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

// Audit writes access-control decisions to the structured log and hands them
// to the security event dispatcher.
type Audit struct {
	log     zerolog.Logger
	auditor ports.SecurityAuditor
}

// NewAudit returns an Audit. auditor may be nil, in which case events are only logged.
func NewAudit(log zerolog.Logger, auditor ports.SecurityAuditor) *Audit {
	return &Audit{log: log, auditor: auditor}
}

// Event carries what a gate observed.
type Event struct {
	Kind         domain.SecurityEventKind
	Severity     domain.Severity
	User         *domain.User
	RequiredRole domain.Role
	Detail       string
}

func (a *Audit) Emit(c echo.Context, ev Event) {
	req := c.Request()
	se := domain.SecurityEvent{
		Kind:         ev.Kind,
		Severity:     ev.Severity,
		RequiredRole: string(ev.RequiredRole),
		IP:           c.RealIP(),
		URL:          req.URL.String(),
		Referer:      req.Referer(),
		Detail:       ev.Detail,
	}
	if ev.User != nil {
		se.UserID = ev.User.ID
		se.Email = ev.User.Email
		se.Roles = ev.User.RoleNames()
	}

	entry := a.log.Info()
	switch ev.Severity {
	case domain.SeverityError:
		entry = a.log.Error()
	case domain.SeverityWarn:
		entry = a.log.Warn()
	}
	entry.
		Str("event", string(se.Kind)).
		Str("user_id", se.UserID).
		Str("email", se.Email).
		Strs("roles", se.Roles).
		Str("required_role", se.RequiredRole).
		Str("ip", se.IP).
		Str("url", se.URL).
		Str("referer", se.Referer).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg(auditMessage(se.Kind, ev.Detail))

	if a.auditor != nil {
		a.auditor.Record(se)
	}
}

func auditMessage(kind domain.SecurityEventKind, detail string) string {
	switch kind {
	case domain.EventMultipleRoles:
		return "security violation: user holds multiple roles"
	case domain.EventShadowBannedAccess:
		return "shadow-banned user logged out"
	case domain.EventRoleDenied:
		return "access denied: role mismatch"
	case domain.EventUnauthenticated:
		return "access denied: not authenticated"
	}
	if detail != "" {
		return detail
	}
	return string(kind)
}
