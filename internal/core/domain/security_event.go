package domain

import "time"

// SecurityEventKind names what the access-control chain observed.
type SecurityEventKind string

const (
	EventUnauthenticated     SecurityEventKind = "unauthenticated"
	EventRoleDenied          SecurityEventKind = "role_denied"
	EventMultipleRoles       SecurityEventKind = "multiple_roles_detected"
	EventShadowBannedAccess  SecurityEventKind = "shadow_banned_access"
	EventLoginFailed         SecurityEventKind = "login_failed"
	EventLoginThrottled      SecurityEventKind = "login_throttled"
	EventRoleChanged         SecurityEventKind = "role_changed"
	EventShadowBanned        SecurityEventKind = "shadow_banned"
	EventShadowBanLifted     SecurityEventKind = "shadow_ban_lifted"
	EventRolesNormalized     SecurityEventKind = "roles_normalized"
	EventCSRFMismatch        SecurityEventKind = "csrf_mismatch"
	EventStaleSessionDropped SecurityEventKind = "stale_session_dropped"
)

// Severity mirrors the log level the event was emitted at.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// SecurityEvent is an audit record of an access-control decision.
type SecurityEvent struct {
	ID           string            `json:"id" bson:"_id"`
	Kind         SecurityEventKind `json:"kind" bson:"kind"`
	Severity     Severity          `json:"severity" bson:"severity"`
	UserID       string            `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Email        string            `json:"email,omitempty" bson:"email,omitempty"`
	Roles        []string          `json:"roles,omitempty" bson:"roles,omitempty"`
	RequiredRole string            `json:"required_role,omitempty" bson:"required_role,omitempty"`
	IP           string            `json:"ip,omitempty" bson:"ip,omitempty"`
	URL          string            `json:"url,omitempty" bson:"url,omitempty"`
	Referer      string            `json:"referer,omitempty" bson:"referer,omitempty"`
	Detail       string            `json:"detail,omitempty" bson:"detail,omitempty"`
	Timestamp    time.Time         `json:"timestamp" bson:"timestamp"`
}
