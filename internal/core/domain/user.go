package domain

import (
	"strings"
	"time"
)

// Role is the authorization tag that decides which route groups a user may enter.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is one of the roles the application knows about.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// ParseRole converts user input into a Role, rejecting unknown names.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// User models an account of the storefront.
//
// Role is single-valued and validated on every write. LegacyRoles only carries
// values imported from the old many-to-many role table; writes always clear it.
type User struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Role            Role       `json:"role,omitempty"`
	LegacyRoles     []Role     `json:"legacy_roles,omitempty"`
	IsShadowBanned  bool       `json:"is_shadow_banned"`
	ShadowBannedAt  *time.Time `json:"shadow_banned_at,omitempty"`
	ShadowBanReason string     `json:"shadow_ban_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// RoleNames returns every role the user holds, de-duplicated, primary role first.
func (u *User) RoleNames() []string {
	if u == nil {
		return nil
	}
	names := make([]string, 0, 1+len(u.LegacyRoles))
	seen := make(map[Role]struct{}, 1+len(u.LegacyRoles))
	add := func(r Role) {
		if r == "" {
			return
		}
		if _, ok := seen[r]; ok {
			return
		}
		seen[r] = struct{}{}
		names = append(names, string(r))
	}
	add(u.Role)
	for _, r := range u.LegacyRoles {
		add(r)
	}
	return names
}

// HasRole reports whether r is among the roles the user holds.
func (u *User) HasRole(r Role) bool {
	for _, name := range u.RoleNames() {
		if Role(name) == r {
			return true
		}
	}
	return false
}

// HasAmbiguousRoles reports whether the stored role set cannot be resolved to a
// single known role: more than one role, or a role name the application does
// not recognise.
func (u *User) HasAmbiguousRoles() bool {
	names := u.RoleNames()
	if len(names) > 1 {
		return true
	}
	for _, name := range names {
		if !Role(name).Valid() {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user's single role is admin.
func (u *User) IsAdmin() bool {
	return !u.HasAmbiguousRoles() && u.HasRole(RoleAdmin)
}

// NormalizeEmail lower-cases and trims an email address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
