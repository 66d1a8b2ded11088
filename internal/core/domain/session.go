package domain

import "time"

// Flash bag keys understood by the front-end.
const (
	FlashInfo    = "info"
	FlashError   = "error"
	FlashSuccess = "success"
)

// Session is the server-side state bound to a browser cookie.
// An empty UserID means the session is anonymous.
type Session struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id,omitempty"`
	CSRFToken  string            `json:"csrf_token"`
	Flash      map[string]string `json:"flash,omitempty"`
	IP         string            `json:"ip,omitempty"`
	UserAgent  string            `json:"user_agent,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	LastSeenAt time.Time         `json:"last_seen_at"`
}

// Authenticated reports whether the session belongs to a logged-in user.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// SetFlash stores a one-shot message for the next page render.
func (s *Session) SetFlash(key, message string) {
	if s.Flash == nil {
		s.Flash = make(map[string]string, 1)
	}
	s.Flash[key] = message
}

// PullFlash returns the pending flash messages and clears them.
func (s *Session) PullFlash() map[string]string {
	if len(s.Flash) == 0 {
		return nil
	}
	out := s.Flash
	s.Flash = nil
	return out
}
