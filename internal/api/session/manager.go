// Package session binds server-side sessions to the browser through a signed
// cookie and keeps the current session on the echo context.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

const (
	contextKey    = "session"
	touchInterval = time.Minute
)

// Options configures the session cookie.
type Options struct {
	CookieName string
	Secret     string
	TTL        time.Duration
	Secure     bool
}

// Manager loads, rotates and persists sessions.
type Manager struct {
	store ports.SessionStore
	codec *Codec
	opts  Options
	log   zerolog.Logger
	now   func() time.Time
}

func NewManager(store ports.SessionStore, opts Options, log zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		codec: NewCodec(opts.Secret, opts.TTL),
		opts:  opts,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// FromContext returns the session attached by the LoadSession middleware.
func FromContext(c echo.Context) *domain.Session {
	s, _ := c.Get(contextKey).(*domain.Session)
	return s
}

func setContext(c echo.Context, s *domain.Session) {
	c.Set(contextKey, s)
}

// Load resolves the request's session from its cookie. A missing, forged,
// expired or unknown cookie yields a fresh anonymous session.
func (m *Manager) Load(c echo.Context) (*domain.Session, error) {
	if ck, err := c.Cookie(m.opts.CookieName); err == nil && ck.Value != "" {
		if sid, err := m.codec.Decode(ck.Value); err == nil {
			sess, err := m.store.Get(c.Request().Context(), sid)
			switch {
			case err == nil:
				setContext(c, sess)
				return sess, nil
			case !errors.Is(err, domain.ErrSessionNotFound):
				return nil, fmt.Errorf("load session: %w", err)
			}
		}
	}
	return m.begin(c, "")
}

// Start rotates the session id and binds it to userID. The old session is
// destroyed so a fixated id cannot be reused.
func (m *Manager) Start(c echo.Context, userID string) (*domain.Session, error) {
	if old := FromContext(c); old != nil {
		if err := m.store.Destroy(c.Request().Context(), old.ID); err != nil {
			return nil, fmt.Errorf("start session: %w", err)
		}
	}
	return m.begin(c, userID)
}

// Invalidate destroys the current session and replaces it with an anonymous
// one carrying a new CSRF token.
func (m *Manager) Invalidate(c echo.Context) (*domain.Session, error) {
	return m.Start(c, "")
}

// Flash stores a one-shot message on the current session.
func (m *Manager) Flash(c echo.Context, key, message string) error {
	sess := FromContext(c)
	if sess == nil {
		return errors.New("flash: no session on context")
	}
	sess.SetFlash(key, message)
	return m.Save(c, sess)
}

// PullFlash returns and clears the pending flash messages.
func (m *Manager) PullFlash(c echo.Context) (map[string]string, error) {
	sess := FromContext(c)
	if sess == nil {
		return nil, nil
	}
	flash := sess.PullFlash()
	if flash == nil {
		return nil, nil
	}
	return flash, m.Save(c, sess)
}

// Touch extends the session lifetime. Writes are skipped when the session was
// seen less than a minute ago.
func (m *Manager) Touch(c echo.Context) error {
	sess := FromContext(c)
	if sess == nil {
		return nil
	}
	now := m.now()
	if now.Sub(sess.LastSeenAt) < touchInterval {
		return nil
	}
	sess.LastSeenAt = now
	if err := m.Save(c, sess); err != nil {
		return err
	}
	return m.writeCookie(c, sess.ID)
}

// Save persists the session with a full TTL.
func (m *Manager) Save(c echo.Context, sess *domain.Session) error {
	if err := m.store.Save(c.Request().Context(), sess, m.opts.TTL); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (m *Manager) begin(c echo.Context, userID string) (*domain.Session, error) {
	now := m.now()
	req := c.Request()
	sess := &domain.Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		CSRFToken:  newToken(),
		IP:         c.RealIP(),
		UserAgent:  req.UserAgent(),
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := m.Save(c, sess); err != nil {
		return nil, err
	}
	if err := m.writeCookie(c, sess.ID); err != nil {
		return nil, err
	}
	setContext(c, sess)

	m.log.Debug().Str("session_id", sess.ID).Bool("authenticated", userID != "").Msg("session started")
	return sess, nil
}

func (m *Manager) writeCookie(c echo.Context, sid string) error {
	value, err := m.codec.Encode(sid, m.now())
	if err != nil {
		return fmt.Errorf("sign session cookie: %w", err)
	}
	c.SetCookie(&http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// newToken returns 64 hex characters of randomness.
func newToken() string {
	a, b := uuid.New(), uuid.New()
	return fmt.Sprintf("%x%x", a[:], b[:])
}
