package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/atelier/storefront/internal/api/metrics"
	"github.com/atelier/storefront/internal/core/domain"
)

const maxTrackedClients = 10000

// LoginThrottle limits login attempts per client IP with a token bucket.
type LoginThrottle struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	audit    *Audit
}

// NewLoginThrottle allows perMinute attempts per IP with bursts of burst.
func NewLoginThrottle(perMinute float64, burst int, audit *Audit) *LoginThrottle {
	return &LoginThrottle{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
		audit:    audit,
	}
}

func (t *LoginThrottle) limiter(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.limiters[key]
	if !ok {
		if len(t.limiters) >= maxTrackedClients {
			t.limiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(t.limit, t.burst)
		t.limiters[key] = l
	}
	return l
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
func (t *LoginThrottle) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := t.limiter(c.RealIP()).Reserve()
			if delay := r.Delay(); delay > 0 {
				r.Cancel()
				metrics.LoginsTotal.WithLabelValues("throttled").Inc()
				t.audit.Emit(c, Event{
					Kind:     domain.EventLoginThrottled,
					Severity: domain.SeverityWarn,
					Detail:   "too many login attempts",
				})
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(delay.Round(time.Second).Seconds())+1))
				return jsonError(c, http.StatusTooManyRequests, "too many login attempts")
			}
			return next(c)
		}
	}
}
