package httpserver

import (
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const minLimiterIdle = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// ipLimiters hands out one token bucket per client IP. Buckets idle for
// longer than idle are dropped; by then they have refilled, so a fresh one
// behaves the same.
type ipLimiters struct {
	limit     rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	lastSweep atomic.Int64
	limiters  *xsync.MapOf[string, *ipLimiter]
}

func newIPLimiters(perSecond float64, burst int, now func() time.Time) *ipLimiters {
	if burst <= 0 {
		burst = 1
	}
	idle := minLimiterIdle
	if refill := time.Duration(float64(burst) / perSecond * float64(time.Second)); refill > idle {
		idle = refill
	}
	l := &ipLimiters{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		idle:     idle,
		now:      now,
		limiters: xsync.NewMapOf[string, *ipLimiter](),
	}
	l.lastSweep.Store(now().UnixNano())
	return l
}

func (l *ipLimiters) allow(ip string) bool {
	now := l.now()
	l.maybeEvict(now)

	entry, _ := l.limiters.LoadOrCompute(ip, func() *ipLimiter {
		return &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
	})
	entry.lastSeen.Store(now.UnixNano())
	return entry.limiter.AllowN(now, 1)
}

// maybeEvict runs at most once per idle period, on whichever request
// crosses it first.
func (l *ipLimiters) maybeEvict(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.idle) || !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	l.evictIdle(now)
}

func (l *ipLimiters) evictIdle(now time.Time) int {
	cutoff := now.Add(-l.idle).UnixNano()
	removed := 0
	l.limiters.Range(func(ip string, entry *ipLimiter) bool {
		if entry.lastSeen.Load() < cutoff {
			l.limiters.Compute(ip, func(cur *ipLimiter, loaded bool) (*ipLimiter, bool) {
				if loaded && cur == entry && cur.lastSeen.Load() < cutoff {
					removed++
					return cur, true
				}
				return cur, !loaded
			})
		}
		return true
	})
	return removed
}

// RateLimit rejects requests beyond the per-IP budget with 429. A
// non-positive perSecond disables limiting.
func RateLimit(perSecond float64, burst int) fiber.Handler {
	if perSecond <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	limiters := newIPLimiters(perSecond, burst, time.Now)
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if !limiters.allow(ip) {
			log.Warn().Str("ip", ip).Str("path", c.Path()).Msg("rate limit exceeded")
			return c.Status(fiber.StatusTooManyRequests).JSON(ResponseBody{Status: TooManyRequests})
		}
		return c.Next()
	}
}
