package middleware

import (
	"leadboard/utils"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const (
	limiterSweepEvery = 5 * time.Minute
	limiterIdleAfter  = 10 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiters holds one token bucket per client IP. Idle buckets are swept
// while handling requests, so no background goroutine outlives the app.
type ipLimiters struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	every     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiters(requests int, window time.Duration) *ipLimiters {
	return &ipLimiters{
		visitors:  make(map[string]*visitor),
		every:     rate.Every(window / time.Duration(requests)),
		burst:     requests,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *ipLimiters) allow(ip string) bool {
	l.mu.Lock()
	now := l.now()
	if now.Sub(l.lastSweep) > limiterSweepEvery {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > limiterIdleAfter {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

func (l *ipLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RateLimiter allows each client IP a burst of requests refilled evenly over window
func RateLimiter(requests int, window time.Duration) fiber.Handler {
	return rateLimit(newIPLimiters(requests, window))
}

func rateLimit(limiters *ipLimiters) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !limiters.allow(c.IP()) {
			utils.Log.Debug("Rate limit hit by %s on %s", c.IP(), c.Path())
			return utils.NewAppError(fiber.StatusTooManyRequests, "Rate limit exceeded", nil).WithKey("error_rate_limited")
		}
		return c.Next()
	}
}
