package server

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	logx "github.com/Chative-support-poc/server/pkg/logger"
)

const RequestIDKey = "X-Request-ID"

var ErrTooManyRequests = fiber.NewError(fiber.StatusTooManyRequests, "Too many requests")

// NewRequestIDMiddleware reuses the caller's X-Request-ID or mints a ULID.
func NewRequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDKey)
		if requestID == "" {
			requestID = newULID(time.Now())
		}

		c.Locals(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)

		return c.Next()
	}
}

func newULID(t time.Time) string {
	id, err := ulid.New(ulid.Timestamp(t), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return "unknown"
	}
	return id.String()
}

// RequestID returns the id assigned by NewRequestIDMiddleware.
func RequestID(c *fiber.Ctx) string {
	requestID, ok := c.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// NewLoggingMiddleware writes one access log line per request.
func NewLoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// the error handler has not run yet; report the status it will send
			status = statusOf(err)
		}

		ev := logx.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = logx.Error()
		case status >= fiber.StatusBadRequest:
			ev = logx.Warn()
		}
		ev.Str("request_id", RequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("ip", c.IP()).
			Msg("HTTP request")

		return err
	}
}

// limiterIdleTTL is how long a client's bucket survives without requests.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	bucket    map[string]*clientLimiter
	rate      rate.Limit
	burstSize int
	idleTTL   time.Duration
	lastPrune time.Time
	now       func() time.Time
	mutex     sync.Mutex
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*clientLimiter),
		rate:      reqRate,
		burstSize: burstSize,
		idleTTL:   limiterIdleTTL,
		now:       time.Now,
	}
}

// limiterFor returns the bucket for ip. Buckets idle past idleTTL are dropped,
// checked at most once per idleTTL; an idle bucket has refilled anyway.
func (r *rateLimiter) limiterFor(ip string) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	if now.Sub(r.lastPrune) >= r.idleTTL {
		for key, c := range r.bucket {
			if now.Sub(c.lastSeen) >= r.idleTTL {
				delete(r.bucket, key)
			}
		}
		r.lastPrune = now
	}

	c, ok := r.bucket[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(r.rate, r.burstSize)}
		r.bucket[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

func (r *rateLimiter) size() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.bucket)
}

// NewRateLimiter applies a token bucket per client IP. A non-positive rate disables it.
func NewRateLimiter(reqRate float64, burst int) fiber.Handler {
	if reqRate <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := newRateLimiter(rate.Limit(reqRate), burst)

	return func(c *fiber.Ctx) error {
		clientIP := c.IP()
		if !limiter.limiterFor(clientIP).Allow() {
			logx.Warn().Str("ip", clientIP).Msg("Too many requests")
			return ErrTooManyRequests
		}
		return c.Next()
	}
}
