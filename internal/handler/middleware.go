package handler

import (
	"crypto/hmac"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/campaign-site/internal/service"
	"github.com/maxviazov/campaign-site/pkg/response"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// parseBoolQuery is a helper to flexibly parse boolean-like query parameters.
func parseBoolQuery(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1"
}

// RequestLogger logs one line per request with status and latency.
// 5xx responses log at error, 4xx at warn, the rest at debug.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := logger.Debug()
		switch {
		case status >= http.StatusInternalServerError:
			ev = logger.Error()
		case status >= http.StatusBadRequest:
			ev = logger.Warn()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Str("client_ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		// non-browser clients
		return true
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

// CORS answers preflights and echoes allowed origins.
func CORS(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && originAllowed(allowed, origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// CacheControl sets a fixed Cache-Control header on the response.
func CacheControl(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}

// AdminAuth requires "Authorization: Bearer <token>". An empty token leaves the
// admin surface open, which config validation only allows outside prod.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || !hmac.Equal([]byte(strings.TrimSpace(got)), []byte(token)) {
			response.WriteError(c, service.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

const limiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per client IP and evicts idle ones.
type rateLimiter struct {
	mu       sync.Mutex
	perIP    map[string]*ipLimiter
	every    rate.Limit
	burst    int
	lastScan time.Time
	now      func() time.Time
}

func newRateLimiter(perMinute int) *rateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &rateLimiter{
		perIP: make(map[string]*ipLimiter),
		every: rate.Every(time.Minute / time.Duration(perMinute)),
		burst: perMinute,
		now:   time.Now,
	}
}

func (l *rateLimiter) allow(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastScan) > limiterIdleTTL {
		for k, v := range l.perIP {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.perIP, k)
			}
		}
		l.lastScan = now
	}
	e, ok := l.perIP[ip]
	if !ok {
		e = &ipLimiter{lim: rate.NewLimiter(l.every, l.burst)}
		l.perIP[ip] = e
	}
	e.lastSeen = now
	r := e.lim.ReserveN(now, 1)
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, d
	}
	return true, 0
}

// RateLimit allows perMinute requests per client IP, bursting up to the same amount.
func RateLimit(perMinute int) gin.HandlerFunc {
	l := newRateLimiter(perMinute)
	return func(c *gin.Context) {
		ok, wait := l.allow(c.ClientIP())
		if !ok {
			secs := int(wait/time.Second) + 1
			c.Header("Retry-After", strconv.Itoa(secs))
			response.WriteError(c, service.ErrRateLimited)
			return
		}
		c.Next()
	}
}
