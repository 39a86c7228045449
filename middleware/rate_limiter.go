package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"novacuts/services/reply"
	"novacuts/utils"
)

// limiterIdleTTL is how long a sender's limiter survives without traffic.
const limiterIdleTTL = 10 * time.Minute

type senderLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a map of senders to their rate limiters.
type rateLimiterStore struct {
	limiters  map[string]*senderLimiter
	mu        sync.Mutex
	perMinute int
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiterStore(perMinute int) *rateLimiterStore {
	return &rateLimiterStore{
		limiters:  make(map[string]*senderLimiter),
		perMinute: perMinute,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// getLimiter returns the rate limiter for a given sender, creating one if it
// doesn't exist. Limiters idle for longer than limiterIdleTTL are dropped.
func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= limiterIdleTTL {
		s.sweep(now)
	}

	entry, exists := s.limiters[key]
	if !exists {
		// perMinute requests per minute, all of which may arrive at once.
		entry = &senderLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMinute)), s.perMinute),
		}
		s.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweep must be called with mu held.
func (s *rateLimiterStore) sweep(now time.Time) {
	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) >= limiterIdleTTL {
			delete(s.limiters, key)
		}
	}
	s.lastSweep = now
}

// RateLimitMiddleware limits inbound messages per sender phone number, falling
// back to the client IP. A throttled sender still gets one TwiML reply.
// A non-positive perMinute disables limiting.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	store := newRateLimiterStore(perMinute)

	return func(c *gin.Context) {
		key := c.PostForm("From")
		if key == "" {
			key = getClientIP(c)
		}
		if !store.getLimiter(key).Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("key", key))
			c.Data(http.StatusOK, utils.XMLContentType, []byte(utils.MustRenderMessage(reply.RateLimited)))
			c.Abort()
			return
		}
		c.Next()
	}
}
