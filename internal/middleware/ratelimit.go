package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/zaqqye/signage_backend/internal/metrics"
)

const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter keeps one token bucket per client IP.
type IPLimiter struct {
	rate  rate.Limit
	burst int

	mu          sync.Mutex
	visitors    map[string]*visitor
	lastCleanup time.Time
	now         func() time.Time
}

// NewLoginLimiter allows perMinute attempts per IP, bursting to the same amount.
func NewLoginLimiter(perMinute int) *IPLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &IPLimiter{
		rate:        rate.Every(time.Minute / time.Duration(perMinute)),
		burst:       perMinute,
		visitors:    make(map[string]*visitor),
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	allowed := v.limiter.AllowN(now, 1)

	if now.Sub(l.lastCleanup) >= limiterIdleTTL {
		for key, other := range l.visitors {
			if now.Sub(other.lastSeen) >= limiterIdleTTL {
				delete(l.visitors, key)
			}
		}
		l.lastCleanup = now
	}
	return allowed
}

// Middleware rejects requests over the limit with 429.
func (l *IPLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			metrics.LoginRejectedTotal.WithLabelValues("rate_limited").Inc()
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "too many login attempts, try again later",
			})
			return
		}
		c.Next()
	}
}
