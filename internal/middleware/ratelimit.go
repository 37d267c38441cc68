package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/foodmood/backend/internal/apierror"
	"github.com/JonnyWalker81/foodmood/backend/internal/logger"
)

// RateLimiter is a fixed-window counter keyed by caller.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	rate    int
	period  time.Duration
	name    string
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type window struct {
	start time.Time
	count int
}

// NewRateLimiter allows rate requests per period for each key. A background
// sweep drops idle keys until Stop is called.
func NewRateLimiter(rate int, period time.Duration, name string) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*window),
		rate:    rate,
		period:  period,
		name:    name,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.sweep()

	logger.Default().Debug("rate limiter initialized",
		logger.String("name", name),
		logger.Int("rate", rate),
		logger.Duration("period", period),
	)
	return rl
}

// Stop ends the background sweep.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.period * 2)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
		}

		rl.mu.Lock()
		now := rl.now()
		cleaned := 0
		for key, w := range rl.clients {
			if now.Sub(w.start) > rl.period*2 {
				delete(rl.clients, key)
				cleaned++
			}
		}
		rl.mu.Unlock()

		if cleaned > 0 {
			logger.Default().Debug("rate limiter sweep",
				logger.String("name", rl.name),
				logger.Int("cleaned", cleaned),
			)
		}
	}
}

// allow counts a request for key. When denied it also returns how long until
// the window resets.
func (rl *RateLimiter) allow(key string) (bool, int, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[key]
	if !ok || now.Sub(w.start) >= rl.period {
		rl.clients[key] = &window{start: now, count: 1}
		return true, rl.rate - 1, 0
	}

	w.count++
	remaining := rl.rate - w.count
	if remaining < 0 {
		return false, 0, w.start.Add(rl.period).Sub(now)
	}
	return true, remaining, 0
}

// Middleware limits by authenticated user, falling back to client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString("user_id")
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		ok, remaining, wait := rl.allow(key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if ok {
			c.Next()
			return
		}

		retryAfter := int(wait.Round(time.Second) / time.Second)
		if retryAfter < 1 {
			retryAfter = 1
		}
		logger.Ctx(c.Request.Context()).Warn("rate limit exceeded",
			logger.String("limiter", rl.name),
			logger.Int("limit", rl.rate),
			logger.Int("retry_after", retryAfter),
		)
		apierror.Abort(c, apierror.NewRateLimitError(apierror.GetRequestID(c), retryAfter))
	}
}
