package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"globetrotter/pkg/logger"
	"globetrotter/pkg/utils"
)

// UserRateLimiter hands out one token bucket per authenticated user.
// Idle buckets expire from the cache after an hour.
type UserRateLimiter struct {
	limiters *cache.Cache
	limit    rate.Limit
	burst    int
}

// NewUserRateLimiter returns nil when perMinute is not positive, which disables limiting.
func NewUserRateLimiter(perMinute int) *UserRateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &UserRateLimiter{
		limiters: cache.New(time.Hour, 10*time.Minute),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *UserRateLimiter) limiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Get(key); ok {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	if err := l.limiters.Add(key, lim, cache.DefaultExpiration); err != nil {
		// Lost the race; use the bucket another request stored.
		if v, ok := l.limiters.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

// Middleware must run after JWTAuthMiddleware. A nil limiter allows everything.
func (l *UserRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		key := c.ClientIP()
		if id, ok := CurrentUserID(c); ok {
			key = id.String()
		}
		if !l.limiter(key).Allow() {
			logger.GetLogger().Warnw("Rate limit exceeded", "key", key, "path", c.FullPath())
			c.Header("Retry-After", "60")
			utils.HandleServiceError(c, utils.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
