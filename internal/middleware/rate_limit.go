package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const loginKeyPrefix = "rate_limit:login"

// LoginLimiter caps login attempts per client address in fixed one-minute
// windows counted in Redis
type LoginLimiter struct {
	redis     *redis.Client
	perWindow int
	window    time.Duration
	now       func() time.Time
}

func NewLoginRateLimiter(redisClient *redis.Client, perMinute int) *LoginLimiter {
	return &LoginLimiter{
		redis:     redisClient,
		perWindow: perMinute,
		window:    time.Minute,
		now:       time.Now,
	}
}

// Middleware rejects a client once it has used up the current window.
// Redis failures let the attempt through.
func (l *LoginLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		attempt, err := l.Attempt(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.Warn("login rate limit check failed", slog.String("client", c.ClientIP()), slog.Any("error", err))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(l.perWindow))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(attempt.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(attempt.Reset.Unix(), 10))

		if !attempt.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(attempt.Reset.Sub(l.now()).Seconds()),
			})
			return
		}
		c.Next()
	}
}

// LoginAttempt is the outcome of counting one login for a client
type LoginAttempt struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Attempt records one login for client in the current window
func (l *LoginLimiter) Attempt(ctx context.Context, client string) (LoginAttempt, error) {
	start := l.now().Truncate(l.window)
	key := fmt.Sprintf("%s:%s:%d", loginKeyPrefix, client, start.Unix())

	pipe := l.redis.Pipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return LoginAttempt{}, err
	}

	used := int(count.Val())
	return LoginAttempt{
		Allowed:   used <= l.perWindow,
		Remaining: max(l.perWindow-used, 0),
		Reset:     start.Add(l.window),
	}, nil
}
