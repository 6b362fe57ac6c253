package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, perMinute int) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLoginRateLimiter(client, perMinute), mr
}

func TestLoginLimiterAttempt(t *testing.T) {
	l, _ := newTestLimiter(t, 2)
	ctx := t.Context()

	a, err := l.Attempt(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, a.Allowed)
	assert.Equal(t, 1, a.Remaining)

	a, err = l.Attempt(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, a.Allowed)

	a, err = l.Attempt(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, a.Allowed)
	assert.Zero(t, a.Remaining)

	a, err = l.Attempt(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, a.Allowed, "other clients have their own window")
}

func TestLoginLimiterWindowRollsOver(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	ctx := t.Context()
	clock := time.Date(2024, 3, 9, 14, 5, 30, 0, time.UTC)
	l.now = func() time.Time { return clock }

	a, err := l.Attempt(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, a.Allowed)
	assert.Equal(t, time.Date(2024, 3, 9, 14, 6, 0, 0, time.UTC), a.Reset)
	assert.True(t, mr.Exists("rate_limit:login:1.2.3.4:1709993100"))

	a, err = l.Attempt(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, a.Allowed)

	clock = clock.Add(time.Minute)
	a, err = l.Attempt(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, a.Allowed, "a new window starts a fresh count")
}

func TestLoginLimiterMiddleware(t *testing.T) {
	l, mr := newTestLimiter(t, 1)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", l.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "rate limit exceeded")

	// an unreachable redis fails open
	mr.Close()
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-RateLimit-Error"))
}
