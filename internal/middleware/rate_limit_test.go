package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRouter(rl *RateLimiter, userID uuid.UUID) *gin.Engine {
	router := gin.New()
	router.POST("/regenerate", func(c *gin.Context) {
		c.Set(ContextUserID, userID)
		c.Next()
	}, rl.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func post(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/regenerate", nil))
	return w
}

func TestRateLimiter_InMemory(t *testing.T) {
	rl := NewRegenerateRateLimiter(nil, 2, time.Hour)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	router := limitedRouter(rl, uuid.New())

	w := post(router)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, post(router).Code)

	w = post(router)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	now = now.Add(time.Hour)
	assert.Equal(t, http.StatusOK, post(router).Code)
}

func TestRateLimiter_PerUser(t *testing.T) {
	rl := NewRegenerateRateLimiter(nil, 1, time.Hour)

	first := limitedRouter(rl, uuid.New())
	second := limitedRouter(rl, uuid.New())

	assert.Equal(t, http.StatusOK, post(first).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(first).Code)
	assert.Equal(t, http.StatusOK, post(second).Code)
}

func TestRateLimiter_RequiresUser(t *testing.T) {
	rl := NewRegenerateRateLimiter(nil, 1, time.Hour)
	router := gin.New()
	router.POST("/regenerate", rl.RateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, post(router).Code)
}

func TestRateLimiter_Redis(t *testing.T) {
	client := testhelpers.StartRedis(t)
	rl := NewRegenerateRateLimiter(client, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, _, err := rl.IsAllowed(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, remaining, reset, err := rl.IsAllowed(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.True(t, reset.After(time.Now()))
}
