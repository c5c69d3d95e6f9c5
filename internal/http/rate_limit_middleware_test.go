package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/cosecrets/cosecrets/internal/identity"
)

// identityInjector simulates the identity middleware for a fixed user.
func identityInjector(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := identity.NewContext(c.Request.Context(), identity.Session(userID))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func newRateLimitedRouter(userID uuid.UUID, rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(identityInjector(userID))
	router.Use(RateLimitMiddleware(rps, burst, newTestLogger()))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return router
}

func TestRateLimitMiddleware_AllowsWithinBurst(t *testing.T) {
	router := newRateLimitedRouter(uuid.New(), 1.0, 3)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_RejectsWhenBucketEmpty(t *testing.T) {
	router := newRateLimitedRouter(uuid.New(), 0.1, 1)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestRateLimitMiddleware_IndependentBucketsPerUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	middleware := RateLimitMiddleware(0.1, 1, newTestLogger())

	newRouter := func(userID uuid.UUID) *gin.Engine {
		router := gin.New()
		router.Use(identityInjector(userID))
		router.Use(middleware)
		router.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})
		return router
	}

	first := newRouter(uuid.New())
	second := newRouter(uuid.New())

	w := httptest.NewRecorder()
	first.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	first.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// The second user still has a full bucket.
	w = httptest.NewRecorder()
	second.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware_RequiresIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(10.0, 20, newTestLogger()))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
