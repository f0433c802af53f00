package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupLimitedRoute(rl *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimiter(t *testing.T) {
	t.Run("BurstThenThrottled", func(t *testing.T) {
		rl := middleware.NewRateLimiter(1, 3)
		r := setupLimitedRoute(rl)

		for i := 0; i < 3; i++ {
			req, _ := http.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}

		req, _ := http.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("PerIPBuckets", func(t *testing.T) {
		rl := middleware.NewRateLimiter(1, 1)
		r := setupLimitedRoute(rl)

		first, _ := http.NewRequest(http.MethodPost, "/login", nil)
		first.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, first)
		assert.Equal(t, http.StatusOK, w.Code)

		// same IP is out of budget
		again, _ := http.NewRequest(http.MethodPost, "/login", nil)
		again.RemoteAddr = "10.0.0.1:1234"
		w = httptest.NewRecorder()
		r.ServeHTTP(w, again)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		// a different IP gets its own bucket
		other, _ := http.NewRequest(http.MethodPost, "/login", nil)
		other.RemoteAddr = "10.0.0.2:1234"
		w = httptest.NewRecorder()
		r.ServeHTTP(w, other)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
