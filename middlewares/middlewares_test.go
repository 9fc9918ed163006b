package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicreporter-be/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLimitedRouter(client *redis.Client, limit int) *gin.Engine {
	r := gin.New()
	r.POST("/api/reports", ReportRateLimiter(client, "issue_limit", limit), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r
}

func post(r http.Handler, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reports", nil)
	req.RemoteAddr = ip + ":4000"
	r.ServeHTTP(w, req)
	return w
}

func TestReportRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := newLimitedRouter(client, 2)

	assert.Equal(t, http.StatusCreated, post(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusCreated, post(r, "10.0.0.1").Code)

	w := post(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")

	assert.Equal(t, http.StatusCreated, post(r, "10.0.0.2").Code)

	ttl := mr.TTL("issue_limit:10.0.0.1")
	assert.Equal(t, 24*time.Hour, ttl)

	mr.FastForward(25 * time.Hour)
	assert.Equal(t, http.StatusCreated, post(r, "10.0.0.1").Code)
}

func TestReportRateLimiter_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	r := newLimitedRouter(client, 2)
	mr.Close()

	assert.Equal(t, http.StatusInternalServerError, post(r, "10.0.0.1").Code)
}

func TestReportRateLimiter_Disabled(t *testing.T) {
	r := newLimitedRouter(nil, 1)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusCreated, post(r, "10.0.0.1").Code)
	}
}

func TestRequestMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	r := gin.New()
	r.Use(RequestMetrics(m))
	r.GET("/api/reports/slug/:slug", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
	})

	for _, path := range []string{"/api/reports/slug/a", "/api/reports/slug/b", "/nowhere"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/reports/slug/:slug", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}
