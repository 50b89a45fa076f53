package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/carelink/backend/internal/adapters/cache"
	"github.com/carelink/backend/internal/api/middleware"
)

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"total_users":3}`)
	})
}

func TestCacheMiddleware_HitAfterMiss(t *testing.T) {
	calls := 0
	m := middleware.NewCacheMiddleware(cache.NewMemoryAdapter(), nil, map[string]middleware.CacheConfig{
		"/api/dashboard/stats": {TTL: time.Minute, Enabled: true},
	})
	handler := m.Middleware(countingHandler(&calls))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"total_users":3}`, second.Body.String())
}

func TestCacheMiddleware_SkipsUnconfiguredRoutes(t *testing.T) {
	calls := 0
	m := middleware.NewCacheMiddleware(cache.NewMemoryAdapter(), nil, map[string]middleware.CacheConfig{
		"/api/dashboard/stats": {TTL: time.Minute, Enabled: true},
	})
	handler := m.Middleware(countingHandler(&calls))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/users", nil))
	}
	assert.Equal(t, 2, calls)
}

func TestCacheMiddleware_InvalidateOnWrite(t *testing.T) {
	calls := 0
	m := middleware.NewCacheMiddleware(cache.NewMemoryAdapter(), nil, map[string]middleware.CacheConfig{
		"/api/dashboard/stats": {TTL: time.Minute, Enabled: true},
	})
	stats := m.Middleware(countingHandler(&calls))
	write := m.InvalidateOnWrite("/api/dashboard/stats")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	stats.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))
	write.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{}`)))
	stats.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))

	assert.Equal(t, 2, calls)
}
