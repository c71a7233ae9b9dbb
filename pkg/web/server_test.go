package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type staticStatus Status

func (s staticStatus) Status() Status { return Status(s) }

func newTestServer(provider StatusProvider) *Server {
	s := NewServer("0", RateLimitConfig{Rate: rate.Inf})
	SetupAPIRoutes(s, provider)
	return s
}

func serve(s *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	s.Engine().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	w := serve(newTestServer(staticStatus{}), http.MethodGet, "/api/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestStatusReady(t *testing.T) {
	s := newTestServer(staticStatus{Ready: true, Guilds: 3, MQTTConnected: true, Uptime: 90 * time.Second, Version: "1.0"})
	w := serve(s, http.MethodGet, "/api/status")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1m30s", body["uptime"])
	assert.Equal(t, map[string]interface{}{"isOnline": true, "guilds": 3.0}, body["bot"])
	assert.Equal(t, map[string]interface{}{"isOnline": true}, body["mqtt"])
}

func TestStatusNotReady(t *testing.T) {
	w := serve(newTestServer(staticStatus{}), http.MethodGet, "/api/status")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "starting", decode(t, w)["status"])
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	s := newTestServer(staticStatus{})

	w := serve(s, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not Found", decode(t, w)["error"])

	w = serve(s, http.MethodPost, "/api/health")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method Not Allowed", decode(t, w)["error"])
}

func TestRateLimit(t *testing.T) {
	s := NewServer("0", RateLimitConfig{Rate: rate.Every(time.Hour), Burst: 2})
	SetupAPIRoutes(s, staticStatus{})

	assert.Equal(t, http.StatusOK, serve(s, http.MethodGet, "/api/health").Code)
	assert.Equal(t, http.StatusOK, serve(s, http.MethodGet, "/api/health").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(s, http.MethodGet, "/api/health").Code)

	other := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	s.Engine().ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code, "limits are per client IP")
}

func TestMetricsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	s := newTestServer(staticStatus{})
	SetupMetricsRoute(s, reg)

	w := serve(s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_total 1")
}

func TestShutdownBeforeStart(t *testing.T) {
	s := NewServer("0", DefaultRateLimit)
	require.NoError(t, s.Shutdown(context.Background()))
	assert.NoError(t, s.Start(), "a closed server returns nil from Start")
}

func TestIdleLimitersAreSwept(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limits := newIPLimiters(RateLimitConfig{Rate: rate.Every(time.Hour), Burst: 1}, time.Minute, func() time.Time { return now })

	assert.True(t, limits.allow("10.0.0.1"))
	assert.False(t, limits.allow("10.0.0.1"))
	assert.True(t, limits.allow("10.0.0.2"))
	assert.Equal(t, 2, limits.size())

	now = now.Add(30 * time.Second)
	assert.False(t, limits.allow("10.0.0.2"))

	now = now.Add(45 * time.Second)
	assert.False(t, limits.allow("10.0.0.2"), "an active client keeps its bucket")
	assert.Equal(t, 1, limits.size(), "idle clients are dropped")

	assert.True(t, limits.allow("10.0.0.1"), "a swept client starts with a fresh bucket")
}
