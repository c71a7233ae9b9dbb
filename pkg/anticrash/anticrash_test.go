package anticrash

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementErrorAlertsOncePerWindow(t *testing.T) {
	var reports atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reports.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	h := NewHandler(srv.URL, 2, time.Hour)
	for i := 0; i < 6; i++ {
		h.IncrementError("test")
	}

	assert.Eventually(t, func() bool { return reports.Load() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), reports.Load(), "a window alerts only once")
}

func TestWindowReset(t *testing.T) {
	h := NewHandler("", 100, 20*time.Millisecond)
	h.Start()
	defer h.Stop()

	h.IncrementError("test")
	h.IncrementError("test")

	assert.Eventually(t, func() bool { return h.errorCount.Load() == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), h.IncrementError("test"))
}

func TestStopIsIdempotent(t *testing.T) {
	h := NewHandler("", 1, time.Second)
	h.Start()
	h.Stop()
	assert.NotPanics(t, h.Stop)
}

func TestReport(t *testing.T) {
	var body map[string][]map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	h := NewHandler(srv.URL, 1, time.Second)
	require.NoError(t, h.Report(ReportOptions{Error: "Test", Message: "something broke"}))

	require.Len(t, body["embeds"], 1)
	embed := body["embeds"][0]
	assert.Equal(t, "something broke", embed["description"])
	assert.Equal(t, float64(0xFF0000), embed["color"])
	assert.Equal(t, "Error Test", embed["author"].(map[string]any)["name"])
}

func TestReportStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	h := NewHandler(srv.URL, 1, time.Second)
	assert.Error(t, h.Report(ReportOptions{Error: "Test", Message: "x"}))
}

func TestReportWithoutWebhook(t *testing.T) {
	h := NewHandler("", 1, time.Second)
	assert.NoError(t, h.Report(ReportOptions{Error: "Test", Message: "x"}))
}

func TestRecover(t *testing.T) {
	prev := handler
	handler = NewHandler("", 100, time.Hour)
	defer func() { handler = prev }()

	assert.NotPanics(t, func() {
		defer Recover("test")
		panic("boom")
	})
	assert.Equal(t, int32(1), handler.errorCount.Load())
}
