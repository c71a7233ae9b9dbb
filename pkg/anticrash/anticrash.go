// Package anticrash keeps the bot alive through panics and error bursts.
// It counts errors per time window, raises a critical alert when a window
// overflows and reports incidents to the error webhook.
package anticrash

import (
	"bytes"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/goccy/go-json"
)

const (
	defaultThreshold = 15
	defaultWindow    = 5 * time.Second
)

// Handler manages error counting and reporting
type Handler struct {
	errorCount atomic.Int32
	alerted    atomic.Bool
	threshold  int32
	window     time.Duration
	webhookURL string
	client     *http.Client

	stopChan chan struct{}
	stopOnce sync.Once
}

// ReportOptions contains the contents of an error report
type ReportOptions struct {
	Error   string
	Message string
}

var (
	handler *Handler
	once    sync.Once
)

// Init initializes and starts the global handler
func Init(webhookURL string) *Handler {
	once.Do(func() {
		handler = NewHandler(webhookURL, defaultThreshold, defaultWindow)
		handler.Start()
	})
	return handler
}

// Get returns the global handler, or nil if Init was never called
func Get() *Handler {
	return handler
}

// NewHandler creates a Handler that alerts once more than threshold errors
// are counted inside a single window.
func NewHandler(webhookURL string, threshold int32, window time.Duration) *Handler {
	return &Handler{
		threshold:  threshold,
		window:     window,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		stopChan:   make(chan struct{}),
	}
}

// Start begins the window reset loop
func (h *Handler) Start() {
	go func() {
		ticker := time.NewTicker(h.window)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				h.errorCount.Store(0)
				h.alerted.Store(false)
			case <-h.stopChan:
				return
			}
		}
	}()
}

// Stop stops the window reset loop
func (h *Handler) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })
}

// IncrementError counts one error and returns the count in the current window.
func (h *Handler) IncrementError(source string) int32 {
	count := h.errorCount.Add(1)
	logger.Debug(fmt.Sprintf("Error count: %d (%s)", count, source), "AntiCrash")

	if count > h.threshold && h.alerted.CompareAndSwap(false, true) {
		msg := fmt.Sprintf("%d errors in less than %s, last from %s", count, h.window, source)
		logger.Critical(msg, "AntiCrash")
		go h.report(ReportOptions{Error: "Error burst", Message: msg})
	}
	return count
}

// HandlePanic records a recovered panic
func (h *Handler) HandlePanic(source string, recovered any) {
	h.IncrementError(source)
	logger.Error(fmt.Sprintf("Panic in %s: %v\n%s", source, recovered, debug.Stack()), "AntiCrash")
}

// Report sends an error report to the Discord webhook. It is a no-op
// without a webhook URL.
func (h *Handler) Report(data ReportOptions) error {
	if h.webhookURL == "" {
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"embeds": []any{map[string]any{
			"author":      map[string]string{"name": "Error " + data.Error},
			"description": data.Message,
			"color":       0xFF0000,
			"footer":      map[string]string{"text": "PancyMod Go"},
			"timestamp":   time.Now().Format(time.RFC3339),
		}},
	})
	if err != nil {
		return fmt.Errorf("marshal error report: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, h.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("send error report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("error webhook responded %d", resp.StatusCode)
	}
	return nil
}

func (h *Handler) report(data ReportOptions) {
	if err := h.Report(data); err != nil {
		logger.Warn(err.Error(), "AntiCrash")
	}
}

// Recover must be deferred directly: defer anticrash.Recover("source").
// A recovered panic is counted by the global handler when one exists.
func Recover(source string) {
	r := recover()
	if r == nil {
		return
	}
	if handler != nil {
		handler.HandlePanic(source, r)
		return
	}
	logger.Error(fmt.Sprintf("Panic recovered in %s (no handler): %v", source, r), "AntiCrash")
}
