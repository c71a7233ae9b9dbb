package logger

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// entryLevel recovers the LogLevel of an entry. Entries without a severity
// field are mapped from their logrus level.
func entryLevel(e *logrus.Entry) LogLevel {
	if lvl, ok := e.Data[levelField].(LogLevel); ok {
		return lvl
	}
	switch e.Level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return LevelCritical
	case logrus.ErrorLevel:
		return LevelError
	case logrus.WarnLevel:
		return LevelWarn
	case logrus.DebugLevel, logrus.TraceLevel:
		return LevelDebug
	default:
		return LevelInfo
	}
}

func entryPrefix(e *logrus.Entry) string {
	if p, ok := e.Data[prefixField].(string); ok && p != "" {
		return p
	}
	return "App"
}

// lineFormatter renders "[timestamp] [LEVEL] [prefix]: message".
type lineFormatter struct {
	colors bool
}

func (f *lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	level := entryLevel(e)
	name := level.String()
	if f.colors {
		name = level.Color() + name + colorReset
	}
	return []byte(fmt.Sprintf("[%s] [%s] [%s]: %s\n",
		e.Time.Format(timestampFormat),
		name,
		entryPrefix(e),
		e.Message,
	)), nil
}

// fileHook mirrors every entry into combined.log and errors into error.log.
type fileHook struct {
	mu        sync.Mutex
	formatter *lineFormatter
	combined  *os.File
	errors    *os.File
}

func newFileHook(dir string) (*fileHook, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	combined, err := os.OpenFile(filepath.Join(dir, "combined.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open combined log: %w", err)
	}

	errorsFile, err := os.OpenFile(filepath.Join(dir, "error.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		combined.Close()
		return nil, fmt.Errorf("open error log: %w", err)
	}

	return &fileHook{
		formatter: &lineFormatter{},
		combined:  combined,
		errors:    errorsFile,
	}, nil
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(e *logrus.Entry) error {
	line, err := h.formatter.Format(e)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.combined.Write(line); err != nil {
		return err
	}
	if entryLevel(e) <= LevelError {
		if _, err := h.errors.Write(line); err != nil {
			return err
		}
	}
	return nil
}

func (h *fileHook) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.combined.Close()
	h.errors.Close()
}

// webhookHook posts entries as embeds to Discord webhooks without blocking the caller.
type webhookHook struct {
	errorURL string
	logsURL  string
	client   *http.Client
	pending  sync.WaitGroup
}

func newWebhookHook(errorURL, logsURL string) *webhookHook {
	return &webhookHook{
		errorURL: errorURL,
		logsURL:  logsURL,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (h *webhookHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// target picks the webhook for a level; errors never go to the logs webhook.
func (h *webhookHook) target(level LogLevel) string {
	if level <= LevelError {
		return h.errorURL
	}
	return h.logsURL
}

func (h *webhookHook) Fire(e *logrus.Entry) error {
	level := entryLevel(e)
	url := h.target(level)
	if url == "" {
		return nil
	}

	payload, err := webhookPayload(level, entryPrefix(e), e.Message, e.Time)
	if err != nil {
		return err
	}

	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		h.post(url, payload)
	}()
	return nil
}

func (h *webhookHook) post(url string, payload []byte) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}

func (h *webhookHook) wait() {
	h.pending.Wait()
}

type webhookEmbed struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Color       int           `json:"color"`
	Timestamp   string        `json:"timestamp"`
	Footer      webhookFooter `json:"footer"`
}

type webhookFooter struct {
	Text string `json:"text"`
}

func webhookPayload(level LogLevel, prefix, message string, at time.Time) ([]byte, error) {
	return json.Marshal(map[string][]webhookEmbed{
		"embeds": {{
			Title:       fmt.Sprintf("[%s] %s", level.String(), prefix),
			Description: fmt.Sprintf("```%s```", message),
			Color:       level.DiscordColor(),
			Timestamp:   at.Format(time.RFC3339),
			Footer:      webhookFooter{Text: "💫 PancyMod Go"},
		}},
	})
}
