package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status is a snapshot of the bot's runtime state
type Status struct {
	Ready         bool          `json:"ready"`
	Guilds        int           `json:"guilds"`
	MQTTConnected bool          `json:"mqttConnected"`
	Uptime        time.Duration `json:"-"`
	Version       string        `json:"version"`
}

// StatusProvider reports the bot's runtime state
type StatusProvider interface {
	Status() Status
}

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, provider StatusProvider) {
	api := s.Group("/api")
	{
		api.GET("/status", statusHandler(provider))
		api.GET("/health", healthHandler)
	}
}

// SetupMetricsRoute exposes the collectors of gatherer at /metrics
func SetupMetricsRoute(s *Server, gatherer prometheus.Gatherer) {
	s.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

// statusHandler returns the gateway and event stream status. It answers 503
// until the gateway session is ready.
func statusHandler(provider StatusProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := provider.Status()

		code := http.StatusOK
		state := "ok"
		if !st.Ready {
			code = http.StatusServiceUnavailable
			state = "starting"
		}

		c.JSON(code, gin.H{
			"status":  state,
			"version": st.Version,
			"uptime":  st.Uptime.Round(time.Second).String(),
			"bot": gin.H{
				"isOnline": st.Ready,
				"guilds":   st.Guilds,
			},
			"mqtt": gin.H{
				"isOnline": st.MQTTConnected,
			},
		})
	}
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PancyMod Go is running",
	})
}
