// Package metrics holds the Prometheus collectors exported by the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pancymod"

// Metrics groups the bot's collectors
type Metrics struct {
	Commands        *prometheus.CounterVec
	Actions         *prometheus.CounterVec
	AutoModDeletes  prometheus.Counter
	CommandDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Slash command invocations by command and outcome.",
		}, []string{"command", "outcome"}),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_actions_total",
			Help:      "Completed moderation actions by action.",
		}, []string{"action"}),
		AutoModDeletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "automod_deletions_total",
			Help:      "Messages removed by the banned-word filter.",
		}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Time spent handling a slash command.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
	}

	reg.MustRegister(m.Commands, m.Actions, m.AutoModDeletes, m.CommandDuration)
	return m
}

// ObserveCommand records one handled command
func (m *Metrics) ObserveCommand(command, outcome string, elapsed time.Duration) {
	m.Commands.WithLabelValues(command, outcome).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}
