package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveCommand("purge", "success", 50*time.Millisecond)
	m.Actions.WithLabelValues("purge").Inc()
	m.AutoModDeletes.Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"pancymod_commands_total",
		"pancymod_moderation_actions_total",
		"pancymod_automod_deletions_total",
		"pancymod_command_duration_seconds",
	}, names)
}

func TestObserveCommand(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveCommand("ban", "rejected", time.Second)

	expected := `
# HELP pancymod_commands_total Slash command invocations by command and outcome.
# TYPE pancymod_commands_total counter
pancymod_commands_total{command="ban",outcome="rejected"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(m.Commands, strings.NewReader(expected)))
}

func TestNewPanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
