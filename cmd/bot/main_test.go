package main

import (
	"context"
	"testing"

	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithoutTokenExitsWithOne(t *testing.T) {
	cfg := &config.Config{LogsDir: t.TempDir(), ClientID: "123"}

	assert.Equal(t, 1, run(context.Background(), cfg))
}

func TestStatusReporterBeforeStart(t *testing.T) {
	client, err := discord.NewClient("token", "")
	require.NoError(t, err)

	r := &statusReporter{client: client}
	st := r.Status()

	assert.False(t, st.Ready)
	assert.Zero(t, st.Guilds)
	assert.False(t, st.MQTTConnected)
	assert.Zero(t, st.Uptime)

	data, err := r.answer(nil)
	require.NoError(t, err)
	assert.Equal(t, false, data.(map[string]interface{})["ready"])
}
