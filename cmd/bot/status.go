package main

import (
	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/mqtt"
	"github.com/PancyStudios/PancyModGo/pkg/web"
)

// statusReporter answers /api/status and MQTT status requests
type statusReporter struct {
	client *discord.ExtendedClient
	mqtt   *mqtt.MqttCommunicator
}

func (r *statusReporter) Status() web.Status {
	return web.Status{
		Ready:         r.client.IsReady(),
		Guilds:        r.client.GuildCount(),
		MQTTConnected: r.mqtt != nil && r.mqtt.IsConnected(),
		Uptime:        r.client.Uptime(),
		Version:       config.Version,
	}
}

func (r *statusReporter) answer(map[string]interface{}) (interface{}, error) {
	st := r.Status()
	return map[string]interface{}{
		"ready":   st.Ready,
		"guilds":  st.Guilds,
		"uptime":  st.Uptime.Seconds(),
		"version": st.Version,
	}, nil
}
