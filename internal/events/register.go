// Package events provides a registry for organizing bot events.
package events

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// Inspector checks inbound messages, e.g. moderation.Filter
type Inspector interface {
	Inspect(m *discordgo.Message) bool
}

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, filter Inspector) {
	logger.System("Registering bot events...", "Events")

	// Ready event (bot startup)
	RegisterReadyEvent(client.EventHandler)

	// Message events (auto-moderation)
	RegisterMessageEvents(client.EventHandler, filter)

	// Gateway connection events
	RegisterShardEvents(client.EventHandler)

	logger.Success("All events registered", "Events")
}
