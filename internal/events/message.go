package events

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// RegisterMessageEvents registers all message-related event handlers
func RegisterMessageEvents(eh *discord.EventHandler, filter Inspector) {
	eh.OnMessageCreate(messageCreateHandler(filter))
}

// messageCreateHandler runs every new message through the filter
func messageCreateHandler(filter Inspector) discord.MessageCreateHandler {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Message == nil {
			return
		}
		filter.Inspect(m.Message)
	}
}
