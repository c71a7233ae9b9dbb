package events

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterReadyEvent registers the ready event handler
func RegisterReadyEvent(eh *discord.EventHandler) {
	eh.OnReady(onReady)
}

// onReady is called when the bot successfully connects to Discord
func onReady(s *discordgo.Session, r *discordgo.Ready) {
	logger.Info(fmt.Sprintf("Connected to %d servers", len(r.Guilds)), "Ready")

	if err := s.UpdateWatchStatus(0, "for rule breakers"); err != nil {
		logger.Error(fmt.Sprintf("Error setting status: %v", err), "Ready")
	}
}
