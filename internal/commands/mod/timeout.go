package mod

import (
	"github.com/PancyStudios/PancyModGo/internal/moderation"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createTimeoutCommand creates the /timeout command. The duration is not
// bounded here; Discord rejects timeouts longer than 28 days.
func createTimeoutCommand(run discord.CommandRunFunc) *discord.Command {
	return discord.NewCommand(
		moderation.NameTimeout,
		"Timeout a user for a specific duration",
		category,
		run,
	).WithOptions(
		userOption("The user to timeout"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        moderation.OptionDuration,
			Description: "Duration in minutes",
			Required:    true,
		},
		reasonOption("Reason for the timeout", false),
	).InGuildsOnly()
}
