package mod

import (
	"github.com/PancyStudios/PancyModGo/internal/moderation"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createPurgeCommand creates the /purge command. The 1-100 range is enforced
// by the dispatcher so out-of-range values get a proper error reply.
func createPurgeCommand(run discord.CommandRunFunc) *discord.Command {
	return discord.NewCommand(
		moderation.NamePurge,
		"Delete multiple messages",
		category,
		run,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        moderation.OptionAmount,
			Description: "Number of messages to delete (1-100)",
			Required:    true,
		},
	).InGuildsOnly()
}
