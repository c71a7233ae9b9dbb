package mod

import (
	"github.com/PancyStudios/PancyModGo/internal/moderation"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
)

// createKickCommand creates the /kick command
func createKickCommand(run discord.CommandRunFunc) *discord.Command {
	return discord.NewCommand(
		moderation.NameKick,
		"Kick a user from the server",
		category,
		run,
	).WithOptions(
		userOption("The user to kick"),
		reasonOption("Reason for the kick", false),
	).InGuildsOnly()
}
