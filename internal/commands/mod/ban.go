package mod

import (
	"github.com/PancyStudios/PancyModGo/internal/moderation"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
)

// createBanCommand creates the /ban command
func createBanCommand(run discord.CommandRunFunc) *discord.Command {
	return discord.NewCommand(
		moderation.NameBan,
		"Ban a user from the server",
		category,
		run,
	).WithOptions(
		userOption("The user to ban"),
		reasonOption("Reason for the ban", false),
	).InGuildsOnly()
}
