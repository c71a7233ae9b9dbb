package mod

import (
	"github.com/PancyStudios/PancyModGo/internal/moderation"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
)

// createWarnCommand creates the /warn command
func createWarnCommand(run discord.CommandRunFunc) *discord.Command {
	return discord.NewCommand(
		moderation.NameWarn,
		"Warn a user",
		category,
		run,
	).WithOptions(
		userOption("The user to warn"),
		reasonOption("Reason for the warning", true),
	).InGuildsOnly()
}
