package mod

import (
	"github.com/PancyStudios/PancyModGo/internal/moderation"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createAddRoleCommand creates the /addrole command
func createAddRoleCommand(run discord.CommandRunFunc) *discord.Command {
	return discord.NewCommand(
		moderation.NameAddRole,
		"Add a role to a user",
		category,
		run,
	).WithOptions(
		userOption("The user to add the role to"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        moderation.OptionRole,
			Description: "The role to add",
			Required:    true,
		},
		reasonOption("Reason for adding the role", false),
	).InGuildsOnly()
}
