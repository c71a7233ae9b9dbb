// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category.
package commands

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/internal/commands/mod"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, moderation mod.Handler) {
	// Moderation commands (/ban, /kick, /timeout, /warn, /purge, /addrole)
	mod.RegisterModCommands(client.CommandHandler, moderation)

	logger.System(fmt.Sprintf("Loaded %d commands", client.Commands.Size()), "Commands")
}
