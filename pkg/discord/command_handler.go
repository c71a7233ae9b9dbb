package discord

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// commandAPI is the part of *discordgo.Session used to manage application commands
type commandAPI interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// CommandHandler manages command registration and routing
type CommandHandler struct {
	commands *CommandCollection
	order    []string
	fallback CommandRunFunc
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(commands *CommandCollection) *CommandHandler {
	return &CommandHandler{commands: commands}
}

// RegisterCommand adds a command to the handler
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	if _, exists := ch.commands.Get(cmd.Name); !exists {
		ch.order = append(ch.order, cmd.Name)
	}
	ch.commands.Set(cmd.Name, cmd)
	logger.Debug("Command registered: "+cmd.Name, "CommandHandler")
}

// SetFallback sets the function run for command names with no registered command
func (ch *CommandHandler) SetFallback(run CommandRunFunc) {
	ch.fallback = run
}

// ApplicationCommands returns the schemas of all registered commands in registration order
func (ch *CommandHandler) ApplicationCommands() []*discordgo.ApplicationCommand {
	cmds := make([]*discordgo.ApplicationCommand, 0, len(ch.order))
	for _, name := range ch.order {
		if cmd, ok := ch.commands.Get(name); ok {
			cmds = append(cmds, cmd.ToApplicationCommand())
		}
	}
	return cmds
}

// RegisterCommands replaces the global command list with the registered commands in one request
func (ch *CommandHandler) RegisterCommands(api commandAPI, appID string) error {
	if appID == "" {
		return fmt.Errorf("register commands: application id is empty")
	}

	logger.Info("Started refreshing application (/) commands.", "CommandHandler")

	registered, err := api.ApplicationCommandBulkOverwrite(appID, "", ch.ApplicationCommands())
	if err != nil {
		return fmt.Errorf("bulk overwrite commands: %w", err)
	}

	logger.Success(fmt.Sprintf("Successfully reloaded %d application (/) commands.", len(registered)), "CommandHandler")
	return nil
}

// ListCommands returns the global commands currently registered on Discord
func (ch *CommandHandler) ListCommands(api commandAPI, appID string) ([]*discordgo.ApplicationCommand, error) {
	cmds, err := api.ApplicationCommands(appID, "")
	if err != nil {
		return nil, fmt.Errorf("list commands: %w", err)
	}
	return cmds, nil
}

// UnregisterCommands removes all global commands from Discord and returns how many were deleted
func (ch *CommandHandler) UnregisterCommands(api commandAPI, appID string) (int, error) {
	cmds, err := ch.ListCommands(api, appID)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, cmd := range cmds {
		if err := api.ApplicationCommandDelete(appID, "", cmd.ID); err != nil {
			logger.Error("Error deleting command "+cmd.Name+": "+err.Error(), "CommandHandler")
			continue
		}
		deleted++
	}

	logger.Success(fmt.Sprintf("Deleted %d global commands.", deleted), "CommandHandler")
	return deleted, nil
}

// Dispatch runs the command matching the context's name, or the fallback
func (ch *CommandHandler) Dispatch(ctx *CommandContext) error {
	run := ch.fallback
	if cmd, ok := ch.commands.Get(ctx.Name()); ok {
		run = cmd.Run
	}
	if run == nil {
		logger.Warn("Command not found: "+ctx.Name(), "CommandHandler")
		return nil
	}
	return run(ctx)
}
