// Package mod provides the moderation slash commands. Each command is in its
// own file; all of them hand their invocation to a moderation.Dispatcher.
package mod

import (
	"github.com/PancyStudios/PancyModGo/internal/moderation"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

const category = "mod"

// Handler executes one moderation invocation and answers it
type Handler interface {
	Handle(inv moderation.Invocation, responder moderation.Responder)
}

// Commands returns the moderation command schemas, all running run.
// A nil run is valid for schema-only uses such as command sync.
func Commands(run discord.CommandRunFunc) []*discord.Command {
	return []*discord.Command{
		createBanCommand(run),
		createKickCommand(run),
		createTimeoutCommand(run),
		createWarnCommand(run),
		createPurgeCommand(run),
		createAddRoleCommand(run),
	}
}

// RegisterModCommands registers the moderation commands on handler and routes
// unknown command names to h as well, so they still get an answer.
func RegisterModCommands(handler *discord.CommandHandler, h Handler) {
	run := runner(h)
	for _, cmd := range Commands(run) {
		handler.RegisterCommand(cmd)
	}
	handler.SetFallback(run)
}

func runner(h Handler) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		h.Handle(invocationFrom(ctx), ctx)
		return nil
	}
}

func invocationFrom(ctx *discord.CommandContext) moderation.Invocation {
	return moderation.Invocation{
		Name:      ctx.Name(),
		GuildID:   ctx.GuildID(),
		ChannelID: ctx.ChannelID(),
		Member:    ctx.Member(),
		Options:   ctx,
	}
}

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        moderation.OptionUser,
		Description: description,
		Required:    true,
	}
}

func reasonOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        moderation.OptionReason,
		Description: description,
		Required:    required,
	}
}
