// Package discord provides command types and structures.
package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// interactionAPI is the part of *discordgo.Session used to answer interactions
type interactionAPI interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// CommandContext provides context for command execution
type CommandContext struct {
	Interaction *discordgo.InteractionCreate
	Client      *ExtendedClient

	api  interactionAPI
	data discordgo.ApplicationCommandInteractionData
}

// NewCommandContext wraps an application command interaction
func NewCommandContext(api interactionAPI, i *discordgo.InteractionCreate, client *ExtendedClient) *CommandContext {
	return &CommandContext{
		Interaction: i,
		Client:      client,
		api:         api,
		data:        i.ApplicationCommandData(),
	}
}

// Command represents a Discord slash command
type Command struct {
	Name        string
	Description string
	Category    string
	Options     []*discordgo.ApplicationCommandOption
	GuildOnly   bool
	Run         CommandRunFunc
}

// CommandRunFunc is the function type for command execution
type CommandRunFunc func(ctx *CommandContext) error

// NewCommand creates a new Command with required fields
func NewCommand(name, description, category string, run CommandRunFunc) *Command {
	return &Command{
		Name:        name,
		Description: description,
		Category:    category,
		Run:         run,
	}
}

// WithOptions sets the command options
func (c *Command) WithOptions(opts ...*discordgo.ApplicationCommandOption) *Command {
	c.Options = opts
	return c
}

// InGuildsOnly hides the command from direct messages
func (c *Command) InGuildsOnly() *Command {
	c.GuildOnly = true
	return c
}

// ToApplicationCommand converts the command to a Discord application command
func (c *Command) ToApplicationCommand() *discordgo.ApplicationCommand {
	cmd := &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
		Options:     c.Options,
	}
	if c.GuildOnly {
		dm := false
		cmd.DMPermission = &dm
	}
	return cmd
}

// ReplyEmbed sends an embed reply to the interaction
func (ctx *CommandContext) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.api.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

// ReplyEphemeralEmbed sends an ephemeral embed reply visible only to the user
func (ctx *CommandContext) ReplyEphemeralEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.api.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

// FollowUpEphemeral sends an ephemeral text message after the initial reply
func (ctx *CommandContext) FollowUpEphemeral(content string) error {
	_, err := ctx.api.FollowupMessageCreate(ctx.Interaction.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		return fmt.Errorf("follow-up: %w", err)
	}
	return nil
}

// Name returns the invoked command name
func (ctx *CommandContext) Name() string {
	return ctx.data.Name
}

// GetOption retrieves an option value by name
func (ctx *CommandContext) GetOption(name string) *discordgo.ApplicationCommandInteractionDataOption {
	return findOption(ctx.data.Options, name)
}

// findOption recursively finds an option by name
func findOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range options {
		if opt.Name == name {
			return opt
		}
		if len(opt.Options) > 0 {
			if found := findOption(opt.Options, name); found != nil {
				return found
			}
		}
	}
	return nil
}

// typedOption returns the option only when it has the expected type, since
// discordgo's typed accessors panic on mismatches.
func (ctx *CommandContext) typedOption(name string, typ discordgo.ApplicationCommandOptionType) *discordgo.ApplicationCommandInteractionDataOption {
	opt := ctx.GetOption(name)
	if opt == nil || opt.Type != typ || opt.Value == nil {
		return nil
	}
	return opt
}

// String retrieves a string option value
func (ctx *CommandContext) String(name string) (string, bool) {
	opt := ctx.typedOption(name, discordgo.ApplicationCommandOptionString)
	if opt == nil {
		return "", false
	}
	return opt.StringValue(), true
}

// Int retrieves an integer option value
func (ctx *CommandContext) Int(name string) (int64, bool) {
	opt := ctx.typedOption(name, discordgo.ApplicationCommandOptionInteger)
	if opt == nil {
		return 0, false
	}
	return opt.IntValue(), true
}

// User retrieves a user option from the interaction's resolved data
func (ctx *CommandContext) User(name string) (*discordgo.User, bool) {
	opt := ctx.typedOption(name, discordgo.ApplicationCommandOptionUser)
	if opt == nil {
		return nil, false
	}
	id, ok := opt.Value.(string)
	if !ok {
		return nil, false
	}
	if ctx.data.Resolved != nil {
		if u, ok := ctx.data.Resolved.Users[id]; ok {
			return u, true
		}
	}
	return &discordgo.User{ID: id}, true
}

// Role retrieves a role option from the interaction's resolved data
func (ctx *CommandContext) Role(name string) (*discordgo.Role, bool) {
	opt := ctx.typedOption(name, discordgo.ApplicationCommandOptionRole)
	if opt == nil {
		return nil, false
	}
	id, ok := opt.Value.(string)
	if !ok {
		return nil, false
	}
	if ctx.data.Resolved != nil {
		if r, ok := ctx.data.Resolved.Roles[id]; ok {
			return r, true
		}
	}
	return &discordgo.Role{ID: id}, true
}

// GuildID returns the guild where the interaction occurred
func (ctx *CommandContext) GuildID() string {
	return ctx.Interaction.GuildID
}

// ChannelID returns the channel where the interaction occurred
func (ctx *CommandContext) ChannelID() string {
	return ctx.Interaction.ChannelID
}

// Invoker returns the user who triggered the interaction
func (ctx *CommandContext) Invoker() *discordgo.User {
	if ctx.Interaction.Member != nil {
		return ctx.Interaction.Member.User
	}
	return ctx.Interaction.User
}

// Member returns the guild member who triggered the interaction
func (ctx *CommandContext) Member() *discordgo.Member {
	return ctx.Interaction.Member
}
