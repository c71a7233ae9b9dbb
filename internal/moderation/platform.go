package moderation

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Directory resolves guilds and members. Lookups of things that do not exist
// return an error wrapping discord.ErrNotFound.
type Directory interface {
	Guild(guildID string) (*discordgo.Guild, error)
	Member(guildID, userID string) (*discordgo.Member, error)
	BotUserID() string
}

// MemberActions performs privileged mutations on guild members
type MemberActions interface {
	Ban(guildID, userID, reason string) error
	Kick(guildID, userID, reason string) error
	Timeout(guildID, userID string, d time.Duration, reason string) error
	AddRole(guildID, userID, roleID, reason string) error
}

// ChannelMessages reads, removes and posts channel messages
type ChannelMessages interface {
	RecentMessages(channelID string, limit int) ([]*discordgo.Message, error)
	BulkDelete(channelID string, messageIDs []string) error
	DeleteMessage(channelID, messageID string) error
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

// DirectMessenger delivers private messages to users
type DirectMessenger interface {
	SendDirectEmbed(userID string, embed *discordgo.MessageEmbed) error
}

// Platform is everything the dispatcher needs from the chat platform
type Platform interface {
	Directory
	MemberActions
	ChannelMessages
	DirectMessenger
}

// Responder answers one interaction
type Responder interface {
	ReplyEmbed(embed *discordgo.MessageEmbed) error
	ReplyEphemeralEmbed(embed *discordgo.MessageEmbed) error
	FollowUpEphemeral(content string) error
}

// OptionSource exposes typed command options by name
type OptionSource interface {
	User(name string) (*discordgo.User, bool)
	Role(name string) (*discordgo.Role, bool)
	String(name string) (string, bool)
	Int(name string) (int64, bool)
}

// Invocation is one slash command call
type Invocation struct {
	Name      string
	GuildID   string
	ChannelID string
	// Member is nil outside guilds. Its Permissions are the ones computed by the platform for the interaction.
	Member  *discordgo.Member
	Options OptionSource
}

// Outcome classifies how an invocation ended
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeDenied   Outcome = "denied"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
)

// Action names a completed moderation action
type Action string

const (
	ActionBan     Action = "ban"
	ActionKick    Action = "kick"
	ActionTimeout Action = "timeout"
	ActionWarn    Action = "warn"
	ActionPurge   Action = "purge"
	ActionAddRole Action = "addrole"
	ActionAutoMod Action = "automod"
)

// Event describes a completed action, for observers
type Event struct {
	Action      Action    `json:"action"`
	GuildID     string    `json:"guild_id"`
	ChannelID   string    `json:"channel_id,omitempty"`
	TargetID    string    `json:"target_id,omitempty"`
	ModeratorID string    `json:"moderator_id,omitempty"`
	RoleID      string    `json:"role_id,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Minutes     int64     `json:"minutes,omitempty"`
	Count       int       `json:"count,omitempty"`
	At          time.Time `json:"at"`
}

// Recorder observes handled commands and completed actions
type Recorder interface {
	CommandHandled(command string, outcome Outcome, elapsed time.Duration)
	ActionTaken(event Event)
}

type nopRecorder struct{}

func (nopRecorder) CommandHandled(string, Outcome, time.Duration) {}
func (nopRecorder) ActionTaken(Event)                             {}
