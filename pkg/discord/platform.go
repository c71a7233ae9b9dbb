package discord

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ErrNotFound is wrapped by lookups when Discord confirms the guild or member does not exist.
var ErrNotFound = errors.New("not found")

// SessionPlatform performs moderation lookups and actions through a discordgo
// session. Lookups read the state cache first and fall back to REST.
type SessionPlatform struct {
	s *discordgo.Session
}

// NewSessionPlatform creates a SessionPlatform
func NewSessionPlatform(s *discordgo.Session) *SessionPlatform {
	return &SessionPlatform{s: s}
}

// isNotFound reports whether err is a REST 404
func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

func lookupError(what string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func auditReason(reason string) []discordgo.RequestOption {
	if reason == "" {
		return nil
	}
	return []discordgo.RequestOption{discordgo.WithAuditLogReason(reason)}
}

// Guild returns the guild with its roles and channels
func (p *SessionPlatform) Guild(guildID string) (*discordgo.Guild, error) {
	if p.s.State != nil {
		if g, err := p.s.State.Guild(guildID); err == nil {
			return g, nil
		}
	}

	g, err := p.s.Guild(guildID)
	if err != nil {
		return nil, lookupError("guild "+guildID, err)
	}
	channels, err := p.s.GuildChannels(guildID)
	if err != nil {
		return nil, lookupError("channels of guild "+guildID, err)
	}
	g.Channels = channels
	return g, nil
}

// Member returns a guild member
func (p *SessionPlatform) Member(guildID, userID string) (*discordgo.Member, error) {
	if p.s.State != nil {
		if m, err := p.s.State.Member(guildID, userID); err == nil {
			return m, nil
		}
	}

	m, err := p.s.GuildMember(guildID, userID)
	if err != nil {
		return nil, lookupError("member "+userID, err)
	}
	return m, nil
}

// BotUserID returns the bot's user ID once the session is ready
func (p *SessionPlatform) BotUserID() string {
	if p.s.State == nil || p.s.State.User == nil {
		return ""
	}
	return p.s.State.User.ID
}

// Ban bans a user without deleting their messages
func (p *SessionPlatform) Ban(guildID, userID, reason string) error {
	return p.s.GuildBanCreateWithReason(guildID, userID, reason, 0)
}

// Kick removes a member from the guild
func (p *SessionPlatform) Kick(guildID, userID, reason string) error {
	return p.s.GuildMemberDeleteWithReason(guildID, userID, reason)
}

// Timeout disables communication for d
func (p *SessionPlatform) Timeout(guildID, userID string, d time.Duration, reason string) error {
	until := time.Now().Add(d)
	return p.s.GuildMemberTimeout(guildID, userID, &until, auditReason(reason)...)
}

// AddRole grants a role to a member
func (p *SessionPlatform) AddRole(guildID, userID, roleID, reason string) error {
	return p.s.GuildMemberRoleAdd(guildID, userID, roleID, auditReason(reason)...)
}

// RecentMessages returns up to limit of the newest messages in a channel
func (p *SessionPlatform) RecentMessages(channelID string, limit int) ([]*discordgo.Message, error) {
	return p.s.ChannelMessages(channelID, limit, "", "", "")
}

// BulkDelete deletes the given messages in one request
func (p *SessionPlatform) BulkDelete(channelID string, messageIDs []string) error {
	return p.s.ChannelMessagesBulkDelete(channelID, messageIDs)
}

// DeleteMessage deletes a single message
func (p *SessionPlatform) DeleteMessage(channelID, messageID string) error {
	return p.s.ChannelMessageDelete(channelID, messageID)
}

// SendEmbed posts an embed to a channel
func (p *SessionPlatform) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := p.s.ChannelMessageSendEmbed(channelID, embed)
	return err
}

// SendDirectEmbed opens a DM channel with the user and posts an embed there
func (p *SessionPlatform) SendDirectEmbed(userID string, embed *discordgo.MessageEmbed) error {
	ch, err := p.s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	_, err = p.s.ChannelMessageSendEmbed(ch.ID, embed)
	return err
}
