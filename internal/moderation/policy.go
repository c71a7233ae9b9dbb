// Package moderation implements the moderation commands and the banned-word
// filter on top of narrow platform interfaces.
package moderation

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Policy is the immutable moderation configuration shared by the
// moderator gate and the filter.
type Policy struct {
	bannedWords   []string
	moderatorRole string
	logChannel    string
}

// NewPolicy builds a Policy. Words are matched case-insensitively; empty words are dropped.
func NewPolicy(bannedWords []string, moderatorRole, logChannel string) Policy {
	words := make([]string, 0, len(bannedWords))
	for _, w := range bannedWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			words = append(words, w)
		}
	}
	return Policy{
		bannedWords:   words,
		moderatorRole: moderatorRole,
		logChannel:    logChannel,
	}
}

// DefaultPolicy returns the built-in word list, the "Moderator" role and the "mod-logs" channel.
func DefaultPolicy() Policy {
	return NewPolicy([]string{"badword1", "badword2", "badword3"}, "Moderator", "mod-logs")
}

// BannedWords returns a copy of the banned word list
func (p Policy) BannedWords() []string {
	return append([]string(nil), p.bannedWords...)
}

// ModeratorRole returns the name of the role that grants moderator standing
func (p Policy) ModeratorRole() string {
	return p.moderatorRole
}

// LogChannel returns the name of the channel auto-moderation logs go to
func (p Policy) LogChannel() string {
	return p.logChannel
}

// Matches reports whether content contains any banned word
func (p Policy) Matches(content string) bool {
	lowered := strings.ToLower(content)
	for _, w := range p.bannedWords {
		if strings.Contains(lowered, w) {
			return true
		}
	}
	return false
}

// IsModerator reports whether member may use moderation commands: it either
// holds Moderate Members (Administrator implies it) or one of its roles is
// named after the moderator role. guildRoles resolves the member's role IDs.
func (p Policy) IsModerator(member *discordgo.Member, guildRoles []*discordgo.Role) bool {
	if member == nil {
		return false
	}
	if member.Permissions&(discordgo.PermissionModerateMembers|discordgo.PermissionAdministrator) != 0 {
		return true
	}

	held := make(map[string]struct{}, len(member.Roles))
	for _, id := range member.Roles {
		held[id] = struct{}{}
	}
	for _, r := range guildRoles {
		if _, ok := held[r.ID]; ok && r.Name == p.moderatorRole {
			return true
		}
	}
	return false
}
