package moderation

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Embed colors
const (
	ColorBan     = 0xD70040
	ColorKick    = 0xFF6600
	ColorTimeout = 0xFFCC00
	ColorWarn    = 0xFFFF00
	ColorPurge   = 0x00FF00
	ColorAddRole = 0x00AAFF
	ColorError   = 0xFF0000
)

const (
	footerSuffix  = " | Moderation Bot"
	defaultReason = "No reason provided"
)

// Reply texts
const (
	msgNoPermission   = "You do not have permission to use moderation commands."
	msgGeneric        = "There was an error while executing this command."
	msgMemberNotFound = "That user is not a member of this server."
	msgNotBannable    = "I cannot ban this user. They may have higher permissions than me."
	msgNotKickable    = "I cannot kick this user. They may have higher permissions than me."
	msgNotModeratable = "I cannot timeout this user. They may have higher permissions than me."
	msgPurgeRange     = "You can only delete between 1 and 100 messages at once."
	msgNoManageRoles  = "I do not have permission to manage roles."
	msgRoleTooHigh    = "I cannot add a role that is higher than or equal to my highest role."
	msgDMFailed       = "Could not send a direct message to the user about their warning."
)

func footer(action string) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: action + footerSuffix}
}

// userTag renders "name#1234", or just the username for accounts without a discriminator.
func userTag(u *discordgo.User) string {
	if u == nil {
		return "Unknown"
	}
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

func userLine(u *discordgo.User) string {
	if u == nil {
		return "Unknown"
	}
	return fmt.Sprintf("%s (%s)", userTag(u), u.ID)
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return defaultReason
	}
	return reason
}

// modActionEmbed is the success embed shared by the member actions. Extra
// fields are inserted between the moderator and the reason.
func modActionEmbed(action string, color int, target, moderator *discordgo.User, reason string, now time.Time, extra ...*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "User", Value: userLine(target), Inline: true},
		{Name: "Moderator", Value: userLine(moderator), Inline: true},
	}
	fields = append(fields, extra...)
	fields = append(fields, &discordgo.MessageEmbedField{Name: "Reason", Value: reasonOrDefault(reason)})

	return &discordgo.MessageEmbed{
		Title:     "Moderation Action: " + action,
		Color:     color,
		Fields:    fields,
		Timestamp: now.Format(time.RFC3339),
		Footer:    footer(action),
	}
}

func errorEmbed(description string, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Error",
		Description: description,
		Color:       ColorError,
		Timestamp:   now.Format(time.RFC3339),
	}
}

func deniedEmbed(now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Permission Denied",
		Description: msgNoPermission,
		Color:       ColorError,
		Timestamp:   now.Format(time.RFC3339),
	}
}

func warningDMEmbed(guildName, reason string, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "You have been warned in " + guildName,
		Description: "Reason: " + reason,
		Color:       ColorWarn,
		Timestamp:   now.Format(time.RFC3339),
		Footer:      footer("Warning"),
	}
}

func purgeEmbed(count int, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Messages Purged",
		Description: fmt.Sprintf("Successfully deleted %d messages.", count),
		Color:       ColorPurge,
		Timestamp:   now.Format(time.RFC3339),
		Footer:      footer("Purge"),
	}
}

func filterNoticeEmbed(author *discordgo.User, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Message Deleted",
		Description: fmt.Sprintf("<@%s>, your message was removed for containing inappropriate language.", author.ID),
		Color:       ColorError,
		Timestamp:   now.Format(time.RFC3339),
		Footer:      footer("Auto-Moderation"),
	}
}

func filterLogEmbed(author *discordgo.User, channel *discordgo.Channel, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Message Deleted: Banned Word",
		Color: ColorError,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: userLine(author)},
			{Name: "Channel", Value: fmt.Sprintf("%s (%s)", channel.Name, channel.ID)},
		},
		Timestamp: now.Format(time.RFC3339),
		Footer:    footer("Auto-Moderation"),
	}
}
