package moderation

import (
	"fmt"
	"sync"

	"github.com/PancyStudios/PancyModGo/pkg/anticrash"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// Filter removes guild messages containing banned words
type Filter struct {
	settings
	policy   Policy
	dir      Directory
	messages ChannelMessages
	pending  sync.WaitGroup
}

// NewFilter creates a Filter
func NewFilter(policy Policy, dir Directory, messages ChannelMessages, opts ...Option) *Filter {
	return &Filter{
		settings: newSettings(opts),
		policy:   policy,
		dir:      dir,
		messages: messages,
	}
}

// Inspect checks one inbound message and reports whether it was deleted.
// Failures are logged, never returned. The mod-log entry is posted in the
// background; Wait blocks until pending entries are sent.
func (f *Filter) Inspect(m *discordgo.Message) bool {
	if m == nil || m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return false
	}
	if !f.policy.Matches(m.Content) {
		return false
	}

	now := f.now()
	if err := f.messages.DeleteMessage(m.ChannelID, m.ID); err != nil {
		logger.Error(fmt.Sprintf("Could not delete message %s in %s: %v", m.ID, m.ChannelID, err), "AutoMod")
		return false
	}
	f.recorder.ActionTaken(Event{
		Action:    ActionAutoMod,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		TargetID:  m.Author.ID,
		At:        now,
	})

	if err := f.messages.SendEmbed(m.ChannelID, filterNoticeEmbed(m.Author, now)); err != nil {
		logger.Error(fmt.Sprintf("Could not send auto-moderation notice in %s: %v", m.ChannelID, err), "AutoMod")
	}

	guild, err := f.dir.Guild(m.GuildID)
	if err != nil {
		logger.Error(fmt.Sprintf("Could not resolve guild %s for mod log: %v", m.GuildID, err), "AutoMod")
		return true
	}

	logChannel := f.findChannel(guild, func(c *discordgo.Channel) bool {
		return c.Name == f.policy.LogChannel() && c.Type == discordgo.ChannelTypeGuildText
	})
	if logChannel == nil {
		return true
	}

	source := f.findChannel(guild, func(c *discordgo.Channel) bool { return c.ID == m.ChannelID })
	if source == nil {
		source = &discordgo.Channel{ID: m.ChannelID, Name: "unknown"}
	}

	embed := filterLogEmbed(m.Author, source, now)
	f.pending.Add(1)
	go func() {
		defer f.pending.Done()
		defer anticrash.Recover("automod log")

		if err := f.messages.SendEmbed(logChannel.ID, embed); err != nil {
			logger.Error(fmt.Sprintf("Could not post to #%s: %v", logChannel.Name, err), "AutoMod")
		}
	}()

	return true
}

// Wait blocks until background mod-log posts have finished
func (f *Filter) Wait() {
	f.pending.Wait()
}

func (f *Filter) findChannel(g *discordgo.Guild, match func(*discordgo.Channel) bool) *discordgo.Channel {
	for _, c := range g.Channels {
		if c != nil && match(c) {
			return c
		}
	}
	return nil
}
