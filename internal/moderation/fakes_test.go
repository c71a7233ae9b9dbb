package moderation

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

const (
	guildID   = "guild"
	channelID = "general"
	botID     = "bot"
	ownerID   = "owner"
	modID     = "mod"
	targetID  = "target"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// call is one recorded platform mutation or message operation
type call struct {
	op   string
	args []any
}

type fakePlatform struct {
	mu      sync.Mutex
	guild   *discordgo.Guild
	members map[string]*discordgo.Member

	messages []*discordgo.Message

	guildErr  error
	banErr    error
	dmErr     error
	deleteErr error
	sendErr   map[string]error

	calls []call
}

func newFakePlatform() *fakePlatform {
	g := &discordgo.Guild{
		ID:      guildID,
		Name:    "Test Guild",
		OwnerID: ownerID,
		Roles: []*discordgo.Role{
			{ID: guildID, Name: "@everyone", Position: 0},
			{ID: "role-bot", Name: "Bot", Position: 10, Permissions: discordgo.PermissionBanMembers | discordgo.PermissionKickMembers | discordgo.PermissionModerateMembers | discordgo.PermissionManageRoles},
			{ID: "role-mod", Name: "Moderator", Position: 5},
			{ID: "role-member", Name: "Member", Position: 2},
			{ID: "role-high", Name: "High", Position: 20},
			{ID: "role-admin", Name: "Admin", Position: 1, Permissions: discordgo.PermissionAdministrator},
		},
		Channels: []*discordgo.Channel{
			{ID: channelID, Name: "general", Type: discordgo.ChannelTypeGuildText},
			{ID: "logs", Name: "mod-logs", Type: discordgo.ChannelTypeGuildText},
		},
	}

	return &fakePlatform{
		guild: g,
		members: map[string]*discordgo.Member{
			botID:    {User: &discordgo.User{ID: botID, Username: "PancyMod", Bot: true}, Roles: []string{"role-bot"}},
			ownerID:  {User: &discordgo.User{ID: ownerID, Username: "owner"}},
			modID:    {User: &discordgo.User{ID: modID, Username: "mod"}, Roles: []string{"role-mod"}},
			targetID: {User: &discordgo.User{ID: targetID, Username: "target", Discriminator: "0"}, Roles: []string{"role-member"}},
		},
		sendErr: map[string]error{},
	}
}

func (f *fakePlatform) record(op string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: op, args: args})
}

func (f *fakePlatform) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakePlatform) ops() []string {
	var ops []string
	for _, c := range f.recorded() {
		ops = append(ops, c.op)
	}
	return ops
}

func (f *fakePlatform) Guild(id string) (*discordgo.Guild, error) {
	if f.guildErr != nil {
		return nil, f.guildErr
	}
	return f.guild, nil
}

func (f *fakePlatform) Member(gid, uid string) (*discordgo.Member, error) {
	m, ok := f.members[uid]
	if !ok {
		return nil, fmt.Errorf("member %s: %w", uid, discord.ErrNotFound)
	}
	return m, nil
}

func (f *fakePlatform) BotUserID() string { return botID }

func (f *fakePlatform) Ban(gid, uid, reason string) error {
	f.record("ban", uid, reason)
	return f.banErr
}

func (f *fakePlatform) Kick(gid, uid, reason string) error {
	f.record("kick", uid, reason)
	return nil
}

func (f *fakePlatform) Timeout(gid, uid string, d time.Duration, reason string) error {
	f.record("timeout", uid, d, reason)
	return nil
}

func (f *fakePlatform) AddRole(gid, uid, roleID, reason string) error {
	f.record("addrole", uid, roleID, reason)
	return nil
}

func (f *fakePlatform) RecentMessages(cid string, limit int) ([]*discordgo.Message, error) {
	f.record("fetch", cid, limit)
	if limit > len(f.messages) {
		limit = len(f.messages)
	}
	return f.messages[:limit], nil
}

func (f *fakePlatform) BulkDelete(cid string, ids []string) error {
	f.record("bulkdelete", cid, ids)
	return nil
}

func (f *fakePlatform) DeleteMessage(cid, mid string) error {
	f.record("delete", cid, mid)
	return f.deleteErr
}

func (f *fakePlatform) SendEmbed(cid string, embed *discordgo.MessageEmbed) error {
	f.record("send", cid, embed)
	return f.sendErr[cid]
}

func (f *fakePlatform) SendDirectEmbed(uid string, embed *discordgo.MessageEmbed) error {
	f.record("dm", uid, embed)
	return f.dmErr
}

// reply is one message sent through the responder
type reply struct {
	kind      string
	embed     *discordgo.MessageEmbed
	content   string
	ephemeral bool
}

type fakeResponder struct {
	platform *fakePlatform
	replies  []reply
	replyErr error
}

func (r *fakeResponder) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	if r.replyErr != nil {
		return r.replyErr
	}
	r.replies = append(r.replies, reply{kind: "reply", embed: embed})
	if r.platform != nil {
		r.platform.record("reply")
	}
	return nil
}

func (r *fakeResponder) ReplyEphemeralEmbed(embed *discordgo.MessageEmbed) error {
	r.replies = append(r.replies, reply{kind: "reply", embed: embed, ephemeral: true})
	if r.platform != nil {
		r.platform.record("reply")
	}
	return nil
}

func (r *fakeResponder) FollowUpEphemeral(content string) error {
	r.replies = append(r.replies, reply{kind: "followup", content: content, ephemeral: true})
	return nil
}

type fakeOptions struct {
	users   map[string]*discordgo.User
	roles   map[string]*discordgo.Role
	strings map[string]string
	ints    map[string]int64
}

func (o fakeOptions) User(name string) (*discordgo.User, bool) {
	u, ok := o.users[name]
	return u, ok
}

func (o fakeOptions) Role(name string) (*discordgo.Role, bool) {
	r, ok := o.roles[name]
	return r, ok
}

func (o fakeOptions) String(name string) (string, bool) {
	s, ok := o.strings[name]
	return s, ok
}

func (o fakeOptions) Int(name string) (int64, bool) {
	i, ok := o.ints[name]
	return i, ok
}

type fakeRecorder struct {
	mu       sync.Mutex
	handled  []Outcome
	events   []Event
	commands []string
}

func (r *fakeRecorder) CommandHandled(command string, outcome Outcome, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, command)
	r.handled = append(r.handled, outcome)
}

func (r *fakeRecorder) ActionTaken(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func userOpt(id string) *discordgo.User {
	return &discordgo.User{ID: id, Username: id}
}

// invocation builds an invocation from the given member, defaulting to a moderator.
func invocation(name string, member *discordgo.Member, opts fakeOptions) Invocation {
	return Invocation{
		Name:      name,
		GuildID:   guildID,
		ChannelID: channelID,
		Member:    member,
		Options:   opts,
	}
}

func moderator() *discordgo.Member {
	return &discordgo.Member{
		User:        &discordgo.User{ID: modID, Username: "mod"},
		Roles:       []string{"role-mod"},
		Permissions: discordgo.PermissionModerateMembers,
	}
}

func regularMember() *discordgo.Member {
	return &discordgo.Member{
		User:  &discordgo.User{ID: "regular", Username: "regular"},
		Roles: []string{"role-member"},
	}
}

var errBoom = errors.New("boom")
