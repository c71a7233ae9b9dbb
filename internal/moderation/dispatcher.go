package moderation

import (
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/anticrash"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const (
	minPurge = 1
	maxPurge = 100
)

type settings struct {
	recorder Recorder
	now      func() time.Time
}

// Option customizes a Dispatcher or a Filter
type Option func(*settings)

// WithRecorder reports handled commands and completed actions to r
func WithRecorder(r Recorder) Option {
	return func(s *settings) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithClock replaces time.Now for embed timestamps and durations
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{recorder: nopRecorder{}, now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Dispatcher gates, parses and executes moderation commands
type Dispatcher struct {
	settings
	policy   Policy
	platform Platform
}

// NewDispatcher creates a Dispatcher acting through platform
func NewDispatcher(policy Policy, platform Platform, opts ...Option) *Dispatcher {
	return &Dispatcher{
		settings: newSettings(opts),
		policy:   policy,
		platform: platform,
	}
}

// exchange tracks the reply state of one invocation. Only the first
// successful reply counts; later replies are dropped.
type exchange struct {
	responder Responder
	replied   bool
	outcome   Outcome
	now       time.Time
}

func (x *exchange) send(embed *discordgo.MessageEmbed, ephemeral bool, outcome Outcome) error {
	if x.replied {
		return fmt.Errorf("interaction already answered, dropping %q", embed.Title)
	}

	var err error
	if ephemeral {
		err = x.responder.ReplyEphemeralEmbed(embed)
	} else {
		err = x.responder.ReplyEmbed(embed)
	}
	if err != nil {
		return fmt.Errorf("send reply: %w", err)
	}

	x.replied = true
	x.outcome = outcome
	return nil
}

func (x *exchange) reject(description string) error {
	return x.send(errorEmbed(description, x.now), true, OutcomeRejected)
}

// request carries everything a handler needs about the current invocation
type request struct {
	*exchange
	inv       Invocation
	guild     *discordgo.Guild
	moderator *discordgo.User
}

func (r *request) event(action Action, targetID, reason string) Event {
	return Event{
		Action:      action,
		GuildID:     r.inv.GuildID,
		ChannelID:   r.inv.ChannelID,
		TargetID:    targetID,
		ModeratorID: r.moderator.ID,
		Reason:      reason,
		At:          r.now,
	}
}

// Handle runs one invocation to completion. It always attempts exactly one
// reply: the handler's, a permission denial, or the generic error.
func (d *Dispatcher) Handle(inv Invocation, responder Responder) {
	start := d.now()
	x := &exchange{responder: responder, outcome: OutcomeFailed, now: start}

	defer func() {
		if r := recover(); r != nil {
			if h := anticrash.Get(); h != nil {
				h.HandlePanic("/"+inv.Name, r)
			} else {
				logger.Error(fmt.Sprintf("Panic while executing /%s: %v", inv.Name, r), "Commands")
			}
			d.fail(x, inv.Name)
		}
		d.recorder.CommandHandled(inv.Name, x.outcome, d.now().Sub(start))
	}()

	if err := d.handle(inv, x); err != nil {
		if errors.Is(err, ErrUnknownCommand) {
			logger.Error(fmt.Sprintf("Received a command with no handler: %v", err), "Commands")
		} else {
			logger.Error(fmt.Sprintf("Error executing /%s: %v", inv.Name, err), "Commands")
		}
		d.fail(x, inv.Name)
	}
}

func (d *Dispatcher) fail(x *exchange, name string) {
	if x.replied {
		x.outcome = OutcomeFailed
		return
	}
	if err := x.send(errorEmbed(msgGeneric, x.now), true, OutcomeFailed); err != nil {
		logger.Error(fmt.Sprintf("Could not send error reply for /%s: %v", name, err), "Commands")
	}
}

func (d *Dispatcher) handle(inv Invocation, x *exchange) error {
	if inv.Member == nil || inv.Member.User == nil {
		return x.send(deniedEmbed(x.now), true, OutcomeDenied)
	}

	guild, err := d.platform.Guild(inv.GuildID)
	if err != nil {
		return fmt.Errorf("resolve guild %s: %w", inv.GuildID, err)
	}

	if !d.policy.IsModerator(inv.Member, guild.Roles) {
		logger.Debug(fmt.Sprintf("%s was denied /%s", inv.Member.User.ID, inv.Name), "Commands")
		return x.send(deniedEmbed(x.now), true, OutcomeDenied)
	}

	cmd, err := Parse(inv.Name, inv.Options)
	if err != nil {
		return err
	}

	req := &request{exchange: x, inv: inv, guild: guild, moderator: inv.Member.User}

	switch c := cmd.(type) {
	case BanCommand:
		return d.ban(req, c)
	case KickCommand:
		return d.kick(req, c)
	case TimeoutCommand:
		return d.timeout(req, c)
	case WarnCommand:
		return d.warn(req, c)
	case PurgeCommand:
		return d.purge(req, c)
	case AddRoleCommand:
		return d.addRole(req, c)
	default:
		return &UnhandledCommandError{Command: c}
	}
}

// botMember resolves the bot's own member in the request guild
func (d *Dispatcher) botMember(req *request) (*discordgo.Member, error) {
	bot, err := d.platform.Member(req.inv.GuildID, d.platform.BotUserID())
	if err != nil {
		return nil, fmt.Errorf("resolve bot member: %w", err)
	}
	return bot, nil
}

// targetMember resolves user in the request guild. A nil member with a nil
// error means the user is not in the guild and a rejection was sent.
func (d *Dispatcher) targetMember(req *request, user *discordgo.User) (*discordgo.Member, error) {
	member, err := d.platform.Member(req.inv.GuildID, user.ID)
	if errors.Is(err, discord.ErrNotFound) {
		return nil, req.reject(msgMemberNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve member %s: %w", user.ID, err)
	}
	return member, nil
}

// actors resolves the target and the bot for member actions
func (d *Dispatcher) actors(req *request, user *discordgo.User) (target, bot *discordgo.Member, err error) {
	target, err = d.targetMember(req, user)
	if target == nil || err != nil {
		return nil, nil, err
	}
	bot, err = d.botMember(req)
	if err != nil {
		return nil, nil, err
	}
	return target, bot, nil
}

func (d *Dispatcher) ban(req *request, c BanCommand) error {
	target, bot, err := d.actors(req, c.Target)
	if target == nil || err != nil {
		return err
	}
	if !bannable(req.guild, bot, target) {
		return req.reject(msgNotBannable)
	}

	if err := d.platform.Ban(req.inv.GuildID, c.Target.ID, reasonOrDefault(c.Reason)); err != nil {
		return fmt.Errorf("ban %s: %w", c.Target.ID, err)
	}
	d.recorder.ActionTaken(req.event(ActionBan, c.Target.ID, c.Reason))
	logger.Info(fmt.Sprintf("%s banned %s in %s", req.moderator.ID, c.Target.ID, req.inv.GuildID), "Moderation")

	return req.send(modActionEmbed("Ban", ColorBan, c.Target, req.moderator, c.Reason, req.now), false, OutcomeSuccess)
}

func (d *Dispatcher) kick(req *request, c KickCommand) error {
	target, bot, err := d.actors(req, c.Target)
	if target == nil || err != nil {
		return err
	}
	if !kickable(req.guild, bot, target) {
		return req.reject(msgNotKickable)
	}

	if err := d.platform.Kick(req.inv.GuildID, c.Target.ID, reasonOrDefault(c.Reason)); err != nil {
		return fmt.Errorf("kick %s: %w", c.Target.ID, err)
	}
	d.recorder.ActionTaken(req.event(ActionKick, c.Target.ID, c.Reason))
	logger.Info(fmt.Sprintf("%s kicked %s in %s", req.moderator.ID, c.Target.ID, req.inv.GuildID), "Moderation")

	return req.send(modActionEmbed("Kick", ColorKick, c.Target, req.moderator, c.Reason, req.now), false, OutcomeSuccess)
}

func (d *Dispatcher) timeout(req *request, c TimeoutCommand) error {
	target, bot, err := d.actors(req, c.Target)
	if target == nil || err != nil {
		return err
	}
	if !moderatable(req.guild, bot, target) {
		return req.reject(msgNotModeratable)
	}

	length := time.Duration(c.Minutes) * time.Minute
	if err := d.platform.Timeout(req.inv.GuildID, c.Target.ID, length, reasonOrDefault(c.Reason)); err != nil {
		return fmt.Errorf("timeout %s for %s: %w", c.Target.ID, length, err)
	}

	ev := req.event(ActionTimeout, c.Target.ID, c.Reason)
	ev.Minutes = c.Minutes
	d.recorder.ActionTaken(ev)
	logger.Info(fmt.Sprintf("%s timed out %s for %d minutes in %s", req.moderator.ID, c.Target.ID, c.Minutes, req.inv.GuildID), "Moderation")

	durationField := &discordgo.MessageEmbedField{Name: "Duration", Value: fmt.Sprintf("%d minutes", c.Minutes), Inline: true}
	return req.send(modActionEmbed("Timeout", ColorTimeout, c.Target, req.moderator, c.Reason, req.now, durationField), false, OutcomeSuccess)
}

// warn replies before messaging the target, so a failed DM never changes the reply.
func (d *Dispatcher) warn(req *request, c WarnCommand) error {
	if err := req.send(modActionEmbed("Warning", ColorWarn, c.Target, req.moderator, c.Reason, req.now), false, OutcomeSuccess); err != nil {
		return err
	}
	d.recorder.ActionTaken(req.event(ActionWarn, c.Target.ID, c.Reason))

	if err := d.platform.SendDirectEmbed(c.Target.ID, warningDMEmbed(req.guild.Name, c.Reason, req.now)); err != nil {
		logger.Warn(fmt.Sprintf("Could not DM warning to %s: %v", c.Target.ID, err), "Moderation")
		if err := req.responder.FollowUpEphemeral(msgDMFailed); err != nil {
			logger.Error(fmt.Sprintf("Could not send DM failure notice: %v", err), "Moderation")
		}
	}
	return nil
}

func (d *Dispatcher) purge(req *request, c PurgeCommand) error {
	if c.Amount < minPurge || c.Amount > maxPurge {
		return req.reject(msgPurgeRange)
	}

	messages, err := d.platform.RecentMessages(req.inv.ChannelID, int(c.Amount))
	if err != nil {
		return fmt.Errorf("fetch messages in %s: %w", req.inv.ChannelID, err)
	}

	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	if len(ids) > 0 {
		if err := d.platform.BulkDelete(req.inv.ChannelID, ids); err != nil {
			return fmt.Errorf("bulk delete in %s: %w", req.inv.ChannelID, err)
		}
	}

	ev := req.event(ActionPurge, "", "")
	ev.Count = len(ids)
	d.recorder.ActionTaken(ev)

	return req.send(purgeEmbed(len(ids), req.now), true, OutcomeSuccess)
}

func (d *Dispatcher) addRole(req *request, c AddRoleCommand) error {
	bot, err := d.botMember(req)
	if err != nil {
		return err
	}
	if !hasPermission(req.guild, bot, discordgo.PermissionManageRoles) {
		return req.reject(msgNoManageRoles)
	}

	role := c.Role
	for _, r := range req.guild.Roles {
		if r.ID == c.Role.ID {
			role = r
			break
		}
	}
	if highestPosition(req.guild, bot) <= role.Position {
		return req.reject(msgRoleTooHigh)
	}

	target, err := d.targetMember(req, c.Target)
	if target == nil || err != nil {
		return err
	}
	if hasRole(target, role.ID) {
		return req.reject(fmt.Sprintf("%s already has the %s role.", userTag(c.Target), role.Name))
	}

	if err := d.platform.AddRole(req.inv.GuildID, c.Target.ID, role.ID, reasonOrDefault(c.Reason)); err != nil {
		return fmt.Errorf("add role %s to %s: %w", role.ID, c.Target.ID, err)
	}

	ev := req.event(ActionAddRole, c.Target.ID, c.Reason)
	ev.RoleID = role.ID
	d.recorder.ActionTaken(ev)

	roleField := &discordgo.MessageEmbedField{Name: "Role", Value: role.Name, Inline: true}
	return req.send(modActionEmbed("Add Role", ColorAddRole, c.Target, req.moderator, c.Reason, req.now, roleField), false, OutcomeSuccess)
}
