package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

type fakeInteractionAPI struct {
	responses []*discordgo.InteractionResponse
	followups []*discordgo.WebhookParams
	err       error
}

func (f *fakeInteractionAPI) InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	f.responses = append(f.responses, resp)
	return f.err
}

func (f *fakeInteractionAPI) FollowupMessageCreate(i *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.followups = append(f.followups, data)
	return &discordgo.Message{}, f.err
}

func newInteraction(name string, data discordgo.ApplicationCommandInteractionData) *discordgo.InteractionCreate {
	data.Name = name
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "guild",
		ChannelID: "channel",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "mod"}},
		Data:      data,
	}}
}

// TestCommandCreation verifies that commands can be created with the builder pattern
func TestCommandCreation(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("ban", "Ban a user", "moderation", handler)

	if cmd == nil {
		t.Fatal("NewCommand returned nil")
	}
	if cmd.Name != "ban" {
		t.Errorf("Name = %v, want %v", cmd.Name, "ban")
	}
	if cmd.Description != "Ban a user" {
		t.Errorf("Description = %v, want %v", cmd.Description, "Ban a user")
	}
	if cmd.Category != "moderation" {
		t.Errorf("Category = %v, want %v", cmd.Category, "moderation")
	}
	if cmd.Run == nil {
		t.Error("Run function is nil")
	}
}

// TestToApplicationCommand verifies conversion to Discord application command
func TestToApplicationCommand(t *testing.T) {
	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: "Target",
		Required:    true,
	}

	appCmd := NewCommand("kick", "Kick a user", "moderation", nil).
		WithOptions(option).
		InGuildsOnly().
		ToApplicationCommand()

	if appCmd.Name != "kick" {
		t.Errorf("Name = %v, want %v", appCmd.Name, "kick")
	}
	if len(appCmd.Options) != 1 || appCmd.Options[0] != option {
		t.Errorf("Options = %v, want [%v]", appCmd.Options, option)
	}
	if appCmd.DMPermission == nil || *appCmd.DMPermission {
		t.Error("guild-only command must disable DM permission")
	}

	open := NewCommand("ping", "Ping", "utils", nil).ToApplicationCommand()
	if open.DMPermission != nil {
		t.Error("DMPermission should be unset for regular commands")
	}
}

func TestReplies(t *testing.T) {
	api := &fakeInteractionAPI{}
	ctx := NewCommandContext(api, newInteraction("warn", discordgo.ApplicationCommandInteractionData{}), nil)
	embed := &discordgo.MessageEmbed{Title: "Done"}

	if err := ctx.ReplyEmbed(embed); err != nil {
		t.Fatalf("ReplyEmbed: %v", err)
	}
	if err := ctx.ReplyEphemeralEmbed(embed); err != nil {
		t.Fatalf("ReplyEphemeralEmbed: %v", err)
	}
	if err := ctx.FollowUpEphemeral("could not DM"); err != nil {
		t.Fatalf("FollowUpEphemeral: %v", err)
	}

	if len(api.responses) != 2 {
		t.Fatalf("responses = %d, want 2", len(api.responses))
	}
	if api.responses[0].Data.Flags&discordgo.MessageFlagsEphemeral != 0 {
		t.Error("ReplyEmbed must be public")
	}
	if api.responses[1].Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Error("ReplyEphemeralEmbed must be ephemeral")
	}
	if api.responses[0].Data.Embeds[0] != embed {
		t.Error("embed not forwarded")
	}

	if len(api.followups) != 1 {
		t.Fatalf("followups = %d, want 1", len(api.followups))
	}
	if api.followups[0].Content != "could not DM" || api.followups[0].Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Errorf("followup = %+v, want ephemeral 'could not DM'", api.followups[0])
	}
}

func TestFollowUpError(t *testing.T) {
	api := &fakeInteractionAPI{err: errors.New("blocked")}
	ctx := NewCommandContext(api, newInteraction("warn", discordgo.ApplicationCommandInteractionData{}), nil)

	if err := ctx.FollowUpEphemeral("x"); err == nil {
		t.Error("expected follow-up error")
	}
}

func TestOptions(t *testing.T) {
	target := &discordgo.User{ID: "42", Username: "target"}
	role := &discordgo.Role{ID: "7", Name: "Helper", Position: 3}

	ctx := NewCommandContext(&fakeInteractionAPI{}, newInteraction("addrole", discordgo.ApplicationCommandInteractionData{
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "42"},
			{Name: "role", Type: discordgo.ApplicationCommandOptionRole, Value: "7"},
			{Name: "reason", Type: discordgo.ApplicationCommandOptionString, Value: "helpful"},
			{Name: "amount", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(25)},
		},
		Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
			Users: map[string]*discordgo.User{"42": target},
			Roles: map[string]*discordgo.Role{"7": role},
		},
	}), nil)

	if ctx.Name() != "addrole" {
		t.Errorf("Name = %v, want addrole", ctx.Name())
	}
	if u, ok := ctx.User("user"); !ok || u != target {
		t.Errorf("User = %v, %v; want resolved user", u, ok)
	}
	if r, ok := ctx.Role("role"); !ok || r != role {
		t.Errorf("Role = %v, %v; want resolved role", r, ok)
	}
	if s, ok := ctx.String("reason"); !ok || s != "helpful" {
		t.Errorf("String = %q, %v; want helpful", s, ok)
	}
	if n, ok := ctx.Int("amount"); !ok || n != 25 {
		t.Errorf("Int = %d, %v; want 25", n, ok)
	}

	if _, ok := ctx.String("missing"); ok {
		t.Error("missing option reported as present")
	}
	if _, ok := ctx.Int("reason"); ok {
		t.Error("string option read as integer")
	}
	if ctx.GuildID() != "guild" || ctx.ChannelID() != "channel" {
		t.Error("guild or channel id not exposed")
	}
	if ctx.Invoker().ID != "mod" {
		t.Errorf("Invoker = %v, want mod", ctx.Invoker().ID)
	}
}

func TestUserOptionWithoutResolvedData(t *testing.T) {
	ctx := NewCommandContext(&fakeInteractionAPI{}, newInteraction("ban", discordgo.ApplicationCommandInteractionData{
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "42"},
		},
	}), nil)

	u, ok := ctx.User("user")
	if !ok || u.ID != "42" {
		t.Errorf("User = %v, %v; want id 42", u, ok)
	}
}
