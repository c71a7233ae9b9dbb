package moderation

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Command names
const (
	NameBan     = "ban"
	NameKick    = "kick"
	NameTimeout = "timeout"
	NameWarn    = "warn"
	NamePurge   = "purge"
	NameAddRole = "addrole"
)

// Option names
const (
	OptionUser     = "user"
	OptionReason   = "reason"
	OptionDuration = "duration"
	OptionAmount   = "amount"
	OptionRole     = "role"
)

// ErrUnknownCommand is returned by Parse for names outside the command set
var ErrUnknownCommand = errors.New("unknown command")

// Command is one of BanCommand, KickCommand, TimeoutCommand, WarnCommand,
// PurgeCommand or AddRoleCommand.
type Command interface {
	command()
}

type BanCommand struct {
	Target *discordgo.User
	Reason string
}

type KickCommand struct {
	Target *discordgo.User
	Reason string
}

// TimeoutCommand holds the timeout length in whole minutes
type TimeoutCommand struct {
	Target  *discordgo.User
	Minutes int64
	Reason  string
}

type WarnCommand struct {
	Target *discordgo.User
	Reason string
}

type PurgeCommand struct {
	Amount int64
}

type AddRoleCommand struct {
	Target *discordgo.User
	Role   *discordgo.Role
	Reason string
}

func (BanCommand) command()     {}
func (KickCommand) command()    {}
func (TimeoutCommand) command() {}
func (WarnCommand) command()    {}
func (PurgeCommand) command()   {}
func (AddRoleCommand) command() {}

// MissingOptionError reports a required option absent from an invocation
type MissingOptionError struct {
	Command string
	Option  string
}

func (e *MissingOptionError) Error() string {
	return fmt.Sprintf("/%s: missing required option %q", e.Command, e.Option)
}

// UnhandledCommandError reports a parsed command the dispatcher has no handler for
type UnhandledCommandError struct {
	Command Command
}

func (e *UnhandledCommandError) Error() string {
	return fmt.Sprintf("no handler for %T", e.Command)
}

// Parse builds the typed command for name from its options
func Parse(name string, opts OptionSource) (Command, error) {
	p := parser{command: name, opts: opts}

	var cmd Command
	switch name {
	case NameBan:
		cmd = BanCommand{Target: p.user(OptionUser), Reason: p.optionalString(OptionReason)}
	case NameKick:
		cmd = KickCommand{Target: p.user(OptionUser), Reason: p.optionalString(OptionReason)}
	case NameTimeout:
		cmd = TimeoutCommand{
			Target:  p.user(OptionUser),
			Minutes: p.integer(OptionDuration),
			Reason:  p.optionalString(OptionReason),
		}
	case NameWarn:
		cmd = WarnCommand{Target: p.user(OptionUser), Reason: p.requiredString(OptionReason)}
	case NamePurge:
		cmd = PurgeCommand{Amount: p.integer(OptionAmount)}
	case NameAddRole:
		cmd = AddRoleCommand{
			Target: p.user(OptionUser),
			Role:   p.role(OptionRole),
			Reason: p.optionalString(OptionReason),
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	if p.err != nil {
		return nil, p.err
	}
	return cmd, nil
}

// parser keeps the first missing option so Parse can build variants inline.
type parser struct {
	command string
	opts    OptionSource
	err     error
}

func (p *parser) missing(option string) {
	if p.err == nil {
		p.err = &MissingOptionError{Command: p.command, Option: option}
	}
}

func (p *parser) user(name string) *discordgo.User {
	u, ok := p.opts.User(name)
	if !ok || u == nil {
		p.missing(name)
		return nil
	}
	return u
}

func (p *parser) role(name string) *discordgo.Role {
	r, ok := p.opts.Role(name)
	if !ok || r == nil {
		p.missing(name)
		return nil
	}
	return r
}

func (p *parser) integer(name string) int64 {
	v, ok := p.opts.Int(name)
	if !ok {
		p.missing(name)
	}
	return v
}

func (p *parser) requiredString(name string) string {
	v, ok := p.opts.String(name)
	if !ok || v == "" {
		p.missing(name)
	}
	return v
}

func (p *parser) optionalString(name string) string {
	v, _ := p.opts.String(name)
	return v
}
