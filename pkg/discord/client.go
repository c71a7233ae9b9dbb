// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with command routing, event registration and a
// platform adapter for the moderation layer.
package discord

import (
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/anticrash"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// Intents requested by the bot: guild metadata, guild messages, message content and members.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent |
	discordgo.IntentsGuildMembers

// discordgo.Logger is a function, not an interface
func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Error(msg, "DiscordGo")
		case discordgo.LogWarning:
			logger.Warn(msg, "DiscordGo")
		default:
			logger.Debug(msg, "DiscordGo")
		}
	}
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *CommandCollection
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	Platform       *SessionPlatform
	StartTime      time.Time

	applicationID string
	mu            sync.RWMutex
	isReady       bool

	// registerMu serializes registration; registered is set after the first success
	registerMu sync.Mutex
	registered bool
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// NewClient creates a new ExtendedClient. An empty applicationID disables
// command registration.
func NewClient(token, applicationID string) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	session.Identify.Intents = Intents
	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	commands := NewCommandCollection()
	c := &ExtendedClient{
		Session:        session,
		Commands:       commands,
		CommandHandler: NewCommandHandler(commands),
		Platform:       NewSessionPlatform(session),
		applicationID:  applicationID,
	}
	c.EventHandler = NewEventHandler(session)

	return c, nil
}

// Start opens the gateway. Commands are pushed to Discord once the session is ready.
func (c *ExtendedClient) Start() error {
	c.Session.AddHandler(c.handleReady)
	c.Session.AddHandler(c.handleInteraction)

	c.StartTime = time.Now()

	logger.Info("Logging in to Discord...", "Client")
	if err := c.Session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	logger.Success("Logged in to Discord", "Client")
	return nil
}

func (c *ExtendedClient) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	c.mu.Lock()
	c.isReady = true
	c.mu.Unlock()

	logger.Success("Logged in as "+r.User.String(), "Client")

	if c.applicationID == "" {
		logger.Error("DISCORD_CLIENT_ID is not set, skipping command registration", "Client")
		return
	}
	c.registerCommands(s)
}

// registerCommands pushes the command list once per process. Ready fires again
// on every re-identify; a failed attempt is retried on the next one.
func (c *ExtendedClient) registerCommands(api commandAPI) {
	c.registerMu.Lock()
	defer c.registerMu.Unlock()

	if c.registered {
		logger.Debug("Commands already registered, skipping", "Client")
		return
	}
	if err := c.CommandHandler.RegisterCommands(api, c.applicationID); err != nil {
		logger.Error(err.Error(), "Client")
		return
	}
	c.registered = true
}

// handleInteraction handles incoming Discord interactions
func (c *ExtendedClient) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	defer anticrash.Recover("interaction")

	ctx := NewCommandContext(s, i, c)
	if err := c.CommandHandler.Dispatch(ctx); err != nil {
		invoker := "unknown"
		if u := ctx.Invoker(); u != nil {
			invoker = u.ID
		}
		logger.Error(fmt.Sprintf("Error executing command %s for %s: %v", ctx.Name(), invoker, err), "Client")
	}
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true once the gateway session is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// HasApplicationID reports whether command registration is enabled
func (c *ExtendedClient) HasApplicationID() bool {
	return c.applicationID != ""
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}

// Uptime returns the time since Start was called
func (c *ExtendedClient) Uptime() time.Duration {
	if c.StartTime.IsZero() {
		return 0
	}
	return time.Since(c.StartTime)
}
