package discord

import (
	"sync"

	"github.com/PancyStudios/PancyModGo/pkg/anticrash"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// handlerAdder is the part of *discordgo.Session used to register handlers
type handlerAdder interface {
	AddHandler(handler interface{}) func()
}

// EventHandler registers gateway event handlers. Every handler runs behind
// anticrash.Recover so a panic never takes the gateway loop down.
type EventHandler struct {
	session  handlerAdder
	removers []func()
	mu       sync.Mutex
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(session handlerAdder) *EventHandler {
	return &EventHandler{session: session}
}

func (eh *EventHandler) add(name string, handler interface{}) {
	remove := eh.session.AddHandler(handler)
	eh.mu.Lock()
	eh.removers = append(eh.removers, remove)
	eh.mu.Unlock()
	logger.Debug("Event '"+name+"' registered", "EventHandler")
}

// Count returns the number of registered handlers
func (eh *EventHandler) Count() int {
	eh.mu.Lock()
	defer eh.mu.Unlock()
	return len(eh.removers)
}

// RemoveAll unregisters every handler added through this EventHandler
func (eh *EventHandler) RemoveAll() {
	eh.mu.Lock()
	defer eh.mu.Unlock()
	for _, remove := range eh.removers {
		remove()
	}
	eh.removers = nil
}

// ReadyHandler is called when the bot is ready
type ReadyHandler func(s *discordgo.Session, r *discordgo.Ready)

// MessageCreateHandler is called when a message is created
type MessageCreateHandler func(s *discordgo.Session, m *discordgo.MessageCreate)

// ConnectHandler is called when the gateway connects
type ConnectHandler func(s *discordgo.Session, c *discordgo.Connect)

// DisconnectHandler is called when the gateway disconnects
type DisconnectHandler func(s *discordgo.Session, d *discordgo.Disconnect)

// ResumedHandler is called when a gateway session is resumed
type ResumedHandler func(s *discordgo.Session, r *discordgo.Resumed)

// OnReady registers a ready event handler
func (eh *EventHandler) OnReady(handler ReadyHandler) {
	eh.add("Ready", func(s *discordgo.Session, r *discordgo.Ready) {
		defer anticrash.Recover("event Ready")
		handler(s, r)
	})
}

// OnMessageCreate registers a message create event handler
func (eh *EventHandler) OnMessageCreate(handler MessageCreateHandler) {
	eh.add("MessageCreate", func(s *discordgo.Session, m *discordgo.MessageCreate) {
		defer anticrash.Recover("event MessageCreate")
		handler(s, m)
	})
}

// OnConnect registers a connect event handler
func (eh *EventHandler) OnConnect(handler ConnectHandler) {
	eh.add("Connect", func(s *discordgo.Session, c *discordgo.Connect) {
		defer anticrash.Recover("event Connect")
		handler(s, c)
	})
}

// OnDisconnect registers a disconnect event handler
func (eh *EventHandler) OnDisconnect(handler DisconnectHandler) {
	eh.add("Disconnect", func(s *discordgo.Session, d *discordgo.Disconnect) {
		defer anticrash.Recover("event Disconnect")
		handler(s, d)
	})
}

// OnResumed registers a resumed event handler
func (eh *EventHandler) OnResumed(handler ResumedHandler) {
	eh.add("Resumed", func(s *discordgo.Session, r *discordgo.Resumed) {
		defer anticrash.Recover("event Resumed")
		handler(s, r)
	})
}
