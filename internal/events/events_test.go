package events

import (
	"testing"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

type recordingInspector struct {
	seen []*discordgo.Message
}

func (r *recordingInspector) Inspect(m *discordgo.Message) bool {
	r.seen = append(r.seen, m)
	return false
}

func TestMessageCreateHandler(t *testing.T) {
	inspector := &recordingInspector{}
	handler := messageCreateHandler(inspector)

	msg := &discordgo.Message{ID: "1", Content: "hello"}
	handler(nil, &discordgo.MessageCreate{Message: msg})
	handler(nil, &discordgo.MessageCreate{})

	assert.Equal(t, []*discordgo.Message{msg}, inspector.seen)
}

type handlerRecorder struct {
	handlers []interface{}
}

func (h *handlerRecorder) AddHandler(handler interface{}) func() {
	h.handlers = append(h.handlers, handler)
	return func() {}
}

func TestRegisterShardEvents(t *testing.T) {
	adder := &handlerRecorder{}
	RegisterShardEvents(discord.NewEventHandler(adder))

	if assert.Len(t, adder.handlers, 3) {
		assert.IsType(t, func(*discordgo.Session, *discordgo.Connect) {}, adder.handlers[0])
		assert.IsType(t, func(*discordgo.Session, *discordgo.Disconnect) {}, adder.handlers[1])
		assert.IsType(t, func(*discordgo.Session, *discordgo.Resumed) {}, adder.handlers[2])
	}
}
