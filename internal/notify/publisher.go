// Package notify fans moderation outcomes out to metrics and the MQTT event stream.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/internal/moderation"
	"github.com/PancyStudios/PancyModGo/pkg/anticrash"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/metrics"
	"github.com/google/uuid"
)

// Broker publishes JSON payloads, e.g. *mqtt.MqttCommunicator
type Broker interface {
	Publish(topic string, payload interface{}) error
	Topic(parts ...string) string
}

// Message is the envelope published for every moderation event
type Message struct {
	ID string `json:"id"`
	moderation.Event
}

// Publisher implements moderation.Recorder
type Publisher struct {
	metrics *metrics.Metrics
	broker  Broker
	pending sync.WaitGroup
}

// NewPublisher creates a Publisher. broker may be nil when the event stream is disabled.
func NewPublisher(m *metrics.Metrics, broker Broker) *Publisher {
	return &Publisher{metrics: m, broker: broker}
}

// CommandHandled records one handled slash command
func (p *Publisher) CommandHandled(command string, outcome moderation.Outcome, elapsed time.Duration) {
	p.metrics.ObserveCommand(command, string(outcome), elapsed)
}

// ActionTaken counts the action and publishes it to <prefix>/events/<action>
func (p *Publisher) ActionTaken(event moderation.Event) {
	if event.Action == moderation.ActionAutoMod {
		p.metrics.AutoModDeletes.Inc()
	}
	p.metrics.Actions.WithLabelValues(string(event.Action)).Inc()

	if p.broker == nil {
		return
	}

	msg := Message{ID: uuid.NewString(), Event: event}
	topic := p.broker.Topic("events", string(event.Action))

	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		defer anticrash.Recover("notify publish")

		if err := p.broker.Publish(topic, msg); err != nil {
			logger.Warn(fmt.Sprintf("Could not publish %s event: %v", event.Action, err), "Notify")
		}
	}()
}

// Wait blocks until every in-flight publication has finished
func (p *Publisher) Wait() {
	p.pending.Wait()
}
