// Package mqtt provides MQTT communication capabilities for the bot.
// It supports publish/subscribe patterns with request/response functionality.
package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// publishTimeout bounds how long Publish waits for the broker
const publishTimeout = 5 * time.Second

// MqttRequest represents an MQTT request message
type MqttRequest struct {
	CorrelationID string                 `json:"correlationId"`
	Payload       map[string]interface{} `json:"payload,omitempty"`
}

// MqttResponse represents an MQTT response message
type MqttResponse struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

// client is the part of mqtt.Client the communicator uses
type client interface {
	IsConnected() bool
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Unsubscribe(topics ...string) mqtt.Token
}

// Options configures the broker connection
type Options struct {
	Host     string
	Port     string
	Username string
	Password string
	ClientID string
	// Prefix is the root of every topic, e.g. "pancymod"
	Prefix string
}

// MqttCommunicator handles MQTT communication
type MqttCommunicator struct {
	client   client
	prefix   string
	mu       sync.Mutex
	handlers map[string]RequestHandler
}

// Dial connects to the broker. Connection failures are logged and retried in
// the background by paho, so the returned communicator is always usable.
func Dial(opts Options) *MqttCommunicator {
	uniqueID := fmt.Sprintf("%s_%s", opts.ClientID, uuid.New().String())

	clientOpts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", opts.Host, opts.Port)).
		SetClientID(uniqueID).
		SetUsername(opts.Username).
		SetPassword(opts.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Connected to MQTT broker as %s", uniqueID), "MQTT")
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("MQTT connection lost: %v", err), "MQTT")
		})

	c := mqtt.NewClient(clientOpts)
	token := c.Connect()
	if token.WaitTimeout(publishTimeout) && token.Error() != nil {
		logger.Error(fmt.Sprintf("MQTT connection error: %v", token.Error()), "MQTT")
	}

	return newCommunicator(c, opts.Prefix)
}

func newCommunicator(c client, prefix string) *MqttCommunicator {
	return &MqttCommunicator{
		client:   c,
		prefix:   strings.TrimSuffix(prefix, "/"),
		handlers: make(map[string]RequestHandler),
	}
}

// Topic joins parts under the communicator prefix
func (mc *MqttCommunicator) Topic(parts ...string) string {
	return strings.Join(append([]string{mc.prefix}, parts...), "/")
}

// Destroy drops the request subscriptions and closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.client != nil && mc.client.IsConnected() {
		mc.mu.Lock()
		names := make([]string, 0, len(mc.handlers))
		for name := range mc.handlers {
			names = append(names, name)
		}
		mc.mu.Unlock()

		for _, name := range names {
			if err := mc.Unsubscribe(mc.Topic("request", name)); err != nil {
				logger.Warn(fmt.Sprintf("Error unsubscribing from '%s' requests: %v", name, err), "MQTT")
			}
		}
		mc.client.Disconnect(250)
		logger.System("MQTT connection closed.", "MQTT")
	} else {
		logger.Warn("MQTT client was not connected, nothing to close.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc.client != nil && mc.client.IsConnected()
}

// Publish sends a JSON encoded message to a topic
func (mc *MqttCommunicator) Publish(topic string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := mc.client.Publish(topic, 0, false, jsonData)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// RequestHandler is a function type for handling MQTT requests
type RequestHandler func(payload map[string]interface{}) (interface{}, error)

// On registers a handler for <prefix>/request/<name>. Responses are published
// to <prefix>/response/<name>/<correlationId>.
func (mc *MqttCommunicator) On(name string, callback RequestHandler) error {
	mc.mu.Lock()
	mc.handlers[name] = callback
	mc.mu.Unlock()

	topic := mc.Topic("request", name)
	err := mc.Subscribe(topic, func(_ string, payload []byte) {
		mc.handleRequest(name, payload)
	})
	if err != nil {
		mc.mu.Lock()
		delete(mc.handlers, name)
		mc.mu.Unlock()
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	return nil
}

func (mc *MqttCommunicator) handleRequest(name string, raw []byte) {
	var request MqttRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		logger.Error(fmt.Sprintf("Error parsing MQTT request: %v", err), "MQTT")
		return
	}
	if request.CorrelationID == "" {
		logger.Warn(fmt.Sprintf("Dropping '%s' request without correlation id", name), "MQTT")
		return
	}

	mc.mu.Lock()
	callback := mc.handlers[name]
	mc.mu.Unlock()
	if callback == nil {
		return
	}

	payload := request.Payload
	if payload == nil {
		payload = make(map[string]interface{})
	}
	payload["_topic"] = name

	response := MqttResponse{CorrelationID: request.CorrelationID}
	if data, err := callback(payload); err != nil {
		response.Error = err.Error()
	} else {
		response.Data = data
	}

	if err := mc.Publish(mc.Topic("response", name, request.CorrelationID), response); err != nil {
		logger.Error(fmt.Sprintf("Error answering '%s' request: %v", name, err), "MQTT")
	}
}

// Subscribe subscribes to a topic with a message handler. Wildcards are
// allowed; the handler only sees topics matching the pattern.
func (mc *MqttCommunicator) Subscribe(pattern string, handler func(topic string, payload []byte)) error {
	token := mc.client.Subscribe(pattern, 0, func(c mqtt.Client, msg mqtt.Message) {
		if topicMatch(pattern, msg.Topic()) {
			handler(msg.Topic(), msg.Payload())
		}
	})
	token.Wait()
	return token.Error()
}

// Unsubscribe unsubscribes from a topic
func (mc *MqttCommunicator) Unsubscribe(topic string) error {
	token := mc.client.Unsubscribe(topic)
	token.Wait()
	return token.Error()
}

// topicMatch checks if a received topic matches a pattern (with wildcards)
// '+' matches exactly one topic level
// '#' matches zero or more topic levels and must be the last character
func topicMatch(pattern, topic string) bool {
	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")

	for i, part := range patternParts {
		if part == "#" {
			return true
		}
		if i >= len(topicParts) {
			return false
		}
		if part != "+" && part != topicParts[i] {
			return false
		}
	}

	return len(patternParts) == len(topicParts)
}
