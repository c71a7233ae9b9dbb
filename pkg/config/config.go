// Package config provides configuration management for the bot.
// It loads environment variables (optionally from a .env file) and makes them
// available throughout the application.
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrMissingToken is returned by Validate when no bot token is configured.
var ErrMissingToken = errors.New("DISCORD_BOT_TOKEN environment variable is not set or is empty")

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken string `env:"DISCORD_BOT_TOKEN"`
	ClientID string `env:"DISCORD_CLIENT_ID"`

	// Web Server
	Port string `env:"PORT" envDefault:"3000"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`

	// Logging
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogsDir      string `env:"LOGS_DIR" envDefault:"logs"`
	ErrorWebhook string `env:"ERROR_WEBHOOK"`
	LogsWebhook  string `env:"LOGS_WEBHOOK"`

	// MQTT. An empty host disables the event stream.
	MQTTHost        string `env:"MQTT_HOST"`
	MQTTPort        string `env:"MQTT_PORT" envDefault:"1883"`
	MQTTUser        string `env:"MQTT_USER"`
	MQTTPassword    string `env:"MQTT_PASSWORD"`
	MQTTTopicPrefix string `env:"MQTT_TOPIC_PREFIX" envDefault:"pancymod"`
}

var (
	Version   = "Dev-Local"
	BuildTime = "Today"
)

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgErr  error
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgErr = nil
	cfgOnce = sync.Once{}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	c := &Config{}
	if err := env.Parse(c); err != nil {
		cfgErr = fmt.Errorf("parse environment: %w", err)
	}
	cfg = c
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, cfgErr
}

// Get returns the current configuration
func Get() *Config {
	cfgOnce.Do(loadConfig)
	return cfg
}

// Validate reports configuration problems that must stop the process.
// A missing client id is not one of them: it only disables command registration.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return ErrMissingToken
	}
	return nil
}

// HasApplicationID returns true if a client (application) id is configured
func (c *Config) HasApplicationID() bool {
	return c.ClientID != ""
}

// MQTTEnabled returns true if an MQTT broker is configured
func (c *Config) MQTTEnabled() bool {
	return c.MQTTHost != ""
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}
