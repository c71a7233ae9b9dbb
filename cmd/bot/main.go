// Package main is the entry point for the PancyMod Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/PancyModGo/internal/commands"
	"github.com/PancyStudios/PancyModGo/internal/events"
	"github.com/PancyStudios/PancyModGo/internal/moderation"
	"github.com/PancyStudios/PancyModGo/internal/notify"
	"github.com/PancyStudios/PancyModGo/pkg/anticrash"
	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/metrics"
	"github.com/PancyStudios/PancyModGo/pkg/mqtt"
	"github.com/PancyStudios/PancyModGo/pkg/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg))
}

// run starts the bot and blocks until ctx is cancelled. It returns the
// process exit code.
func run(ctx context.Context, cfg *config.Config) int {
	// Initialize logger
	log := logger.Init(logger.Options{
		Dir:          cfg.LogsDir,
		Level:        cfg.LogLevel,
		ErrorWebhook: cfg.ErrorWebhook,
		LogsWebhook:  cfg.LogsWebhook,
	})
	defer log.Close()

	logger.System(fmt.Sprintf("Starting PancyMod Go %s (built %s)...", config.Version, config.BuildTime), "Main")
	logger.Info(fmt.Sprintf("Working directory: %s", getCurrentDir()), "Main")
	logger.Debug(fmt.Sprintf("DISCORD_BOT_TOKEN present: %t", cfg.BotToken != ""), "Main")
	logger.Debug(fmt.Sprintf("DISCORD_CLIENT_ID present: %t", cfg.HasApplicationID()), "Main")

	if err := cfg.Validate(); err != nil {
		logger.Critical(err.Error(), "Main")
		return 1
	}
	if !cfg.HasApplicationID() {
		logger.Error("DISCORD_CLIENT_ID environment variable is not set. Slash commands will not be registered.", "Main")
	}

	// Initialize error handler
	crash := anticrash.Init(cfg.ErrorWebhook)
	defer crash.Stop()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Initialize MQTT
	var (
		communicator *mqtt.MqttCommunicator
		broker       notify.Broker
	)
	if cfg.MQTTEnabled() {
		clientID := "pancymod"
		if !cfg.IsProd() {
			clientID = "pancymod_canary"
		}
		communicator = mqtt.Dial(mqtt.Options{
			Host:     cfg.MQTTHost,
			Port:     cfg.MQTTPort,
			Username: cfg.MQTTUser,
			Password: cfg.MQTTPassword,
			ClientID: clientID,
			Prefix:   cfg.MQTTTopicPrefix,
		})
		defer communicator.Destroy()
		broker = communicator
	} else {
		logger.Info("MQTT_HOST is not set, moderation event stream disabled", "Main")
	}

	// Initialize Discord client
	client, err := discord.NewClient(cfg.BotToken, cfg.ClientID)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		return 1
	}

	publisher := notify.NewPublisher(m, broker)
	policy := moderation.DefaultPolicy()
	dispatcher := moderation.NewDispatcher(policy, client.Platform, moderation.WithRecorder(publisher))
	filter := moderation.NewFilter(policy, client.Platform, client.Platform, moderation.WithRecorder(publisher))

	commands.RegisterAll(client, dispatcher)
	events.RegisterAll(client, filter)

	status := &statusReporter{client: client, mqtt: communicator}
	if communicator != nil {
		if err := communicator.On("status", status.answer); err != nil {
			logger.Error(err.Error(), "Main")
		}
	}

	// Initialize web server
	server := web.NewServer(cfg.Port, web.DefaultRateLimit)
	web.SetupAPIRoutes(server, status)
	web.SetupMetricsRoute(server, registry)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(); err != nil {
			logger.Error(err.Error(), "WebServer")
		}
		return nil
	})

	g.Go(func() error {
		if err := client.Start(); err != nil {
			logger.Error(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
			return nil
		}
		logger.Success("PancyMod Go started successfully!", "Main")
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.System("Shutting down PancyMod Go...", "Main")

		client.EventHandler.RemoveAll()
		if err := client.Stop(); err != nil {
			logger.Warn(fmt.Sprintf("Error closing Discord session: %v", err), "Main")
		}
		filter.Wait()
		publisher.Wait()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("Error during shutdown: %v", err), "Main")
	}
	return 0
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
