// Package main provides a utility to sync Discord slash commands.
// It removes stale global commands and registers the current moderation schema.
//
// Usage:
//
//	go run ./cmd/sync-commands [list|clean|sync]
package main

import (
	"fmt"
	"os"

	"github.com/PancyStudios/PancyModGo/internal/commands/mod"
	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/urfave/cli/v2"
)

const prefix = "SyncCommands"

// syncer holds what every subcommand needs
type syncer struct {
	api     commandAPI
	appID   string
	handler *discord.CommandHandler
}

// commandAPI is the REST surface of *discordgo.Session used here
type commandAPI interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel})
	defer log.Close()

	if err := newApp(cfg, newSession).Run(os.Args); err != nil {
		logger.Critical(err.Error(), prefix)
		log.Close()
		os.Exit(1)
	}
}

func newSession(token string) (commandAPI, error) {
	return discordgo.New("Bot " + token)
}

func newApp(cfg *config.Config, connect func(token string) (commandAPI, error)) *cli.App {
	var s *syncer

	setup := func(c *cli.Context) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if !cfg.HasApplicationID() {
			return fmt.Errorf("DISCORD_CLIENT_ID environment variable is not set")
		}

		api, err := connect(cfg.BotToken)
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}

		handler := discord.NewCommandHandler(discord.NewCommandCollection())
		for _, cmd := range mod.Commands(nil) {
			handler.RegisterCommand(cmd)
		}
		s = &syncer{api: api, appID: cfg.ClientID, handler: handler}
		return nil
	}

	return &cli.App{
		Name:   "sync-commands",
		Usage:  "Manage the bot's global slash commands",
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all registered global commands",
				Action: func(c *cli.Context) error { return s.list() },
			},
			{
				Name:   "clean",
				Usage:  "Remove all global commands without registering new ones",
				Action: func(c *cli.Context) error { return s.clean() },
			},
			{
				Name:   "sync",
				Usage:  "Replace the global commands with the current definitions",
				Action: func(c *cli.Context) error { return s.sync() },
			},
		},
		DefaultCommand: "sync",
	}
}

// list logs every command registered with Discord
func (s *syncer) list() error {
	logger.Info("📋 Listing registered commands...", prefix)

	cmds, err := s.handler.ListCommands(s.api, s.appID)
	if err != nil {
		return err
	}

	if len(cmds) == 0 {
		logger.Info("No commands registered", prefix)
		return nil
	}

	logger.Info(fmt.Sprintf("Commands found: %d", len(cmds)), prefix)
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), prefix)
	}
	return nil
}

// clean removes all global commands from Discord
func (s *syncer) clean() error {
	logger.Info("🧹 Removing all commands...", prefix)

	deleted, err := s.handler.UnregisterCommands(s.api, s.appID)
	if err != nil {
		return err
	}

	logger.Success(fmt.Sprintf("✅ %d commands removed", deleted), prefix)
	return nil
}

// sync overwrites the global commands with the current definitions
func (s *syncer) sync() error {
	logger.Info("🔄 Syncing commands...", prefix)

	if err := s.handler.RegisterCommands(s.api, s.appID); err != nil {
		return err
	}

	logger.Success("✅ Commands synced", prefix)
	return nil
}
