package events

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterShardEvents registers gateway connection handlers
func RegisterShardEvents(eh *discord.EventHandler) {
	eh.OnConnect(onShardConnect)
	eh.OnDisconnect(onShardDisconnect)
	eh.OnResumed(onShardResumed)
}

func onShardConnect(s *discordgo.Session, event *discordgo.Connect) {
	logger.Info(fmt.Sprintf("Shard %d connected.", s.ShardID), "Shard")
}

func onShardDisconnect(s *discordgo.Session, event *discordgo.Disconnect) {
	logger.Warn(fmt.Sprintf("Shard %d disconnected.", s.ShardID), "Shard")
}

func onShardResumed(s *discordgo.Session, event *discordgo.Resumed) {
	logger.Success(fmt.Sprintf("Shard %d resumed.", s.ShardID), "Shard")
}
