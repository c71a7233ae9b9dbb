package moderation

import "github.com/bwmarrin/discordgo"

// allPermissions has every permission bit set.
const allPermissions int64 = -1

// permissions computes a member's guild-wide permissions from the @everyone
// role and its own roles. The owner and administrators hold everything.
func permissions(g *discordgo.Guild, m *discordgo.Member) int64 {
	if m.User != nil && m.User.ID == g.OwnerID {
		return allPermissions
	}

	held := make(map[string]struct{}, len(m.Roles))
	for _, id := range m.Roles {
		held[id] = struct{}{}
	}

	var perms int64
	for _, r := range g.Roles {
		if _, ok := held[r.ID]; ok || r.ID == g.ID {
			perms |= r.Permissions
		}
	}

	if perms&discordgo.PermissionAdministrator != 0 {
		return allPermissions
	}
	return perms
}

func hasPermission(g *discordgo.Guild, m *discordgo.Member, perm int64) bool {
	return permissions(g, m)&perm == perm
}

// highestPosition returns the position of the member's highest role, 0 for
// members with only @everyone.
func highestPosition(g *discordgo.Guild, m *discordgo.Member) int {
	held := make(map[string]struct{}, len(m.Roles))
	for _, id := range m.Roles {
		held[id] = struct{}{}
	}

	highest := 0
	for _, r := range g.Roles {
		if _, ok := held[r.ID]; ok && r.Position > highest {
			highest = r.Position
		}
	}
	return highest
}

func memberID(m *discordgo.Member) string {
	if m == nil || m.User == nil {
		return ""
	}
	return m.User.ID
}

func hasRole(m *discordgo.Member, roleID string) bool {
	for _, id := range m.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}

// manageable mirrors Discord's role hierarchy: the owner and the bot itself
// are never manageable, and the bot must sit strictly above the target unless it owns the guild.
func manageable(g *discordgo.Guild, bot, target *discordgo.Member) bool {
	targetID := memberID(target)
	if targetID == g.OwnerID || targetID == memberID(bot) {
		return false
	}
	if memberID(bot) == g.OwnerID {
		return true
	}
	return highestPosition(g, bot) > highestPosition(g, target)
}

func bannable(g *discordgo.Guild, bot, target *discordgo.Member) bool {
	return manageable(g, bot, target) && hasPermission(g, bot, discordgo.PermissionBanMembers)
}

func kickable(g *discordgo.Guild, bot, target *discordgo.Member) bool {
	return manageable(g, bot, target) && hasPermission(g, bot, discordgo.PermissionKickMembers)
}

func moderatable(g *discordgo.Guild, bot, target *discordgo.Member) bool {
	return manageable(g, bot, target) &&
		hasPermission(g, bot, discordgo.PermissionModerateMembers) &&
		!hasPermission(g, target, discordgo.PermissionAdministrator)
}
