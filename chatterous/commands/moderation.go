package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chatterous/chatterous/chatterous"
	"github.com/chatterous/chatterous/chatterous/database/models"
	"github.com/chatterous/chatterous/chatterous/dispatch"
	"github.com/chatterous/chatterous/chatterous/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
)

const defaultModReason = "No reason provided"

func moderationOptions() []discord.ApplicationCommandOption {
	return []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The target user",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "reason",
			Description: "Reason for the action",
		},
	}
}

var Kick = discord.SlashCommandCreate{
	Name:                     "kick",
	Description:              "Kick a member from the server",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionKickMembers),
	Options:                  moderationOptions(),
}

var Ban = discord.SlashCommandCreate{
	Name:                     "ban",
	Description:              "Ban a member from the server",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionBanMembers),
	Options:                  moderationOptions(),
}

var Warn = discord.SlashCommandCreate{
	Name:                     "warn",
	Description:              "Warn a member",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionManageMessages),
	Options:                  moderationOptions(),
}

// moderate performs the platform action and logs the infraction. Warn has no
// platform action, so it always reaches the log. Kick and ban log only after
// the platform call succeeds.
func moderate(ctx context.Context, b *chatterous.Bot, action models.InfractionAction, guildID, targetID, modID snowflake.ID, reason string) (string, error) {
	if reason == "" {
		reason = defaultModReason
	}

	switch action {
	case models.InfractionKick:
		if err := b.Rest.Kick(ctx, guildID, targetID, reason); err != nil {
			return fmt.Sprintf("Kick failed: %s", err), nil
		}
	case models.InfractionBan:
		if err := b.Rest.Ban(ctx, guildID, targetID, reason); err != nil {
			return fmt.Sprintf("Ban failed: %s", err), nil
		}
	case models.InfractionWarn:
	default:
		return "", fmt.Errorf("unknown moderation action %q", action)
	}

	if err := b.InfractionRepository.Log(ctx, &models.Infraction{
		GuildID: guildID.String(),
		UserID:  targetID.String(),
		ModID:   modID.String(),
		Action:  action,
		Reason:  reason,
	}); err != nil {
		return "", err
	}

	switch action {
	case models.InfractionKick:
		return fmt.Sprintf("👢 Kicked <@%s> — %s", targetID, reason), nil
	case models.InfractionBan:
		return fmt.Sprintf("🔨 Banned <@%s> — %s", targetID, reason), nil
	default:
		return fmt.Sprintf("⚠️ Warned <@%s> — %s", targetID, reason), nil
	}
}

func moderationHandler(b *chatterous.Bot, action models.InfractionAction) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		guildID := e.GuildID()
		if guildID == nil {
			return utils.EH.CreateErrorEmbed(e, "This command only works in a server.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		data := e.SlashCommandInteractionData()
		target := data.User("user")
		reason, _ := data.OptString("reason")

		reply, err := moderate(ctx, b, action, *guildID, target.ID, e.User().ID, reason)
		if err != nil {
			slog.Error("Moderation action failed",
				slog.String("type", "cmd"),
				slog.String("action", string(action)),
				slog.Any("error", err))
			return utils.EH.CreateErrorEmbed(e, "Moderation action failed. Please try again later.")
		}
		return e.CreateMessage(discord.MessageCreate{Content: reply})
	}
}

func KickHandler(b *chatterous.Bot) handler.CommandHandler {
	return moderationHandler(b, models.InfractionKick)
}

func BanHandler(b *chatterous.Bot) handler.CommandHandler {
	return moderationHandler(b, models.InfractionBan)
}

func WarnHandler(b *chatterous.Bot) handler.CommandHandler {
	return moderationHandler(b, models.InfractionWarn)
}

func moderationPermission(action models.InfractionAction) discord.Permissions {
	switch action {
	case models.InfractionKick:
		return discord.PermissionKickMembers
	case models.InfractionBan:
		return discord.PermissionBanMembers
	default:
		return discord.PermissionManageMessages
	}
}

// ModerationPrefix handles the prefix forms. The slash forms lean on
// platform-enforced default permissions; here the caller's cached guild
// permissions are checked directly, denying when the member is not cached.
func ModerationPrefix(b *chatterous.Bot, name string) dispatch.HandlerFunc {
	action := models.InfractionAction(name)
	return func(ctx context.Context, msg dispatch.Message, args []string) error {
		if msg.GuildID == nil {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "This command only works in a server.",
			})
			return err
		}

		perms, ok := b.MemberPermissions(*msg.GuildID, msg.AuthorID)
		if !ok || !perms.Has(moderationPermission(action)) {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "You do not have permission to do that.",
			})
			return err
		}

		if len(args) == 0 {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: fmt.Sprintf("Usage: %s <@user> [reason]", name),
			})
			return err
		}
		target, ok := utils.ParseUserMention(args[0])
		if !ok {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: fmt.Sprintf("Usage: %s <@user> [reason]", name),
			})
			return err
		}

		reply, err := moderate(ctx, b, action, *msg.GuildID, target, msg.AuthorID,
			strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		_, err = b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{Content: reply})
		return err
	}
}
