package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chatterous/chatterous/chatterous"
	"github.com/chatterous/chatterous/chatterous/database/models"
	"github.com/chatterous/chatterous/chatterous/database/repositories"
	"github.com/chatterous/chatterous/chatterous/dispatch"
	"github.com/chatterous/chatterous/chatterous/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
)

var CreateReactionRole = discord.SlashCommandCreate{
	Name:                     "createreactionrole",
	Description:              "Bind an emoji on a message to a role",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionManageRoles),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "message_id",
			Description: "ID of the message to watch",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "emoji",
			Description: "The emoji to bind",
			Required:    true,
		},
		discord.ApplicationCommandOptionRole{
			Name:        "role",
			Description: "The role to grant",
			Required:    true,
		},
	},
}

const duplicateBindingReply = "A reaction role for that emoji already exists on that message."

func createReactionRole(ctx context.Context, b *chatterous.Bot, guildID, channelID, messageID, roleID snowflake.ID, emoji string) (string, error) {
	emoji = utils.NormalizeEmoji(emoji)
	if emoji == "" {
		return "Provide an emoji to bind.", nil
	}

	err := b.ReactionRoleRepository.Create(ctx, &models.ReactionRole{
		GuildID:   guildID.String(),
		ChannelID: channelID.String(),
		MessageID: messageID.String(),
		Emoji:     emoji,
		RoleID:    roleID.String(),
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateBinding) {
			return duplicateBindingReply, nil
		}
		return "", err
	}

	// Seed the reaction so members have something to click. Best effort;
	// the binding works either way.
	if err := b.Rest.AddReaction(ctx, channelID, messageID, emoji); err != nil {
		slog.Warn("Failed to seed reaction role emoji",
			slog.String("type", "cmd"),
			slog.String("emoji", emoji),
			slog.Any("error", err))
	}

	return "Reaction role registered.", nil
}

func CreateReactionRoleHandler(b *chatterous.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		guildID := e.GuildID()
		if guildID == nil {
			return utils.EH.CreateErrorEmbed(e, "This command only works in a server.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		data := e.SlashCommandInteractionData()
		messageID, err := snowflake.Parse(data.String("message_id"))
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Invalid message ID.")
		}
		role := data.Role("role")

		reply, err := createReactionRole(ctx, b, *guildID, e.ChannelID(), messageID, role.ID, data.String("emoji"))
		if err != nil {
			slog.Error("Failed to create reaction role",
				slog.String("type", "db"),
				slog.Any("error", err))
			return utils.EH.CreateErrorEmbed(e, "Failed to register the reaction role.")
		}
		return utils.EH.CreateSuccessEmbed(e, reply)
	}
}

func CreateReactionRolePrefix(b *chatterous.Bot) dispatch.HandlerFunc {
	return func(ctx context.Context, msg dispatch.Message, args []string) error {
		if msg.GuildID == nil {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "This command only works in a server.",
			})
			return err
		}

		perms, ok := b.MemberPermissions(*msg.GuildID, msg.AuthorID)
		if !ok || !perms.Has(discord.PermissionManageRoles) {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "You do not have permission to do that.",
			})
			return err
		}

		usage := func() error {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "Usage: createreactionrole <message_id> <emoji> <@role>",
			})
			return err
		}
		if len(args) < 3 {
			return usage()
		}

		messageID, err := snowflake.Parse(args[0])
		if err != nil {
			return usage()
		}
		roleID, ok := utils.ParseRoleMention(args[2])
		if !ok {
			return usage()
		}

		reply, err := createReactionRole(ctx, b, *msg.GuildID, msg.ChannelID, messageID, roleID, args[1])
		if err != nil {
			return err
		}
		_, err = b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{Content: reply})
		return err
	}
}
