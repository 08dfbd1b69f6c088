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

var SetWelcome = discord.SlashCommandCreate{
	Name:                     "setwelcome",
	Description:              "Set the welcome channel and message",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionManageGuild),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionChannel{
			Name:        "channel",
			Description: "Channel for welcome messages",
			Required:    true,
			ChannelTypes: []discord.ChannelType{
				discord.ChannelTypeGuildText,
			},
		},
		discord.ApplicationCommandOptionString{
			Name:        "message",
			Description: "Welcome template, supports {user} and {guild}",
		},
	},
}

const defaultWelcomeTemplate = "Welcome {user} to {guild}!"

func setWelcome(ctx context.Context, b *chatterous.Bot, guildID, channelID snowflake.ID, template string) (string, error) {
	if template == "" {
		template = defaultWelcomeTemplate
	}
	err := b.GuildConfigRepository.Upsert(ctx, &models.GuildConfig{
		GuildID:        guildID.String(),
		WelcomeChannel: channelID.String(),
		WelcomeMessage: template,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Welcome set to <#%s>", channelID), nil
}

func SetWelcomeHandler(b *chatterous.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		guildID := e.GuildID()
		if guildID == nil {
			return utils.EH.CreateErrorEmbed(e, "This command only works in a server.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data := e.SlashCommandInteractionData()
		channel := data.Channel("channel")
		template, _ := data.OptString("message")

		reply, err := setWelcome(ctx, b, *guildID, channel.ID, template)
		if err != nil {
			slog.Error("Failed to set welcome config",
				slog.String("type", "db"),
				slog.Any("error", err))
			return utils.EH.CreateErrorEmbed(e, "Failed to save the welcome settings.")
		}
		return utils.EH.CreateSuccessEmbed(e, reply)
	}
}

func SetWelcomePrefix(b *chatterous.Bot) dispatch.HandlerFunc {
	return func(ctx context.Context, msg dispatch.Message, args []string) error {
		if msg.GuildID == nil {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "This command only works in a server.",
			})
			return err
		}

		perms, ok := b.MemberPermissions(*msg.GuildID, msg.AuthorID)
		if !ok || !perms.Has(discord.PermissionManageGuild) {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "You do not have permission to do that.",
			})
			return err
		}

		if len(args) == 0 {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "Usage: setwelcome <#channel> [message]",
			})
			return err
		}
		channelID, ok := utils.ParseChannelMention(args[0])
		if !ok {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "Usage: setwelcome <#channel> [message]",
			})
			return err
		}

		reply, err := setWelcome(ctx, b, *msg.GuildID, channelID, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		_, err = b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{Content: reply})
		return err
	}
}
