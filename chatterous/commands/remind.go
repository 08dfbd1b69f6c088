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
	"github.com/disgoorg/snowflake/v2"
)

var RemindMe = discord.SlashCommandCreate{
	Name:        "remindme",
	Description: "Set a reminder",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "when",
			Description: "When to remind you, like 10m, 2h or 1d",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "text",
			Description: "What to remind you about",
			Required:    true,
		},
	},
}

const invalidRemindFormat = "Invalid time format. Use 10m, 2h, 1d, etc."

func scheduleReminder(ctx context.Context, b *chatterous.Bot, userID snowflake.ID, guildID *snowflake.ID, channelID snowflake.ID, when, content string) (string, error) {
	offset, err := utils.ParseRemindDuration(when)
	if err != nil {
		return invalidRemindFormat, nil
	}

	remindAt := time.Now().Add(offset)
	reminder := &models.Reminder{
		UserID:    userID.String(),
		ChannelID: channelID.String(),
		RemindAt:  remindAt,
		Content:   content,
	}
	if guildID != nil {
		reminder.GuildID = guildID.String()
	}

	if err := b.ReminderRepository.Schedule(ctx, reminder); err != nil {
		return "", err
	}
	return fmt.Sprintf("Reminder set for <t:%d:R>", remindAt.Unix()), nil
}

func RemindMeHandler(b *chatterous.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data := e.SlashCommandInteractionData()
		reply, err := scheduleReminder(ctx, b, e.User().ID, e.GuildID(), e.ChannelID(),
			data.String("when"), data.String("text"))
		if err != nil {
			slog.Error("Failed to schedule reminder",
				slog.String("type", "db"),
				slog.Any("error", err))
			return utils.EH.CreateErrorEmbed(e, "Failed to set the reminder. Please try again later.")
		}
		return e.CreateMessage(discord.MessageCreate{Content: reply})
	}
}

func RemindMePrefix(b *chatterous.Bot) dispatch.HandlerFunc {
	return func(ctx context.Context, msg dispatch.Message, args []string) error {
		if len(args) < 2 {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "Usage: remindme <10m|2h|1d> <text>",
			})
			return err
		}

		reply, err := scheduleReminder(ctx, b, msg.AuthorID, msg.GuildID, msg.ChannelID,
			args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		_, err = b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{Content: reply})
		return err
	}
}
