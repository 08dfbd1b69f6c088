package commands

import (
	"context"

	"github.com/chatterous/chatterous/chatterous"
	"github.com/chatterous/chatterous/chatterous/dispatch"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Help = discord.SlashCommandCreate{
	Name:        "help",
	Description: "Show the command list",
}

const helpText = "**Chatterous Bot — Help**\n\n" +
	"Commands:\n" +
	"`/ask` or `!ask` — Ask the assistant\n" +
	"`/trivia` or `!trivia` — Trivia\n" +
	"`/rps` or `!rps <choice>` — Rock Paper Scissors\n" +
	"`/poll` or `!poll <question> | <options> | [duration]` — Create a poll\n" +
	"`!balance`, `!give`, `!daily` — Economy\n" +
	"`!remindme <time> <text>` — Reminder\n" +
	"`!kick`, `!ban`, `!warn`, `!infractions` — Moderation\n" +
	"`!createreactionrole <message_id> <emoji> <@role>` — Reaction roles\n" +
	"`!setwelcome #channel <message>` — Welcome messages\n" +
	"Owner: `!shutdown`, `!restart`\n"

func HelpHandler(_ *chatterous.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return e.CreateMessage(discord.MessageCreate{Content: helpText})
	}
}

func HelpPrefix(b *chatterous.Bot) dispatch.HandlerFunc {
	return func(ctx context.Context, msg dispatch.Message, _ []string) error {
		_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{Content: helpText})
		return err
	}
}
