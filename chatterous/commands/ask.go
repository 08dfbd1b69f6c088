package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chatterous/chatterous/chatterous"
	"github.com/chatterous/chatterous/chatterous/completion"
	"github.com/chatterous/chatterous/chatterous/dispatch"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"
)

var Ask = discord.SlashCommandCreate{
	Name:        "ask",
	Description: "Ask the assistant a question",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "question",
			Description: "Your question",
			Required:    true,
		},
	},
}

const notConfiguredReply = "The assistant is not configured on this bot."

func AskHandler(b *chatterous.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		question := e.SlashCommandInteractionData().String("question")

		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		answer, err := b.Completion.Ask(context.Background(), question)
		if err != nil {
			answer = askErrorReply(err)
		}

		_, err = e.CreateFollowupMessage(discord.MessageCreate{Content: answer})
		return err
	}
}

func AskPrefix(b *chatterous.Bot) dispatch.HandlerFunc {
	return func(ctx context.Context, msg dispatch.Message, args []string) error {
		if len(args) == 0 {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "Usage: ask <question>",
			})
			return err
		}

		placeholder, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
			Content: "Thinking...",
		})
		if err != nil {
			return err
		}

		answer, err := b.Completion.Ask(ctx, strings.Join(args, " "))
		if err != nil {
			answer = askErrorReply(err)
		}

		_, err = b.Rest.UpdateMessage(ctx, msg.ChannelID, placeholder.ID, discord.MessageUpdate{
			Content: json.Ptr(answer),
		})
		return err
	}
}

// ImgPrefix is the image-generation placeholder. It exists so the command
// name resolves, but the generation backend is not wired up.
func ImgPrefix(b *chatterous.Bot) dispatch.HandlerFunc {
	return func(ctx context.Context, msg dispatch.Message, args []string) error {
		content := "Image generation is not available yet."
		if b.Completion == nil {
			content = notConfiguredReply
		}
		_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{Content: content})
		return err
	}
}

func askErrorReply(err error) string {
	if errors.Is(err, completion.ErrNotConfigured) {
		return notConfiguredReply
	}
	slog.Error("Completion request failed",
		slog.String("type", "cmd"),
		slog.Any("error", err))
	return fmt.Sprintf("Assistant error: %s", err)
}
