package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chatterous/chatterous/chatterous"
	"github.com/chatterous/chatterous/chatterous/database/repositories"
	"github.com/chatterous/chatterous/chatterous/dispatch"
	"github.com/chatterous/chatterous/chatterous/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
)

var Balance = discord.SlashCommandCreate{
	Name:        "balance",
	Description: "Check a coin balance",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to check (defaults to you)",
		},
	},
}

// balanceReply treats an unknown user as a zero balance rather than an error;
// accounts are created lazily on the first write.
func balanceReply(ctx context.Context, b *chatterous.Bot, userID snowflake.ID) (string, error) {
	user, err := b.UserRepository.GetByDiscordID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Sprintf("<@%s> has 0 coins.", userID), nil
		}
		return "", err
	}
	return fmt.Sprintf("<@%s> has **%d** coins.", userID, user.Coins), nil
}

func BalanceHandler(b *chatterous.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		target := e.User().ID
		if user, ok := e.SlashCommandInteractionData().OptUser("user"); ok {
			target = user.ID
		}

		reply, err := balanceReply(ctx, b, target)
		if err != nil {
			slog.Error("Failed to get balance",
				slog.String("type", "db"),
				slog.Any("error", err))
			return utils.EH.CreateErrorEmbed(e, "Failed to look up that balance.")
		}
		return e.CreateMessage(discord.MessageCreate{Content: reply})
	}
}

func BalancePrefix(b *chatterous.Bot) dispatch.HandlerFunc {
	return func(ctx context.Context, msg dispatch.Message, args []string) error {
		target := msg.AuthorID
		if len(args) > 0 {
			id, ok := utils.ParseUserMention(args[0])
			if !ok {
				_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
					Content: "Usage: balance [@user]",
				})
				return err
			}
			target = id
		}

		reply, err := balanceReply(ctx, b, target)
		if err != nil {
			return err
		}
		_, err = b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{Content: reply})
		return err
	}
}
