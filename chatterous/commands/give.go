package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/chatterous/chatterous/chatterous"
	"github.com/chatterous/chatterous/chatterous/database/repositories"
	"github.com/chatterous/chatterous/chatterous/dispatch"
	"github.com/chatterous/chatterous/chatterous/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
)

var Give = discord.SlashCommandCreate{
	Name:        "give",
	Description: "Give coins to another user",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The recipient",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "Amount of coins to give",
			Required:    true,
			MinValue:    &[]int{1}[0],
		},
	},
}

// giveCoins moves the amount between the two accounts in one transaction and
// returns the user-facing reply.
func giveCoins(ctx context.Context, b *chatterous.Bot, fromID, toID snowflake.ID, amount int64) (string, error) {
	if amount <= 0 {
		return "Enter an amount > 0", nil
	}
	if fromID == toID {
		return "You cannot give coins to yourself.", nil
	}

	err := b.UserRepository.Transfer(ctx, fromID.String(), toID.String(), amount)
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientFunds) {
			return "Not enough coins.", nil
		}
		return "", err
	}
	return fmt.Sprintf("<@%s> gave <@%s> **%d** coins.", fromID, toID, amount), nil
}

func GiveHandler(b *chatterous.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data := e.SlashCommandInteractionData()
		recipient := data.User("user")
		amount := int64(data.Int("amount"))

		reply, err := giveCoins(ctx, b, e.User().ID, recipient.ID, amount)
		if err != nil {
			slog.Error("Failed to transfer coins",
				slog.String("type", "db"),
				slog.Any("error", err))
			return utils.EH.CreateErrorEmbed(e, "Failed to transfer coins. Please try again later.")
		}
		return e.CreateMessage(discord.MessageCreate{Content: reply})
	}
}

func GivePrefix(b *chatterous.Bot) dispatch.HandlerFunc {
	return func(ctx context.Context, msg dispatch.Message, args []string) error {
		usage := func() error {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "Usage: give <@user> <amount>",
			})
			return err
		}
		if len(args) < 2 {
			return usage()
		}

		recipient, ok := utils.ParseUserMention(args[0])
		if !ok {
			return usage()
		}
		amount, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return usage()
		}

		reply, err := giveCoins(ctx, b, msg.AuthorID, recipient, amount)
		if err != nil {
			return err
		}
		_, err = b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{Content: reply})
		return err
	}
}
