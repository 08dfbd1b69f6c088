package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/chatterous/chatterous/chatterous"
	"github.com/chatterous/chatterous/chatterous/database/repositories"
	"github.com/chatterous/chatterous/chatterous/dispatch"
	"github.com/chatterous/chatterous/chatterous/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
)

var Daily = discord.SlashCommandCreate{
	Name:        "daily",
	Description: "Claim your daily coin reward",
}

const (
	dailyRewardMin = 50
	dailyRewardMax = 150
)

func rollDailyReward() int64 {
	return int64(dailyRewardMin + rand.Intn(dailyRewardMax-dailyRewardMin+1))
}

func claimDaily(ctx context.Context, b *chatterous.Bot, userID snowflake.ID) (string, error) {
	reward := rollDailyReward()
	err := b.UserRepository.ClaimDaily(ctx, userID.String(), reward, time.Now())
	if err != nil {
		var cooldown *repositories.DailyCooldownError
		if errors.As(err, &cooldown) {
			return fmt.Sprintf("Daily already claimed. Try again in %s.",
				cooldown.Remaining.Round(time.Second)), nil
		}
		return "", err
	}
	return fmt.Sprintf("<@%s> claimed daily **%d** coins!", userID, reward), nil
}

func DailyHandler(b *chatterous.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		reply, err := claimDaily(ctx, b, e.User().ID)
		if err != nil {
			slog.Error("Failed to claim daily reward",
				slog.String("type", "db"),
				slog.Any("error", err))
			return utils.EH.CreateErrorEmbed(e, "Failed to claim daily reward. Please try again later.")
		}
		return e.CreateMessage(discord.MessageCreate{Content: reply})
	}
}

func DailyPrefix(b *chatterous.Bot) dispatch.HandlerFunc {
	return func(ctx context.Context, msg dispatch.Message, _ []string) error {
		reply, err := claimDaily(ctx, b, msg.AuthorID)
		if err != nil {
			return err
		}
		_, err = b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{Content: reply})
		return err
	}
}
