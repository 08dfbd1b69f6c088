package commands

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/chatterous/chatterous/chatterous"
	"github.com/chatterous/chatterous/chatterous/dispatch"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var RPS = discord.SlashCommandCreate{
	Name:        "rps",
	Description: "Play rock-paper-scissors",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "choice",
			Description: "rock, paper or scissors",
			Required:    true,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "rock", Value: "rock"},
				{Name: "paper", Value: "paper"},
				{Name: "scissors", Value: "scissors"},
			},
		},
	},
}

var rpsChoices = []string{"rock", "paper", "scissors"}

// rpsOutcome scores the player's choice against the bot's: 0 tie, 1 player
// wins, -1 bot wins.
func rpsOutcome(player, bot string) int {
	if player == bot {
		return 0
	}
	switch {
	case player == "rock" && bot == "scissors",
		player == "paper" && bot == "rock",
		player == "scissors" && bot == "paper":
		return 1
	}
	return -1
}

func playRPS(choice string) (string, bool) {
	choice = strings.ToLower(strings.TrimSpace(choice))
	valid := false
	for _, c := range rpsChoices {
		if choice == c {
			valid = true
			break
		}
	}
	if !valid {
		return "Invalid choice: rock/paper/scissors", false
	}

	botChoice := rpsChoices[rand.Intn(len(rpsChoices))]
	var result string
	switch rpsOutcome(choice, botChoice) {
	case 0:
		result = "Tie!"
	case 1:
		result = "You win! 🎉"
	default:
		result = "I win! 😈"
	}
	return fmt.Sprintf("You: %s | Bot: %s — %s", choice, botChoice, result), true
}

func RPSHandler(_ *chatterous.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		reply, _ := playRPS(e.SlashCommandInteractionData().String("choice"))
		return e.CreateMessage(discord.MessageCreate{Content: reply})
	}
}

func RPSPrefix(b *chatterous.Bot) dispatch.HandlerFunc {
	return func(ctx context.Context, msg dispatch.Message, args []string) error {
		if len(args) == 0 {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "Usage: rps <rock|paper|scissors>",
			})
			return err
		}
		reply, _ := playRPS(args[0])
		_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{Content: reply})
		return err
	}
}
