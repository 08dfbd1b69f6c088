package commands

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/chatterous/chatterous/chatterous"
	"github.com/chatterous/chatterous/chatterous/dispatch"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
)

var Trivia = discord.SlashCommandCreate{
	Name:        "trivia",
	Description: "Start a trivia question",
}

type triviaQuestion struct {
	Question string
	Answer   string
}

var triviaQuestions = []triviaQuestion{
	{Question: "What is the capital of France?", Answer: "paris"},
	{Question: "Which planet is known as the Red Planet?", Answer: "mars"},
	{Question: "Who wrote Hamlet?", Answer: "william shakespeare"},
	{Question: "What is 9 * 9?", Answer: "81"},
}

// startTrivia picks a question, installs the session for the channel and
// returns the announcement text. Answers are collected by the dispatcher.
func startTrivia(b *chatterous.Bot, channelID, askerID snowflake.ID) string {
	q := triviaQuestions[rand.Intn(len(triviaQuestions))]
	b.Registry.StartTrivia(channelID, q.Answer, askerID)
	return fmt.Sprintf("🧠 Trivia: %s (reply in chat)", q.Question)
}

func TriviaHandler(b *chatterous.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return e.CreateMessage(discord.MessageCreate{
			Content: startTrivia(b, e.ChannelID(), e.User().ID),
		})
	}
}

func TriviaPrefix(b *chatterous.Bot) dispatch.HandlerFunc {
	return func(ctx context.Context, msg dispatch.Message, _ []string) error {
		_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
			Content: startTrivia(b, msg.ChannelID, msg.AuthorID),
		})
		return err
	}
}
