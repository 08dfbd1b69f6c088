package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/chatterous/chatterous/chatterous"
	"github.com/chatterous/chatterous/chatterous/dispatch"
	"github.com/chatterous/chatterous/chatterous/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
)

var Poll = discord.SlashCommandCreate{
	Name:        "poll",
	Description: "Create a poll with up to 5 options",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "question",
			Description: "The poll question",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "options",
			Description: "Comma-separated options (2-5)",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "duration",
			Description: "Poll duration in seconds",
			MinValue:    &[]int{5}[0],
			MaxValue:    &[]int{600}[0],
		},
	},
}

// Keycap digit emojis 1-5, one per poll option.
var pollEmojis = []string{
	"1⃣",
	"2⃣",
	"3⃣",
	"4⃣",
	"5⃣",
}

const defaultPollDuration = 30 * time.Second

// parsePollOptions splits the comma-separated option list, dropping empty
// entries. Between 2 and 5 options are required.
func parsePollOptions(input string) ([]string, error) {
	var options []string
	for _, o := range strings.Split(input, ",") {
		if o = strings.TrimSpace(o); o != "" {
			options = append(options, o)
		}
	}
	if len(options) < 2 || len(options) > 5 {
		return nil, fmt.Errorf("provide 2-5 comma-separated options")
	}
	return options, nil
}

func pollEmbed(question string, options []string) discord.Embed {
	var lines []string
	for i, o := range options {
		lines = append(lines, fmt.Sprintf("%s %s", pollEmojis[i], o))
	}
	return discord.Embed{
		Title:       fmt.Sprintf("📊 %s", question),
		Description: strings.Join(lines, "\n"),
		Color:       utils.InfoColor,
	}
}

// tallyPollVotes maps the refetched reactions back onto the options. The
// bot's own seed reaction is subtracted from each count.
func tallyPollVotes(reactions []discord.MessageReaction, optionCount int) []int {
	counts := make([]int, optionCount)
	for _, r := range reactions {
		key := utils.ReactionEmojiKey(r.Emoji)
		for i := 0; i < optionCount; i++ {
			if key == pollEmojis[i] {
				if c := r.Count - 1; c > 0 {
					counts[i] = c
				}
				break
			}
		}
	}
	return counts
}

// runPoll seeds the option reactions, waits out the poll duration, refetches
// the message and announces the tally. It blocks for the full duration, which
// is safe because event handlers run on their own goroutines.
func runPoll(ctx context.Context, b *chatterous.Bot, channelID, messageID snowflake.ID, options []string, duration time.Duration) error {
	for i := range options {
		if err := b.Rest.AddReaction(ctx, channelID, messageID, pollEmojis[i]); err != nil {
			slog.Error("Failed to add poll reaction",
				slog.String("type", "cmd"),
				slog.String("emoji", pollEmojis[i]),
				slog.Any("error", err))
		}
		select {
		case <-time.After(200 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	select {
	case <-time.After(duration):
	case <-ctx.Done():
		return ctx.Err()
	}

	msg, err := b.Rest.GetMessage(ctx, channelID, messageID)
	if err != nil {
		return fmt.Errorf("failed to fetch poll message: %w", err)
	}

	counts := tallyPollVotes(msg.Reactions, len(options))
	lines := []string{"🗳️ Poll results:"}
	for i, o := range options {
		lines = append(lines, fmt.Sprintf("**%s** — %d vote(s)", o, counts[i]))
	}

	_, err = b.Rest.SendMessage(ctx, channelID, discord.MessageCreate{
		Content: strings.Join(lines, "\n"),
	})
	return err
}

func PollHandler(b *chatterous.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		question := data.String("question")
		duration := defaultPollDuration
		if secs, ok := data.OptInt("duration"); ok {
			duration = time.Duration(secs) * time.Second
		}

		options, err := parsePollOptions(data.String("options"))
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, err.Error())
		}

		if err := e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{pollEmbed(question, options)},
		}); err != nil {
			return err
		}

		ctx := context.Background()
		sent, err := b.Rest.GetInteractionResponse(ctx, e.ApplicationID(), e.Token())
		if err != nil {
			return fmt.Errorf("failed to fetch poll message: %w", err)
		}

		return runPoll(ctx, b, sent.ChannelID, sent.ID, options, duration)
	}
}

// PollPrefix parses "question | option1,option2 | duration". The duration
// segment is optional.
func PollPrefix(b *chatterous.Bot) dispatch.HandlerFunc {
	return func(ctx context.Context, msg dispatch.Message, args []string) error {
		parts := strings.Split(strings.Join(args, " "), "|")
		if len(parts) < 2 {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "Usage: poll <question> | <option1,option2,...> | [duration seconds]",
			})
			return err
		}

		question := strings.TrimSpace(parts[0])
		options, err := parsePollOptions(parts[1])
		if err != nil {
			_, sendErr := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: err.Error(),
			})
			return sendErr
		}

		duration := defaultPollDuration
		if len(parts) > 2 {
			secs, err := strconv.Atoi(strings.TrimSpace(parts[2]))
			if err != nil || secs <= 0 {
				_, sendErr := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
					Content: "Invalid poll duration.",
				})
				return sendErr
			}
			duration = time.Duration(secs) * time.Second
		}

		sent, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
			Embeds: []discord.Embed{pollEmbed(question, options)},
		})
		if err != nil {
			return err
		}

		return runPoll(ctx, b, msg.ChannelID, sent.ID, options, duration)
	}
}
