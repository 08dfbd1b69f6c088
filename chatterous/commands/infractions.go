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
	"github.com/disgoorg/paginator"
)

var Infractions = discord.SlashCommandCreate{
	Name:                     "infractions",
	Description:              "List a member's infractions",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionManageMessages),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to look up",
			Required:    true,
		},
	},
}

const infractionsPerPage = 5

func actionEmoji(action models.InfractionAction) string {
	switch action {
	case models.InfractionKick:
		return "👢"
	case models.InfractionBan:
		return "🔨"
	default:
		return "⚠️"
	}
}

func formatInfraction(inf *models.Infraction) string {
	return fmt.Sprintf("%s **%s** by <@%s> — %s (<t:%d:R>)",
		actionEmoji(inf.Action), inf.Action, inf.ModID, inf.Reason, inf.CreatedAt.Unix())
}

func InfractionsHandler(b *chatterous.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		guildID := e.GuildID()
		if guildID == nil {
			return utils.EH.CreateErrorEmbed(e, "This command only works in a server.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		target := e.SlashCommandInteractionData().User("user")
		infractions, err := b.InfractionRepository.ListByUser(ctx, guildID.String(), target.ID.String())
		if err != nil {
			slog.Error("Failed to list infractions",
				slog.String("type", "db"),
				slog.Any("error", err))
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch infractions.")
		}
		if len(infractions) == 0 {
			return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("<@%s> has no infractions.", target.ID))
		}

		totalPages := (len(infractions) + infractionsPerPage - 1) / infractionsPerPage
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * infractionsPerPage
				end := start + infractionsPerPage
				if end > len(infractions) {
					end = len(infractions)
				}
				var lines []string
				for _, inf := range infractions[start:end] {
					lines = append(lines, formatInfraction(inf))
				}
				embed.
					SetTitlef("Infractions for %s (%d)", target.Username, len(infractions)).
					SetDescription(strings.Join(lines, "\n")).
					SetColor(utils.InfoColor)
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

// InfractionsPrefix prints the ten most recent entries without pagination.
func InfractionsPrefix(b *chatterous.Bot) dispatch.HandlerFunc {
	return func(ctx context.Context, msg dispatch.Message, args []string) error {
		if msg.GuildID == nil {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "This command only works in a server.",
			})
			return err
		}

		perms, ok := b.MemberPermissions(*msg.GuildID, msg.AuthorID)
		if !ok || !perms.Has(discord.PermissionManageMessages) {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "You do not have permission to do that.",
			})
			return err
		}

		if len(args) == 0 {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "Usage: infractions <@user>",
			})
			return err
		}
		target, ok := utils.ParseUserMention(args[0])
		if !ok {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: "Usage: infractions <@user>",
			})
			return err
		}

		infractions, err := b.InfractionRepository.ListByUser(ctx, msg.GuildID.String(), target.String())
		if err != nil {
			return err
		}
		if len(infractions) == 0 {
			_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
				Content: fmt.Sprintf("<@%s> has no infractions.", target),
			})
			return err
		}

		if len(infractions) > 10 {
			infractions = infractions[:10]
		}
		lines := []string{fmt.Sprintf("Infractions for <@%s>:", target)}
		for _, inf := range infractions {
			lines = append(lines, formatInfraction(inf))
		}
		_, err = b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
			Content: strings.Join(lines, "\n"),
		})
		return err
	}
}
