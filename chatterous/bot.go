package chatterous

import (
	"context"
	"log/slog"
	"time"

	"github.com/chatterous/chatterous/chatterous/completion"
	"github.com/chatterous/chatterous/chatterous/database"
	"github.com/chatterous/chatterous/chatterous/database/repositories"
	"github.com/chatterous/chatterous/chatterous/outbound"
	"github.com/chatterous/chatterous/chatterous/session"
	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"
	"github.com/disgoorg/snowflake/v2"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Rest      *outbound.Rest
	Paginator *paginator.Manager
	Version   string
	Commit    string

	DB       *database.DB
	Registry *session.Registry

	UserRepository         repositories.UserRepository
	InfractionRepository   repositories.InfractionRepository
	ReminderRepository     repositories.ReminderRepository
	ReactionRoleRepository repositories.ReactionRoleRepository
	GuildConfigRepository  repositories.GuildConfigRepository

	Completion *completion.Client

	// Stop requests a process shutdown; restart asks the supervisor to
	// bring the process back up. Wired by main before the gateway opens.
	Stop func(restart bool)
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMembers,
			gateway.IntentGuildMessages,
			gateway.IntentGuildMessageReactions,
			gateway.IntentMessageContent,
		)),
		bot.WithCacheConfigOpts(cache.WithCaches(
			cache.FlagGuilds,
			cache.FlagMembers,
			cache.FlagRoles,
			cache.FlagChannels,
		)),
		// Listeners run in their own goroutines so a handler that blocks
		// (a poll waiting out its duration) never stalls the event stream.
		bot.WithEventManagerConfigOpts(bot.WithAsyncEventsEnabled()),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	b.Rest = outbound.NewRest(client.Rest())
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("Chatterous is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithListeningActivity("your messages"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}

// IsOwner reports whether the user is the configured bot owner.
func (b *Bot) IsOwner(userID snowflake.ID) bool {
	return b.Cfg.Bot.OwnerID != 0 && userID == b.Cfg.Bot.OwnerID
}

// MemberPermissions resolves the member's guild-level permissions from the
// cache. The second return is false when the member is not cached, in which
// case callers deny rather than guess.
func (b *Bot) MemberPermissions(guildID, userID snowflake.ID) (discord.Permissions, bool) {
	member, ok := b.Client.Caches().Member(guildID, userID)
	if !ok {
		return discord.PermissionsNone, false
	}
	return b.Client.Caches().MemberPermissions(member), true
}
