package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/chatterous/chatterous/chatterous"
	"github.com/chatterous/chatterous/chatterous/commands"
	"github.com/chatterous/chatterous/chatterous/completion"
	"github.com/chatterous/chatterous/chatterous/database"
	"github.com/chatterous/chatterous/chatterous/database/repositories"
	"github.com/chatterous/chatterous/chatterous/dispatch"
	"github.com/chatterous/chatterous/chatterous/handlers"
	"github.com/chatterous/chatterous/chatterous/heartbeat"
	"github.com/chatterous/chatterous/chatterous/logger"
	"github.com/chatterous/chatterous/chatterous/scheduler"
	"github.com/chatterous/chatterous/chatterous/session"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/handler"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

var (
	version = "dev"
	commit  = "unknown"
)

// restartExitCode tells the supervising process to bring the bot back up.
const restartExitCode = 2

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(slog.LevelInfo)))

	slog.Info("Starting Chatterous",
		slog.String("version", version),
		slog.String("commit", commit))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	// A missing .env is fine; secrets may live in the real environment.
	_ = godotenv.Load()

	cfg, err := chatterous.LoadConfig(*path)
	if err != nil {
		if errors.Is(err, chatterous.ErrMissingToken) {
			slog.Error("No bot token configured, set CHATTEROUS_BOT_TOKEN or bot.token")
		} else {
			slog.Error("Failed to load configuration", slog.Any("error", err))
		}
		os.Exit(-1)
	}
	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	slog.Info("Configuration loaded successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		cancel()
		slog.Error("Database open failed",
			slog.String("type", "db"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	if err := db.InitializeSchema(ctx); err != nil {
		cancel()
		slog.Error("Failed to initialize database schema",
			slog.String("type", "db"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	cancel()
	defer db.Close()

	b := chatterous.New(*cfg, version, commit)
	b.DB = db
	b.Registry = session.NewRegistry(nil)
	b.UserRepository = repositories.NewUserRepository(db.BunDB())
	b.InfractionRepository = repositories.NewInfractionRepository(db.BunDB())
	b.ReminderRepository = repositories.NewReminderRepository(db.BunDB())
	b.ReactionRoleRepository = repositories.NewReactionRoleRepository(db.BunDB())
	b.GuildConfigRepository = repositories.NewGuildConfigRepository(db.BunDB())
	b.Completion = completion.New(cfg.Completion)
	if b.Completion == nil {
		slog.Info("No completion API key set, assistant commands disabled")
	}

	restart := false
	stop := make(chan struct{})
	var stopOnce sync.Once
	b.Stop = func(r bool) {
		stopOnce.Do(func() {
			restart = r
			close(stop)
		})
	}

	h := handler.New()
	h.Command("/ask", handlers.WrapWithLogging("ask", commands.AskHandler(b)))
	h.Command("/trivia", handlers.WrapWithLogging("trivia", commands.TriviaHandler(b)))
	h.Command("/rps", handlers.WrapWithLogging("rps", commands.RPSHandler(b)))
	h.Command("/poll", handlers.WrapWithLogging("poll", commands.PollHandler(b)))
	h.Command("/balance", handlers.WrapWithLogging("balance", commands.BalanceHandler(b)))
	h.Command("/give", handlers.WrapWithLogging("give", commands.GiveHandler(b)))
	h.Command("/daily", handlers.WrapWithLogging("daily", commands.DailyHandler(b)))
	h.Command("/remindme", handlers.WrapWithLogging("remindme", commands.RemindMeHandler(b)))
	h.Command("/kick", handlers.WrapWithLogging("kick", commands.KickHandler(b)))
	h.Command("/ban", handlers.WrapWithLogging("ban", commands.BanHandler(b)))
	h.Command("/warn", handlers.WrapWithLogging("warn", commands.WarnHandler(b)))
	h.Command("/infractions", handlers.WrapWithLogging("infractions", commands.InfractionsHandler(b)))
	h.Command("/setwelcome", handlers.WrapWithLogging("setwelcome", commands.SetWelcomeHandler(b)))
	h.Command("/createreactionrole", handlers.WrapWithLogging("createreactionrole", commands.CreateReactionRoleHandler(b)))
	h.Command("/help", handlers.WrapWithLogging("help", commands.HelpHandler(b)))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	router := dispatch.NewRouter()
	commands.RegisterPrefix(b, router)

	d := dispatch.New(
		dispatch.Config{
			Prefix: cfg.Bot.Prefix,
			AutoReact: dispatch.AutoReactConfig{
				Channels: cfg.AutoReact.Channels,
				Emojis:   cfg.AutoReact.Emojis,
				Keywords: cfg.AutoReact.Keywords,
				Cooldown: time.Duration(cfg.AutoReact.CooldownSeconds) * time.Second,
			},
			AutoReply: dispatch.AutoReplyConfig{
				Channels:      cfg.AutoReply.Channels,
				Keywords:      cfg.AutoReply.Keywords,
				Cooldown:      time.Duration(cfg.AutoReply.CooldownSeconds) * time.Second,
				ChancePercent: cfg.AutoReply.ChancePercent,
				Replies:       cfg.AutoReply.Replies,
			},
		},
		b.UserRepository,
		b.GuildConfigRepository,
		b.ReactionRoleRepository,
		b.Registry,
		b.Rest,
		router,
	)

	runCtx, stopRun := context.WithCancel(context.Background())
	defer stopRun()

	reminders := scheduler.NewReminders(b.ReminderRepository, b.Rest, nil)
	var schedulerOnce sync.Once

	b.Client.AddEventListeners(
		bot.NewListenerFunc(d.OnMessageCreate),
		bot.NewListenerFunc(d.OnReactionAdd),
		bot.NewListenerFunc(d.OnReactionRemove),
		bot.NewListenerFunc(d.OnMemberJoin),
		bot.NewListenerFunc(func(_ *events.Ready) {
			schedulerOnce.Do(func() {
				go reminders.Run(runCtx)
			})
		}),
	)

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}

	heart := heartbeat.NewServer(cfg.Heartbeat.Port)
	var g errgroup.Group
	g.Go(heart.Listen)

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-s:
	case <-stop:
	}

	slog.Info("Shutting down bot...")
	stopRun()
	if err := heart.Shutdown(5 * time.Second); err != nil {
		slog.Error("Heartbeat shutdown failed",
			slog.String("type", "sys"),
			slog.Any("error", err))
	}
	if err := g.Wait(); err != nil {
		slog.Error("Heartbeat server error",
			slog.String("type", "sys"),
			slog.Any("error", err))
	}

	if restart {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
		db.Close()
		os.Exit(restartExitCode)
	}
}
