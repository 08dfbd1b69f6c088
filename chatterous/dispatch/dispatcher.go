// Package dispatch routes inbound gateway events through the bot's stateful
// subsystems: XP awards, trivia sessions, auto-react/auto-reply cooldowns,
// reaction roles, welcome messages and prefix commands.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/chatterous/chatterous/chatterous/database/repositories"
	"github.com/chatterous/chatterous/chatterous/session"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sahilm/fuzzy"
	"golang.org/x/time/rate"
)

const bindingCacheSize = 256

// reactionDelay paces emoji adds so a multi-emoji auto-react does not trip
// the platform rate limiter.
const reactionDelay = 250 * time.Millisecond

type AutoReactConfig struct {
	Channels []snowflake.ID
	Emojis   []string
	Keywords []string
	Cooldown time.Duration
}

type AutoReplyConfig struct {
	Channels      []snowflake.ID
	Keywords      []string
	Cooldown      time.Duration
	ChancePercent int
	Replies       []string
}

type Config struct {
	Prefix    string
	AutoReact AutoReactConfig
	AutoReply AutoReplyConfig
}

type Dispatcher struct {
	cfg           Config
	users         repositories.UserRepository
	guildConfigs  repositories.GuildConfigRepository
	reactionRoles repositories.ReactionRoleRepository
	registry      *session.Registry
	sender        Sender
	commands      *Router

	bindingCache  *lru.Cache
	reactLimiter  *rate.Limiter
	reactChannels map[snowflake.ID]struct{}
	replyChannels map[snowflake.ID]struct{}

	// Randomness hooks, replaced in tests.
	xpDelta    func() int64
	chanceRoll func() int
}

func New(
	cfg Config,
	users repositories.UserRepository,
	guildConfigs repositories.GuildConfigRepository,
	reactionRoles repositories.ReactionRoleRepository,
	registry *session.Registry,
	sender Sender,
	commands *Router,
) *Dispatcher {
	cache, _ := lru.New(bindingCacheSize)

	reactChannels := make(map[snowflake.ID]struct{}, len(cfg.AutoReact.Channels))
	for _, id := range cfg.AutoReact.Channels {
		reactChannels[id] = struct{}{}
	}
	replyChannels := make(map[snowflake.ID]struct{}, len(cfg.AutoReply.Channels))
	for _, id := range cfg.AutoReply.Channels {
		replyChannels[id] = struct{}{}
	}

	return &Dispatcher{
		cfg:           cfg,
		users:         users,
		guildConfigs:  guildConfigs,
		reactionRoles: reactionRoles,
		registry:      registry,
		sender:        sender,
		commands:      commands,
		bindingCache:  cache,
		reactLimiter:  rate.NewLimiter(rate.Every(reactionDelay), 1),
		reactChannels: reactChannels,
		replyChannels: replyChannels,
		xpDelta:       func() int64 { return rand.Int63n(3) + 1 },
		chanceRoll:    func() int { return rand.Intn(100) + 1 },
	}
}

// HandleMessage runs the fixed pipeline over one message: XP award, trivia
// answer check, auto-react, auto-reply, prefix command dispatch. A trivia
// match suppresses the two auto actions but never the command dispatch, and
// every step is its own error scope; a failure in one never blocks the rest.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg Message) {
	if msg.AuthorIsBot {
		return
	}

	d.awardXP(ctx, msg)

	if !d.checkTrivia(ctx, msg) {
		d.autoReact(ctx, msg)
		d.autoReply(ctx, msg)
	}

	d.dispatchCommand(ctx, msg)
}

func (d *Dispatcher) awardXP(ctx context.Context, msg Message) {
	newLevel, leveledUp, err := d.users.AddXP(ctx, msg.AuthorID.String(), d.xpDelta())
	if err != nil {
		slog.Error("XP award failed",
			slog.String("type", "evt"),
			slog.String("user_id", msg.AuthorID.String()),
			slog.Any("error", err))
		return
	}
	if !leveledUp {
		return
	}

	content := fmt.Sprintf("🎉 <@%s> leveled up to **%d**!", msg.AuthorID, newLevel)
	if _, err := d.sender.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{Content: content}); err != nil {
		slog.Error("Level-up notification failed",
			slog.String("type", "evt"),
			slog.String("channel_id", msg.ChannelID.String()),
			slog.Any("error", err))
	}
}

func (d *Dispatcher) checkTrivia(ctx context.Context, msg Message) bool {
	total, matched := d.registry.CheckAnswer(msg.ChannelID, msg.AuthorID, msg.Content)
	if !matched {
		return false
	}

	content := fmt.Sprintf("✅ <@%s> — Correct! +1 point. Total: %d", msg.AuthorID, total)
	if _, err := d.sender.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{Content: content}); err != nil {
		slog.Error("Trivia announcement failed",
			slog.String("type", "evt"),
			slog.String("channel_id", msg.ChannelID.String()),
			slog.Any("error", err))
	}
	return true
}

func (d *Dispatcher) autoReact(ctx context.Context, msg Message) {
	if _, ok := d.reactChannels[msg.ChannelID]; !ok {
		return
	}
	if !matchesKeywords(msg.Content, d.cfg.AutoReact.Keywords) {
		return
	}
	if !d.registry.TryCooldown(session.CooldownReact, msg.AuthorID, msg.ChannelID, d.cfg.AutoReact.Cooldown) {
		return
	}

	for _, emoji := range d.cfg.AutoReact.Emojis {
		if err := d.reactLimiter.Wait(ctx); err != nil {
			return
		}
		err := d.sender.AddReaction(ctx, msg.ChannelID, msg.ID, emoji)
		if err == nil {
			continue
		}
		if isPermissionError(err) {
			slog.Warn("Missing permission to add reactions",
				slog.String("type", "evt"),
				slog.String("channel_id", msg.ChannelID.String()))
			return
		}
		slog.Error("Failed to add reaction",
			slog.String("type", "evt"),
			slog.String("emoji", emoji),
			slog.Any("error", err))
	}
}

func (d *Dispatcher) autoReply(ctx context.Context, msg Message) {
	if _, ok := d.replyChannels[msg.ChannelID]; !ok {
		return
	}
	if len(d.cfg.AutoReply.Keywords) > 0 && !matchesKeywords(msg.Content, d.cfg.AutoReply.Keywords) {
		return
	}
	if len(d.cfg.AutoReply.Replies) == 0 {
		return
	}
	if d.chanceRoll() > d.cfg.AutoReply.ChancePercent {
		return
	}
	if !d.registry.TryCooldown(session.CooldownReply, msg.AuthorID, msg.ChannelID, d.cfg.AutoReply.Cooldown) {
		return
	}

	reply := d.cfg.AutoReply.Replies[rand.Intn(len(d.cfg.AutoReply.Replies))]
	content := fmt.Sprintf("<@%s> %s", msg.AuthorID, reply)
	if _, err := d.sender.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{Content: content}); err != nil {
		slog.Error("Auto-reply failed",
			slog.String("type", "evt"),
			slog.String("channel_id", msg.ChannelID.String()),
			slog.Any("error", err))
	}
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, msg Message) {
	if d.commands == nil || !strings.HasPrefix(msg.Content, d.cfg.Prefix) {
		return
	}

	fields := strings.Fields(msg.Content[len(d.cfg.Prefix):])
	if len(fields) == 0 {
		return
	}
	name := strings.ToLower(fields[0])

	handler, ok := d.commands.Lookup(name)
	if !ok {
		d.suggestCommand(ctx, msg, name)
		return
	}

	if err := handler(ctx, msg, fields[1:]); err != nil {
		slog.Error("Prefix command failed",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", msg.AuthorID.String()),
			slog.Any("error", err))
	}
}

func (d *Dispatcher) suggestCommand(ctx context.Context, msg Message, name string) {
	matches := fuzzy.Find(name, d.commands.Names())
	if len(matches) == 0 {
		return
	}

	content := fmt.Sprintf("Unknown command `%s%s` — did you mean `%s%s`?",
		d.cfg.Prefix, name, d.cfg.Prefix, matches[0].Str)
	if _, err := d.sender.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{Content: content}); err != nil {
		slog.Debug("Command suggestion failed",
			slog.String("type", "cmd"),
			slog.Any("error", err))
	}
}

// HandleMemberJoin sends the guild's welcome message, if one is configured.
func (d *Dispatcher) HandleMemberJoin(ctx context.Context, ev MemberJoin) {
	cfg, err := d.guildConfigs.Get(ctx, ev.GuildID.String())
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			slog.Error("Welcome lookup failed",
				slog.String("type", "evt"),
				slog.String("guild_id", ev.GuildID.String()),
				slog.Any("error", err))
		}
		return
	}
	if cfg.WelcomeChannel == "" {
		return
	}

	channelID, err := snowflake.Parse(cfg.WelcomeChannel)
	if err != nil {
		return
	}

	content := strings.NewReplacer(
		"{user}", fmt.Sprintf("<@%s>", ev.UserID),
		"{guild}", ev.GuildName,
	).Replace(cfg.WelcomeMessage)

	if _, err := d.sender.SendMessage(ctx, channelID, discord.MessageCreate{Content: content}); err != nil {
		slog.Error("Welcome message failed",
			slog.String("type", "evt"),
			slog.String("guild_id", ev.GuildID.String()),
			slog.Any("error", err))
	}
}

func matchesKeywords(content string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	lowered := strings.ToLower(content)
	for _, kw := range keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func isPermissionError(err error) bool {
	var restErr rest.Error
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
		return true
	}
	// Missing Access / Missing Permissions JSON error codes.
	return restErr.Code == 50001 || restErr.Code == 50013
}
