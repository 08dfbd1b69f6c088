package chatterous

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/chatterous/chatterous/chatterous/completion"
	"github.com/chatterous/chatterous/chatterous/database"
	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
)

// ErrMissingToken is fatal at startup; the bot never connects without it.
var ErrMissingToken = errors.New("bot token is not configured")

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Secrets may come from the environment instead of the file.
	if token := os.Getenv("CHATTEROUS_BOT_TOKEN"); token != "" {
		cfg.Bot.Token = token
	}
	if key := os.Getenv("COMPLETION_API_KEY"); key != "" {
		cfg.Completion.APIKey = key
	}

	cfg.applyDefaults()
	if cfg.Bot.Token == "" {
		return nil, ErrMissingToken
	}
	return &cfg, nil
}

type Config struct {
	Log        LogConfig         `toml:"log"`
	Bot        BotConfig         `toml:"bot"`
	DB         database.Config   `toml:"db"`
	Completion completion.Config `toml:"completion"`
	Heartbeat  HeartbeatConfig   `toml:"heartbeat"`
	AutoReact  AutoReactConfig   `toml:"auto_react"`
	AutoReply  AutoReplyConfig   `toml:"auto_reply"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type BotConfig struct {
	Token     string         `toml:"token"`
	Prefix    string         `toml:"prefix"`
	OwnerID   snowflake.ID   `toml:"owner_id"`
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
}

type HeartbeatConfig struct {
	Port int `toml:"port"`
}

type AutoReactConfig struct {
	Channels        []snowflake.ID `toml:"channels"`
	Emojis          []string       `toml:"emojis"`
	Keywords        []string       `toml:"keywords"`
	CooldownSeconds int            `toml:"cooldown_seconds"`
}

type AutoReplyConfig struct {
	Channels        []snowflake.ID `toml:"channels"`
	Keywords        []string       `toml:"keywords"`
	CooldownSeconds int            `toml:"cooldown_seconds"`
	ChancePercent   int            `toml:"chance_percent"`
	Replies         []string       `toml:"replies"`
}

func (c *Config) applyDefaults() {
	if c.Bot.Prefix == "" {
		c.Bot.Prefix = "!"
	}
	if c.DB.Path == "" {
		c.DB.Path = "chatterous.db"
	}
	if c.Heartbeat.Port == 0 {
		c.Heartbeat.Port = 5000
	}
	if len(c.AutoReact.Emojis) == 0 {
		c.AutoReact.Emojis = []string{"👍", "🤖", "🔥"}
	}
	if c.AutoReact.CooldownSeconds == 0 {
		c.AutoReact.CooldownSeconds = 10
	}
	if c.AutoReply.CooldownSeconds == 0 {
		c.AutoReply.CooldownSeconds = 30
	}
	if c.AutoReply.ChancePercent == 0 {
		c.AutoReply.ChancePercent = 15
	}
	if len(c.AutoReply.Replies) == 0 {
		c.AutoReply.Replies = []string{
			"Lol true! 😂",
			"That's epic! 🔥",
			"I feel that. 🤝",
			"Wow, tell me more! 👀",
			"Haha, I can't stop laughing 🤣",
			"I'm just a bot, but that made my circuits happy. 🤖💖",
			"Emoji party! 🎉",
		}
	}
}
