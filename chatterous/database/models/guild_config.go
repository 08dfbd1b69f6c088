package models

import (
	"time"

	"github.com/uptrace/bun"
)

// GuildConfig holds per-guild settings, one row per guild with upsert
// semantics. WelcomeMessage is a template supporting {user} and {guild}.
type GuildConfig struct {
	bun.BaseModel `bun:"table:guild_configs,alias:gc"`

	GuildID        string    `bun:"guild_id,pk"`
	WelcomeChannel string    `bun:"welcome_channel"`
	WelcomeMessage string    `bun:"welcome_message"`
	ModlogChannel  string    `bun:"modlog_channel"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}
