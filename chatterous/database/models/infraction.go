package models

import (
	"time"

	"github.com/uptrace/bun"
)

type InfractionAction string

const (
	InfractionKick InfractionAction = "kick"
	InfractionBan  InfractionAction = "ban"
	InfractionWarn InfractionAction = "warn"
)

// Infraction rows are append-only; they are never updated or deleted.
type Infraction struct {
	bun.BaseModel `bun:"table:infractions,alias:inf"`

	ID        int64            `bun:"id,pk,autoincrement"`
	GuildID   string           `bun:"guild_id,notnull"`
	UserID    string           `bun:"user_id,notnull"`
	ModID     string           `bun:"mod_id,notnull"`
	Action    InfractionAction `bun:"action,notnull"`
	Reason    string           `bun:"reason"`
	CreatedAt time.Time        `bun:"created_at,notnull,default:current_timestamp"`
}
