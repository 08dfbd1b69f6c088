package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64  `bun:"id,pk,autoincrement"`
	DiscordID string `bun:"discord_id,notnull,unique"`

	// Economy
	Coins     int64     `bun:"coins,notnull,default:0"`
	LastDaily time.Time `bun:"last_daily,nullzero"`

	// Leveling. Level is derived from XP (floor of its square root) and is
	// recomputed inside the same transaction as every XP write.
	XP    int64 `bun:"xp,notnull,default:0"`
	Level int64 `bun:"level,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
