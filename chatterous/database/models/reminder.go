package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Reminder rows live until the scheduler attempts delivery; the attempt deletes
// the row whether or not the send succeeded (best-effort, at-most-once).
type Reminder struct {
	bun.BaseModel `bun:"table:reminders,alias:rem"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    string    `bun:"user_id,notnull"`
	GuildID   string    `bun:"guild_id,nullzero"`
	ChannelID string    `bun:"channel_id,notnull"`
	RemindAt  time.Time `bun:"remind_at,notnull"`
	Content   string    `bun:"content,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
