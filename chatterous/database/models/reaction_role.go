package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ReactionRole binds an emoji on a specific message to a role. The emoji is
// stored as its canonical textual form (the unicode character, or "name:id"
// for custom emojis) and matched exactly, with no normalization beyond that.
//
// The (guild_id, message_id, emoji) triple is unique so a second binding for
// the same emoji is rejected at insert instead of resolving unpredictably.
type ReactionRole struct {
	bun.BaseModel `bun:"table:reaction_roles,alias:rr"`

	ID        int64     `bun:"id,pk,autoincrement"`
	GuildID   string    `bun:"guild_id,notnull,unique:rr_binding"`
	ChannelID string    `bun:"channel_id,notnull"`
	MessageID string    `bun:"message_id,notnull,unique:rr_binding"`
	Emoji     string    `bun:"emoji,notnull,unique:rr_binding"`
	RoleID    string    `bun:"role_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
