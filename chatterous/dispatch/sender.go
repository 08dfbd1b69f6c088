package dispatch

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Sender is the slice of the platform API the dispatcher needs. It is
// satisfied by *outbound.Rest; tests substitute a fake.
type Sender interface {
	SendMessage(ctx context.Context, channelID snowflake.ID, message discord.MessageCreate) (*discord.Message, error)
	AddReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error
	AddRole(ctx context.Context, guildID, userID, roleID snowflake.ID) error
	RemoveRole(ctx context.Context, guildID, userID, roleID snowflake.ID) error
}

// Message is a gateway message-created event normalized away from the
// transport types, so the dispatch pipeline can be driven directly in tests.
type Message struct {
	ID          snowflake.ID
	ChannelID   snowflake.ID
	GuildID     *snowflake.ID
	AuthorID    snowflake.ID
	AuthorName  string
	AuthorIsBot bool
	Content     string
}

// Reaction is a raw reaction add/remove event. Emoji carries the canonical
// textual form produced by utils.EmojiKey.
type Reaction struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	MessageID snowflake.ID
	UserID    snowflake.ID
	Emoji     string
}

// MemberJoin is a member-joined event plus the guild name resolved from the
// cache, which the welcome template needs.
type MemberJoin struct {
	GuildID   snowflake.ID
	GuildName string
	UserID    snowflake.ID
	Username  string
}
