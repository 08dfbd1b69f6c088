// Package outbound is the single seam between the bot's logic and the
// platform REST API. The dispatcher, scheduler and command handlers each
// consume the narrow slice of it they need, which keeps them testable with
// fakes.
package outbound

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

type Rest struct {
	rest rest.Rest
}

func NewRest(r rest.Rest) *Rest {
	return &Rest{rest: r}
}

func (r *Rest) SendMessage(ctx context.Context, channelID snowflake.ID, message discord.MessageCreate) (*discord.Message, error) {
	return r.rest.CreateMessage(channelID, message, rest.WithCtx(ctx))
}

func (r *Rest) UpdateMessage(ctx context.Context, channelID, messageID snowflake.ID, update discord.MessageUpdate) (*discord.Message, error) {
	return r.rest.UpdateMessage(channelID, messageID, update, rest.WithCtx(ctx))
}

func (r *Rest) GetMessage(ctx context.Context, channelID, messageID snowflake.ID) (*discord.Message, error) {
	return r.rest.GetMessage(channelID, messageID, rest.WithCtx(ctx))
}

func (r *Rest) GetInteractionResponse(ctx context.Context, applicationID snowflake.ID, token string) (*discord.Message, error) {
	return r.rest.GetInteractionResponse(applicationID, token, rest.WithCtx(ctx))
}

func (r *Rest) AddReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error {
	return r.rest.AddReaction(channelID, messageID, emoji, rest.WithCtx(ctx))
}

func (r *Rest) AddRole(ctx context.Context, guildID, userID, roleID snowflake.ID) error {
	return r.rest.AddMemberRole(guildID, userID, roleID, rest.WithCtx(ctx))
}

func (r *Rest) RemoveRole(ctx context.Context, guildID, userID, roleID snowflake.ID) error {
	return r.rest.RemoveMemberRole(guildID, userID, roleID, rest.WithCtx(ctx))
}

func (r *Rest) Kick(ctx context.Context, guildID, userID snowflake.ID, reason string) error {
	return r.rest.RemoveMember(guildID, userID, rest.WithCtx(ctx), rest.WithReason(reason))
}

func (r *Rest) Ban(ctx context.Context, guildID, userID snowflake.ID, reason string) error {
	return r.rest.AddBan(guildID, userID, 0, rest.WithCtx(ctx), rest.WithReason(reason))
}
