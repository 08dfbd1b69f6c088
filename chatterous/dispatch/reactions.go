package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chatterous/chatterous/chatterous/database/repositories"
	"github.com/disgoorg/snowflake/v2"
)

// HandleReactionAdd grants the bound role for the reaction, if a binding
// exists. Resolution failures are swallowed: raw reaction events carry no
// reply context that is guaranteed safe to use.
func (d *Dispatcher) HandleReactionAdd(ctx context.Context, r Reaction) {
	roleID, ok := d.resolveBinding(ctx, r)
	if !ok {
		return
	}
	if err := d.sender.AddRole(ctx, r.GuildID, r.UserID, roleID); err != nil {
		slog.Debug("Reaction role grant failed",
			slog.String("type", "evt"),
			slog.String("role_id", roleID.String()),
			slog.Any("error", err))
	}
}

// HandleReactionRemove reverses the grant.
func (d *Dispatcher) HandleReactionRemove(ctx context.Context, r Reaction) {
	roleID, ok := d.resolveBinding(ctx, r)
	if !ok {
		return
	}
	if err := d.sender.RemoveRole(ctx, r.GuildID, r.UserID, roleID); err != nil {
		slog.Debug("Reaction role removal failed",
			slog.String("type", "evt"),
			slog.String("role_id", roleID.String()),
			slog.Any("error", err))
	}
}

// resolveBinding looks up the (guild, message, emoji) triple, consulting a
// small LRU in front of the store. Only positive hits are cached, so a
// binding created after a miss is picked up on its next use.
func (d *Dispatcher) resolveBinding(ctx context.Context, r Reaction) (snowflake.ID, bool) {
	key := fmt.Sprintf("%s|%s|%s", r.GuildID, r.MessageID, r.Emoji)
	if cached, ok := d.bindingCache.Get(key); ok {
		return cached.(snowflake.ID), true
	}

	binding, err := d.reactionRoles.Find(ctx, r.GuildID.String(), r.MessageID.String(), r.Emoji)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			slog.Error("Reaction role lookup failed",
				slog.String("type", "evt"),
				slog.String("guild_id", r.GuildID.String()),
				slog.Any("error", err))
		}
		return 0, false
	}

	roleID, err := snowflake.Parse(binding.RoleID)
	if err != nil {
		return 0, false
	}

	d.bindingCache.Add(key, roleID)
	return roleID, true
}
