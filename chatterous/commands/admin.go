package commands

import (
	"context"

	"github.com/chatterous/chatterous/chatterous"
	"github.com/chatterous/chatterous/chatterous/dispatch"
	"github.com/disgoorg/disgo/discord"
)

// Shutdown and restart are prefix-only and owner-gated; they never appear in
// the slash command surface.

func ownerOnly(b *chatterous.Bot, h dispatch.HandlerFunc) dispatch.HandlerFunc {
	return func(ctx context.Context, msg dispatch.Message, args []string) error {
		if !b.IsOwner(msg.AuthorID) {
			return nil
		}
		return h(ctx, msg, args)
	}
}

func ShutdownPrefix(b *chatterous.Bot) dispatch.HandlerFunc {
	return ownerOnly(b, func(ctx context.Context, msg dispatch.Message, _ []string) error {
		_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
			Content: "Shutting down...",
		})
		b.Stop(false)
		return err
	})
}

func RestartPrefix(b *chatterous.Bot) dispatch.HandlerFunc {
	return ownerOnly(b, func(ctx context.Context, msg dispatch.Message, _ []string) error {
		_, err := b.Rest.SendMessage(ctx, msg.ChannelID, discord.MessageCreate{
			Content: "Restarting...",
		})
		b.Stop(true)
		return err
	})
}
