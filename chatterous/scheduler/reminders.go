// Package scheduler runs the background reminder delivery loop. It shares
// nothing with the event dispatcher except the store.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chatterous/chatterous/chatterous/database/repositories"
	"github.com/chatterous/chatterous/internal/common/clock"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

const pollInterval = 10 * time.Second

// Messenger is the single outbound capability the scheduler needs.
type Messenger interface {
	SendMessage(ctx context.Context, channelID snowflake.ID, message discord.MessageCreate) (*discord.Message, error)
}

type Reminders struct {
	reminders repositories.ReminderRepository
	messenger Messenger
	clock     clock.Clock
	interval  time.Duration
}

func NewReminders(reminders repositories.ReminderRepository, messenger Messenger, clk clock.Clock) *Reminders {
	if clk == nil {
		clk = &clock.DefaultClock{}
	}
	return &Reminders{
		reminders: reminders,
		messenger: messenger,
		clock:     clk,
		interval:  pollInterval,
	}
}

// Run polls for due reminders until the context is cancelled. A failed scan
// aborts only that cycle; the loop always continues on the next tick.
func (r *Reminders) Run(ctx context.Context) {
	slog.Info("Reminder scheduler started",
		slog.String("type", "sch"),
		slog.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Reminder scheduler stopped", slog.String("type", "sch"))
			return
		case <-ticker.C:
			if err := r.RunCycle(ctx); err != nil {
				slog.Error("Reminder cycle failed",
					slog.String("type", "sch"),
					slog.Any("error", err))
			}
		}
	}
}

// RunCycle delivers every due reminder once. The row is deleted after the
// delivery attempt whether or not the send succeeded: delivery is best-effort
// at-most-once, a deliberate choice carried over rather than a bug.
func (r *Reminders) RunCycle(ctx context.Context) error {
	due, err := r.reminders.Due(ctx, r.clock.Now())
	if err != nil {
		return fmt.Errorf("due reminder scan failed: %w", err)
	}

	for _, reminder := range due {
		channelID, err := snowflake.Parse(reminder.ChannelID)
		if err != nil {
			slog.Error("Reminder has unresolvable channel",
				slog.String("type", "sch"),
				slog.Int64("reminder_id", reminder.ID),
				slog.String("channel_id", reminder.ChannelID))
		} else {
			content := fmt.Sprintf("<@%s> ⏰ Reminder: %s", reminder.UserID, reminder.Content)
			if _, err := r.messenger.SendMessage(ctx, channelID, discord.MessageCreate{Content: content}); err != nil {
				slog.Error("Reminder delivery failed",
					slog.String("type", "sch"),
					slog.Int64("reminder_id", reminder.ID),
					slog.Any("error", err))
			}
		}

		if err := r.reminders.Delete(ctx, reminder.ID); err != nil {
			slog.Error("Reminder cleanup failed",
				slog.String("type", "sch"),
				slog.Int64("reminder_id", reminder.ID),
				slog.Any("error", err))
		}
	}
	return nil
}
