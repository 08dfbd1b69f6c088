package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/chatterous/chatterous/chatterous/database/models"
	"github.com/uptrace/bun"
)

type ReminderRepository interface {
	Schedule(ctx context.Context, reminder *models.Reminder) error
	Due(ctx context.Context, now time.Time) ([]*models.Reminder, error)
	Delete(ctx context.Context, id int64) error
}

type reminderRepository struct {
	db *bun.DB
}

func NewReminderRepository(db *bun.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Schedule(ctx context.Context, reminder *models.Reminder) error {
	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = time.Now()
	}
	if !reminder.RemindAt.After(reminder.CreatedAt) {
		return fmt.Errorf("remind_at must be in the future")
	}
	if _, err := r.db.NewInsert().Model(reminder).Exec(ctx); err != nil {
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}
	return nil
}

func (r *reminderRepository) Due(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	err := r.db.NewSelect().
		Model(&reminders).
		Where("remind_at <= ?", now).
		Order("remind_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan due reminders: %w", err)
	}
	return reminders, nil
}

func (r *reminderRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*models.Reminder)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete reminder %d: %w", id, err)
	}
	return nil
}
