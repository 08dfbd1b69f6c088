package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/chatterous/chatterous/chatterous/database/models"
	"github.com/uptrace/bun"
)

type InfractionRepository interface {
	Log(ctx context.Context, infraction *models.Infraction) error
	ListByUser(ctx context.Context, guildID, userID string) ([]*models.Infraction, error)
}

type infractionRepository struct {
	db *bun.DB
}

func NewInfractionRepository(db *bun.DB) InfractionRepository {
	return &infractionRepository{db: db}
}

func (r *infractionRepository) Log(ctx context.Context, infraction *models.Infraction) error {
	if infraction.CreatedAt.IsZero() {
		infraction.CreatedAt = time.Now()
	}
	if _, err := r.db.NewInsert().Model(infraction).Exec(ctx); err != nil {
		return fmt.Errorf("failed to log %s infraction: %w", infraction.Action, err)
	}
	return nil
}

func (r *infractionRepository) ListByUser(ctx context.Context, guildID, userID string) ([]*models.Infraction, error) {
	var infractions []*models.Infraction
	err := r.db.NewSelect().
		Model(&infractions).
		Where("guild_id = ?", guildID).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list infractions: %w", err)
	}
	return infractions, nil
}
