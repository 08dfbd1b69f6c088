package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chatterous/chatterous/chatterous/database/models"
	"github.com/uptrace/bun"
)

type GuildConfigRepository interface {
	Upsert(ctx context.Context, config *models.GuildConfig) error
	Get(ctx context.Context, guildID string) (*models.GuildConfig, error)
}

type guildConfigRepository struct {
	db *bun.DB
}

func NewGuildConfigRepository(db *bun.DB) GuildConfigRepository {
	return &guildConfigRepository{db: db}
}

func (r *guildConfigRepository) Upsert(ctx context.Context, config *models.GuildConfig) error {
	config.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().
		Model(config).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("welcome_channel = EXCLUDED.welcome_channel").
		Set("welcome_message = EXCLUDED.welcome_message").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert guild config for %s: %w", config.GuildID, err)
	}
	return nil
}

func (r *guildConfigRepository) Get(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	config := new(models.GuildConfig)
	err := r.db.NewSelect().
		Model(config).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get guild config for %s: %w", guildID, err)
	}
	return config, nil
}
