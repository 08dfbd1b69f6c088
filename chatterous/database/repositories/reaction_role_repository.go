package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chatterous/chatterous/chatterous/database/models"
	"github.com/uptrace/bun"
)

var ErrDuplicateBinding = errors.New("reaction role binding already exists")

type ReactionRoleRepository interface {
	Create(ctx context.Context, binding *models.ReactionRole) error
	Find(ctx context.Context, guildID, messageID, emoji string) (*models.ReactionRole, error)
}

type reactionRoleRepository struct {
	db *bun.DB
}

func NewReactionRoleRepository(db *bun.DB) ReactionRoleRepository {
	return &reactionRoleRepository{db: db}
}

func (r *reactionRoleRepository) Create(ctx context.Context, binding *models.ReactionRole) error {
	if binding.CreatedAt.IsZero() {
		binding.CreatedAt = time.Now()
	}
	if _, err := r.db.NewInsert().Model(binding).Exec(ctx); err != nil {
		// Both sqlite drivers behind the shim report constraint
		// violations only through the message text.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateBinding
		}
		return fmt.Errorf("failed to create reaction role binding: %w", err)
	}
	return nil
}

func (r *reactionRoleRepository) Find(ctx context.Context, guildID, messageID, emoji string) (*models.ReactionRole, error) {
	binding := new(models.ReactionRole)
	err := r.db.NewSelect().
		Model(binding).
		Where("guild_id = ?", guildID).
		Where("message_id = ?", messageID).
		Where("emoji = ?", emoji).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reaction role binding: %w", err)
	}
	return binding, nil
}
