package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/chatterous/chatterous/chatterous/database/models"
	"github.com/uptrace/bun"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// DailyCooldownError reports how long until the next daily claim is allowed.
type DailyCooldownError struct {
	Remaining time.Duration
}

func (e *DailyCooldownError) Error() string {
	return fmt.Sprintf("daily already claimed, next claim in %s", e.Remaining.Round(time.Second))
}

// LevelForXP derives the level from total XP. Levels only ever move up: the
// stored level is replaced only when this value exceeds it.
func LevelForXP(xp int64) int64 {
	if xp <= 0 {
		return 0
	}
	return int64(math.Sqrt(float64(xp)))
}

type UserRepository interface {
	EnsureUser(ctx context.Context, discordID string) error
	GetByDiscordID(ctx context.Context, discordID string) (*models.User, error)
	AddXP(ctx context.Context, discordID string, amount int64) (newLevel int64, leveledUp bool, err error)
	AddCoins(ctx context.Context, discordID string, delta int64) (int64, error)
	Transfer(ctx context.Context, fromID, toID string, amount int64) error
	ClaimDaily(ctx context.Context, discordID string, reward int64, now time.Time) error
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

func ensureUserTx(ctx context.Context, tx bun.IDB, discordID string) error {
	_, err := tx.NewInsert().
		Model(&models.User{DiscordID: discordID, UpdatedAt: time.Now()}).
		On("CONFLICT (discord_id) DO NOTHING").
		Exec(ctx)
	return err
}

func (r *userRepository) EnsureUser(ctx context.Context, discordID string) error {
	return ensureUserTx(ctx, r.db, discordID)
}

func (r *userRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("discord_id = ?", discordID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", discordID, err)
	}
	return user, nil
}

// AddXP increments the user's XP and recomputes the derived level inside the
// same transaction, so the level invariant holds the moment the write lands.
func (r *userRepository) AddXP(ctx context.Context, discordID string, amount int64) (int64, bool, error) {
	var newLevel int64
	var leveledUp bool

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := ensureUserTx(ctx, tx, discordID); err != nil {
			return err
		}

		if _, err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("xp = xp + ?", amount).
			Set("updated_at = ?", time.Now()).
			Where("discord_id = ?", discordID).
			Exec(ctx); err != nil {
			return err
		}

		user := new(models.User)
		if err := tx.NewSelect().
			Model(user).
			Column("xp", "level").
			Where("discord_id = ?", discordID).
			Scan(ctx); err != nil {
			return err
		}

		newLevel = LevelForXP(user.XP)
		if newLevel > user.Level {
			leveledUp = true
			_, err := tx.NewUpdate().
				Model((*models.User)(nil)).
				Set("level = ?", newLevel).
				Where("discord_id = ?", discordID).
				Exec(ctx)
			return err
		}
		newLevel = user.Level
		return nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to add xp for %s: %w", discordID, err)
	}
	return newLevel, leveledUp, nil
}

func (r *userRepository) AddCoins(ctx context.Context, discordID string, delta int64) (int64, error) {
	var balance int64
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := ensureUserTx(ctx, tx, discordID); err != nil {
			return err
		}
		if _, err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("coins = coins + ?", delta).
			Set("updated_at = ?", time.Now()).
			Where("discord_id = ?", discordID).
			Exec(ctx); err != nil {
			return err
		}
		return tx.NewSelect().
			Model((*models.User)(nil)).
			Column("coins").
			Where("discord_id = ?", discordID).
			Scan(ctx, &balance)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to change coins for %s: %w", discordID, err)
	}
	return balance, nil
}

// Transfer debits the sender and credits the recipient in one transaction.
// The debit carries its own balance check, so a concurrent spend cannot drive
// the sender negative.
func (r *userRepository) Transfer(ctx context.Context, fromID, toID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("transfer amount must be positive, got %d", amount)
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := ensureUserTx(ctx, tx, fromID); err != nil {
			return err
		}
		if err := ensureUserTx(ctx, tx, toID); err != nil {
			return err
		}

		res, err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("coins = coins - ?", amount).
			Set("updated_at = ?", time.Now()).
			Where("discord_id = ?", fromID).
			Where("coins >= ?", amount).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInsufficientFunds
		}

		_, err = tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("coins = coins + ?", amount).
			Set("updated_at = ?", time.Now()).
			Where("discord_id = ?", toID).
			Exec(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return ErrInsufficientFunds
		}
		return fmt.Errorf("failed to transfer %d coins: %w", amount, err)
	}
	return nil
}

func (r *userRepository) ClaimDaily(ctx context.Context, discordID string, reward int64, now time.Time) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := ensureUserTx(ctx, tx, discordID); err != nil {
			return err
		}

		user := new(models.User)
		if err := tx.NewSelect().
			Model(user).
			Column("last_daily").
			Where("discord_id = ?", discordID).
			Scan(ctx); err != nil {
			return err
		}

		if elapsed := now.Sub(user.LastDaily); elapsed < 24*time.Hour {
			return &DailyCooldownError{Remaining: 24*time.Hour - elapsed}
		}

		_, err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("coins = coins + ?", reward).
			Set("last_daily = ?", now).
			Set("updated_at = ?", now).
			Where("discord_id = ?", discordID).
			Exec(ctx)
		return err
	})
}
