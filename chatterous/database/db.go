package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chatterous/chatterous/chatterous/database/models"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type Config struct {
	// Path is the SQLite database file. ":memory:" opens a private
	// in-memory database, used by tests.
	Path string `toml:"path"`
}

type DB struct {
	sqldb *sql.DB
	bunDB *bun.DB
}

// New opens (creating if necessary) the store file. The pool is capped at a
// single connection: every read-modify-write increment in the repositories
// relies on that one writer to serialize conflicting updates.
func New(ctx context.Context, cfg Config) (*DB, error) {
	dsn := "file:" + cfg.Path + "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	if cfg.Path == ":memory:" {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	} else if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	sqldb.SetConnMaxIdleTime(0)

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("store unreachable: %w", err)
	}

	return &DB{
		sqldb: sqldb,
		bunDB: bun.NewDB(sqldb, sqlitedialect.New()),
	}, nil
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

// InitializeSchema creates all tables and indexes. Safe to call on every
// startup.
func (db *DB) InitializeSchema(ctx context.Context) error {
	start := time.Now()

	tables := []interface{}{
		(*models.User)(nil),
		(*models.Infraction)(nil),
		(*models.Reminder)(nil),
		(*models.ReactionRole)(nil),
		(*models.GuildConfig)(nil),
	}

	for _, model := range tables {
		if _, err := db.bunDB.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_infractions_guild_user ON infractions(guild_id, user_id);",
		"CREATE INDEX IF NOT EXISTS idx_reminders_remind_at ON reminders(remind_at);",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_reaction_roles_binding ON reaction_roles(guild_id, message_id, emoji);",
	}

	for _, idx := range indexes {
		if _, err := db.bunDB.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	slog.Info("Schema initialized",
		slog.String("type", "db"),
		slog.Duration("took", time.Since(start)))
	return nil
}

func (db *DB) Close() {
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}
