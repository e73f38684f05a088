package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

const connectAttempts = 5

// Open connects to Postgres, waiting for the server to come up, and applies
// the schema.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < connectAttempts; i++ {
		db, err = sql.Open("postgres", dsn)
		if err == nil {
			if err = db.PingContext(ctx); err == nil {
				break
			}
			db.Close()
		}
		logger.Info("waiting for database", "attempt", i+1, "of", connectAttempts)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("could not reach database after %d attempts: %w", connectAttempts, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	logger.Info("database connection established")

	if err := RunMigrations(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// RunMigrations creates tables and indexes idempotently.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS wallets (
			user_id       TEXT        PRIMARY KEY,
			coins         BIGINT      NOT NULL DEFAULT 0 CHECK (coins >= 0),
			locked_coins  BIGINT      NOT NULL DEFAULT 0 CHECK (locked_coins >= 0),
			version       BIGINT      NOT NULL DEFAULT 0,
			last_bonus_at TIMESTAMPTZ,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			entry_id      UUID        PRIMARY KEY,
			user_id       TEXT        NOT NULL,
			type          VARCHAR(10) NOT NULL,
			bucket        VARCHAR(10) NOT NULL,
			amount        BIGINT      NOT NULL CHECK (amount > 0),
			reason        VARCHAR(32) NOT NULL,
			code          TEXT        NOT NULL DEFAULT '',
			withdrawal_id TEXT        NOT NULL DEFAULT '',
			note          TEXT        NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_entries_user_created
			ON ledger_entries(user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS redeem_codes (
			code       TEXT        PRIMARY KEY,
			amount_min BIGINT      NOT NULL,
			amount_max BIGINT      NOT NULL,
			uses_left  BIGINT      NOT NULL CHECK (uses_left >= 0),
			expires_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS withdrawals (
			id          TEXT        PRIMARY KEY,
			user_id     TEXT        NOT NULL,
			amount      BIGINT      NOT NULL CHECK (amount > 0),
			destination TEXT        NOT NULL,
			name        TEXT        NOT NULL DEFAULT '',
			status      VARCHAR(10) NOT NULL,
			notes       TEXT        NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL,
			resolved_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawals_user_created
			ON withdrawals(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawals_status_created
			ON withdrawals(status, created_at)`,
		`CREATE TABLE IF NOT EXISTS inbox_messages (
			message_id UUID        PRIMARY KEY,
			user_id    TEXT        NOT NULL,
			title      TEXT        NOT NULL,
			body       TEXT        NOT NULL,
			read       BOOLEAN     NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_inbox_messages_user_created
			ON inbox_messages(user_id, created_at DESC)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	logger.Info("migrations completed")
	return nil
}
