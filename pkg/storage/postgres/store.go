// Package postgres implements Storage on PostgreSQL. Units lock the rows
// they touch with SELECT ... FOR UPDATE inside one database transaction.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/storage"
	"github.com/lib/pq"
)

const (
	defaultMaxAttempts = 5
	defaultBackoff     = 10 * time.Millisecond
)

// Store implements the Storage interface on a *sql.DB.
type Store struct {
	db *sql.DB

	// MaxAttempts bounds retries of units aborted by serialization
	// failures or deadlocks.
	MaxAttempts int
	Backoff     time.Duration
}

// New creates a Store over an open database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ storage.Storage = (*Store)(nil)

// withTx runs fn in a transaction, retrying when Postgres aborts it for
// a serialization failure or deadlock. Other errors are returned as is.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	backoff := s.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	for attempt := 1; ; attempt++ {
		err := s.runTx(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		slog.Log(ctx, slog.LevelDebug, "transaction aborted", "op", op, "attempt", attempt, "error", err)
		if attempt >= attempts {
			return fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff << (attempt - 1)):
		}
	}
}

func (s *Store) runTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isRetryable reports serialization_failure and deadlock_detected.
func isRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
