package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
	"github.com/google/uuid"
)

const withdrawalColumns = `id, user_id, amount, destination, name, status, notes, created_at, resolved_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWithdrawal(row rowScanner) (*models.Withdrawal, error) {
	var w models.Withdrawal
	var status string
	var resolved sql.NullTime
	if err := row.Scan(&w.Id, &w.UserId, &w.Amount, &w.Destination, &w.Name, &status, &w.Notes, &w.CreatedAt, &resolved); err != nil {
		return nil, err
	}
	w.Status = models.WithdrawalStatus(status)
	w.ResolvedAt = timePtr(resolved)
	return &w, nil
}

// CreateWithdrawal locks the requested coins and records a pending request.
func (s *Store) CreateWithdrawal(ctx context.Context, w *models.Withdrawal) (*models.Withdrawal, error) {
	if w.Id == "" {
		w.Id = uuid.New().String()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	w.Status = models.PENDING

	adj := storage.LockAdjustment(w)
	if err := adj.Validate(); err != nil {
		return nil, err
	}

	err := s.withTx(ctx, "create withdrawal", func(tx *sql.Tx) error {
		current, err := lockWallet(ctx, tx, w.UserId)
		if err != nil {
			return err
		}
		if _, err := applyAdjustment(ctx, tx, current, adj, nil); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO withdrawals (id, user_id, amount, destination, name, status, notes, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			w.Id, w.UserId, w.Amount, w.Destination, w.Name, string(w.Status), w.Notes, w.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert withdrawal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// GetWithdrawal returns a request by ID.
func (s *Store) GetWithdrawal(ctx context.Context, id string) (*models.Withdrawal, error) {
	w, err := scanWithdrawal(s.db.QueryRowContext(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrWithdrawalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal: %w", err)
	}
	return w, nil
}

// ListWithdrawalsByUserID returns the user's requests, newest first.
func (s *Store) ListWithdrawalsByUserID(ctx context.Context, userID string, limit int32) ([]models.Withdrawal, error) {
	return s.queryWithdrawals(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
}

// GetStaleWithdrawals returns pending requests older than maxAge.
func (s *Store) GetStaleWithdrawals(ctx context.Context, maxAge time.Duration) ([]models.Withdrawal, error) {
	return s.queryWithdrawals(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE status = $1 AND created_at < $2 ORDER BY created_at`,
		string(models.PENDING), time.Now().UTC().Add(-maxAge))
}

func (s *Store) queryWithdrawals(ctx context.Context, query string, args ...any) ([]models.Withdrawal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawals: %w", err)
	}
	defer rows.Close()

	var out []models.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

// ApproveWithdrawal marks a pending request paid and releases its lock.
func (s *Store) ApproveWithdrawal(ctx context.Context, res storage.Resolution) (*models.Withdrawal, error) {
	return s.resolve(ctx, "approve withdrawal", res, func(w *models.Withdrawal, wallet models.Wallet) (storage.Adjustment, models.Withdrawal, models.InboxMessage) {
		return storage.ApprovalAdjustment(w, res),
			storage.Resolve(w, models.PAID, res),
			storage.ApprovalMessage(w, res.ResolvedAt)
	})
}

// RejectWithdrawal marks a pending request rejected and refunds it.
func (s *Store) RejectWithdrawal(ctx context.Context, res storage.Resolution) (*models.Withdrawal, error) {
	return s.resolve(ctx, "reject withdrawal", res, func(w *models.Withdrawal, wallet models.Wallet) (storage.Adjustment, models.Withdrawal, models.InboxMessage) {
		return storage.RejectionAdjustment(w, wallet, res),
			storage.Resolve(w, models.REJECTED, res),
			storage.RejectionMessage(w, res.Note, res.ResolvedAt)
	})
}

type resolver func(w *models.Withdrawal, wallet models.Wallet) (storage.Adjustment, models.Withdrawal, models.InboxMessage)

// resolve locks the request row before the wallet row. Every unit that
// touches both takes them in this order.
func (s *Store) resolve(ctx context.Context, op string, res storage.Resolution, decide resolver) (*models.Withdrawal, error) {
	var result models.Withdrawal
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		w, err := scanWithdrawal(tx.QueryRowContext(ctx,
			`SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1 FOR UPDATE`, res.RequestID))
		if err == sql.ErrNoRows {
			return storage.ErrWithdrawalNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock withdrawal: %w", err)
		}
		if err := storage.CheckPending(w); err != nil {
			return err
		}

		current, err := lockWallet(ctx, tx, w.UserId)
		if err != nil {
			return err
		}
		adj, resolved, msg := decide(w, *current)
		if _, err := applyAdjustment(ctx, tx, current, adj, nil); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE withdrawals SET status = $1, notes = $2, resolved_at = $3 WHERE id = $4`,
			string(resolved.Status), resolved.Notes, nullTime(resolved.ResolvedAt), resolved.Id); err != nil {
			return fmt.Errorf("failed to update withdrawal: %w", err)
		}
		if err := insertMessage(ctx, tx, msg); err != nil {
			return err
		}

		result = resolved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
