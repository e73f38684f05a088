package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
)

const walletColumns = `user_id, coins, locked_coins, version, last_bonus_at, created_at, updated_at`

func scanWallet(row *sql.Row, userID string) (*models.Wallet, error) {
	var w models.Wallet
	var lastBonus sql.NullTime
	err := row.Scan(&w.UserId, &w.Coins, &w.LockedCoins, &w.Version, &lastBonus, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return &models.Wallet{UserId: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet: %w", err)
	}
	w.LastBonusAt = timePtr(lastBonus)
	return &w, nil
}

// GetWallet returns the user's wallet, empty at version 0 if never written.
func (s *Store) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	return scanWallet(s.db.QueryRowContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID), userID)
}

// lockWallet creates the wallet row if needed and locks it until tx ends.
func lockWallet(ctx context.Context, tx *sql.Tx, userID string) (*models.Wallet, error) {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO wallets (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return scanWallet(tx.QueryRowContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 FOR UPDATE`, userID), userID)
}

// applyAdjustment applies adj to the locked wallet and appends its entry.
func applyAdjustment(ctx context.Context, tx *sql.Tx, current *models.Wallet, adj storage.Adjustment, stamp func(*models.Wallet)) (models.Wallet, error) {
	next, err := adj.Apply(*current)
	if err != nil {
		return next, err
	}
	if stamp != nil {
		stamp(&next)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets
		 SET coins = $1, locked_coins = $2, version = $3, last_bonus_at = $4, updated_at = $5
		 WHERE user_id = $6`,
		next.Coins, next.LockedCoins, next.Version, nullTime(next.LastBonusAt), next.UpdatedAt, next.UserId,
	)
	if err != nil {
		return next, fmt.Errorf("failed to update wallet: %w", err)
	}

	e := adj.Entry()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (entry_id, user_id, type, bucket, amount, reason, code, withdrawal_id, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.EntryID, e.UserID, string(e.Type), string(e.Bucket), e.Amount, string(e.Reason), e.Code, e.WithdrawalID, e.Note, e.CreatedAt,
	)
	if err != nil {
		return next, fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return next, nil
}

// Adjust applies a balance change and its ledger entry in one transaction.
func (s *Store) Adjust(ctx context.Context, adj storage.Adjustment) (*models.Wallet, error) {
	if err := adj.Validate(); err != nil {
		return nil, err
	}

	var result models.Wallet
	err := s.withTx(ctx, "adjust", func(tx *sql.Tx) error {
		current, err := lockWallet(ctx, tx, adj.UserID)
		if err != nil {
			return err
		}
		result, err = applyAdjustment(ctx, tx, current, adj, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListLedgerEntries returns the user's entries, newest first.
func (s *Store) ListLedgerEntries(ctx context.Context, userID string, limit int32) ([]models.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry_id, user_id, type, bucket, amount, reason, code, withdrawal_id, note, created_at
		 FROM ledger_entries WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.EntryID, &e.UserID, &e.Type, &e.Bucket, &e.Amount, &e.Reason, &e.Code, &e.WithdrawalID, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
