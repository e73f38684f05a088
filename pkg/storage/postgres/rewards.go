package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
)

// ClaimDailyBonus credits the bonus and stamps last_bonus_at while the
// wallet row is locked.
func (s *Store) ClaimDailyBonus(ctx context.Context, claim storage.DailyClaim) (*models.Wallet, error) {
	adj := claim.Adjustment()
	if err := adj.Validate(); err != nil {
		return nil, err
	}

	var result models.Wallet
	err := s.withTx(ctx, "claim daily bonus", func(tx *sql.Tx) error {
		current, err := lockWallet(ctx, tx, claim.UserID)
		if err != nil {
			return err
		}
		if err := storage.CheckCooldown(*current, claim.Now, claim.Cooldown); err != nil {
			return err
		}
		result, err = applyAdjustment(ctx, tx, current, adj, func(w *models.Wallet) {
			stamp := claim.Now
			w.LastBonusAt = &stamp
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Redeem locks the code row, consumes one use and credits the drawn amount.
func (s *Store) Redeem(ctx context.Context, r storage.Redemption) (*storage.RewardResult, error) {
	var result storage.RewardResult
	err := s.withTx(ctx, "redeem", func(tx *sql.Tx) error {
		var code models.RedeemCode
		var expires sql.NullTime
		err := tx.QueryRowContext(ctx,
			`SELECT code, amount_min, amount_max, uses_left, expires_at, created_at
			 FROM redeem_codes WHERE code = $1 FOR UPDATE`, r.Code,
		).Scan(&code.Code, &code.AmountMin, &code.AmountMax, &code.UsesLeft, &expires, &code.CreatedAt)
		if err == sql.ErrNoRows {
			return storage.ErrInvalidCode
		}
		if err != nil {
			return fmt.Errorf("failed to lock redeem code: %w", err)
		}
		code.ExpiresAt = timePtr(expires)
		if err := storage.CheckRedeemable(&code, r.Now); err != nil {
			return err
		}

		amount := r.Amount(code.AmountMin, code.AmountMax)
		adj := r.Adjustment(amount)
		if err := adj.Validate(); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE redeem_codes SET uses_left = uses_left - 1 WHERE code = $1`, code.Code); err != nil {
			return fmt.Errorf("failed to consume redeem code: %w", err)
		}

		current, err := lockWallet(ctx, tx, r.UserID)
		if err != nil {
			return err
		}
		wallet, err := applyAdjustment(ctx, tx, current, adj, nil)
		if err != nil {
			return err
		}
		result = storage.RewardResult{Amount: amount, Wallet: wallet}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateRedeemCode stores a new code.
func (s *Store) CreateRedeemCode(ctx context.Context, code *models.RedeemCode) (*models.RedeemCode, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO redeem_codes (code, amount_min, amount_max, uses_left, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		code.Code, code.AmountMin, code.AmountMax, code.UsesLeft, nullTime(code.ExpiresAt), code.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrCodeExists
		}
		return nil, fmt.Errorf("failed to insert redeem code: %w", err)
	}
	return code, nil
}
