package dynamodb

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
)

// ClaimDailyBonus credits the bonus and stamps last_bonus_at in one write,
// so two concurrent claims cannot both pass the cooldown check.
func (s *Store) ClaimDailyBonus(ctx context.Context, claim storage.DailyClaim) (*models.Wallet, error) {
	adj := claim.Adjustment()
	if err := adj.Validate(); err != nil {
		return nil, err
	}

	var result models.Wallet
	err := s.commit(ctx, "claim daily bonus", func(ctx context.Context) ([]types.TransactWriteItem, error) {
		current, err := s.GetWallet(ctx, claim.UserID)
		if err != nil {
			return nil, err
		}
		if err := storage.CheckCooldown(*current, claim.Now, claim.Cooldown); err != nil {
			return nil, err
		}

		next, err := adj.Apply(*current)
		if err != nil {
			return nil, err
		}
		stamp := claim.Now
		next.LastBonusAt = &stamp

		update, err := s.walletUpdate(*current, next)
		if err != nil {
			return nil, err
		}
		entry, err := s.ledgerPut(adj.Entry())
		if err != nil {
			return nil, err
		}

		result = next
		return []types.TransactWriteItem{update, entry}, nil
	})
	if err != nil {
		return nil, err
	}

	slog.Log(ctx, slog.LevelDebug, "daily bonus claimed", "user_id", claim.UserID, "amount", claim.Amount)
	return &result, nil
}
