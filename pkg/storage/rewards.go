package storage

import (
	"context"

	"github.com/chris/coin-rewards-ledger/pkg/models"
)

// RewardStore defines the mint points that credit coins to a wallet.
type RewardStore interface {
	// ClaimDailyBonus stamps the claim time and credits the bonus in one unit.
	ClaimDailyBonus(ctx context.Context, claim DailyClaim) (*models.Wallet, error)

	// Redeem consumes one use of a redeem code and credits the drawn amount in one unit.
	Redeem(ctx context.Context, redemption Redemption) (*RewardResult, error)

	// CreateRedeemCode stores a new redeem code. Existing codes are never overwritten.
	CreateRedeemCode(ctx context.Context, code *models.RedeemCode) (*models.RedeemCode, error)
}
