package economy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/notify"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
)

// BonusResult is the outcome of a daily claim.
type BonusResult struct {
	Amount int64
	Wallet models.Wallet
}

// ClaimDaily credits the caller's daily bonus. A claim inside the cooldown
// fails with a *storage.CooldownError carrying the remaining wait.
func (s *Service) ClaimDaily(ctx context.Context, id Identity, now time.Time) (res *BonusResult, err error) {
	start := time.Now()
	defer func() { s.observe("claim_daily", start, err) }()

	if id.UserID == "" {
		return nil, ErrForbidden
	}

	amount := s.rand.between(s.policy.BonusMin, s.policy.BonusMax)
	w, err := s.store.ClaimDailyBonus(ctx, storage.DailyClaim{
		UserID:   id.UserID,
		Amount:   amount,
		Cooldown: s.policy.BonusCooldown,
		Now:      now,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddCoins(string(models.ReasonDailyBonus), amount)
	s.publish(ctx, notify.Notification{
		Type:        notify.TypeDailyBonus,
		UserID:      id.UserID,
		Title:       "Daily Bonus",
		Body:        fmt.Sprintf("You received %d coins.", amount),
		Amount:      amount,
		Coins:       w.Coins,
		LockedCoins: w.LockedCoins,
	})
	return &BonusResult{Amount: amount, Wallet: *w}, nil
}

// Redeem credits the caller with a draw from the code's range.
func (s *Service) Redeem(ctx context.Context, id Identity, code string, now time.Time) (res *storage.RewardResult, err error) {
	start := time.Now()
	defer func() { s.observe("redeem", start, err) }()

	if id.UserID == "" {
		return nil, ErrForbidden
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: code required", storage.ErrValidation)
	}

	res, err = s.store.Redeem(ctx, storage.Redemption{
		UserID: id.UserID,
		Code:   code,
		Now:    now,
		Draw:   s.rand.between,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddCoins(string(models.ReasonRedeemCode), res.Amount)
	s.publish(ctx, notify.Notification{
		Type:        notify.TypeCodeRedeemed,
		UserID:      id.UserID,
		Title:       "Code Redeemed",
		Body:        fmt.Sprintf("%s added %d coins.", code, res.Amount),
		Amount:      res.Amount,
		Coins:       res.Wallet.Coins,
		LockedCoins: res.Wallet.LockedCoins,
	})
	return res, nil
}

// CodeRequest describes a redeem code to create. Zero bounds and uses take
// the policy defaults.
type CodeRequest struct {
	Code      string
	AmountMin int64
	AmountMax int64
	Uses      int64
	ExpiresAt *time.Time
}

// CreateRedeemCode issues a new redeem code.
func (s *Service) CreateRedeemCode(ctx context.Context, id Identity, req CodeRequest) (code *models.RedeemCode, err error) {
	start := time.Now()
	defer func() { s.observe("create_redeem_code", start, err) }()

	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	rc := &models.RedeemCode{
		Code:      strings.TrimSpace(req.Code),
		AmountMin: req.AmountMin,
		AmountMax: req.AmountMax,
		UsesLeft:  req.Uses,
		ExpiresAt: req.ExpiresAt,
		CreatedAt: s.now(),
	}
	if rc.Code == "" {
		return nil, fmt.Errorf("%w: code required", storage.ErrValidation)
	}
	if rc.AmountMin == 0 {
		rc.AmountMin = s.policy.CodeAmountMin
	}
	if rc.AmountMax == 0 {
		rc.AmountMax = max(s.policy.CodeAmountMax, rc.AmountMin)
	}
	if rc.UsesLeft == 0 {
		rc.UsesLeft = s.policy.CodeUses
	}
	if rc.AmountMin < 1 || rc.AmountMax < rc.AmountMin {
		return nil, fmt.Errorf("%w: amount range [%d, %d]", storage.ErrInvalidAmount, rc.AmountMin, rc.AmountMax)
	}
	if rc.UsesLeft < 1 {
		return nil, fmt.Errorf("%w: uses must be at least 1", storage.ErrValidation)
	}

	return s.store.CreateRedeemCode(ctx, rc)
}
