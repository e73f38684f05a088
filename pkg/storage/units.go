package storage

import (
	"fmt"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/google/uuid"
)

// DailyClaim describes one daily-bonus claim.
type DailyClaim struct {
	UserID   string
	Amount   int64
	Cooldown time.Duration
	Now      time.Time
}

// Adjustment returns the credit a successful claim applies.
func (c DailyClaim) Adjustment() Adjustment {
	return Adjustment{
		UserID:     c.UserID,
		DeltaCoins: c.Amount,
		Reason:     models.ReasonDailyBonus,
		Now:        c.Now,
	}
}

// CheckCooldown fails with a *CooldownError if the wallet claimed a bonus
// less than cooldown before now.
func CheckCooldown(w models.Wallet, now time.Time, cooldown time.Duration) error {
	if w.LastBonusAt == nil {
		return nil
	}
	elapsed := now.Sub(*w.LastBonusAt)
	if elapsed < cooldown {
		return &CooldownError{Remaining: cooldown - elapsed}
	}
	return nil
}

// Redemption describes one attempt to redeem a code.
type Redemption struct {
	UserID string
	Code   string
	Now    time.Time
	// Draw picks an amount in [min, max]. Nil always picks min.
	Draw func(min, max int64) int64
}

// Amount draws the credit for a code with the given bounds.
func (r Redemption) Amount(min, max int64) int64 {
	if r.Draw == nil || max <= min {
		return min
	}
	amount := r.Draw(min, max)
	if amount < min {
		return min
	}
	if amount > max {
		return max
	}
	return amount
}

// Adjustment returns the credit for a redeemed code.
func (r Redemption) Adjustment(amount int64) Adjustment {
	return Adjustment{
		UserID:     r.UserID,
		DeltaCoins: amount,
		Reason:     models.ReasonRedeemCode,
		Code:       r.Code,
		Now:        r.Now,
	}
}

// CheckRedeemable fails if the code is expired or exhausted at now.
func CheckRedeemable(c *models.RedeemCode, now time.Time) error {
	if c == nil {
		return ErrInvalidCode
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return ErrCodeExpired
	}
	if c.UsesLeft <= 0 {
		return ErrCodeExhausted
	}
	return nil
}

// RewardResult is the outcome of a successful redemption.
type RewardResult struct {
	Amount int64
	Wallet models.Wallet
}

// LockAdjustment moves a withdrawal's amount from coins to locked coins.
func LockAdjustment(w *models.Withdrawal) Adjustment {
	return Adjustment{
		UserID:       w.UserId,
		DeltaCoins:   -w.Amount,
		DeltaLocked:  w.Amount,
		Reason:       models.ReasonWithdrawLock,
		WithdrawalID: w.Id,
		Precondition: RequireCoins(w.Amount),
		Now:          w.CreatedAt,
	}
}

// Resolution identifies a pending withdrawal and the admin's note.
type Resolution struct {
	RequestID  string
	Note       string
	ResolvedAt time.Time
}

// CheckPending fails with ErrAlreadyProcessed unless the request is pending.
func CheckPending(w *models.Withdrawal) error {
	if w.Status != models.PENDING {
		return ErrAlreadyProcessed
	}
	return nil
}

// ApprovalAdjustment releases the locked funds of a paid withdrawal. The
// coins leave the system here.
func ApprovalAdjustment(w *models.Withdrawal, res Resolution) Adjustment {
	return Adjustment{
		UserID:       w.UserId,
		DeltaLocked:  -w.Amount,
		Reason:       models.ReasonWithdrawPaid,
		WithdrawalID: w.Id,
		Note:         res.Note,
		Precondition: RequireLocked(w.Amount),
		Now:          res.ResolvedAt,
	}
}

// RejectionAdjustment refunds a rejected withdrawal. The lock release is
// floored at the coins actually locked.
func RejectionAdjustment(w *models.Withdrawal, wallet models.Wallet, res Resolution) Adjustment {
	release := w.Amount
	if wallet.LockedCoins < release {
		release = wallet.LockedCoins
	}
	return Adjustment{
		UserID:       w.UserId,
		DeltaCoins:   w.Amount,
		DeltaLocked:  -release,
		Reason:       models.ReasonWithdrawRefund,
		WithdrawalID: w.Id,
		Note:         res.Note,
		Now:          res.ResolvedAt,
	}
}

// Resolve returns the request moved to a terminal status.
func Resolve(w *models.Withdrawal, status models.WithdrawalStatus, res Resolution) models.Withdrawal {
	resolved := *w
	resolvedAt := res.ResolvedAt
	resolved.Status = status
	resolved.Notes = res.Note
	resolved.ResolvedAt = &resolvedAt
	return resolved
}

// ApprovalMessage is the inbox message sent when a payout is approved.
func ApprovalMessage(w *models.Withdrawal, at time.Time) models.InboxMessage {
	return newMessage(w.UserId, "Payout Successful", fmt.Sprintf("%d coins sent.", w.Amount), at)
}

// RejectionMessage is the inbox message sent when a payout is rejected.
func RejectionMessage(w *models.Withdrawal, reason string, at time.Time) models.InboxMessage {
	if reason == "" {
		reason = "Contact support"
	}
	return newMessage(w.UserId, "Payout Rejected", reason, at)
}

func newMessage(userID, title, body string, at time.Time) models.InboxMessage {
	return models.InboxMessage{
		UserID:    userID,
		MessageID: uuid.New().String(),
		Title:     title,
		Body:      body,
		CreatedAt: at,
	}
}
