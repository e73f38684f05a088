package storage

import (
	"fmt"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/google/uuid"
)

// Precondition inspects the wallet snapshot an adjustment will be applied to.
// Backends commit only if the snapshot is still current, so a precondition
// that passes holds at commit time.
type Precondition func(w models.Wallet) error

// RequireCoins fails with ErrInsufficientFunds unless the wallet holds at least n coins.
func RequireCoins(n int64) Precondition {
	return func(w models.Wallet) error {
		if w.Coins < n {
			return ErrInsufficientFunds
		}
		return nil
	}
}

// RequireLocked fails with ErrLockedAmountMismatch unless at least n coins are locked.
func RequireLocked(n int64) Precondition {
	return func(w models.Wallet) error {
		if w.LockedCoins < n {
			return ErrLockedAmountMismatch
		}
		return nil
	}
}

// Adjustment is a single balance change routed through the mutation engine.
type Adjustment struct {
	UserID       string
	DeltaCoins   int64
	DeltaLocked  int64
	Reason       models.Reason
	Code         string
	WithdrawalID string
	Note         string
	Precondition Precondition
	Now          time.Time
}

// Validate rejects adjustments that would not move any balance.
func (a Adjustment) Validate() error {
	if a.UserID == "" {
		return fmt.Errorf("%w: user id required", ErrValidation)
	}
	if a.DeltaCoins == 0 && a.DeltaLocked == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Apply returns the wallet that results from applying the adjustment to w.
// Both balances must stay non-negative.
func (a Adjustment) Apply(w models.Wallet) (models.Wallet, error) {
	if a.Precondition != nil {
		if err := a.Precondition(w); err != nil {
			return w, err
		}
	}
	if w.Coins+a.DeltaCoins < 0 {
		return w, ErrInsufficientFunds
	}
	if w.LockedCoins+a.DeltaLocked < 0 {
		return w, ErrLockedAmountMismatch
	}

	next := w
	next.UserId = a.UserID
	next.Coins += a.DeltaCoins
	next.LockedCoins += a.DeltaLocked
	next.Version = w.Version + 1
	next.UpdatedAt = a.at()
	if w.Version == 0 {
		next.CreatedAt = a.at()
	}
	return next, nil
}

// Entry builds the ledger entry recording this adjustment. Spendable coin
// movements are recorded against the coins bucket; pure lock releases
// against the locked bucket.
func (a Adjustment) Entry() models.LedgerEntry {
	entry := models.LedgerEntry{
		EntryID:      uuid.New().String(),
		UserID:       a.UserID,
		Bucket:       models.BucketCoins,
		Reason:       a.Reason,
		Code:         a.Code,
		WithdrawalID: a.WithdrawalID,
		Note:         a.Note,
		CreatedAt:    a.at(),
	}
	delta := a.DeltaCoins
	if delta == 0 {
		entry.Bucket = models.BucketLocked
		delta = a.DeltaLocked
	}
	entry.Type = models.CREDIT
	if delta < 0 {
		entry.Type = models.DEBIT
		delta = -delta
	}
	entry.Amount = delta
	return entry
}

func (a Adjustment) at() time.Time {
	if a.Now.IsZero() {
		return time.Now().UTC()
	}
	return a.Now
}
