package storage

import (
	"errors"
	"fmt"
	"time"
)

// ErrValidation is returned when a request is missing required input.
var ErrValidation = errors.New("invalid request")

// ErrInvalidAmount is returned when an amount is non-positive or below the configured minimum.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInsufficientFunds is returned when a wallet has an insufficient balance for a debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrLockedAmountMismatch is returned when a wallet holds fewer locked coins than a withdrawal needs.
var ErrLockedAmountMismatch = errors.New("locked amount mismatch")

// ErrInvalidCode is returned when a redeem code does not exist.
var ErrInvalidCode = errors.New("invalid code")

// ErrCodeExpired is returned when a redeem code is past its expiry.
var ErrCodeExpired = errors.New("code expired")

// ErrCodeExhausted is returned when a redeem code has no uses left.
var ErrCodeExhausted = errors.New("code exhausted")

// ErrCodeExists is returned when creating a redeem code that already exists.
var ErrCodeExists = errors.New("code already exists")

// ErrWithdrawalNotFound is returned when a withdrawal request does not exist.
var ErrWithdrawalNotFound = errors.New("withdrawal request not found")

// ErrAlreadyProcessed is returned when a withdrawal request is no longer pending.
var ErrAlreadyProcessed = errors.New("withdrawal already processed")

// ErrCooldown matches any *CooldownError.
var ErrCooldown = errors.New("daily bonus on cooldown")

// ErrConflict is returned when concurrent writes kept colliding after all retries.
// Callers may retry; the wallet is unchanged.
var ErrConflict = errors.New("concurrent update conflict")

// CooldownError reports how long a user must wait before the next daily bonus.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s: retry in %s", ErrCooldown, e.Remaining.Round(time.Second))
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldown
}
