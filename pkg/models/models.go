package models

import (
	"time"
)

// WithdrawalStatus defines the possible states of a withdrawal request.
type WithdrawalStatus string

const (
	PENDING  WithdrawalStatus = "pending"
	PAID     WithdrawalStatus = "paid"
	REJECTED WithdrawalStatus = "rejected"
)

// EntryType is the direction of a ledger entry.
type EntryType string

const (
	CREDIT EntryType = "credit"
	DEBIT  EntryType = "debit"
)

// Bucket names the wallet balance a ledger entry moved.
type Bucket string

const (
	BucketCoins  Bucket = "coins"
	BucketLocked Bucket = "locked"
)

// Reason tags why a balance changed.
type Reason string

const (
	ReasonDailyBonus     Reason = "daily_bonus"
	ReasonRedeemCode     Reason = "redeem_code"
	ReasonWithdrawLock   Reason = "withdraw_lock"
	ReasonWithdrawPaid   Reason = "withdraw_paid"
	ReasonWithdrawRefund Reason = "withdraw_refund"
	ReasonAdminGrant     Reason = "admin_grant"
	ReasonAdminDeduct    Reason = "admin_deduct"
	ReasonSpend          Reason = "spend"
)

// Wallet represents the internal domain model for a user's wallet.
// A Version of 0 means the wallet has never been written.
type Wallet struct {
	UserId      string     `json:"user_id" dynamodbav:"user_id"`
	Coins       int64      `json:"coins" dynamodbav:"coins"`
	LockedCoins int64      `json:"locked_coins" dynamodbav:"locked_coins"`
	Version     int64      `json:"version" dynamodbav:"version"`
	LastBonusAt *time.Time `json:"last_bonus_at,omitempty" dynamodbav:"last_bonus_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" dynamodbav:"updated_at"`
}

// LedgerEntry is one immutable record in the append-only transaction log.
type LedgerEntry struct {
	EntryID      string    `dynamodbav:"entry_id"`
	UserID       string    `dynamodbav:"user_id"`
	Type         EntryType `dynamodbav:"type"`
	Bucket       Bucket    `dynamodbav:"bucket"`
	Amount       int64     `dynamodbav:"amount"`
	Reason       Reason    `dynamodbav:"reason"`
	Code         string    `dynamodbav:"code,omitempty"`
	WithdrawalID string    `dynamodbav:"withdrawal_id,omitempty"`
	Note         string    `dynamodbav:"note,omitempty"`
	CreatedAt    time.Time `dynamodbav:"created_at"`
}

// RedeemCode is an administrator-issued token worth a bounded random credit.
type RedeemCode struct {
	Code      string     `dynamodbav:"code"`
	AmountMin int64      `dynamodbav:"amount_min"`
	AmountMax int64      `dynamodbav:"amount_max"`
	UsesLeft  int64      `dynamodbav:"uses_left"`
	ExpiresAt *time.Time `dynamodbav:"expires_at,omitempty"`
	CreatedAt time.Time  `dynamodbav:"created_at"`
}

// Withdrawal is a user's request to convert coins to an external payout.
type Withdrawal struct {
	Id          string           `dynamodbav:"id"`
	UserId      string           `dynamodbav:"user_id"`
	Amount      int64            `dynamodbav:"amount"`
	Destination string           `dynamodbav:"destination"`
	Name        string           `dynamodbav:"name,omitempty"`
	Status      WithdrawalStatus `dynamodbav:"status"`
	Notes       string           `dynamodbav:"notes,omitempty"`
	CreatedAt   time.Time        `dynamodbav:"created_at"`
	ResolvedAt  *time.Time       `dynamodbav:"resolved_at,omitempty"`
}

// InboxMessage is a notification stored for a user.
type InboxMessage struct {
	UserID    string    `dynamodbav:"user_id"`
	MessageID string    `dynamodbav:"message_id"`
	Title     string    `dynamodbav:"title"`
	Body      string    `dynamodbav:"body"`
	Read      bool      `dynamodbav:"read"`
	CreatedAt time.Time `dynamodbav:"created_at"`
}
