package notify

import (
	"context"
	"time"
)

// NotificationType tags what happened to the user's wallet.
type NotificationType string

const (
	TypeDailyBonus        NotificationType = "daily_bonus"
	TypeCodeRedeemed      NotificationType = "code_redeemed"
	TypeWithdrawalCreated NotificationType = "withdrawal_created"
	TypePayoutPaid        NotificationType = "payout_paid"
	TypePayoutRejected    NotificationType = "payout_rejected"
)

// Notification is a user-facing event published after a unit commits.
type Notification struct {
	Type         NotificationType `json:"type"`
	UserID       string           `json:"user_id"`
	Title        string           `json:"title,omitempty"`
	Body         string           `json:"body,omitempty"`
	Amount       int64            `json:"amount,omitempty"`
	WithdrawalID string           `json:"withdrawal_id,omitempty"`
	Coins        int64            `json:"coins"`
	LockedCoins  int64            `json:"locked_coins"`
}

// Notifier delivers notifications. Delivery is best effort: the inbox row
// written with the unit is the durable record.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Review asks a back-office operator to look at a stuck withdrawal.
type Review struct {
	WithdrawalID string    `json:"withdrawal_id"`
	UserID       string    `json:"user_id"`
	Amount       int64     `json:"amount"`
	CreatedAt    time.Time `json:"created_at"`
	PendingFor   string    `json:"pending_for"`
}

// ReviewQueue receives reminders about withdrawals left pending too long.
type ReviewQueue interface {
	RequestReview(ctx context.Context, r Review) error
}

// NoOpNotifier drops every notification.
type NoOpNotifier struct{}

// Notify does nothing.
func (NoOpNotifier) Notify(ctx context.Context, n Notification) error {
	return nil
}
