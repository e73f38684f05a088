package storage

import (
	"context"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/models"
)

// WithdrawalReader defines the interface for reading withdrawal requests.
type WithdrawalReader interface {
	// GetWithdrawal retrieves a withdrawal request by its ID.
	GetWithdrawal(ctx context.Context, id string) (*models.Withdrawal, error)

	// ListWithdrawalsByUserID retrieves a user's requests, newest first.
	ListWithdrawalsByUserID(ctx context.Context, userID string, limit int32) ([]models.Withdrawal, error)
}

// WithdrawalManager defines the interface for opening withdrawal requests.
type WithdrawalManager interface {
	// CreateWithdrawal moves the amount from coins to locked coins and stores
	// the request as pending, all in one unit.
	CreateWithdrawal(ctx context.Context, w *models.Withdrawal) (*models.Withdrawal, error)
}

// WithdrawalStore combines the reader and manager interfaces.
type WithdrawalStore interface {
	WithdrawalReader
	WithdrawalManager
}

// AdjudicationStore defines the privileged interface for resolving withdrawals.
// Each call resolves a pending request exactly once: a request that is no
// longer pending yields ErrAlreadyProcessed and no balance change.
type AdjudicationStore interface {
	// ApproveWithdrawal releases the locked funds and marks the request paid.
	ApproveWithdrawal(ctx context.Context, res Resolution) (*models.Withdrawal, error)

	// RejectWithdrawal refunds the locked funds and marks the request rejected.
	RejectWithdrawal(ctx context.Context, res Resolution) (*models.Withdrawal, error)
}

// ReconciliationReader finds requests that have waited too long for an admin.
type ReconciliationReader interface {
	// GetStaleWithdrawals retrieves pending requests older than maxAge.
	GetStaleWithdrawals(ctx context.Context, maxAge time.Duration) ([]models.Withdrawal, error)
}
