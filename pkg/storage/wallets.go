package storage

import (
	"context"

	"github.com/chris/coin-rewards-ledger/pkg/models"
)

// WalletStore defines the interface for reading and mutating wallets.
type WalletStore interface {
	// GetWallet retrieves a user's wallet. A wallet that was never written is
	// returned with zero balances and Version 0.
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)

	// Adjust atomically applies a balance change and appends one ledger entry.
	// Write conflicts are retried internally before ErrConflict is returned.
	Adjust(ctx context.Context, adj Adjustment) (*models.Wallet, error)
}
