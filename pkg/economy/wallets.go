package economy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
)

// GetWallet returns a wallet's balances.
func (s *Service) GetWallet(ctx context.Context, id Identity, userID string) (*models.Wallet, error) {
	if err := authorize(id, userID); err != nil {
		return nil, err
	}
	return s.store.GetWallet(ctx, userID)
}

// ListTransactions returns the wallet's most recent ledger entries.
func (s *Service) ListTransactions(ctx context.Context, id Identity, userID string) ([]models.LedgerEntry, error) {
	if err := authorize(id, userID); err != nil {
		return nil, err
	}
	return s.store.ListLedgerEntries(ctx, userID, s.policy.ListLimit)
}

// ListInbox returns the user's most recent inbox messages.
func (s *Service) ListInbox(ctx context.Context, id Identity, userID string) ([]models.InboxMessage, error) {
	if err := authorize(id, userID); err != nil {
		return nil, err
	}
	return s.store.ListInbox(ctx, userID, s.policy.ListLimit)
}

// Grant credits coins to a wallet on an admin's behalf.
func (s *Service) Grant(ctx context.Context, id Identity, userID string, amount int64, note string) (w *models.Wallet, err error) {
	start := time.Now()
	defer func() { s.observe("grant", start, err) }()
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	return s.adjust(ctx, userID, amount, note, models.ReasonAdminGrant)
}

// Deduct debits coins from a wallet on an admin's behalf.
func (s *Service) Deduct(ctx context.Context, id Identity, userID string, amount int64, note string) (w *models.Wallet, err error) {
	start := time.Now()
	defer func() { s.observe("deduct", start, err) }()
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	return s.adjust(ctx, userID, -amount, note, models.ReasonAdminDeduct)
}

// Spend debits coins the owner chose to spend. There is no self-service
// counterpart for credits; coins only enter through rewards or an admin.
func (s *Service) Spend(ctx context.Context, id Identity, userID string, amount int64, note string) (w *models.Wallet, err error) {
	start := time.Now()
	defer func() { s.observe("spend", start, err) }()
	if err := authorize(id, userID); err != nil {
		return nil, err
	}
	return s.adjust(ctx, userID, -amount, note, models.ReasonSpend)
}

// adjust applies a manual balance change. Only grants may be positive.
func (s *Service) adjust(ctx context.Context, userID string, delta int64, note string, reason models.Reason) (*models.Wallet, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id required", storage.ErrValidation)
	}
	if delta == 0 || (reason == models.ReasonAdminGrant) != (delta > 0) {
		return nil, storage.ErrInvalidAmount
	}

	adj := storage.Adjustment{
		UserID:     userID,
		DeltaCoins: delta,
		Reason:     reason,
		Note:       note,
		Now:        s.now(),
	}
	if delta < 0 {
		adj.Precondition = storage.RequireCoins(-delta)
	}

	w, err := s.store.Adjust(ctx, adj)
	if err != nil {
		return nil, err
	}
	s.metrics.AddCoins(string(reason), abs(delta))
	return w, nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
