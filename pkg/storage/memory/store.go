// Package memory is an in-process Storage used for local runs and tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
	"github.com/google/uuid"
)

// Store holds all ledger state in memory.
//
// Units serialize on the keys they touch: the wallet, plus the code for a
// redemption. Units on different wallets run in parallel. mu only guards the
// maps; a unit reads its snapshot under it and publishes all of its writes
// in one critical section, so readers observe all of a unit or none of it.
type Store struct {
	keys keyedMutex

	mu          sync.RWMutex
	wallets     map[string]models.Wallet
	ledger      []models.LedgerEntry
	codes       map[string]models.RedeemCode
	withdrawals map[string]models.Withdrawal
	inbox       []models.InboxMessage
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		keys:        keyedMutex{locks: make(map[string]*sync.Mutex)},
		wallets:     make(map[string]models.Wallet),
		codes:       make(map[string]models.RedeemCode),
		withdrawals: make(map[string]models.Withdrawal),
	}
}

var _ storage.Storage = (*Store)(nil)

// keyedMutex hands out one mutex per key. Entries are never removed.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// lock blocks until key is held and returns its release.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func walletKey(userID string) string { return "wallet#" + userID }
func codeKey(code string) string     { return "code#" + code }

// wallet returns the stored wallet or an unwritten one. Callers hold mu.
func (s *Store) wallet(userID string) models.Wallet {
	if w, ok := s.wallets[userID]; ok {
		return w
	}
	return models.Wallet{UserId: userID}
}

func (s *Store) snapshot(userID string) models.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallet(userID)
}

// commit publishes a unit's writes at once.
func (s *Store) commit(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// put records a wallet and its ledger entry. Callers hold mu.
func (s *Store) put(w models.Wallet, adj storage.Adjustment) {
	s.wallets[w.UserId] = w
	s.ledger = append(s.ledger, adj.Entry())
}

// GetWallet returns the user's wallet, empty at version 0 if never written.
func (s *Store) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	w := s.snapshot(userID)
	return &w, nil
}

// Adjust applies a balance change and its ledger entry.
func (s *Store) Adjust(ctx context.Context, adj storage.Adjustment) (*models.Wallet, error) {
	if err := adj.Validate(); err != nil {
		return nil, err
	}
	defer s.keys.lock(walletKey(adj.UserID))()

	next, err := adj.Apply(s.snapshot(adj.UserID))
	if err != nil {
		return nil, err
	}
	s.commit(func() { s.put(next, adj) })
	return &next, nil
}

// ListLedgerEntries returns the user's entries, newest first.
func (s *Store) ListLedgerEntries(ctx context.Context, userID string, limit int32) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.LedgerEntry
	for i := len(s.ledger) - 1; i >= 0 && len(out) < int(limit); i-- {
		if s.ledger[i].UserID == userID {
			out = append(out, s.ledger[i])
		}
	}
	return out, nil
}

// ClaimDailyBonus credits the bonus and stamps the claim time.
func (s *Store) ClaimDailyBonus(ctx context.Context, claim storage.DailyClaim) (*models.Wallet, error) {
	adj := claim.Adjustment()
	if err := adj.Validate(); err != nil {
		return nil, err
	}
	defer s.keys.lock(walletKey(claim.UserID))()

	current := s.snapshot(claim.UserID)
	if err := storage.CheckCooldown(current, claim.Now, claim.Cooldown); err != nil {
		return nil, err
	}
	next, err := adj.Apply(current)
	if err != nil {
		return nil, err
	}
	stamp := claim.Now
	next.LastBonusAt = &stamp

	s.commit(func() { s.put(next, adj) })
	return &next, nil
}

// Redeem consumes one use of a code and credits the drawn amount. The code
// is locked before the wallet.
func (s *Store) Redeem(ctx context.Context, r storage.Redemption) (*storage.RewardResult, error) {
	defer s.keys.lock(codeKey(r.Code))()

	s.mu.RLock()
	code, ok := s.codes[r.Code]
	s.mu.RUnlock()
	if !ok {
		return nil, storage.ErrInvalidCode
	}
	if err := storage.CheckRedeemable(&code, r.Now); err != nil {
		return nil, err
	}

	amount := r.Amount(code.AmountMin, code.AmountMax)
	adj := r.Adjustment(amount)
	if err := adj.Validate(); err != nil {
		return nil, err
	}

	defer s.keys.lock(walletKey(r.UserID))()
	next, err := adj.Apply(s.snapshot(r.UserID))
	if err != nil {
		return nil, err
	}
	code.UsesLeft--

	s.commit(func() {
		s.put(next, adj)
		s.codes[code.Code] = code
	})
	return &storage.RewardResult{Amount: amount, Wallet: next}, nil
}

// CreateRedeemCode stores a new code.
func (s *Store) CreateRedeemCode(ctx context.Context, code *models.RedeemCode) (*models.RedeemCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.codes[code.Code]; ok {
		return nil, storage.ErrCodeExists
	}
	s.codes[code.Code] = *code
	return code, nil
}

// CreateWithdrawal locks the requested coins and records a pending request.
func (s *Store) CreateWithdrawal(ctx context.Context, w *models.Withdrawal) (*models.Withdrawal, error) {
	if w.Id == "" {
		w.Id = uuid.New().String()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	w.Status = models.PENDING

	adj := storage.LockAdjustment(w)
	if err := adj.Validate(); err != nil {
		return nil, err
	}
	defer s.keys.lock(walletKey(w.UserId))()

	next, err := adj.Apply(s.snapshot(w.UserId))
	if err != nil {
		return nil, err
	}
	s.commit(func() {
		s.put(next, adj)
		s.withdrawals[w.Id] = *w
	})
	return w, nil
}

// GetWithdrawal returns a request by ID.
func (s *Store) GetWithdrawal(ctx context.Context, id string) (*models.Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.withdrawals[id]
	if !ok {
		return nil, storage.ErrWithdrawalNotFound
	}
	return &w, nil
}

// ListWithdrawalsByUserID returns the user's requests, newest first.
func (s *Store) ListWithdrawalsByUserID(ctx context.Context, userID string, limit int32) ([]models.Withdrawal, error) {
	s.mu.RLock()
	var out []models.Withdrawal
	for _, w := range s.withdrawals {
		if w.UserId == userID {
			out = append(out, w)
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	if len(out) > int(limit) {
		out = out[:limit]
	}
	return out, nil
}

// GetStaleWithdrawals returns pending requests older than maxAge, oldest first.
func (s *Store) GetStaleWithdrawals(ctx context.Context, maxAge time.Duration) ([]models.Withdrawal, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	s.mu.RLock()
	var out []models.Withdrawal
	for _, w := range s.withdrawals {
		if w.Status == models.PENDING && w.CreatedAt.Before(cutoff) {
			out = append(out, w)
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	slices.Reverse(out)
	return out, nil
}

// ApproveWithdrawal marks a pending request paid and releases its lock.
func (s *Store) ApproveWithdrawal(ctx context.Context, res storage.Resolution) (*models.Withdrawal, error) {
	return s.resolve(res, func(w *models.Withdrawal, wallet models.Wallet) (storage.Adjustment, models.Withdrawal, models.InboxMessage) {
		return storage.ApprovalAdjustment(w, res),
			storage.Resolve(w, models.PAID, res),
			storage.ApprovalMessage(w, res.ResolvedAt)
	})
}

// RejectWithdrawal marks a pending request rejected and refunds it.
func (s *Store) RejectWithdrawal(ctx context.Context, res storage.Resolution) (*models.Withdrawal, error) {
	return s.resolve(res, func(w *models.Withdrawal, wallet models.Wallet) (storage.Adjustment, models.Withdrawal, models.InboxMessage) {
		return storage.RejectionAdjustment(w, wallet, res),
			storage.Resolve(w, models.REJECTED, res),
			storage.RejectionMessage(w, res.Note, res.ResolvedAt)
	})
}

// resolve runs under the owner's wallet key, which every unit touching the
// request also takes. The request is re-read once the key is held.
func (s *Store) resolve(res storage.Resolution, decide func(*models.Withdrawal, models.Wallet) (storage.Adjustment, models.Withdrawal, models.InboxMessage)) (*models.Withdrawal, error) {
	owner, err := s.GetWithdrawal(context.Background(), res.RequestID)
	if err != nil {
		return nil, err
	}
	defer s.keys.lock(walletKey(owner.UserId))()

	w, err := s.GetWithdrawal(context.Background(), res.RequestID)
	if err != nil {
		return nil, err
	}
	if err := storage.CheckPending(w); err != nil {
		return nil, err
	}

	current := s.snapshot(w.UserId)
	adj, resolved, msg := decide(w, current)
	next, err := adj.Apply(current)
	if err != nil {
		return nil, err
	}
	s.commit(func() {
		s.put(next, adj)
		s.withdrawals[w.Id] = resolved
		s.inbox = append(s.inbox, msg)
	})
	return &resolved, nil
}

// ListInbox returns the user's messages, newest first.
func (s *Store) ListInbox(ctx context.Context, userID string, limit int32) ([]models.InboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.InboxMessage
	for i := len(s.inbox) - 1; i >= 0 && len(out) < int(limit); i-- {
		if s.inbox[i].UserID == userID {
			out = append(out, s.inbox[i])
		}
	}
	return out, nil
}

// sortNewestFirst orders by creation time, then by ID so that requests
// created at the same instant keep a stable order.
func sortNewestFirst(ws []models.Withdrawal) {
	sort.Slice(ws, func(i, j int) bool {
		if !ws[i].CreatedAt.Equal(ws[j].CreatedAt) {
			return ws[i].CreatedAt.After(ws[j].CreatedAt)
		}
		return ws[i].Id > ws[j].Id
	})
}
