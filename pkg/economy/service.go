// Package economy enforces the reward economy rules on top of a Storage:
// who may act on which wallet, how bonus amounts are drawn, and which
// requests are valid before anything reaches the ledger.
package economy

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/config"
	"github.com/chris/coin-rewards-ledger/pkg/metrics"
	"github.com/chris/coin-rewards-ledger/pkg/notify"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
)

// ErrForbidden is returned when the caller may not act on the target wallet.
var ErrForbidden = errors.New("forbidden")

// Identity is the authenticated caller.
type Identity struct {
	UserID  string
	IsAdmin bool
}

// SystemAdmin is the identity used by back-office workers.
var SystemAdmin = Identity{UserID: "system", IsAdmin: true}

// Service implements the economy operations.
type Service struct {
	store    storage.Storage
	notifier notify.Notifier
	metrics  *metrics.Ledger
	policy   config.Policy
	rand     *lockedRand
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets where post-commit notifications are published.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithMetrics sets the metrics the service records to.
func WithMetrics(m *metrics.Ledger) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPolicy overrides the default economy policy.
func WithPolicy(p config.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithRand sets the random source used to draw reward amounts.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rand = &lockedRand{r: r} }
}

// WithClock sets the clock used to timestamp withdrawals and resolutions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service over store.
func New(store storage.Storage, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: notify.NoOpNotifier{},
		policy:   config.DefaultPolicy(),
		rand:     &lockedRand{r: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the policy in force.
func (s *Service) Policy() config.Policy {
	return s.policy
}

// authorize enforces that the caller owns the wallet or is an admin.
func authorize(id Identity, userID string) error {
	if id.UserID == "" {
		return ErrForbidden
	}
	if id.IsAdmin || id.UserID == userID {
		return nil
	}
	return ErrForbidden
}

func requireAdmin(id Identity) error {
	if !id.IsAdmin {
		return ErrForbidden
	}
	return nil
}

// observe records an operation outcome. Business rejections are counted
// separately from failures.
func (s *Service) observe(op string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrConflict):
		outcome = "conflict"
	case isRejection(err):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	s.metrics.Observe(op, outcome, time.Since(start))
}

func isRejection(err error) bool {
	for _, target := range []error{
		ErrForbidden,
		storage.ErrValidation,
		storage.ErrInvalidAmount,
		storage.ErrInsufficientFunds,
		storage.ErrLockedAmountMismatch,
		storage.ErrInvalidCode,
		storage.ErrCodeExpired,
		storage.ErrCodeExhausted,
		storage.ErrCodeExists,
		storage.ErrWithdrawalNotFound,
		storage.ErrAlreadyProcessed,
		storage.ErrCooldown,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// publish sends a notification after a commit. Failures are logged; the
// committed unit stands.
func (s *Service) publish(ctx context.Context, n notify.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		slog.Log(ctx, slog.LevelError, "CRITICAL: failed to publish notification", "type", n.Type, "user_id", n.UserID, "error", err)
	}
}

// lockedRand makes a *rand.Rand safe for concurrent use.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// between returns a uniform value in [min, max].
func (l *lockedRand) between(min, max int64) int64 {
	if max <= min {
		return min
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return min + l.r.Int64N(max-min+1)
}
