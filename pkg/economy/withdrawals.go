package economy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/notify"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
)

// WithdrawalRequest is a user's payout request.
type WithdrawalRequest struct {
	Amount      int64
	Destination string
	Name        string
}

// RequestWithdrawal locks coins against a new pending payout.
func (s *Service) RequestWithdrawal(ctx context.Context, id Identity, req WithdrawalRequest) (w *models.Withdrawal, err error) {
	start := time.Now()
	defer func() { s.observe("request_withdrawal", start, err) }()

	if id.UserID == "" {
		return nil, ErrForbidden
	}
	if req.Amount <= 0 || req.Amount < s.policy.MinWithdrawal {
		return nil, fmt.Errorf("%w: minimum withdrawal is %d", storage.ErrInvalidAmount, s.policy.MinWithdrawal)
	}
	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		return nil, fmt.Errorf("%w: destination required", storage.ErrValidation)
	}

	w, err = s.store.CreateWithdrawal(ctx, &models.Withdrawal{
		UserId:      id.UserID,
		Amount:      req.Amount,
		Destination: destination,
		Name:        strings.TrimSpace(req.Name),
		CreatedAt:   s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddCoins(string(models.ReasonWithdrawLock), w.Amount)
	s.publish(ctx, notify.Notification{
		Type:         notify.TypeWithdrawalCreated,
		UserID:       w.UserId,
		Title:        "Withdrawal Requested",
		Body:         fmt.Sprintf("%d coins are locked until your payout is reviewed.", w.Amount),
		Amount:       w.Amount,
		WithdrawalID: w.Id,
	})
	return w, nil
}

// ListWithdrawals returns a user's requests, newest first.
func (s *Service) ListWithdrawals(ctx context.Context, id Identity, userID string) ([]models.Withdrawal, error) {
	if err := authorize(id, userID); err != nil {
		return nil, err
	}
	return s.store.ListWithdrawalsByUserID(ctx, userID, s.policy.ListLimit)
}

// ApproveWithdrawal marks a pending request paid.
func (s *Service) ApproveWithdrawal(ctx context.Context, id Identity, requestID, note string) (w *models.Withdrawal, err error) {
	start := time.Now()
	defer func() { s.observe("approve_withdrawal", start, err) }()

	res, err := s.resolution(id, requestID, note)
	if err != nil {
		return nil, err
	}
	w, err = s.store.ApproveWithdrawal(ctx, res)
	if err != nil {
		return nil, err
	}

	s.metrics.AddCoins(string(models.ReasonWithdrawPaid), w.Amount)
	msg := storage.ApprovalMessage(w, res.ResolvedAt)
	s.publish(ctx, notify.Notification{
		Type:         notify.TypePayoutPaid,
		UserID:       w.UserId,
		Title:        msg.Title,
		Body:         msg.Body,
		Amount:       w.Amount,
		WithdrawalID: w.Id,
	})
	return w, nil
}

// RejectWithdrawal marks a pending request rejected and refunds it.
func (s *Service) RejectWithdrawal(ctx context.Context, id Identity, requestID, reason string) (w *models.Withdrawal, err error) {
	start := time.Now()
	defer func() { s.observe("reject_withdrawal", start, err) }()

	res, err := s.resolution(id, requestID, reason)
	if err != nil {
		return nil, err
	}
	w, err = s.store.RejectWithdrawal(ctx, res)
	if err != nil {
		return nil, err
	}

	s.metrics.AddCoins(string(models.ReasonWithdrawRefund), w.Amount)
	msg := storage.RejectionMessage(w, res.Note, res.ResolvedAt)
	s.publish(ctx, notify.Notification{
		Type:         notify.TypePayoutRejected,
		UserID:       w.UserId,
		Title:        msg.Title,
		Body:         msg.Body,
		Amount:       w.Amount,
		WithdrawalID: w.Id,
	})
	return w, nil
}

func (s *Service) resolution(id Identity, requestID, note string) (storage.Resolution, error) {
	if err := requireAdmin(id); err != nil {
		return storage.Resolution{}, err
	}
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return storage.Resolution{}, fmt.Errorf("%w: request id required", storage.ErrValidation)
	}
	return storage.Resolution{
		RequestID:  requestID,
		Note:       strings.TrimSpace(note),
		ResolvedAt: s.now(),
	}, nil
}

// StaleWithdrawals returns requests pending longer than the policy allows.
func (s *Service) StaleWithdrawals(ctx context.Context, id Identity) ([]models.Withdrawal, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	return s.store.GetStaleWithdrawals(ctx, s.policy.StaleWithdrawalAge)
}
