package main

import (
	"context"
	"log"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/economy"
	"github.com/chris/coin-rewards-ledger/pkg/notify"
)

type reconciler struct {
	service *economy.Service
	reviews notify.ReviewQueue
	now     func() time.Time
}

// HandleRequest is triggered by an EventBridge Schedule. It re-enqueues a
// review reminder for every withdrawal left pending too long.
func (r *reconciler) HandleRequest(ctx context.Context) error {
	log.Println("Starting reconciliation of stale withdrawals...")

	stale, err := r.service.StaleWithdrawals(ctx, economy.SystemAdmin)
	if err != nil {
		log.Printf("ERROR: failed to get stale withdrawals: %v", err)
		return err
	}

	if len(stale) == 0 {
		log.Println("No stale withdrawals found.")
		return nil
	}

	log.Printf("Found %d stale withdrawals. Requesting review...", len(stale))

	now := time.Now().UTC()
	if r.now != nil {
		now = r.now()
	}
	for _, w := range stale {
		review := notify.Review{
			WithdrawalID: w.Id,
			UserID:       w.UserId,
			Amount:       w.Amount,
			CreatedAt:    w.CreatedAt,
			PendingFor:   now.Sub(w.CreatedAt).Round(time.Minute).String(),
		}
		if err := r.reviews.RequestReview(ctx, review); err != nil {
			log.Printf("ERROR: failed to request review for withdrawal %s: %v", w.Id, err)
			continue
		}
		log.Printf("Requested review for withdrawal %s", w.Id)
	}

	log.Println("Reconciliation finished.")
	return nil
}
