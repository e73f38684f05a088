package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/coin-rewards-ledger/pkg/economy"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
)

// Decision is a back-office verdict on a withdrawal request.
type Decision struct {
	RequestID string `json:"request_id"`
	Action    string `json:"action"`
	Note      string `json:"note"`
}

const (
	actionApprove = "approve"
	actionReject  = "reject"
)

type adjudicator struct {
	service *economy.Service
}

// HandleRequest applies each decision in the batch. Decisions that can never
// succeed are logged and dropped; any other failure returns an error so SQS
// redelivers the batch. Redelivered decisions that already took effect are
// acknowledged.
func (a *adjudicator) HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var d Decision
		if err := json.Unmarshal([]byte(message.Body), &d); err != nil {
			log.Printf("ERROR: dropping malformed decision in message %s: %v", message.MessageId, err)
			continue
		}

		err := a.apply(ctx, d)
		switch {
		case err == nil:
			log.Printf("Successfully applied %s to withdrawal %s", d.Action, d.RequestID)
		case errors.Is(err, storage.ErrAlreadyProcessed):
			log.Printf("Withdrawal %s already processed, acknowledging", d.RequestID)
		case permanent(err):
			log.Printf("ERROR: dropping decision for withdrawal %s: %v", d.RequestID, err)
		default:
			log.Printf("ERROR: failed to %s withdrawal %s: %v", d.Action, d.RequestID, err)
			return err
		}
	}

	return nil
}

func (a *adjudicator) apply(ctx context.Context, d Decision) error {
	var err error
	switch d.Action {
	case actionApprove:
		_, err = a.service.ApproveWithdrawal(ctx, economy.SystemAdmin, d.RequestID, d.Note)
	case actionReject:
		_, err = a.service.RejectWithdrawal(ctx, economy.SystemAdmin, d.RequestID, d.Note)
	default:
		err = fmt.Errorf("%w: unknown action %q", storage.ErrValidation, d.Action)
	}
	return err
}

func permanent(err error) bool {
	return errors.Is(err, storage.ErrValidation) ||
		errors.Is(err, storage.ErrWithdrawalNotFound) ||
		errors.Is(err, storage.ErrLockedAmountMismatch)
}
