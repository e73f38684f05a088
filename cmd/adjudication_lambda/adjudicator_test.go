package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/coin-rewards-ledger/pkg/economy"
	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
	"github.com/chris/coin-rewards-ledger/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func event(t *testing.T, decisions ...Decision) events.SQSEvent {
	t.Helper()
	var ev events.SQSEvent
	for i, d := range decisions {
		body, err := json.Marshal(d)
		assert.NoError(t, err)
		ev.Records = append(ev.Records, events.SQSMessage{MessageId: string(rune('a' + i)), Body: string(body)})
	}
	return ev
}

func TestHandleRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("Approve And Reject", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("ApproveWithdrawal", mock.Anything, mock.MatchedBy(func(r storage.Resolution) bool {
			return r.RequestID == "req-1" && r.Note == "ok"
		})).Return(&models.Withdrawal{Id: "req-1", Status: models.PAID}, nil)
		mockStorage.On("RejectWithdrawal", mock.Anything, mock.MatchedBy(func(r storage.Resolution) bool {
			return r.RequestID == "req-2"
		})).Return(&models.Withdrawal{Id: "req-2", Status: models.REJECTED}, nil)

		a := &adjudicator{service: economy.New(mockStorage)}

		err := a.HandleRequest(ctx, event(t,
			Decision{RequestID: "req-1", Action: "approve", Note: "ok"},
			Decision{RequestID: "req-2", Action: "reject"},
		))

		assert.NoError(t, err)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Redelivery Is Acknowledged", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("ApproveWithdrawal", mock.Anything, mock.Anything).Return(nil, storage.ErrAlreadyProcessed)

		a := &adjudicator{service: economy.New(mockStorage)}

		err := a.HandleRequest(ctx, event(t, Decision{RequestID: "req-1", Action: "approve"}))

		assert.NoError(t, err)
	})

	t.Run("Permanent Failures Are Dropped", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("RejectWithdrawal", mock.Anything, mock.Anything).Return(nil, storage.ErrWithdrawalNotFound)

		a := &adjudicator{service: economy.New(mockStorage)}

		ev := event(t,
			Decision{RequestID: "req-1", Action: "cancel"},
			Decision{RequestID: "req-2", Action: "reject"},
		)
		ev.Records = append(ev.Records, events.SQSMessage{MessageId: "bad", Body: "{"})

		assert.NoError(t, a.HandleRequest(ctx, ev))
	})

	t.Run("Conflict Is Retried", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("ApproveWithdrawal", mock.Anything, mock.Anything).Return(nil, storage.ErrConflict)

		a := &adjudicator{service: economy.New(mockStorage)}

		err := a.HandleRequest(ctx, event(t, Decision{RequestID: "req-1", Action: "approve"}))

		assert.ErrorIs(t, err, storage.ErrConflict)
	})
}
