package withdrawals_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/api"
	"github.com/chris/coin-rewards-ledger/pkg/economy"
	"github.com/chris/coin-rewards-ledger/pkg/handlers/withdrawals"
	"github.com/chris/coin-rewards-ledger/pkg/middleware"
	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
	"github.com/chris/coin-rewards-ledger/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const requestID = "0d6a1f3e-5b7c-4e21-9a8d-2c4f6b8e0a13"

func asUser(req *http.Request, id economy.Identity) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), id))
}

func TestCreateWithdrawal(t *testing.T) {
	name := "Asha"
	newWithdrawal := api.NewWithdrawal{Amount: 25, Destination: "asha@upi", Name: &name}

	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("CreateWithdrawal", mock.Anything, mock.MatchedBy(func(w *models.Withdrawal) bool {
			return w.UserId == "user-a" && w.Amount == 25 && w.Destination == "asha@upi" && w.Name == "Asha"
		})).Return(&models.Withdrawal{Id: requestID, UserId: "user-a", Amount: 25, Destination: "asha@upi", Name: "Asha", Status: models.PENDING, CreatedAt: time.Now()}, nil)

		h := withdrawals.NewWithdrawalsHandler(economy.New(mockStorage))

		body, _ := json.Marshal(newWithdrawal)
		req := asUser(httptest.NewRequest(http.MethodPost, "/withdrawals", bytes.NewReader(body)), economy.Identity{UserID: "user-a"})
		rr := httptest.NewRecorder()

		h.CreateWithdrawal(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		var got api.Withdrawal
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, api.Pending, got.Status)
		assert.Equal(t, requestID, got.Id.String())
		mockStorage.AssertExpectations(t)
	})

	t.Run("Below Minimum", func(t *testing.T) {
		mockStorage := new(mocks.Storage)

		h := withdrawals.NewWithdrawalsHandler(economy.New(mockStorage))

		body, _ := json.Marshal(api.NewWithdrawal{Amount: 19, Destination: "asha@upi"})
		req := asUser(httptest.NewRequest(http.MethodPost, "/withdrawals", bytes.NewReader(body)), economy.Identity{UserID: "user-a"})
		rr := httptest.NewRecorder()

		h.CreateWithdrawal(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStorage.AssertNotCalled(t, "CreateWithdrawal", mock.Anything, mock.Anything)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("CreateWithdrawal", mock.Anything, mock.Anything).Return(nil, storage.ErrInsufficientFunds)

		h := withdrawals.NewWithdrawalsHandler(economy.New(mockStorage))

		body, _ := json.Marshal(newWithdrawal)
		req := asUser(httptest.NewRequest(http.MethodPost, "/withdrawals", bytes.NewReader(body)), economy.Identity{UserID: "user-a"})
		rr := httptest.NewRecorder()

		h.CreateWithdrawal(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}

func TestListWithdrawalsByUserId(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("ListWithdrawalsByUserID", mock.Anything, "user-a", int32(50)).
			Return([]models.Withdrawal{{Id: requestID, UserId: "user-a", Amount: 25, Status: models.PAID}}, nil)

		h := withdrawals.NewWithdrawalsHandler(economy.New(mockStorage))

		req := asUser(httptest.NewRequest(http.MethodGet, "/withdrawals/user/user-a", nil), economy.Identity{UserID: "user-a"})
		rr := httptest.NewRecorder()

		h.ListWithdrawalsByUserId(rr, req, "user-a")

		require.Equal(t, http.StatusOK, rr.Code)
		var got []api.Withdrawal
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Equal(t, api.Paid, got[0].Status)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Other User Forbidden", func(t *testing.T) {
		h := withdrawals.NewWithdrawalsHandler(economy.New(new(mocks.Storage)))

		req := asUser(httptest.NewRequest(http.MethodGet, "/withdrawals/user/user-a", nil), economy.Identity{UserID: "user-b"})
		rr := httptest.NewRecorder()

		h.ListWithdrawalsByUserId(rr, req, "user-a")

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
