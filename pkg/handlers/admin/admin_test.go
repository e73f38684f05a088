package admin_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/api"
	"github.com/chris/coin-rewards-ledger/pkg/economy"
	"github.com/chris/coin-rewards-ledger/pkg/handlers/admin"
	"github.com/chris/coin-rewards-ledger/pkg/middleware"
	"github.com/chris/coin-rewards-ledger/pkg/models"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
	"github.com/chris/coin-rewards-ledger/pkg/storage/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	ops       = economy.Identity{UserID: "ops", IsAdmin: true}
	requestID = uuid.MustParse("0d6a1f3e-5b7c-4e21-9a8d-2c4f6b8e0a13")
)

func as(req *http.Request, id economy.Identity) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), id))
}

func TestApproveWithdrawal(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		resolved := time.Now().UTC()
		mockStorage := new(mocks.Storage)
		mockStorage.On("ApproveWithdrawal", mock.Anything, mock.MatchedBy(func(r storage.Resolution) bool {
			return r.RequestID == requestID.String() && r.Note == "paid via bank"
		})).Return(&models.Withdrawal{Id: requestID.String(), UserId: "user-a", Amount: 25, Status: models.PAID, Notes: "paid via bank", ResolvedAt: &resolved}, nil)

		h := admin.NewAdminHandler(economy.New(mockStorage))

		note := "paid via bank"
		body, _ := json.Marshal(api.Resolution{Note: &note})
		req := as(httptest.NewRequest(http.MethodPost, "/admin/withdrawals/x/approve", bytes.NewReader(body)), ops)
		rr := httptest.NewRecorder()

		h.ApproveWithdrawal(rr, req, requestID)

		require.Equal(t, http.StatusOK, rr.Code)
		var got api.Withdrawal
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, api.Paid, got.Status)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Empty Body", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("ApproveWithdrawal", mock.Anything, mock.Anything).
			Return(&models.Withdrawal{Id: requestID.String(), Status: models.PAID}, nil)

		h := admin.NewAdminHandler(economy.New(mockStorage))

		req := as(httptest.NewRequest(http.MethodPost, "/admin/withdrawals/x/approve", nil), ops)
		rr := httptest.NewRecorder()

		h.ApproveWithdrawal(rr, req, requestID)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Error Statuses", func(t *testing.T) {
		cases := map[error]int{
			storage.ErrWithdrawalNotFound:   http.StatusNotFound,
			storage.ErrAlreadyProcessed:     http.StatusConflict,
			storage.ErrLockedAmountMismatch: http.StatusConflict,
		}
		for storeErr, status := range cases {
			mockStorage := new(mocks.Storage)
			mockStorage.On("ApproveWithdrawal", mock.Anything, mock.Anything).Return(nil, storeErr)

			h := admin.NewAdminHandler(economy.New(mockStorage))

			req := as(httptest.NewRequest(http.MethodPost, "/admin/withdrawals/x/approve", nil), ops)
			rr := httptest.NewRecorder()

			h.ApproveWithdrawal(rr, req, requestID)

			assert.Equal(t, status, rr.Code, storeErr.Error())
		}
	})

	t.Run("Non Admin Forbidden", func(t *testing.T) {
		mockStorage := new(mocks.Storage)

		h := admin.NewAdminHandler(economy.New(mockStorage))

		req := as(httptest.NewRequest(http.MethodPost, "/admin/withdrawals/x/approve", nil), economy.Identity{UserID: "user-a"})
		rr := httptest.NewRecorder()

		h.ApproveWithdrawal(rr, req, requestID)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		mockStorage.AssertNotCalled(t, "ApproveWithdrawal", mock.Anything, mock.Anything)
	})
}

func TestRejectWithdrawal(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("RejectWithdrawal", mock.Anything, mock.MatchedBy(func(r storage.Resolution) bool {
			return r.RequestID == requestID.String() && r.Note == "bad destination"
		})).Return(&models.Withdrawal{Id: requestID.String(), UserId: "user-a", Amount: 25, Status: models.REJECTED}, nil)

		h := admin.NewAdminHandler(economy.New(mockStorage))

		note := "bad destination"
		body, _ := json.Marshal(api.Resolution{Note: &note})
		req := as(httptest.NewRequest(http.MethodPost, "/admin/withdrawals/x/reject", bytes.NewReader(body)), ops)
		rr := httptest.NewRecorder()

		h.RejectWithdrawal(rr, req, requestID)

		require.Equal(t, http.StatusOK, rr.Code)
		var got api.Withdrawal
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, api.Rejected, got.Status)
		mockStorage.AssertExpectations(t)
	})
}

func TestCreateRedeemCode(t *testing.T) {
	t.Run("Applies Defaults", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("CreateRedeemCode", mock.Anything, mock.MatchedBy(func(c *models.RedeemCode) bool {
			return c.Code == "WELCOME" && c.AmountMin == 1 && c.AmountMax == 10 && c.UsesLeft == 1
		})).Return(func(_ context.Context, c *models.RedeemCode) *models.RedeemCode { return c }, nil)

		h := admin.NewAdminHandler(economy.New(mockStorage))

		body, _ := json.Marshal(api.NewRedeemCode{Code: "WELCOME"})
		req := as(httptest.NewRequest(http.MethodPost, "/admin/redeem-codes", bytes.NewReader(body)), ops)
		rr := httptest.NewRecorder()

		h.CreateRedeemCode(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		var got api.RedeemCode
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, int64(10), got.AmountMax)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Duplicate", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("CreateRedeemCode", mock.Anything, mock.Anything).Return(nil, storage.ErrCodeExists)

		h := admin.NewAdminHandler(economy.New(mockStorage))

		body, _ := json.Marshal(api.NewRedeemCode{Code: "WELCOME"})
		req := as(httptest.NewRequest(http.MethodPost, "/admin/redeem-codes", bytes.NewReader(body)), ops)
		rr := httptest.NewRecorder()

		h.CreateRedeemCode(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Inverted Range", func(t *testing.T) {
		lo, hi := int64(8), int64(2)
		h := admin.NewAdminHandler(economy.New(new(mocks.Storage)))

		body, _ := json.Marshal(api.NewRedeemCode{Code: "BAD", AmountMin: &lo, AmountMax: &hi})
		req := as(httptest.NewRequest(http.MethodPost, "/admin/redeem-codes", bytes.NewReader(body)), ops)
		rr := httptest.NewRecorder()

		h.CreateRedeemCode(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAdjustCoins(t *testing.T) {
	t.Run("Grant", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("Adjust", mock.Anything, mock.MatchedBy(func(a storage.Adjustment) bool {
			return a.UserID == "user-a" && a.DeltaCoins == 40 && a.Reason == models.ReasonAdminGrant
		})).Return(&models.Wallet{UserId: "user-a", Coins: 40}, nil)

		h := admin.NewAdminHandler(economy.New(mockStorage))

		body, _ := json.Marshal(api.Adjustment{Amount: 40})
		req := as(httptest.NewRequest(http.MethodPost, "/admin/wallets/user-a/grant", bytes.NewReader(body)), ops)
		rr := httptest.NewRecorder()

		h.GrantCoins(rr, req, "user-a")

		require.Equal(t, http.StatusOK, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Deduct Insufficient", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("Adjust", mock.Anything, mock.MatchedBy(func(a storage.Adjustment) bool {
			return a.DeltaCoins == -40 && a.Reason == models.ReasonAdminDeduct && a.Precondition != nil
		})).Return(nil, storage.ErrInsufficientFunds)

		h := admin.NewAdminHandler(economy.New(mockStorage))

		body, _ := json.Marshal(api.Adjustment{Amount: 40})
		req := as(httptest.NewRequest(http.MethodPost, "/admin/wallets/user-a/deduct", bytes.NewReader(body)), ops)
		rr := httptest.NewRecorder()

		h.DeductCoins(rr, req, "user-a")

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Negative Grant", func(t *testing.T) {
		h := admin.NewAdminHandler(economy.New(new(mocks.Storage)))

		body, _ := json.Marshal(api.Adjustment{Amount: -5})
		req := as(httptest.NewRequest(http.MethodPost, "/admin/wallets/user-a/grant", bytes.NewReader(body)), ops)
		rr := httptest.NewRecorder()

		h.GrantCoins(rr, req, "user-a")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
