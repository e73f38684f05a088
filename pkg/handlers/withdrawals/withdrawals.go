package withdrawals

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chris/coin-rewards-ledger/pkg/api"
	"github.com/chris/coin-rewards-ledger/pkg/economy"
	"github.com/chris/coin-rewards-ledger/pkg/mapping"
	"github.com/chris/coin-rewards-ledger/pkg/middleware"
)

// WithdrawalsHandler serves user-facing withdrawal requests.
type WithdrawalsHandler struct {
	Service *economy.Service
}

// NewWithdrawalsHandler creates a new WithdrawalsHandler.
func NewWithdrawalsHandler(svc *economy.Service) *WithdrawalsHandler {
	return &WithdrawalsHandler{Service: svc}
}

// CreateWithdrawal locks coins against a new payout request.
func (h *WithdrawalsHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.Caller(w, r)
	if !ok {
		return
	}

	var newWithdrawal api.NewWithdrawal
	if err := json.NewDecoder(r.Body).Decode(&newWithdrawal); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	req := economy.WithdrawalRequest{
		Amount:      newWithdrawal.Amount,
		Destination: newWithdrawal.Destination,
	}
	if newWithdrawal.Name != nil {
		req.Name = *newWithdrawal.Name
	}

	created, err := h.Service.RequestWithdrawal(r.Context(), id, req)
	if err != nil {
		api.WriteError(w, "create withdrawal", err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, mapping.ToApiWithdrawal(created))
}

// ListWithdrawalsByUserId returns a user's requests, newest first.
func (h *WithdrawalsHandler) ListWithdrawalsByUserId(w http.ResponseWriter, r *http.Request, userId string) {
	id, ok := middleware.Caller(w, r)
	if !ok {
		return
	}

	list, err := h.Service.ListWithdrawals(r.Context(), id, userId)
	if err != nil {
		api.WriteError(w, "retrieve withdrawals", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiWithdrawals(list))
}
