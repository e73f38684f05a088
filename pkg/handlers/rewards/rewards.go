package rewards

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chris/coin-rewards-ledger/pkg/api"
	"github.com/chris/coin-rewards-ledger/pkg/economy"
	"github.com/chris/coin-rewards-ledger/pkg/mapping"
	"github.com/chris/coin-rewards-ledger/pkg/middleware"
)

// RewardsHandler serves the daily bonus and redeem codes.
type RewardsHandler struct {
	Service *economy.Service
	Now     func() time.Time
}

// NewRewardsHandler creates a new RewardsHandler.
func NewRewardsHandler(svc *economy.Service) *RewardsHandler {
	return &RewardsHandler{Service: svc, Now: func() time.Time { return time.Now().UTC() }}
}

// ClaimDailyBonus credits the caller's daily bonus.
func (h *RewardsHandler) ClaimDailyBonus(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.Caller(w, r)
	if !ok {
		return
	}

	res, err := h.Service.ClaimDaily(r.Context(), id, h.Now())
	if err != nil {
		api.WriteError(w, "claim daily bonus", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiRewardResult(res.Amount, &res.Wallet))
}

// RedeemCode credits the caller with a redeem code's reward.
func (h *RewardsHandler) RedeemCode(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.Caller(w, r)
	if !ok {
		return
	}

	var req api.RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	res, err := h.Service.Redeem(r.Context(), id, req.Code, h.Now())
	if err != nil {
		api.WriteError(w, "redeem code", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiRewardResult(res.Amount, &res.Wallet))
}
