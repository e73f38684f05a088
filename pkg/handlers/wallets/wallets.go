package wallets

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chris/coin-rewards-ledger/pkg/api"
	"github.com/chris/coin-rewards-ledger/pkg/economy"
	"github.com/chris/coin-rewards-ledger/pkg/mapping"
	"github.com/chris/coin-rewards-ledger/pkg/middleware"
)

// WalletsHandler holds the dependencies for wallet-related handlers.
type WalletsHandler struct {
	Service *economy.Service
}

// NewWalletsHandler creates a new WalletsHandler.
func NewWalletsHandler(svc *economy.Service) *WalletsHandler {
	return &WalletsHandler{Service: svc}
}

// GetWalletByUserId returns a user's balances. A wallet that was never
// written reads as zero.
func (h *WalletsHandler) GetWalletByUserId(w http.ResponseWriter, r *http.Request, userId string) {
	id, ok := middleware.Caller(w, r)
	if !ok {
		return
	}

	wallet, err := h.Service.GetWallet(r.Context(), id, userId)
	if err != nil {
		api.WriteError(w, "retrieve wallet", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiWallet(wallet))
}

// ListTransactions returns the wallet's ledger entries, newest first.
func (h *WalletsHandler) ListTransactions(w http.ResponseWriter, r *http.Request, userId string) {
	id, ok := middleware.Caller(w, r)
	if !ok {
		return
	}

	entries, err := h.Service.ListTransactions(r.Context(), id, userId)
	if err != nil {
		api.WriteError(w, "retrieve transactions", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiLedgerEntries(entries))
}

// ListInbox returns the user's inbox messages, newest first.
func (h *WalletsHandler) ListInbox(w http.ResponseWriter, r *http.Request, userId string) {
	id, ok := middleware.Caller(w, r)
	if !ok {
		return
	}

	msgs, err := h.Service.ListInbox(r.Context(), id, userId)
	if err != nil {
		api.WriteError(w, "retrieve inbox", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiInboxMessages(msgs))
}

// SpendCoins debits the caller's own wallet.
func (h *WalletsHandler) SpendCoins(w http.ResponseWriter, r *http.Request, userId string) {
	id, ok := middleware.Caller(w, r)
	if !ok {
		return
	}

	var body api.Adjustment
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	var note string
	if body.Note != nil {
		note = *body.Note
	}

	wallet, err := h.Service.Spend(r.Context(), id, userId, body.Amount, note)
	if err != nil {
		api.WriteError(w, "spend coins", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiWallet(wallet))
}
