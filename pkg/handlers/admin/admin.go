// Package admin serves back-office operations. Every handler requires an
// admin identity; the service enforces it.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/chris/coin-rewards-ledger/pkg/api"
	"github.com/chris/coin-rewards-ledger/pkg/economy"
	"github.com/chris/coin-rewards-ledger/pkg/mapping"
	"github.com/chris/coin-rewards-ledger/pkg/middleware"
	"github.com/chris/coin-rewards-ledger/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// AdminHandler holds the dependencies for admin handlers.
type AdminHandler struct {
	Service *economy.Service
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc *economy.Service) *AdminHandler {
	return &AdminHandler{Service: svc}
}

// ApproveWithdrawal marks a pending request paid.
func (h *AdminHandler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request, requestId openapi_types.UUID) {
	id, ok := middleware.Caller(w, r)
	if !ok {
		return
	}

	var body api.Resolution
	if err := decodeOptional(r, &body); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	resolved, err := h.Service.ApproveWithdrawal(r.Context(), id, requestId.String(), deref(body.Note))
	if err != nil {
		api.WriteError(w, "approve withdrawal", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiWithdrawal(resolved))
}

// RejectWithdrawal marks a pending request rejected and refunds the coins.
func (h *AdminHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request, requestId openapi_types.UUID) {
	id, ok := middleware.Caller(w, r)
	if !ok {
		return
	}

	var body api.Resolution
	if err := decodeOptional(r, &body); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	resolved, err := h.Service.RejectWithdrawal(r.Context(), id, requestId.String(), deref(body.Note))
	if err != nil {
		api.WriteError(w, "reject withdrawal", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiWithdrawal(resolved))
}

// CreateRedeemCode issues a redeem code.
func (h *AdminHandler) CreateRedeemCode(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.Caller(w, r)
	if !ok {
		return
	}

	var newCode api.NewRedeemCode
	if err := json.NewDecoder(r.Body).Decode(&newCode); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	code, err := h.Service.CreateRedeemCode(r.Context(), id, economy.CodeRequest{
		Code:      newCode.Code,
		AmountMin: derefInt(newCode.AmountMin),
		AmountMax: derefInt(newCode.AmountMax),
		Uses:      derefInt(newCode.Uses),
		ExpiresAt: newCode.ExpiresAt,
	})
	if err != nil {
		api.WriteError(w, "create redeem code", err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, mapping.ToApiRedeemCode(code))
}

// GrantCoins credits a wallet.
func (h *AdminHandler) GrantCoins(w http.ResponseWriter, r *http.Request, userId string) {
	h.adjust(w, r, userId, "grant coins", h.Service.Grant)
}

// DeductCoins debits a wallet.
func (h *AdminHandler) DeductCoins(w http.ResponseWriter, r *http.Request, userId string) {
	h.adjust(w, r, userId, "deduct coins", h.Service.Deduct)
}

type adjustFunc func(ctx context.Context, id economy.Identity, userID string, amount int64, note string) (*models.Wallet, error)

func (h *AdminHandler) adjust(w http.ResponseWriter, r *http.Request, userId, action string, fn adjustFunc) {
	id, ok := middleware.Caller(w, r)
	if !ok {
		return
	}

	var body api.Adjustment
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	wallet, err := fn(r.Context(), id, userId, body.Amount, deref(body.Note))
	if err != nil {
		api.WriteError(w, action, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiWallet(wallet))
}

// decodeOptional decodes a JSON body that may be empty.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}
