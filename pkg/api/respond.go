package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/chris/coin-rewards-ledger/pkg/economy"
	"github.com/chris/coin-rewards-ledger/pkg/storage"
)

// RetryAfterSeconds is advertised when a unit exhausted its conflict retries.
const RetryAfterSeconds = 1

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// WriteMessage writes an Error body with the given status.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Error{Message: msg})
}

// WriteError maps err to a status code and writes it. action names what
// failed, e.g. "redeem code".
func WriteError(w http.ResponseWriter, action string, err error) {
	var cooldown *storage.CooldownError
	switch {
	case errors.As(err, &cooldown):
		wait := cooldown.Remaining.Milliseconds()
		WriteJSON(w, http.StatusTooManyRequests, Error{Message: err.Error(), WaitMs: &wait})
	case errors.Is(err, storage.ErrConflict):
		w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
		WriteMessage(w, http.StatusServiceUnavailable, fmt.Sprintf("Failed to %s: %v", action, err))
	default:
		status := StatusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			slog.Error("request failed", "action", action, "error", err)
			msg = fmt.Sprintf("Failed to %s: %v", action, err)
		}
		WriteMessage(w, status, msg)
	}
}

// StatusFor returns the HTTP status for an economy or storage error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrValidation), errors.Is(err, storage.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, economy.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrInvalidCode), errors.Is(err, storage.ErrWithdrawalNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrAlreadyProcessed),
		errors.Is(err, storage.ErrCodeExhausted),
		errors.Is(err, storage.ErrCodeExpired),
		errors.Is(err, storage.ErrCodeExists),
		errors.Is(err, storage.ErrLockedAmountMismatch):
		return http.StatusConflict
	case errors.Is(err, storage.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrCooldown):
		return http.StatusTooManyRequests
	case errors.Is(err, storage.ErrConflict):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
