package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/paperdesk/paperdesk-backend/internal/domain"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// writeDomainError maps ledger/store errors to HTTP statuses. Error messages
// already carry the amounts and symbols a caller needs to act on.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		fundsErr      *domain.InsufficientFundsError
		sharesErr     *domain.InsufficientSharesError
		symbolErr     *domain.InvalidSymbolError
		oracleErr     *domain.OracleUnavailableError
	)

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation_failed", validationErr.Error())
	case errors.As(err, &fundsErr):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_funds", fundsErr.Error())
	case errors.As(err, &sharesErr):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_shares", sharesErr.Error())
	case errors.As(err, &symbolErr):
		writeError(w, http.StatusUnprocessableEntity, "invalid_symbol", symbolErr.Error())
	case errors.As(err, &oracleErr):
		writeError(w, http.StatusBadGateway, "oracle_unavailable", oracleErr.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "account_not_found", err.Error())
	case errors.Is(err, domain.ErrAccountExists):
		writeError(w, http.StatusConflict, "account_exists", err.Error())
	default:
		slog.Error("unhandled domain error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
	}
}
