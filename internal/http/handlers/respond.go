package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"aigate/internal/services/accounts"
	"aigate/internal/services/proxies"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// serviceFailure maps a service or repository error to an HTTP response:
// validation errors to 400, missing rows to 404, everything else to 500.
func serviceFailure(w http.ResponseWriter, err error) {
	var accVal *accounts.ValidationError
	var prxVal *proxies.ValidationError
	switch {
	case errors.As(err, &accVal), errors.As(err, &prxVal):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pgx.ErrNoRows):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
