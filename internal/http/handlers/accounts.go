package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aigate/internal/listing"
	"aigate/internal/services/accounts"
)

// ListAccounts serves one page of accounts
func ListAccounts(svc *accounts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := listQuery(r, "status", "group")
		items, total, err := svc.List(r.Context(), q)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listing.NewPage(items, q, total))
	}
}

// CreateAccount creates an account and returns its plaintext API key once
func CreateAccount(svc *accounts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accounts.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		result, err := svc.Create(r.Context(), req)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}

// GetAccount serves one account by id
func GetAccount(svc *accounts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		a, err := svc.Get(r.Context(), id)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// UpdateAccount applies a partial update to one account
func UpdateAccount(svc *accounts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var req accounts.UpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		a, err := svc.Update(r.Context(), id, req)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// DeleteAccount removes one account
func DeleteAccount(svc *accounts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			serviceFailure(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RegenerateAccountKey replaces the account's API key
func RegenerateAccountKey(svc *accounts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		apiKey, err := svc.RegenerateKey(r.Context(), id)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"apiKey": apiKey})
	}
}
