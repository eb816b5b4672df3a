package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aigate/internal/listing"
	"aigate/internal/services/proxies"
	"aigate/internal/upstream"
)

// ListProxies serves one page of upstream proxy targets
func ListProxies(svc *proxies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := listQuery(r, "platform", "enabled")
		items, total, err := svc.List(r.Context(), q)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listing.NewPage(items, q, total))
	}
}

// CreateProxy creates a proxy target, rejecting unregistered platforms
func CreateProxy(svc *proxies.Service, registry *upstream.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req proxies.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if _, err := registry.Get(req.Platform); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p, err := svc.Create(r.Context(), req)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

// GetProxy serves one proxy target by id
func GetProxy(svc *proxies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		p, err := svc.Get(r.Context(), id)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// UpdateProxy applies a partial update to one proxy target
func UpdateProxy(svc *proxies.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		var req proxies.UpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		p, err := svc.Update(r.Context(), id, req)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// DeleteProxy removes one proxy target
func DeleteProxy(svc *proxies.Service) http.HandlerFunc {
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
