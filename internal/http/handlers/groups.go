package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aigate/internal/domain/group"
	"aigate/internal/listing"
	"aigate/internal/store/repositories"
)

type groupPayload struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"rateMultiplier"`
	RouteTag   string  `json:"routeTag"`
}

// ListGroups serves one page of groups
func ListGroups(repo repositories.GroupRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := listQuery(r, "routeTag")
		items, total, err := repo.List(r.Context(), q)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listing.NewPage(items, q, total))
	}
}

// CreateGroup creates a group
func CreateGroup(repo repositories.GroupRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req groupPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		g, err := group.New(req.Name, req.Multiplier, req.RouteTag)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := repo.Save(r.Context(), g); err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, g)
	}
}

// GetGroup serves one group by id
func GetGroup(repo repositories.GroupRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		g, err := repo.FindByID(r.Context(), id)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

// UpdateGroup replaces a group's editable fields
func UpdateGroup(repo repositories.GroupRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		g, err := repo.FindByID(r.Context(), id)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		var req groupPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		fresh, err := group.New(req.Name, req.Multiplier, req.RouteTag)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		g.Name, g.Multiplier, g.RouteTag = fresh.Name, fresh.Multiplier, fresh.RouteTag
		if err := repo.Save(r.Context(), g); err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

// DeleteGroup removes one group
func DeleteGroup(repo repositories.GroupRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		if err := repo.Delete(r.Context(), id); err != nil {
			serviceFailure(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
