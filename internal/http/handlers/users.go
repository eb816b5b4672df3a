package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aigate/internal/domain/user"
	middlewarex "aigate/internal/http/middleware"
	"aigate/internal/listing"
	"aigate/internal/services/auth"
	"aigate/internal/store/repositories"
)

// ListUsers serves one page of console users
func ListUsers(repo repositories.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := listQuery(r, "role", "status")
		items, total, err := repo.List(r.Context(), q)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listing.NewPage(items, q, total))
	}
}

// CreateUser creates a console user
func CreateUser(repo repositories.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email       string    `json:"email"`
			DisplayName string    `json:"displayName"`
			Role        user.Role `json:"role"`
			Password    string    `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		u, err := user.New(req.Email, req.DisplayName, req.Role)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		u.PasswordHash, err = auth.HashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := repo.Save(r.Context(), u); err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, u)
	}
}

// GetUser serves one console user by id
func GetUser(repo repositories.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		u, err := repo.FindByID(r.Context(), id)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

// UpdateUser updates a console user's role, status, display name, or password
func UpdateUser(repo repositories.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		u, err := repo.FindByID(r.Context(), id)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		var req struct {
			DisplayName *string      `json:"displayName"`
			Role        *user.Role   `json:"role"`
			Status      *user.Status `json:"status"`
			Password    *string      `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if req.DisplayName != nil {
			u.DisplayName = *req.DisplayName
		}
		if req.Role != nil {
			if !user.ValidRole(*req.Role) {
				writeError(w, http.StatusBadRequest, "unknown role")
				return
			}
			u.Role = *req.Role
		}
		if req.Status != nil {
			if *req.Status != user.StatusActive && *req.Status != user.StatusDisabled {
				writeError(w, http.StatusBadRequest, "unknown status")
				return
			}
			u.Status = *req.Status
		}
		if req.Password != nil {
			u.PasswordHash, err = auth.HashPassword(*req.Password)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		if err := repo.Save(r.Context(), u); err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

// DeleteUser removes one console user. A session cannot delete itself.
func DeleteUser(repo repositories.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		if claims, ok := middlewarex.ClaimsFrom(r.Context()); ok && claims.UserID == id {
			writeError(w, http.StatusBadRequest, "cannot delete your own user")
			return
		}
		if err := repo.Delete(r.Context(), id); err != nil {
			serviceFailure(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
