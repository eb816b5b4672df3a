package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"aigate/internal/domain/announcement"
	"aigate/internal/listing"
	"aigate/internal/store/repositories"
)

type announcementPayload struct {
	Title    string             `json:"title"`
	Body     string             `json:"body"`
	Level    announcement.Level `json:"level"`
	StartsAt time.Time          `json:"startsAt"`
	EndsAt   *time.Time         `json:"endsAt"`
}

// ListAnnouncements serves one page of announcements
func ListAnnouncements(repo repositories.AnnouncementRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := listQuery(r, "level")
		items, total, err := repo.List(r.Context(), q)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listing.NewPage(items, q, total))
	}
}

// CreateAnnouncement creates an announcement
func CreateAnnouncement(repo repositories.AnnouncementRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req announcementPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		a, err := announcement.New(req.Title, req.Body, req.Level, req.StartsAt, req.EndsAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := repo.Save(r.Context(), a); err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}

// GetAnnouncement serves one announcement by id
func GetAnnouncement(repo repositories.AnnouncementRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		a, err := repo.FindByID(r.Context(), id)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// UpdateAnnouncement replaces an announcement's editable fields
func UpdateAnnouncement(repo repositories.AnnouncementRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		a, err := repo.FindByID(r.Context(), id)
		if err != nil {
			serviceFailure(w, err)
			return
		}
		var req announcementPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		fresh, err := announcement.New(req.Title, req.Body, req.Level, req.StartsAt, req.EndsAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.Title, a.Body, a.Level = fresh.Title, fresh.Body, fresh.Level
		a.StartsAt, a.EndsAt = fresh.StartsAt, fresh.EndsAt
		if err := repo.Save(r.Context(), a); err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// DeleteAnnouncement removes one announcement
func DeleteAnnouncement(repo repositories.AnnouncementRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
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
