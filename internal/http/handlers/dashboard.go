package handlers

import (
	"net/http"

	"aigate/internal/services/dashboard"
)

// Dashboard serves today's gateway-wide aggregates
func Dashboard(svc *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			serviceFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
