package api

import (
	"net/http"
	"strconv"

	"github.com/vytor/mistakeflash/internal/models"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cached, _ := strconv.ParseBool(r.URL.Query().Get("cached"))

	var stats *models.MistakeStats
	if cached {
		stats, err = s.Stats.GetCachedStats(r.Context(), userID)
	} else {
		stats, err = s.Stats.GetStats(r.Context(), userID)
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
