package api

import (
	"encoding/json"
	"net/http"

	"github.com/vytor/mistakeflash/internal/errors"
	"github.com/vytor/mistakeflash/internal/logger"
)

func errorBody(appErr *errors.AppError) map[string]any {
	return map[string]any{
		"error": map[string]any{
			"code":      appErr.Code,
			"message":   appErr.Message,
			"retryable": appErr.Retryable(),
		},
	}
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr := errors.As(err)

	switch {
	case appErr.Status >= 500:
		log.Error("server error: %v", appErr)
	case appErr.Status >= 400:
		log.Warn("client error: %v", appErr)
	default:
		log.Debug("error: %v", appErr)
	}

	if appErr.Code == errors.ErrCodeStorage {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, appErr.Status, errorBody(appErr))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
