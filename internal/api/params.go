package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/mistakeflash/internal/errors"
)

func userIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequestError("invalid user id")
	}
	return id, nil
}

// itemKeyParam decodes the key once. chi routes on RawPath when the request
// carried escapes such as %2F, and on the already decoded Path otherwise.
func itemKeyParam(r *http.Request) (string, error) {
	key := chi.URLParam(r, "itemKey")
	if r.URL.RawPath != "" {
		var err error
		if key, err = url.PathUnescape(key); err != nil {
			return "", errors.NewBadRequestError("invalid item key")
		}
	}
	if key == "" {
		return "", errors.NewBadRequestError("invalid item key")
	}
	return key, nil
}

// limitParam returns 0 when absent, leaving the default to the service.
func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewBadRequestError("invalid limit")
	}
	return n, nil
}
