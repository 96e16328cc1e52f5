package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Post("/mistakes", s.handleRecordMistake)
		r.Get("/mistakes", s.handleUserMistakes)
		r.Get("/mistakes/due", s.handleDueMistakes)
		r.Get("/mistakes/{itemKey}", s.handleGetMistake)
		r.With(s.rateLimitMiddleware).Post("/mistakes/{itemKey}/review", s.handleReview)
		r.Get("/quiz", s.handleQuiz)
		r.Get("/stats", s.handleStats)
		r.Get("/reviews", s.handleReviewHistory)
	})
	return r
}
