package api

import (
	"encoding/json"
	"net/http"

	"github.com/vytor/mistakeflash/internal/errors"
	"github.com/vytor/mistakeflash/internal/logger"
	"github.com/vytor/mistakeflash/internal/models"
)

type recordMistakeRequest struct {
	ItemKey       string `json:"item_key"`
	WrongAnswer   string `json:"wrong_answer"`
	CorrectAnswer string `json:"correct_answer"`
	LessonID      string `json:"lesson_id"`
	Context       string `json:"context"`
}

type reviewRequest struct {
	Quality *int `json:"quality"`
}

type reviewResponse struct {
	Found  bool                 `json:"found"`
	Result *models.ReviewResult `json:"result,omitempty"`
}

func (s *Server) handleRecordMistake(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req recordMistakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.FromContext(r.Context()).Warn("invalid mistake body: %v", err)
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	id, err := s.Mistakes.RecordMistake(r.Context(), models.MistakeEvent{
		UserID:        userID,
		ItemKey:       req.ItemKey,
		WrongAnswer:   req.WrongAnswer,
		CorrectAnswer: req.CorrectAnswer,
		LessonID:      req.LessonID,
		Context:       req.Context,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUserMistakes(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := limitParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.Mistakes.GetUserMistakes(r.Context(), userID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleDueMistakes(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := limitParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.Mistakes.GetDueMistakes(r.Context(), userID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleGetMistake(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	itemKey, err := itemKeyParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Mistakes.GetMistake(r.Context(), userID, itemKey)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	itemKey, err := itemKeyParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quality == nil {
		log.Warn("invalid review body")
		handleError(w, r, errors.NewBadRequestError("quality is required"))
		return
	}

	res, err := s.Mistakes.UpdateReviewResult(r.Context(), userID, itemKey, *req.Quality)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if res == nil {
		writeJSON(w, http.StatusOK, reviewResponse{Found: false})
		return
	}
	writeJSON(w, http.StatusOK, reviewResponse{Found: true, Result: res})
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := limitParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	items, err := s.Mistakes.GetReviewQuiz(r.Context(), userID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleReviewHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := limitParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logs, err := s.Mistakes.ListReviewHistory(r.Context(), userID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
