package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	apperrors "github.com/vytor/mistakeflash/internal/errors"
	"github.com/vytor/mistakeflash/internal/logger"
	"github.com/vytor/mistakeflash/internal/models"
	"github.com/vytor/mistakeflash/internal/quiz"
	"github.com/vytor/mistakeflash/internal/repository"
	"github.com/vytor/mistakeflash/internal/srs"
)

// MistakeService handles mistake recording, scheduling and quiz building
type MistakeService interface {
	RecordMistake(ctx context.Context, e models.MistakeEvent) (int64, error)
	GetUserMistakes(ctx context.Context, userID int64, limit int) ([]models.Card, error)
	GetMistake(ctx context.Context, userID int64, itemKey string) (*models.Card, error)
	GetDueMistakes(ctx context.Context, userID int64, limit int) ([]models.Card, error)
	// UpdateReviewResult returns nil and no error when the user never missed itemKey.
	UpdateReviewResult(ctx context.Context, userID int64, itemKey string, quality int) (*models.ReviewResult, error)
	GetReviewQuiz(ctx context.Context, userID int64, limit int) ([]models.QuizItem, error)
	ListReviewHistory(ctx context.Context, userID int64, limit int) ([]models.ReviewLog, error)
}

// MistakeOption configures a MistakeService.
type MistakeOption func(*mistakeService)

// WithClock replaces the wall clock.
func WithClock(now Clock) MistakeOption {
	return func(s *mistakeService) { s.now = now }
}

// WithLimits sets the default and maximum list sizes.
func WithLimits(l Limits) MistakeOption {
	return func(s *mistakeService) { s.limits = l }
}

type mistakeService struct {
	cards   repository.CardRepository
	reviews repository.ReviewLogRepository
	now     Clock
	limits  Limits
}

// NewMistakeService creates a new MistakeService
func NewMistakeService(cards repository.CardRepository, reviews repository.ReviewLogRepository, opts ...MistakeOption) MistakeService {
	s := &mistakeService{
		cards:   cards,
		reviews: reviews,
		now:     systemClock,
		limits:  DefaultLimits,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validateUser(userID int64) error {
	if userID <= 0 {
		return apperrors.NewValidationError("user_id", "must be positive")
	}
	return nil
}

func validateItemKey(itemKey string) error {
	if strings.TrimSpace(itemKey) == "" {
		return apperrors.NewValidationError("item_key", "cannot be empty")
	}
	return nil
}

func (s *mistakeService) RecordMistake(ctx context.Context, e models.MistakeEvent) (int64, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"user_id": e.UserID, "item_key": e.ItemKey})
	log.Debug("recording mistake")

	if err := validateUser(e.UserID); err != nil {
		return 0, err
	}
	if err := validateItemKey(e.ItemKey); err != nil {
		return 0, err
	}

	id, err := s.cards.Upsert(ctx, srs.NewCard(e, s.now()))
	if err != nil {
		log.Error("failed to record mistake: %v", err)
		return 0, apperrors.NewStorageError(err)
	}
	log.Info("mistake recorded: id=%d", id)
	return id, nil
}

func (s *mistakeService) GetUserMistakes(ctx context.Context, userID int64, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	limit = s.limits.Normalize(limit)
	log.Debug("getting user mistakes: user_id=%d, limit=%d", userID, limit)

	if err := validateUser(userID); err != nil {
		return nil, err
	}

	cards, err := s.cards.ListByUser(ctx, userID, limit)
	if err != nil {
		log.Error("failed to list mistakes: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	return cards, nil
}

func (s *mistakeService) GetMistake(ctx context.Context, userID int64, itemKey string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting mistake: user_id=%d, item_key=%s", userID, itemKey)

	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if err := validateItemKey(itemKey); err != nil {
		return nil, err
	}

	card, err := s.cards.Get(ctx, userID, itemKey)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("mistake", itemKey)
	}
	if err != nil {
		log.Error("failed to get mistake: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	return card, nil
}

func (s *mistakeService) GetDueMistakes(ctx context.Context, userID int64, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	limit = s.limits.Normalize(limit)
	log.Debug("getting due mistakes: user_id=%d, limit=%d", userID, limit)

	if err := validateUser(userID); err != nil {
		return nil, err
	}

	cards, err := s.cards.QueryDue(ctx, userID, s.now(), limit)
	if err != nil {
		log.Error("failed to query due mistakes: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	log.Debug("found %d due mistakes", len(cards))
	return cards, nil
}

func (s *mistakeService) UpdateReviewResult(ctx context.Context, userID int64, itemKey string, quality int) (*models.ReviewResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"user_id": userID, "item_key": itemKey})

	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if err := validateItemKey(itemKey); err != nil {
		return nil, err
	}

	q := srs.ClampQuality(quality)
	if q != quality {
		log.Debug("quality %d clamped to %d", quality, q)
	}

	now := s.now()
	card, err := s.cards.ApplyReview(ctx, userID, itemKey, q, func(c models.Card) models.Card {
		return srs.ApplyReview(c, q, now)
	})
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("review result for unknown mistake ignored")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to apply review: %v", err)
		return nil, apperrors.NewStorageError(err)
	}

	log.Info("review applied: quality=%d, repetition=%d, interval=%d, easiness=%.2f",
		q, card.Repetition, card.IntervalDays, card.Easiness)

	res := &models.ReviewResult{
		MistakeID:    card.ID,
		ItemKey:      card.ItemKey,
		Quality:      q,
		Repetition:   card.Repetition,
		IntervalDays: card.IntervalDays,
		Easiness:     card.Easiness,
		LastSeen:     card.LastSeen,
	}
	if card.NextReview != nil {
		res.NextReview = *card.NextReview
	}
	return res, nil
}

func (s *mistakeService) GetReviewQuiz(ctx context.Context, userID int64, limit int) ([]models.QuizItem, error) {
	log := logger.FromContext(ctx)
	limit = s.limits.Normalize(limit)

	cards, err := s.GetDueMistakes(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := quiz.Build(cards, limit)
	log.Debug("built quiz: user_id=%d, items=%d", userID, len(items))
	return items, nil
}

func (s *mistakeService) ListReviewHistory(ctx context.Context, userID int64, limit int) ([]models.ReviewLog, error) {
	log := logger.FromContext(ctx)
	limit = s.limits.Normalize(limit)

	if err := validateUser(userID); err != nil {
		return nil, err
	}

	logs, err := s.reviews.ListByUser(ctx, userID, limit)
	if err != nil {
		log.Error("failed to list review history: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	return logs, nil
}
