package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/vytor/mistakeflash/internal/errors"
	"github.com/vytor/mistakeflash/internal/logger"
	"github.com/vytor/mistakeflash/internal/models"
	"github.com/vytor/mistakeflash/internal/repository"
)

// StatsService handles statistics-related business logic
type StatsService interface {
	GetStats(ctx context.Context, userID int64) (*models.MistakeStats, error)
	// GetCachedStats serves the last snapshot, computing one when none exists yet.
	GetCachedStats(ctx context.Context, userID int64) (*models.MistakeStats, error)
	RefreshStats(ctx context.Context, userID int64) error
	ActiveUsers(ctx context.Context) ([]int64, error)
}

type statsService struct {
	cards     repository.CardRepository
	statsRepo repository.StatsRepository
	now       Clock
}

// NewStatsService creates a new StatsService
func NewStatsService(cards repository.CardRepository, statsRepo repository.StatsRepository, now Clock) StatsService {
	if now == nil {
		now = systemClock
	}
	return &statsService{cards: cards, statsRepo: statsRepo, now: now}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *statsService) compute(ctx context.Context, userID int64) (*models.MistakeStats, error) {
	now := s.now()

	var stats *models.MistakeStats
	var reviewsToday int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.statsRepo.Compute(gctx, userID, now)
		return err
	})
	g.Go(func() error {
		var err error
		reviewsToday, err = s.statsRepo.ReviewsSince(gctx, userID, startOfDay(now))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.ReviewsToday = reviewsToday
	return stats, nil
}

func (s *statsService) GetStats(ctx context.Context, userID int64) (*models.MistakeStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting stats: user_id=%d", userID)

	if err := validateUser(userID); err != nil {
		return nil, err
	}

	stats, err := s.compute(ctx, userID)
	if err != nil {
		log.Error("failed to compute stats: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	return stats, nil
}

func (s *statsService) GetCachedStats(ctx context.Context, userID int64) (*models.MistakeStats, error) {
	log := logger.FromContext(ctx)

	if err := validateUser(userID); err != nil {
		return nil, err
	}

	stats, err := s.statsRepo.Snapshot(ctx, userID)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Error("failed to read stats snapshot: %v", err)
		return nil, apperrors.NewStorageError(err)
	}

	log.Debug("no stats snapshot yet: user_id=%d", userID)
	stats, err = s.refresh(ctx, userID)
	if err != nil {
		log.Error("failed to refresh stats: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	return stats, nil
}

func (s *statsService) refresh(ctx context.Context, userID int64) (*models.MistakeStats, error) {
	stats, err := s.compute(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.statsRepo.SaveSnapshot(ctx, *stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *statsService) RefreshStats(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("refreshing stats: user_id=%d", userID)

	if err := validateUser(userID); err != nil {
		return err
	}

	if _, err := s.refresh(ctx, userID); err != nil {
		log.Error("failed to refresh stats: %v", err)
		return apperrors.NewStorageError(err)
	}
	return nil
}

func (s *statsService) ActiveUsers(ctx context.Context) ([]int64, error) {
	ids, err := s.cards.UsersWithCards(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list users: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	return ids, nil
}
