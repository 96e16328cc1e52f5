package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vytor/mistakeflash/internal/errors"
	"github.com/vytor/mistakeflash/internal/models"
	"github.com/vytor/mistakeflash/internal/repository"
	"github.com/vytor/mistakeflash/internal/services"
	"github.com/vytor/mistakeflash/internal/testutil"
	"github.com/vytor/mistakeflash/internal/testutil/mocks"
)

func TestGetStats_CombinesAggregateAndReviewCount(t *testing.T) {
	cards := new(mocks.MockCardRepository)
	repo := new(mocks.MockStatsRepository)
	svc := services.NewStatsService(cards, repo, fixedClock())

	midnight := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	repo.On("Compute", mock.Anything, int64(1), testutil.T0).Return(&models.MistakeStats{UserID: 1, TotalCards: 4}, nil)
	repo.On("ReviewsSince", mock.Anything, int64(1), midnight).Return(6, nil)

	stats, err := svc.GetStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalCards)
	assert.Equal(t, 6, stats.ReviewsToday)
	repo.AssertExpectations(t)
}

func TestGetStats_AnyQueryFailureIsStorageError(t *testing.T) {
	cards := new(mocks.MockCardRepository)
	repo := new(mocks.MockStatsRepository)
	svc := services.NewStatsService(cards, repo, fixedClock())

	repo.On("Compute", mock.Anything, int64(1), mock.Anything).Return(&models.MistakeStats{}, nil)
	repo.On("ReviewsSince", mock.Anything, int64(1), mock.Anything).Return(0, errors.New("connection reset"))

	_, err := svc.GetStats(context.Background(), 1)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrCodeStorage, appErr.Code)
}

func TestGetCachedStats_ComputesWhenMissing(t *testing.T) {
	cards := new(mocks.MockCardRepository)
	repo := new(mocks.MockStatsRepository)
	svc := services.NewStatsService(cards, repo, fixedClock())
	ctx := context.Background()

	computed := &models.MistakeStats{UserID: 1, TotalCards: 2}
	repo.On("Snapshot", ctx, int64(1)).Return(nil, repository.ErrNotFound)
	repo.On("Compute", mock.Anything, int64(1), testutil.T0).Return(computed, nil)
	repo.On("ReviewsSince", mock.Anything, int64(1), mock.Anything).Return(1, nil)
	repo.On("SaveSnapshot", ctx, mock.MatchedBy(func(s models.MistakeStats) bool {
		return s.UserID == 1 && s.TotalCards == 2 && s.ReviewsToday == 1
	})).Return(nil)

	stats, err := svc.GetCachedStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCards)
	repo.AssertExpectations(t)
}

func TestRefreshStats_RejectsInvalidUser(t *testing.T) {
	cards := new(mocks.MockCardRepository)
	repo := new(mocks.MockStatsRepository)
	svc := services.NewStatsService(cards, repo, fixedClock())

	err := svc.RefreshStats(context.Background(), 0)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	repo.AssertNotCalled(t, "SaveSnapshot", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Compute", mock.Anything, mock.Anything, mock.Anything)
}

func TestActiveUsers_StorageFailure(t *testing.T) {
	cards := new(mocks.MockCardRepository)
	svc := services.NewStatsService(cards, new(mocks.MockStatsRepository), fixedClock())
	cards.On("UsersWithCards", mock.Anything).Return(nil, errors.New("boom"))

	_, err := svc.ActiveUsers(context.Background())
	assert.Error(t, err)
}
