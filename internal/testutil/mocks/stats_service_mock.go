package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/mistakeflash/internal/models"
)

// MockStatsService is a mock implementation of services.StatsService
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetStats(ctx context.Context, userID int64) (*models.MistakeStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MistakeStats), args.Error(1)
}

func (m *MockStatsService) GetCachedStats(ctx context.Context, userID int64) (*models.MistakeStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MistakeStats), args.Error(1)
}

func (m *MockStatsService) RefreshStats(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockStatsService) ActiveUsers(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
