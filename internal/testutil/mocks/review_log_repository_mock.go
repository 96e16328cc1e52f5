package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/mistakeflash/internal/models"
)

// MockReviewLogRepository is a mock implementation of repository.ReviewLogRepository
type MockReviewLogRepository struct {
	mock.Mock
}

func (m *MockReviewLogRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.ReviewLog, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewLog), args.Error(1)
}
