package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/mistakeflash/internal/models"
	"github.com/vytor/mistakeflash/internal/repository"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Upsert(ctx context.Context, card models.Card) (int64, error) {
	args := m.Called(ctx, card)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCardRepository) Get(ctx context.Context, userID int64, itemKey string) (*models.Card, error) {
	args := m.Called(ctx, userID, itemKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Card, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) QueryDue(ctx context.Context, userID int64, now time.Time, limit int) ([]models.Card, error) {
	args := m.Called(ctx, userID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

// ApplyReview runs fn against the card passed as the first return value, so
// tests observe the real schedule computation.
func (m *MockCardRepository) ApplyReview(ctx context.Context, userID int64, itemKey string, quality int, fn repository.ReviewFunc) (*models.Card, error) {
	args := m.Called(ctx, userID, itemKey, quality)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	card := fn(*args.Get(0).(*models.Card))
	return &card, args.Error(1)
}

func (m *MockCardRepository) UsersWithCards(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
