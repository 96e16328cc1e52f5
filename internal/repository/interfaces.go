package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vytor/mistakeflash/internal/models"
)

// ErrNotFound is returned when no card exists for a (user, item) pair.
var ErrNotFound = errors.New("not found")

// ReviewFunc computes the next state of a card from its current state.
type ReviewFunc func(card models.Card) models.Card

// CardRepository handles mistake card data access
type CardRepository interface {
	// Upsert inserts fresh when no card exists for (UserID, ItemKey).
	// Otherwise it increments count and refreshes the descriptive fields,
	// leaving the schedule untouched. It returns the card id.
	Upsert(ctx context.Context, fresh models.Card) (int64, error)
	Get(ctx context.Context, userID int64, itemKey string) (*models.Card, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.Card, error)
	// QueryDue returns cards with no next review or a next review at or before now,
	// unscheduled cards first, then earliest due, most missed and oldest id.
	QueryDue(ctx context.Context, userID int64, now time.Time, limit int) ([]models.Card, error)
	// ApplyReview reads the card, passes it through fn and persists the result
	// together with a review log row in one transaction.
	ApplyReview(ctx context.Context, userID int64, itemKey string, quality int, fn ReviewFunc) (*models.Card, error)
	UsersWithCards(ctx context.Context) ([]int64, error)
}

// ReviewLogRepository handles review history data access
type ReviewLogRepository interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.ReviewLog, error)
}

// StatsRepository handles statistics data access
type StatsRepository interface {
	Compute(ctx context.Context, userID int64, now time.Time) (*models.MistakeStats, error)
	ReviewsSince(ctx context.Context, userID int64, since time.Time) (int, error)
	SaveSnapshot(ctx context.Context, stats models.MistakeStats) error
	Snapshot(ctx context.Context, userID int64) (*models.MistakeStats, error)
}
