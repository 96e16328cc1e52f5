package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/mistakeflash/internal/models"
	"github.com/vytor/mistakeflash/internal/repository"
	"github.com/vytor/mistakeflash/internal/repository/sqlstore"
	"github.com/vytor/mistakeflash/internal/srs"
	"github.com/vytor/mistakeflash/internal/testutil"
)

type StatsRepositorySuite struct {
	suite.Suite
	db    *sqlx.DB
	cards repository.CardRepository
	stats repository.StatsRepository
}

func (s *StatsRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.cards = sqlstore.NewCardRepository(s.db)
	s.stats = sqlstore.NewStatsRepository(s.db)
}

func (s *StatsRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StatsRepositorySuite) seed() {
	ctx := context.Background()
	for _, key := range []string{"new", "learning", "graduated", "new"} {
		_, err := s.cards.Upsert(ctx, srs.NewCard(models.MistakeEvent{UserID: 1, ItemKey: key}, testutil.T0))
		s.Require().NoError(err)
	}
	review := func(key string, q int, at time.Time) {
		_, err := s.cards.ApplyReview(ctx, 1, key, q, func(c models.Card) models.Card {
			return srs.ApplyReview(c, q, at)
		})
		s.Require().NoError(err)
	}
	review("learning", 5, testutil.T0)
	review("graduated", 5, testutil.T0)
	review("graduated", 5, testutil.T0.Add(2*time.Hour))
}

func (s *StatsRepositorySuite) TestCompute() {
	s.seed()

	got, err := s.stats.Compute(context.Background(), 1, testutil.T0.Add(3*time.Hour))
	s.Require().NoError(err)
	s.Equal(int64(1), got.UserID)
	s.Equal(3, got.TotalCards)
	s.Equal(4, got.TotalMistakes)
	s.Equal(1, got.DueCards)
	s.Equal(1, got.NewCards)
	s.Equal(1, got.LearningCards)
	s.Equal(1, got.GraduatedCards)
	s.InDelta((2.5+2.6+2.7)/3, got.AvgEasiness, 1e-9)
}

func (s *StatsRepositorySuite) TestCompute_NoCards() {
	got, err := s.stats.Compute(context.Background(), 42, testutil.T0)
	s.Require().NoError(err)
	s.Equal(0, got.TotalCards)
	s.Equal(0, got.DueCards)
	s.Zero(got.AvgEasiness)
}

func (s *StatsRepositorySuite) TestReviewsSince() {
	s.seed()

	n, err := s.stats.ReviewsSince(context.Background(), 1, testutil.T0.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.stats.ReviewsSince(context.Background(), 1, testutil.T0)
	s.Require().NoError(err)
	s.Equal(3, n)
}

func (s *StatsRepositorySuite) TestSnapshotRoundTrip() {
	ctx := context.Background()

	_, err := s.stats.Snapshot(ctx, 1)
	s.ErrorIs(err, repository.ErrNotFound)

	snap := models.MistakeStats{UserID: 1, TotalCards: 2, DueCards: 1, AvgEasiness: 2.5, RefreshedAt: testutil.T0}
	s.Require().NoError(s.stats.SaveSnapshot(ctx, snap))

	snap.TotalCards = 5
	snap.ReviewsToday = 3
	snap.RefreshedAt = testutil.T0.Add(time.Hour)
	s.Require().NoError(s.stats.SaveSnapshot(ctx, snap))

	got, err := s.stats.Snapshot(ctx, 1)
	s.Require().NoError(err)
	s.Equal(5, got.TotalCards)
	s.Equal(3, got.ReviewsToday)
	s.True(got.RefreshedAt.Equal(testutil.T0.Add(time.Hour)))
}

func TestStatsRepositorySuite(t *testing.T) {
	suite.Run(t, new(StatsRepositorySuite))
}
