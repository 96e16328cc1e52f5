package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jmoiron/sqlx"
	"github.com/vytor/mistakeflash/internal/models"
	"github.com/vytor/mistakeflash/internal/repository/sqlstore"
	"github.com/vytor/mistakeflash/internal/services"
	"github.com/vytor/mistakeflash/internal/testutil"
)

// ScenarioSuite drives the services against a real sqlite store.
type ScenarioSuite struct {
	suite.Suite
	db      *sqlx.DB
	clock   *testutil.FakeClock
	mistake services.MistakeService
	stats   services.StatsService
}

func (s *ScenarioSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.clock = testutil.Clock(testutil.T0)

	cards := sqlstore.NewCardRepository(s.db)
	s.mistake = services.NewMistakeService(cards, sqlstore.NewReviewLogRepository(s.db), services.WithClock(s.clock.Now))
	s.stats = services.NewStatsService(cards, sqlstore.NewStatsRepository(s.db), s.clock.Now)
}

func (s *ScenarioSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ScenarioSuite) TestBananaLifecycle() {
	ctx := context.Background()

	id, err := s.mistake.RecordMistake(ctx, models.MistakeEvent{
		UserID:        1,
		ItemKey:       "banana",
		WrongAnswer:   "bananna",
		CorrectAnswer: "banana",
		Context:       models.ContextSentence,
	})
	s.Require().NoError(err)

	due, err := s.mistake.GetDueMistakes(ctx, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Equal(id, due[0].ID)

	res, err := s.mistake.UpdateReviewResult(ctx, 1, "banana", 4)
	s.Require().NoError(err)
	s.Require().NotNil(res)
	s.Equal(1, res.Repetition)
	s.Equal(1, res.IntervalDays)

	s.clock.Advance(time.Second)

	due, err = s.mistake.GetDueMistakes(ctx, 1, 10)
	s.Require().NoError(err)
	s.Empty(due)

	all, err := s.mistake.GetUserMistakes(ctx, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("banana", all[0].ItemKey)
}

func (s *ScenarioSuite) TestRecordTwiceKeepsOneCard() {
	ctx := context.Background()
	e := models.MistakeEvent{UserID: 1, ItemKey: "apple", WrongAnswer: "aple"}

	first, err := s.mistake.RecordMistake(ctx, e)
	s.Require().NoError(err)
	second, err := s.mistake.RecordMistake(ctx, e)
	s.Require().NoError(err)
	s.Equal(first, second)

	card, err := s.mistake.GetMistake(ctx, 1, "apple")
	s.Require().NoError(err)
	s.Equal(2, card.Count)
}

func (s *ScenarioSuite) TestReviewUnknownItemCreatesNothing() {
	ctx := context.Background()

	res, err := s.mistake.UpdateReviewResult(ctx, 1, "never-seen", 5)
	s.NoError(err)
	s.Nil(res)

	all, err := s.mistake.GetUserMistakes(ctx, 1, 10)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *ScenarioSuite) TestQuizOrdersByPriority() {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := s.mistake.RecordMistake(ctx, models.MistakeEvent{UserID: 1, ItemKey: "often", Context: models.ContextWord})
		s.Require().NoError(err)
	}
	_, err := s.mistake.RecordMistake(ctx, models.MistakeEvent{UserID: 1, ItemKey: "reviewed", Context: models.ContextPronunciation})
	s.Require().NoError(err)

	// One success puts "reviewed" at count 1, repetition 1; bring it back due.
	_, err = s.mistake.UpdateReviewResult(ctx, 1, "reviewed", 5)
	s.Require().NoError(err)
	s.clock.Advance(48 * time.Hour)

	items, err := s.mistake.GetReviewQuiz(ctx, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("often", items[0].ItemKey)
	s.Equal(5, items[0].Priority)
	s.Equal(models.QuizTypeFill, items[0].Type)
	s.Equal("reviewed", items[1].ItemKey)
	s.Equal(2, items[1].Priority)
	s.Equal(models.QuizTypePronunciation, items[1].Type)
}

func (s *ScenarioSuite) TestStatsAndCache() {
	ctx := context.Background()
	_, err := s.mistake.RecordMistake(ctx, models.MistakeEvent{UserID: 1, ItemKey: "a"})
	s.Require().NoError(err)
	_, err = s.mistake.RecordMistake(ctx, models.MistakeEvent{UserID: 1, ItemKey: "b"})
	s.Require().NoError(err)
	_, err = s.mistake.UpdateReviewResult(ctx, 1, "a", 5)
	s.Require().NoError(err)

	stats, err := s.stats.GetStats(ctx, 1)
	s.Require().NoError(err)
	s.Equal(2, stats.TotalCards)
	s.Equal(1, stats.DueCards)
	s.Equal(1, stats.NewCards)
	s.Equal(1, stats.LearningCards)
	s.Equal(1, stats.ReviewsToday)

	cached, err := s.stats.GetCachedStats(ctx, 1)
	s.Require().NoError(err)
	s.Equal(2, cached.TotalCards)

	// The snapshot stays stale until refreshed.
	_, err = s.mistake.RecordMistake(ctx, models.MistakeEvent{UserID: 1, ItemKey: "c"})
	s.Require().NoError(err)
	cached, err = s.stats.GetCachedStats(ctx, 1)
	s.Require().NoError(err)
	s.Equal(2, cached.TotalCards)

	s.Require().NoError(s.stats.RefreshStats(ctx, 1))
	cached, err = s.stats.GetCachedStats(ctx, 1)
	s.Require().NoError(err)
	s.Equal(3, cached.TotalCards)

	users, err := s.stats.ActiveUsers(ctx)
	s.Require().NoError(err)
	s.Equal([]int64{1}, users)
}

func TestScenarioSuite(t *testing.T) {
	suite.Run(t, new(ScenarioSuite))
}
