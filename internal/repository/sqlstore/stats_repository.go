package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/vytor/mistakeflash/internal/logger"
	"github.com/vytor/mistakeflash/internal/models"
	"github.com/vytor/mistakeflash/internal/repository"
)

var statsColumns = []string{
	"user_id", "total_cards", "total_mistakes", "due_cards", "new_cards", "learning_cards",
	"graduated_cards", "avg_easiness", "reviews_today", "refreshed_at",
}

const snapshotConflict = `ON CONFLICT (user_id) DO UPDATE SET
    total_cards = excluded.total_cards,
    total_mistakes = excluded.total_mistakes,
    due_cards = excluded.due_cards,
    new_cards = excluded.new_cards,
    learning_cards = excluded.learning_cards,
    graduated_cards = excluded.graduated_cards,
    avg_easiness = excluded.avg_easiness,
    reviews_today = excluded.reviews_today,
    refreshed_at = excluded.refreshed_at`

type statsRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sqlx.DB) repository.StatsRepository {
	return &statsRepository{db: db, sb: builderFor(db)}
}

// Compute aggregates the card table for one user. ReviewsToday is left to the caller.
func (r *statsRepository) Compute(ctx context.Context, userID int64, now time.Time) (*models.MistakeStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("computing stats: user_id=%d", userID)

	query, args, err := r.sb.Select(
		"COUNT(*) AS total_cards",
		"COALESCE(SUM(count), 0) AS total_mistakes",
	).
		Column(squirrel.Expr("COALESCE(SUM(CASE WHEN next_review IS NULL OR next_review <= ? THEN 1 ELSE 0 END), 0) AS due_cards", utc(now))).
		Column("COALESCE(SUM(CASE WHEN repetition = 0 THEN 1 ELSE 0 END), 0) AS new_cards").
		Column("COALESCE(SUM(CASE WHEN repetition = 1 THEN 1 ELSE 0 END), 0) AS learning_cards").
		Column("COALESCE(SUM(CASE WHEN repetition >= 2 THEN 1 ELSE 0 END), 0) AS graduated_cards").
		Column("COALESCE(AVG(easiness), 0) AS avg_easiness").
		From("mistakes").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build stats query")
	}

	var s models.MistakeStats
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		log.Error("failed to compute stats: %v", err)
		return nil, errors.Wrap(err, "compute stats")
	}
	s.UserID = userID
	s.RefreshedAt = utc(now)
	return &s, nil
}

func (r *statsRepository) ReviewsSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	query, args, err := r.sb.Select("COUNT(*)").
		From("review_log").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"reviewed_at": utc(since)}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "build reviews query")
	}

	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		log.Error("failed to count reviews: %v", err)
		return 0, errors.Wrap(err, "count reviews")
	}
	return n, nil
}

func (r *statsRepository) SaveSnapshot(ctx context.Context, s models.MistakeStats) error {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("saving stats snapshot: user_id=%d", s.UserID)

	query, args, err := r.sb.Insert("mistake_stats").
		Columns(statsColumns...).
		Values(s.UserID, s.TotalCards, s.TotalMistakes, s.DueCards, s.NewCards, s.LearningCards,
			s.GraduatedCards, s.AvgEasiness, s.ReviewsToday, utc(s.RefreshedAt)).
		Suffix(snapshotConflict).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build snapshot upsert")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to save stats snapshot: %v", err)
		return errors.Wrap(err, "save stats snapshot")
	}
	return nil
}

func (r *statsRepository) Snapshot(ctx context.Context, userID int64) (*models.MistakeStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	query, args, err := r.sb.Select(statsColumns...).
		From("mistake_stats").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build snapshot query")
	}

	var s models.MistakeStats
	err = r.db.GetContext(ctx, &s, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		log.Error("failed to read stats snapshot: %v", err)
		return nil, errors.Wrap(err, "read stats snapshot")
	}
	return &s, nil
}
