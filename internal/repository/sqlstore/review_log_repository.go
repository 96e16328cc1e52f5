package sqlstore

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/vytor/mistakeflash/internal/logger"
	"github.com/vytor/mistakeflash/internal/models"
	"github.com/vytor/mistakeflash/internal/repository"
)

type reviewLogRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewReviewLogRepository creates a new ReviewLogRepository implementation
func NewReviewLogRepository(db *sqlx.DB) repository.ReviewLogRepository {
	return &reviewLogRepository{db: db, sb: builderFor(db)}
}

func (r *reviewLogRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.ReviewLog, error) {
	log := logger.FromContext(ctx).WithPrefix("review_log_repo")
	log.Debug("listing review history: user_id=%d, limit=%d", userID, limit)

	q := r.sb.Select(reviewLogColumns...).
		From("review_log").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("reviewed_at DESC", "id DESC")
	query, args, err := withLimit(q, limit).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build history query")
	}

	logs := []models.ReviewLog{}
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		log.Error("failed to list review history: %v", err)
		return nil, errors.Wrap(err, "list review history")
	}
	log.Debug("found %d review log entries", len(logs))
	return logs, nil
}
