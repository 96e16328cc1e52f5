// Package sqlstore implements the repositories on top of sqlx for the sqlite
// and postgres dialects.
package sqlstore

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/mistakeflash/internal/logger"
)

const driverPostgres = "postgres"

var cardColumns = []string{
	"id", "user_id", "item_key", "lesson_id", "context", "wrong_answer", "correct_answer",
	"count", "repetition", "interval_days", "easiness", "next_review", "last_seen", "created_at",
}

var reviewLogColumns = []string{
	"id", "mistake_id", "user_id", "item_key", "quality", "repetition", "interval_days", "easiness", "reviewed_at",
}

// builderFor picks the placeholder style of the connected dialect.
func builderFor(db *sqlx.DB) squirrel.StatementBuilderType {
	if db.DriverName() == driverPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

func inTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}

// Timestamps are stored in UTC so sqlite's text comparison orders them correctly.
func utc(t time.Time) time.Time {
	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// withLimit applies limit when positive; zero or less means unbounded.
func withLimit(q squirrel.SelectBuilder, limit int) squirrel.SelectBuilder {
	if limit > 0 {
		return q.Limit(uint64(limit))
	}
	return q
}
