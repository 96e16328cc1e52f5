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

// A repeated mistake only refreshes the descriptive fields; the schedule belongs to reviews.
const upsertConflict = `ON CONFLICT (user_id, item_key) DO UPDATE SET
    count = mistakes.count + 1,
    lesson_id = excluded.lesson_id,
    context = excluded.context,
    wrong_answer = excluded.wrong_answer,
    correct_answer = excluded.correct_answer,
    last_seen = excluded.last_seen
RETURNING id`

type cardRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sqlx.DB) repository.CardRepository {
	return &cardRepository{db: db, sb: builderFor(db)}
}

func (r *cardRepository) Upsert(ctx context.Context, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("upserting card: user_id=%d, item_key=%s", c.UserID, c.ItemKey)

	query, args, err := r.sb.Insert("mistakes").
		Columns(cardColumns[1:]...).
		Values(c.UserID, c.ItemKey, c.LessonID, c.Context, c.WrongAnswer, c.CorrectAnswer,
			c.Count, c.Repetition, c.IntervalDays, c.Easiness, utcPtr(c.NextReview), utc(c.LastSeen), utc(c.CreatedAt)).
		Suffix(upsertConflict).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "build upsert")
	}

	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		log.Error("failed to upsert card: %v", err)
		return 0, errors.Wrap(err, "upsert card")
	}
	log.Debug("card upserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) Get(ctx context.Context, userID int64, itemKey string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	query, args, err := r.sb.Select(cardColumns...).
		From("mistakes").
		Where(squirrel.Eq{"user_id": userID, "item_key": itemKey}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build get")
	}

	var c models.Card
	err = r.db.GetContext(ctx, &c, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: user_id=%d, item_key=%s", userID, itemKey)
		return nil, repository.ErrNotFound
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, errors.Wrap(err, "get card")
	}
	return &c, nil
}

func (r *cardRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: user_id=%d, limit=%d", userID, limit)

	q := r.sb.Select(cardColumns...).
		From("mistakes").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("last_seen DESC", "id DESC")
	query, args, err := withLimit(q, limit).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list")
	}

	cards := []models.Card{}
	if err := r.db.SelectContext(ctx, &cards, query, args...); err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.Wrap(err, "list cards")
	}
	log.Debug("found %d cards", len(cards))
	return cards, nil
}

func (r *cardRepository) QueryDue(ctx context.Context, userID int64, now time.Time, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("querying due cards: user_id=%d, limit=%d", userID, limit)

	q := r.sb.Select(cardColumns...).
		From("mistakes").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Or{
			squirrel.Eq{"next_review": nil},
			squirrel.LtOrEq{"next_review": utc(now)},
		}).
		OrderBy("CASE WHEN next_review IS NULL THEN 0 ELSE 1 END", "next_review ASC", "count DESC", "id ASC")
	query, args, err := withLimit(q, limit).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build due query")
	}

	cards := []models.Card{}
	if err := r.db.SelectContext(ctx, &cards, query, args...); err != nil {
		log.Error("failed to query due cards: %v", err)
		return nil, errors.Wrap(err, "query due cards")
	}
	log.Debug("found %d due cards", len(cards))
	return cards, nil
}

func (r *cardRepository) ApplyReview(ctx context.Context, userID int64, itemKey string, quality int, fn repository.ReviewFunc) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("applying review: user_id=%d, item_key=%s, quality=%d", userID, itemKey, quality)

	sel := r.sb.Select(cardColumns...).
		From("mistakes").
		Where(squirrel.Eq{"user_id": userID, "item_key": itemKey})
	if r.db.DriverName() == driverPostgres {
		sel = sel.Suffix("FOR UPDATE")
	}
	selQuery, selArgs, err := sel.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build review read")
	}

	var updated models.Card
	err = inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var current models.Card
		if err := tx.GetContext(ctx, &current, selQuery, selArgs...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return repository.ErrNotFound
			}
			return errors.Wrap(err, "read card")
		}

		updated = fn(current)

		query, args, err := r.sb.Update("mistakes").
			Set("repetition", updated.Repetition).
			Set("interval_days", updated.IntervalDays).
			Set("easiness", updated.Easiness).
			Set("next_review", utcPtr(updated.NextReview)).
			Set("last_seen", utc(updated.LastSeen)).
			Where(squirrel.Eq{"id": current.ID}).
			ToSql()
		if err != nil {
			return errors.Wrap(err, "build review update")
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(err, "update card")
		}

		query, args, err = r.sb.Insert("review_log").
			Columns(reviewLogColumns[1:]...).
			Values(current.ID, userID, itemKey, quality, updated.Repetition, updated.IntervalDays, updated.Easiness, utc(updated.LastSeen)).
			ToSql()
		if err != nil {
			return errors.Wrap(err, "build review log")
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(err, "insert review log")
		}
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		log.Debug("card not found for review: user_id=%d, item_key=%s", userID, itemKey)
		return nil, err
	}
	if err != nil {
		log.Error("failed to apply review: %v", err)
		return nil, err
	}

	log.Debug("review applied: id=%d, repetition=%d, interval=%d, easiness=%.2f",
		updated.ID, updated.Repetition, updated.IntervalDays, updated.Easiness)
	return &updated, nil
}

func (r *cardRepository) UsersWithCards(ctx context.Context) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	query, args, err := r.sb.Select("DISTINCT user_id").
		From("mistakes").
		OrderBy("user_id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build users query")
	}

	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		log.Error("failed to list users: %v", err)
		return nil, errors.Wrap(err, "list users")
	}
	return ids, nil
}
