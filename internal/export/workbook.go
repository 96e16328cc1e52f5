// Package export writes a user's review state to an xlsx workbook.
package export

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/vytor/mistakeflash/internal/logger"
	"github.com/vytor/mistakeflash/internal/models"
	"github.com/vytor/mistakeflash/internal/repository"
)

const (
	SheetMistakes = "Mistakes"
	SheetReviews  = "Reviews"
)

var mistakeHeader = []any{
	"ID", "Item", "Context", "Lesson", "Wrong answer", "Correct answer",
	"Count", "Repetition", "Interval (days)", "Easiness", "Next review", "Last seen", "Created",
}

var reviewHeader = []any{
	"ID", "Mistake ID", "Item", "Quality", "Repetition", "Interval (days)", "Easiness", "Reviewed at",
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func stampPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return stamp(*t)
}

// WriteWorkbook renders cards and review history as two sheets.
func WriteWorkbook(w io.Writer, cards []models.Card, reviews []models.ReviewLog) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the first, active one.
	f.SetSheetName("Sheet1", SheetMistakes)
	if _, err := f.NewSheet(SheetReviews); err != nil {
		return errors.Wrap(err, "create reviews sheet")
	}

	rows := make([][]any, 0, len(cards)+1)
	rows = append(rows, mistakeHeader)
	for _, c := range cards {
		rows = append(rows, []any{
			c.ID, c.ItemKey, c.Context, c.LessonID, c.WrongAnswer, c.CorrectAnswer,
			c.Count, c.Repetition, c.IntervalDays, c.Easiness,
			stampPtr(c.NextReview), stamp(c.LastSeen), stamp(c.CreatedAt),
		})
	}
	if err := writeRows(f, SheetMistakes, rows); err != nil {
		return err
	}

	rows = make([][]any, 0, len(reviews)+1)
	rows = append(rows, reviewHeader)
	for _, r := range reviews {
		rows = append(rows, []any{
			r.ID, r.MistakeID, r.ItemKey, r.Quality, r.Repetition, r.IntervalDays, r.Easiness, stamp(r.ReviewedAt),
		})
	}
	if err := writeRows(f, SheetReviews, rows); err != nil {
		return err
	}

	return errors.Wrap(f.Write(w), "write workbook")
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return errors.Wrapf(err, "write %s row %d", sheet, i+1)
		}
	}
	return nil
}

// Exporter loads everything stored for a user and writes it as a workbook.
type Exporter struct {
	Cards   repository.CardRepository
	Reviews repository.ReviewLogRepository
}

// Export writes every card and review of userID to w.
func (e *Exporter) Export(ctx context.Context, userID int64, w io.Writer) error {
	log := logger.FromContext(ctx).WithPrefix("export").WithField("user_id", userID)

	cards, err := e.Cards.ListByUser(ctx, userID, 0)
	if err != nil {
		return errors.Wrap(err, "load cards")
	}
	reviews, err := e.Reviews.ListByUser(ctx, userID, 0)
	if err != nil {
		return errors.Wrap(err, "load reviews")
	}

	if err := WriteWorkbook(w, cards, reviews); err != nil {
		log.Error("failed to export: %v", err)
		return err
	}
	log.Info("exported %d cards and %d reviews", len(cards), len(reviews))
	return nil
}
