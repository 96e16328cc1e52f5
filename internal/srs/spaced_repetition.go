package srs

import (
	"math"
	"strings"
	"time"

	"github.com/vytor/mistakeflash/internal/models"
)

const (
	DefaultEasiness = 2.5
	MinEasiness     = 1.3

	MinQuality = 0
	MaxQuality = 5
	// PassQuality is the lowest quality counted as a successful recall.
	PassQuality = 3
)

// NewCard returns the state of a card created by the first mistake on an item.
// It is due immediately.
func NewCard(e models.MistakeEvent, now time.Time) models.Card {
	due := now
	return models.Card{
		UserID:        e.UserID,
		ItemKey:       e.ItemKey,
		LessonID:      e.LessonID,
		Context:       strings.TrimSpace(e.Context),
		WrongAnswer:   e.WrongAnswer,
		CorrectAnswer: e.CorrectAnswer,
		Count:         1,
		Repetition:    0,
		IntervalDays:  0,
		Easiness:      DefaultEasiness,
		NextReview:    &due,
		LastSeen:      now,
		CreatedAt:     now,
	}
}

// ClampQuality forces q into [MinQuality, MaxQuality].
func ClampQuality(q int) int {
	if q < MinQuality {
		return MinQuality
	}
	if q > MaxQuality {
		return MaxQuality
	}
	return q
}

// ApplyReview updates card scheduling using SM-2.
// quality: 0=total failure .. 5=perfect recall; values outside are clamped.
//
// A failed recall (quality < 3) relearns the card from a 1 day interval. A
// successful one steps the interval 1, 6, then interval*easiness. Easiness is
// recomputed on every review and never drops below MinEasiness.
func ApplyReview(card models.Card, quality int, now time.Time) models.Card {
	q := ClampQuality(quality)
	ef := card.Easiness
	if ef <= 0 {
		ef = DefaultEasiness
	}

	if q < PassQuality {
		card.Repetition = 0
		card.IntervalDays = 1
	} else {
		switch card.Repetition {
		case 0:
			card.IntervalDays = 1
		case 1:
			card.IntervalDays = 6
		default:
			card.IntervalDays = max(1, int(math.Round(float64(card.IntervalDays)*ef)))
		}
		card.Repetition++
	}

	miss := float64(MaxQuality - q)
	ef = ef + 0.1 - miss*(0.08+miss*0.02)
	if ef < MinEasiness {
		ef = MinEasiness
	}
	card.Easiness = ef

	next := now.Add(time.Duration(card.IntervalDays) * 24 * time.Hour)
	card.NextReview = &next
	card.LastSeen = now
	return card
}
