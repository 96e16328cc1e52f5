// Package quiz turns due cards into presentable review items.
package quiz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vytor/mistakeflash/internal/models"
)

// Priority favours items that are both missed often and already reviewed.
func Priority(card models.Card) int {
	return card.Count + card.Repetition
}

// BuildItem formats a single card. Scheduler internals other than the
// metadata block are not exposed.
func BuildItem(card models.Card) models.QuizItem {
	ctx := strings.TrimSpace(card.Context)
	if ctx == "" {
		ctx = models.ContextGeneral
	}

	item := models.QuizItem{
		MistakeID:     card.ID,
		ItemKey:       card.ItemKey,
		Context:       ctx,
		CorrectAnswer: card.CorrectAnswer,
		WrongExample:  card.WrongAnswer,
		Priority:      Priority(card),
		Meta: models.QuizMeta{
			NextReview: card.NextReview,
			LastSeen:   card.LastSeen,
			Easiness:   card.Easiness,
		},
	}

	switch ctx {
	case models.ContextPronunciation:
		item.Type = models.QuizTypePronunciation
		item.Prompt = fmt.Sprintf("Pronounce this word correctly: %s", card.ItemKey)
	case models.ContextSentence:
		item.Type = models.QuizTypeSentence
		example := card.WrongAnswer
		if strings.TrimSpace(example) == "" {
			example = card.ItemKey
		}
		item.Prompt = fmt.Sprintf("Correct the sentence you got wrong before: %s", example)
	default:
		item.Type = models.QuizTypeFill
		item.Prompt = fmt.Sprintf("Repeat: %s", card.ItemKey)
	}
	return item
}

// Rank orders items by priority, highest first. Equal priorities keep the
// earliest due item first; an item without a due time counts as earliest.
func Rank(items []models.QuizItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority > items[j].Priority
		}
		a, b := items[i].Meta.NextReview, items[j].Meta.NextReview
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})
}

// Build formats cards, re-ranks them by priority and truncates to limit.
// This ordering is independent of the order the cards arrive in.
func Build(cards []models.Card, limit int) []models.QuizItem {
	items := make([]models.QuizItem, 0, len(cards))
	for _, c := range cards {
		items = append(items, BuildItem(c))
	}
	Rank(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
