package models

import "time"

// Contexts reported by the mistake producers. Any other value is treated as a
// generic recall item.
const (
	ContextWord          = "word"
	ContextSentence      = "sentence"
	ContextPronunciation = "pronunciation"
	ContextGeneral       = "general"
)

// Card is the scheduling state of one item a user got wrong. Exactly one card
// exists per (UserID, ItemKey).
type Card struct {
	ID            int64      `json:"id" db:"id"`
	UserID        int64      `json:"user_id" db:"user_id"`
	ItemKey       string     `json:"item_key" db:"item_key"`
	LessonID      string     `json:"lesson_id" db:"lesson_id"`
	Context       string     `json:"context" db:"context"`
	WrongAnswer   string     `json:"wrong_answer" db:"wrong_answer"`
	CorrectAnswer string     `json:"correct_answer" db:"correct_answer"`
	Count         int        `json:"count" db:"count"`
	Repetition    int        `json:"repetition" db:"repetition"`
	IntervalDays  int        `json:"interval" db:"interval_days"`
	Easiness      float64    `json:"easiness" db:"easiness"`
	NextReview    *time.Time `json:"next_review" db:"next_review"`
	LastSeen      time.Time  `json:"last_seen" db:"last_seen"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// IsDue reports whether the card may be reviewed at now.
func (c Card) IsDue(now time.Time) bool {
	return c.NextReview == nil || !c.NextReview.After(now)
}

// MistakeEvent is what a grammar, pronunciation or translation checker reports
// when a learner answers wrongly.
type MistakeEvent struct {
	UserID        int64  `json:"user_id"`
	ItemKey       string `json:"item_key"`
	WrongAnswer   string `json:"wrong_answer"`
	CorrectAnswer string `json:"correct_answer"`
	LessonID      string `json:"lesson_id"`
	Context       string `json:"context"`
}
