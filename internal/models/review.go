package models

import "time"

// ReviewResult holds the schedule fields recomputed by a review.
type ReviewResult struct {
	MistakeID    int64     `json:"mistake_id"`
	ItemKey      string    `json:"item_key"`
	Quality      int       `json:"quality"`
	Repetition   int       `json:"repetition"`
	IntervalDays int       `json:"interval"`
	Easiness     float64   `json:"easiness"`
	NextReview   time.Time `json:"next_review"`
	LastSeen     time.Time `json:"last_seen"`
}

// ReviewLog is one applied review, kept as history next to the card.
type ReviewLog struct {
	ID           int64     `json:"id" db:"id"`
	MistakeID    int64     `json:"mistake_id" db:"mistake_id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	ItemKey      string    `json:"item_key" db:"item_key"`
	Quality      int       `json:"quality" db:"quality"`
	Repetition   int       `json:"repetition" db:"repetition"`
	IntervalDays int       `json:"interval" db:"interval_days"`
	Easiness     float64   `json:"easiness" db:"easiness"`
	ReviewedAt   time.Time `json:"reviewed_at" db:"reviewed_at"`
}
