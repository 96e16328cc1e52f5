package models

import "time"

// Quiz item types.
const (
	QuizTypePronunciation = "pronunciation"
	QuizTypeSentence      = "sentence"
	QuizTypeFill          = "fill"
)

type QuizItem struct {
	MistakeID     int64    `json:"mistake_id"`
	ItemKey       string   `json:"item_key"`
	Context       string   `json:"context"`
	Type          string   `json:"type"`
	Prompt        string   `json:"prompt"`
	CorrectAnswer string   `json:"correct_answer"`
	WrongExample  string   `json:"wrong_example"`
	Priority      int      `json:"priority"`
	Meta          QuizMeta `json:"meta"`
}

type QuizMeta struct {
	NextReview *time.Time `json:"next_review"`
	LastSeen   time.Time  `json:"last_seen"`
	Easiness   float64    `json:"easiness"`
}
