package models

import "time"

type MistakeStats struct {
	UserID         int64     `json:"user_id" db:"user_id"`
	TotalCards     int       `json:"total_cards" db:"total_cards"`
	TotalMistakes  int       `json:"total_mistakes" db:"total_mistakes"`
	DueCards       int       `json:"due_cards" db:"due_cards"`
	NewCards       int       `json:"new_cards" db:"new_cards"`
	LearningCards  int       `json:"learning_cards" db:"learning_cards"`
	GraduatedCards int       `json:"graduated_cards" db:"graduated_cards"`
	AvgEasiness    float64   `json:"avg_easiness" db:"avg_easiness"`
	ReviewsToday   int       `json:"reviews_today" db:"reviews_today"`
	RefreshedAt    time.Time `json:"refreshed_at" db:"refreshed_at"`
}
