package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PrdQuestion struct {
	ID          uuid.UUID `json:"id"`
	PrdID       uuid.UUID `json:"prd_id"`
	RoundNumber int       `json:"round_number"`
	Question    string    `json:"question"`
	Answer      *string   `json:"answer,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (q *PrdQuestion) Prepare() {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
}

// IsAnswered is true only for a non-nil answer that is non-empty after trimming.
func (q PrdQuestion) IsAnswered() bool {
	return q.Answer != nil && strings.TrimSpace(*q.Answer) != ""
}
