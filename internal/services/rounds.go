package services

import "prd_planner/internal/models"

// RoundState splits a PRD's questions for display and gating. Answered holds
// every answered question of the current round plus all questions of earlier
// rounds; Unanswered holds only current-round questions.
type RoundState struct {
	CurrentRound  int                  `json:"current_round"`
	Answered      []models.PrdQuestion `json:"answered"`
	Unanswered    []models.PrdQuestion `json:"unanswered"`
	RoundComplete bool                 `json:"round_complete"`
}

// Partition keeps the input order within each side. It has no side effects.
func Partition(questions []models.PrdQuestion, currentRound int) RoundState {
	state := RoundState{
		CurrentRound: currentRound,
		Answered:     []models.PrdQuestion{},
		Unanswered:   []models.PrdQuestion{},
	}

	answeredInRound := 0
	for _, q := range questions {
		if q.RoundNumber != currentRound {
			state.Answered = append(state.Answered, q)
			continue
		}
		if q.IsAnswered() {
			state.Answered = append(state.Answered, q)
			answeredInRound++
		} else {
			state.Unanswered = append(state.Unanswered, q)
		}
	}

	// An empty round is never complete.
	state.RoundComplete = answeredInRound > 0 && len(state.Unanswered) == 0
	return state
}

// History returns the answered questions in order, which is what the prompts consume.
func (s RoundState) History() []models.PrdQuestion {
	history := make([]models.PrdQuestion, 0, len(s.Answered))
	for _, q := range s.Answered {
		if q.IsAnswered() {
			history = append(history, q)
		}
	}
	return history
}
