package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prd_planner/internal/apperrors"
	"prd_planner/internal/models"
)

func TestIncompleteRoundBlocksAdvancement(t *testing.T) {
	f := newFixture(t)
	prd := f.addPrd(models.StatusPlanning, nil, nil)
	q1 := f.store.AddQuestion(prd.ID, 1, "Who are the users?", str("Answer 1"))
	q2 := f.store.AddQuestion(prd.ID, 1, "What platforms?", nil)

	state, err := f.planning.GetPlanningState(context.Background(), f.userID, prd.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{q1.ID}, ids(state.Answered))
	assert.Equal(t, []uuid.UUID{q2.ID}, ids(state.Unanswered))
	assert.False(t, state.RoundComplete)

	_, err = f.planning.ContinuePlanning(context.Background(), f.userID, prd.ID)
	requireKind(t, err, apperrors.KindConflict)

	_, err = f.planning.RequestSummary(context.Background(), f.userID, prd.ID)
	requireKind(t, err, apperrors.KindConflict)

	assert.Zero(t, f.provider.Calls())
	assert.Empty(t, f.store.Patches)
}

func TestEmptyRoundBlocksAdvancement(t *testing.T) {
	f := newFixture(t)
	prd := f.addPrd(models.StatusPlanning, nil, nil)

	_, err := f.planning.ContinuePlanning(context.Background(), f.userID, prd.ID)
	requireKind(t, err, apperrors.KindConflict)
	_, err = f.planning.RequestSummary(context.Background(), f.userID, prd.ID)
	requireKind(t, err, apperrors.KindConflict)
	assert.Zero(t, f.provider.Calls())
}

func ids(questions []models.PrdQuestion) []uuid.UUID {
	out := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		out[i] = q.ID
	}
	return out
}

func TestSubmitAnswers(t *testing.T) {
	f := newFixture(t)
	prd := f.addPrd(models.StatusPlanning, nil, nil)
	q1 := f.store.AddQuestion(prd.ID, 1, "Who?", nil)
	q2 := f.store.AddQuestion(prd.ID, 1, "What?", str("old"))

	state, err := f.planning.SubmitAnswers(context.Background(), f.userID, prd.ID, SubmitAnswersRequest{
		Answers: []AnswerInput{
			{QuestionID: q1.ID.String(), Answer: "  Home cooks \n"},
			{QuestionID: q2.ID.String(), Answer: "   "},
		},
	})
	require.NoError(t, err)

	stored := f.store.Questions(prd.ID)
	require.Len(t, stored, 2)
	require.NotNil(t, stored[0].Answer)
	assert.Equal(t, "Home cooks", *stored[0].Answer)
	assert.Nil(t, stored[1].Answer)

	assert.Equal(t, []uuid.UUID{q1.ID}, ids(state.Answered))
	assert.Equal(t, []uuid.UUID{q2.ID}, ids(state.Unanswered))
	assert.False(t, state.RoundComplete)
}

func TestSubmitAnswersRejectsForeignQuestions(t *testing.T) {
	f := newFixture(t)
	prd := f.store.AddPrd(models.Prd{UserID: f.userID, Name: "n", CurrentRoundNumber: 2})
	old := f.store.AddQuestion(prd.ID, 1, "Old?", str("yes"))
	current := f.store.AddQuestion(prd.ID, 2, "Now?", nil)

	cases := map[string][]AnswerInput{
		"earlier round": {{QuestionID: old.ID.String(), Answer: "a"}},
		"malformed":     {{QuestionID: "not-a-uuid", Answer: "a"}},
		"duplicate": {
			{QuestionID: current.ID.String(), Answer: "a"},
			{QuestionID: current.ID.String(), Answer: "b"},
		},
		"none": {},
	}
	for name, answers := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.planning.SubmitAnswers(context.Background(), f.userID, prd.ID, SubmitAnswersRequest{Answers: answers})
			requireKind(t, err, apperrors.KindValidation)
			assert.Nil(t, f.store.Questions(prd.ID)[1].Answer)
		})
	}
}

func TestSubmitAnswersUnknownQuestion(t *testing.T) {
	f := newFixture(t)
	planning := f.addPrd(models.StatusPlanning, nil, nil)
	current := f.store.AddQuestion(planning.ID, 1, "Who?", nil)
	reviewing := f.addPrd(models.StatusPlanningReview, str("S"), nil)
	f.store.AddQuestion(reviewing.ID, 1, "Who?", str("Cooks"))
	other := f.addPrd(models.StatusPlanning, nil, nil)
	foreign := f.store.AddQuestion(other.ID, 1, "Elsewhere?", nil)

	cases := []struct {
		name    string
		prdID   uuid.UUID
		answers []AnswerInput
	}{
		{"unknown id", planning.ID, []AnswerInput{{QuestionID: uuid.NewString(), Answer: "a"}}},
		{"other prd", planning.ID, []AnswerInput{{QuestionID: foreign.ID.String(), Answer: "a"}}},
		{"alongside a valid answer", planning.ID, []AnswerInput{
			{QuestionID: current.ID.String(), Answer: "a"},
			{QuestionID: uuid.NewString(), Answer: "b"},
		}},
		{"before status guard", reviewing.ID, []AnswerInput{{QuestionID: uuid.NewString(), Answer: "a"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.planning.SubmitAnswers(context.Background(), f.userID, tc.prdID, SubmitAnswersRequest{Answers: tc.answers})
			appErr := requireKind(t, err, apperrors.KindNotFound)
			assert.Equal(t, "question not found", appErr.Message)
		})
	}
	assert.Nil(t, f.store.Questions(planning.ID)[0].Answer)
	assert.Nil(t, f.store.Questions(other.ID)[0].Answer)
}

func TestSubmitAnswersOutsidePlanning(t *testing.T) {
	f := newFixture(t)
	prd := f.addPrd(models.StatusPlanningReview, str("S"), nil)
	q := f.store.AddQuestion(prd.ID, 1, "Who?", nil)

	_, err := f.planning.SubmitAnswers(context.Background(), f.userID, prd.ID, SubmitAnswersRequest{
		Answers: []AnswerInput{{QuestionID: q.ID.String(), Answer: "a"}},
	})
	appErr := requireKind(t, err, apperrors.KindConflict)
	assert.Equal(t, "PRD must be in planning status to submit answers", appErr.Message)
}

func TestSubmitAnswersStoreFailure(t *testing.T) {
	f := newFixture(t)
	prd := f.addPrd(models.StatusPlanning, nil, nil)
	q := f.store.AddQuestion(prd.ID, 1, "Who?", nil)
	f.store.AnswersErr = errors.New("deadlock detected")

	_, err := f.planning.SubmitAnswers(context.Background(), f.userID, prd.ID, SubmitAnswersRequest{
		Answers: []AnswerInput{{QuestionID: q.ID.String(), Answer: "a"}},
	})
	requireKind(t, err, apperrors.KindUpdate)
	assert.Contains(t, err.Error(), "deadlock detected")
}

func TestContinuePlanning(t *testing.T) {
	f := newFixture(t)
	prd := f.addPrd(models.StatusPlanning, nil, nil)
	f.store.AddQuestion(prd.ID, 1, "Who?", str("Cooks"))
	f.provider.Respond(map[string][]string{"questions": {"  Which devices?  ", "Offline use?"}})

	state, err := f.planning.ContinuePlanning(context.Background(), f.userID, prd.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, state.CurrentRound)
	assert.Len(t, state.Answered, 1)
	require.Len(t, state.Unanswered, 2)
	assert.Equal(t, "Which devices?", state.Unanswered[0].Question)
	assert.False(t, state.RoundComplete)
	assert.Equal(t, 2, f.store.Prd(prd.ID).CurrentRoundNumber)
	assert.Equal(t, models.StatusPlanning, f.store.Prd(prd.ID).Status)

	require.Equal(t, 1, f.provider.Calls())
	req := f.provider.Requests[0]
	assert.Equal(t, 3, req.Schema.Properties["questions"].MaxItems)
	assert.Contains(t, req.UserPrompt, "Q: Who?\nA: Cooks")
}

func TestContinuePlanningGenerationFailure(t *testing.T) {
	f := newFixture(t)
	prd := f.addPrd(models.StatusPlanning, nil, nil)
	f.store.AddQuestion(prd.ID, 1, "Who?", str("Cooks"))
	f.provider.Fail(errors.New("rate limited"))

	_, err := f.planning.ContinuePlanning(context.Background(), f.userID, prd.ID)
	requireKind(t, err, apperrors.KindGeneration)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Equal(t, 1, f.store.Prd(prd.ID).CurrentRoundNumber)
	assert.Len(t, f.store.Questions(prd.ID), 1)
}

func TestContinuePlanningStoreFailure(t *testing.T) {
	f := newFixture(t)
	prd := f.addPrd(models.StatusPlanning, nil, nil)
	f.store.AddQuestion(prd.ID, 1, "Who?", str("Cooks"))
	f.provider.Respond(map[string][]string{"questions": {"Next?"}})
	f.store.AdvanceErr = errors.New("tx aborted")

	_, err := f.planning.ContinuePlanning(context.Background(), f.userID, prd.ID)
	requireKind(t, err, apperrors.KindUpdate)
	assert.Contains(t, err.Error(), "tx aborted")
}

func TestRequestSummary(t *testing.T) {
	f := newFixture(t)
	prd := f.addPrd(models.StatusPlanning, nil, nil)
	f.store.AddQuestion(prd.ID, 1, "Who?", str("Cooks"))
	f.provider.Respond(map[string]string{"summary": "A recipe box for cooks."})

	updated, err := f.planning.RequestSummary(context.Background(), f.userID, prd.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlanningReview, updated.Status)
	assert.Equal(t, "A recipe box for cooks.", *updated.Summary)

	require.Len(t, f.store.Patches, 1)
	assert.Equal(t, models.PrdPatch{
		Summary: str("A recipe box for cooks."),
		Status:  statusPtr(models.StatusPlanningReview),
	}, f.store.Patches[0].Patch)
	assert.Nil(t, f.store.Prd(prd.ID).Content)
}

func TestRequestSummaryWrongStatus(t *testing.T) {
	f := newFixture(t)
	prd := f.addPrd(models.StatusPrdReview, str("S"), str("# Doc"))

	_, err := f.planning.RequestSummary(context.Background(), f.userID, prd.ID)
	appErr := requireKind(t, err, apperrors.KindConflict)
	assert.Equal(t, "PRD must be in planning status to generate summary", appErr.Message)
	assert.Zero(t, f.provider.Calls())
}

func TestRequestSummaryBlankResponse(t *testing.T) {
	f := newFixture(t)
	prd := f.addPrd(models.StatusPlanning, nil, nil)
	f.store.AddQuestion(prd.ID, 1, "Who?", str("Cooks"))
	f.provider.Respond(map[string]string{"summary": "  "})

	_, err := f.planning.RequestSummary(context.Background(), f.userID, prd.ID)
	requireKind(t, err, apperrors.KindGeneration)
	assert.Empty(t, f.store.Patches)
	assert.Equal(t, models.StatusPlanning, f.store.Prd(prd.ID).Status)
}

func TestPlanningNotFound(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()

	_, err := f.planning.GetPlanningState(context.Background(), f.userID, missing)
	requireKind(t, err, apperrors.KindNotFound)
	_, err = f.planning.SubmitAnswers(context.Background(), f.userID, missing, SubmitAnswersRequest{})
	requireKind(t, err, apperrors.KindNotFound)
	_, err = f.planning.ContinuePlanning(context.Background(), f.userID, missing)
	requireKind(t, err, apperrors.KindNotFound)
	_, err = f.planning.RequestSummary(context.Background(), f.userID, missing)
	requireKind(t, err, apperrors.KindNotFound)
}

func TestLoadFailureIsNotNotFound(t *testing.T) {
	f := newFixture(t)
	f.store.GetErr = errors.New("pool closed")

	_, err := f.planning.GetPlanningState(context.Background(), f.userID, uuid.New())
	require.Error(t, err)
	assert.Empty(t, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "pool closed")
}
