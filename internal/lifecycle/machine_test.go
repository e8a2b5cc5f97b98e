package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prd_planner/internal/apperrors"
	"prd_planner/internal/models"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		from    models.PrdStatus
		trigger Trigger
		want    models.PrdStatus
		wantErr bool
	}{
		{"summary from planning", models.StatusPlanning, TriggerGenerateSummary, models.StatusPlanningReview, false},
		{"document from planning_review", models.StatusPlanningReview, TriggerGenerateDocument, models.StatusPrdReview, false},
		{"edit keeps prd_review", models.StatusPrdReview, TriggerUpdateDocument, models.StatusPrdReview, false},
		{"finalize", models.StatusPrdReview, TriggerFinalize, models.StatusCompleted, false},
		{"no skipping", models.StatusPlanning, TriggerGenerateDocument, "", true},
		{"no going back", models.StatusPrdReview, TriggerGenerateSummary, "", true},
		{"completed is terminal", models.StatusCompleted, TriggerUpdateDocument, "", true},
		{"unknown trigger", models.StatusPlanning, Trigger("rewind"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.trigger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextNeverMovesBackward(t *testing.T) {
	order := []models.PrdStatus{
		models.StatusPlanning,
		models.StatusPlanningReview,
		models.StatusPrdReview,
		models.StatusCompleted,
	}
	triggers := []Trigger{
		TriggerGenerateSummary,
		TriggerGenerateDocument,
		TriggerUpdateDocument,
		TriggerFinalize,
	}
	rank := make(map[models.PrdStatus]int, len(order))
	for i, s := range order {
		rank[s] = i
	}

	for _, from := range order {
		for _, trigger := range triggers {
			to, err := Next(from, trigger)
			if err != nil {
				continue
			}
			step := rank[to] - rank[from]
			if trigger == TriggerUpdateDocument {
				assert.Equal(t, 0, step, "%s from %s", trigger, from)
			} else {
				assert.Equal(t, 1, step, "%s from %s", trigger, from)
			}
		}
	}
	for _, trigger := range triggers {
		_, err := Next(models.StatusCompleted, trigger)
		assert.Error(t, err, "%s must not fire from completed", trigger)
	}
}

func strPtr(s string) *string { return &s }

func TestRequirePlanningReview(t *testing.T) {
	tests := []struct {
		name    string
		prd     models.Prd
		wantMsg string
	}{
		{"ok", models.Prd{Status: models.StatusPlanningReview, Summary: strPtr("S")}, ""},
		{"wrong status", models.Prd{Status: models.StatusPlanning, Summary: strPtr("S")}, "PRD must be in planning_review status to generate document"},
		{"nil summary", models.Prd{Status: models.StatusPlanningReview}, "Cannot generate document: PRD has no summary"},
		{"empty summary", models.Prd{Status: models.StatusPlanningReview, Summary: strPtr("")}, "Cannot generate document: PRD has no summary"},
		{"blank summary", models.Prd{Status: models.StatusPlanningReview, Summary: strPtr(" \n\t")}, "Cannot generate document: PRD has no summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prd := tt.prd
			view, err := RequirePlanningReview(&prd)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, "S", view.Summary())
				assert.Same(t, &prd, view.Prd())
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestRequirePrdReview(t *testing.T) {
	_, err := RequirePrdReview(&models.Prd{Status: models.StatusPlanningReview}, "update document")
	require.Error(t, err)
	assert.Equal(t, "PRD must be in prd_review status to update document", err.Error())

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "prd_review", appErr.ExpectedStatus)

	_, err = RequirePrdReview(&models.Prd{Status: models.StatusPrdReview}, "update document")
	assert.NoError(t, err)
}

func TestRequirePlanning(t *testing.T) {
	_, err := RequirePlanning(&models.Prd{Status: models.StatusPlanningReview}, "continue planning")
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	view, err := RequirePlanning(&models.Prd{Status: models.StatusPlanning}, "continue planning")
	require.NoError(t, err)
	assert.NotNil(t, view.Prd())
}
