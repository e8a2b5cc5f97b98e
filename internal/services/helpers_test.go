package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"prd_planner/internal/apperrors"
	"prd_planner/internal/models"
	"prd_planner/internal/prompts"
	"prd_planner/internal/testutil"
)

type fixture struct {
	store     *testutil.Store
	provider  *testutil.Provider
	generator *Generator
	documents *DocumentService
	planning  *PlanningService
	prds      *PrdService
	userID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	provider := testutil.NewProvider()
	generator := NewGenerator(provider, prompts.Defaults(), 3)
	documents := NewDocumentService(store, generator)
	return &fixture{
		store:     store,
		provider:  provider,
		generator: generator,
		documents: documents,
		planning:  NewPlanningService(store, store, generator, documents),
		prds:      NewPrdService(store, store, generator),
		userID:    uuid.New(),
	}
}

func (f *fixture) addPrd(status models.PrdStatus, summary, content *string) models.Prd {
	return f.store.AddPrd(models.Prd{
		UserID:          f.userID,
		Name:            "Recipe box",
		MainProblem:     "Recipes are scattered",
		InScope:         "Web app",
		OutOfScope:      "Mobile",
		SuccessCriteria: "100 weekly users",
		Status:          status,
		Summary:         summary,
		Content:         content,
	})
}

func requireKind(t *testing.T, err error, kind apperrors.Kind) *apperrors.Error {
	t.Helper()
	require.Error(t, err)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, kind, appErr.Kind, "error: %v", err)
	return appErr
}
