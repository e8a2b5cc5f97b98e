package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"prd_planner/internal/database"
	"prd_planner/internal/models"
)

// newTestPool starts a throwaway Postgres, migrates it and returns a pool.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in -short mode")
	}

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("prd_planner"),
		postgres.WithUsername("prd"),
		postgres.WithPassword("prd"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.ConnectDSN(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.RunMigrations(ctx, pool))
	// Migrations are idempotent.
	require.NoError(t, database.RunMigrations(ctx, pool))
	return pool
}

func newTestPrd(userID uuid.UUID) *models.Prd {
	return &models.Prd{
		UserID:          userID,
		Name:            "Recipe box",
		MainProblem:     "Recipes are scattered",
		InScope:         "Web app",
		OutOfScope:      "Mobile",
		SuccessCriteria: "100 weekly users",
	}
}
