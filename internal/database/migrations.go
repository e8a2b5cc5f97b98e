package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// RunMigrations applies every migration in order. Each one is idempotent.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		createEnumTypes,
		createPrdsTable,
		createPrdQuestionsTable,
		createIndexes,
	}

	for i, migration := range migrations {
		log.Debugf("Running migration %d/%d", i+1, len(migrations))
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Info("All migrations completed successfully")
	return nil
}

const createEnumTypes = `
DO $$
BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'prd_status_t') THEN
    CREATE TYPE prd_status_t AS ENUM ('planning', 'planning_review', 'prd_review', 'completed');
  END IF;
END$$;
`

const createPrdsTable = `
CREATE TABLE IF NOT EXISTS prds (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  user_id UUID NOT NULL,
  name TEXT NOT NULL,
  main_problem TEXT NOT NULL,
  in_scope TEXT NOT NULL,
  out_of_scope TEXT NOT NULL,
  success_criteria TEXT NOT NULL,
  status prd_status_t NOT NULL DEFAULT 'planning',
  summary TEXT,
  content TEXT,
  current_round_number INTEGER NOT NULL DEFAULT 1 CHECK (current_round_number >= 1),
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  CONSTRAINT prds_summary_after_planning CHECK (summary IS NULL OR status <> 'planning'),
  CONSTRAINT prds_content_in_review CHECK (content IS NULL OR status IN ('prd_review', 'completed'))
);
`

const createPrdQuestionsTable = `
CREATE TABLE IF NOT EXISTS prd_questions (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  prd_id UUID NOT NULL REFERENCES prds(id) ON DELETE CASCADE,
  round_number INTEGER NOT NULL CHECK (round_number >= 1),
  question TEXT NOT NULL,
  answer TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_prds_user_updated ON prds (user_id, updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_prd_questions_prd_round ON prd_questions (prd_id, round_number, created_at);
`
