package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prd_planner/internal/models"
)

type PrdQuestionRepository struct {
	pool *pgxpool.Pool
}

func NewPrdQuestionRepository(pool *pgxpool.Pool) *PrdQuestionRepository {
	return &PrdQuestionRepository{pool: pool}
}

const insertQuestion = `
	INSERT INTO prd_questions (id, prd_id, round_number, question, answer, created_at)
	VALUES ($1, $2, $3, $4, NULL, $5)
`

func newRound(prdID uuid.UUID, round int, texts []string) []models.PrdQuestion {
	// Offsetting created_at keeps insertion order stable under ORDER BY created_at.
	base := time.Now()
	questions := make([]models.PrdQuestion, len(texts))
	for i, text := range texts {
		questions[i] = models.PrdQuestion{
			PrdID:       prdID,
			RoundNumber: round,
			Question:    text,
			CreatedAt:   base.Add(time.Duration(i) * time.Microsecond),
		}
		questions[i].Prepare()
	}
	return questions
}

func queueInserts(batch *pgx.Batch, questions []models.PrdQuestion) {
	for _, q := range questions {
		batch.Queue(insertQuestion, q.ID, q.PrdID, q.RoundNumber, q.Question, q.CreatedAt)
	}
}

// CreateBatch inserts one round of questions for a PRD.
func (r *PrdQuestionRepository) CreateBatch(ctx context.Context, prdID uuid.UUID, round int, texts []string) ([]models.PrdQuestion, error) {
	questions := newRound(prdID, round, texts)

	batch := &pgx.Batch{}
	queueInserts(batch, questions)
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("inserting round %d questions: %w", round, err)
	}
	return questions, nil
}

func (r *PrdQuestionRepository) ListByPrdID(ctx context.Context, prdID uuid.UUID) ([]models.PrdQuestion, error) {
	query := `
		SELECT id, prd_id, round_number, question, answer, created_at
		FROM prd_questions WHERE prd_id = $1
		ORDER BY round_number ASC, created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, prdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []models.PrdQuestion{}
	for rows.Next() {
		var q models.PrdQuestion
		if err := rows.Scan(&q.ID, &q.PrdID, &q.RoundNumber, &q.Question, &q.Answer, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

// UpdateAnswers writes every answer in one transaction. A nil answer clears the column.
// Each row must belong to prdID and round, otherwise nothing is written.
func (r *PrdQuestionRepository) UpdateAnswers(ctx context.Context, prdID uuid.UUID, round int, answers map[uuid.UUID]*string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for id, answer := range answers {
			result, err := tx.Exec(ctx,
				`UPDATE prd_questions SET answer = $1 WHERE id = $2 AND prd_id = $3 AND round_number = $4`,
				answer, id, prdID, round,
			)
			if err != nil {
				return err
			}
			if result.RowsAffected() == 0 {
				return fmt.Errorf("question %s not in round %d of prd %s", id, round, prdID)
			}
		}
		return nil
	})
}

// AdvanceRound inserts the questions of nextRound and moves the PRD's
// current_round_number to it, atomically.
func (r *PrdQuestionRepository) AdvanceRound(ctx context.Context, prdID uuid.UUID, nextRound int, texts []string) ([]models.PrdQuestion, error) {
	questions := newRound(prdID, nextRound, texts)

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		queueInserts(batch, questions)
		batch.Queue(
			`UPDATE prds SET current_round_number = $2, updated_at = NOW() WHERE id = $1`,
			prdID, nextRound,
		)

		results := tx.SendBatch(ctx, batch)
		for range questions {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return err
			}
		}
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return err
		}
		if err := results.Close(); err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrPrdNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPrdNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("advancing to round %d: %w", nextRound, err)
	}
	return questions, nil
}
