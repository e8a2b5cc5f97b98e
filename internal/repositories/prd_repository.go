package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prd_planner/internal/models"
)

var ErrPrdNotFound = errors.New("prd not found")

const prdColumns = `id, user_id, name, main_problem, in_scope, out_of_scope, success_criteria,
	status, summary, content, current_round_number, created_at, updated_at`

type PrdRepository struct {
	pool *pgxpool.Pool
}

func NewPrdRepository(pool *pgxpool.Pool) *PrdRepository {
	return &PrdRepository{pool: pool}
}

func scanPrd(row pgx.Row) (*models.Prd, error) {
	var prd models.Prd
	err := row.Scan(
		&prd.ID,
		&prd.UserID,
		&prd.Name,
		&prd.MainProblem,
		&prd.InScope,
		&prd.OutOfScope,
		&prd.SuccessCriteria,
		&prd.Status,
		&prd.Summary,
		&prd.Content,
		&prd.CurrentRoundNumber,
		&prd.CreatedAt,
		&prd.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if !prd.Status.Valid() {
		return nil, fmt.Errorf("prd %s has unknown status %q", prd.ID, prd.Status)
	}
	return &prd, nil
}

func (r *PrdRepository) Create(ctx context.Context, prd *models.Prd) error {
	prd.Prepare()

	query := `
		INSERT INTO prds (id, user_id, name, main_problem, in_scope, out_of_scope, success_criteria,
			status, summary, content, current_round_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
	`

	now := time.Now()
	_, err := r.pool.Exec(ctx, query,
		prd.ID,
		prd.UserID,
		prd.Name,
		prd.MainProblem,
		prd.InScope,
		prd.OutOfScope,
		prd.SuccessCriteria,
		string(prd.Status),
		prd.Summary,
		prd.Content,
		prd.CurrentRoundNumber,
		now,
	)
	if err != nil {
		return err
	}

	prd.CreatedAt = now
	prd.UpdatedAt = now
	return nil
}

func (r *PrdRepository) GetByIDAndUserID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Prd, error) {
	query := `SELECT ` + prdColumns + ` FROM prds WHERE id = $1 AND user_id = $2`

	prd, err := scanPrd(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return prd, nil
}

func (r *PrdRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Prd, error) {
	query := `SELECT ` + prdColumns + ` FROM prds WHERE user_id = $1
		ORDER BY updated_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prds := []models.Prd{}
	for rows.Next() {
		prd, err := scanPrd(rows)
		if err != nil {
			return nil, err
		}
		prds = append(prds, *prd)
	}

	return prds, rows.Err()
}

func (r *PrdRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM prds WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// Update writes only the non-nil fields of patch, plus updated_at, in a single statement.
func (r *PrdRepository) Update(ctx context.Context, id uuid.UUID, patch models.PrdPatch) error {
	if patch.IsEmpty() {
		return errors.New("empty update")
	}

	sets := make([]string, 0, 4)
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Summary != nil {
		add("summary", *patch.Summary)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	sets = append(sets, "updated_at = NOW()")

	query := `UPDATE prds SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrPrdNotFound
	}
	return nil
}

func (r *PrdRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM prds WHERE id = $1`, id)
	return err
}

func (r *PrdRepository) DeleteByIDAndUserID(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM prds WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrPrdNotFound
	}

	return nil
}
