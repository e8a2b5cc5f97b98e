// Package testutil holds in-memory fakes of the stores and the AI provider.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"prd_planner/internal/models"
	"prd_planner/internal/repositories"
)

// PatchCall is one recorded PrdStore.Update call.
type PatchCall struct {
	ID    uuid.UUID
	Patch models.PrdPatch
}

// Store is an in-memory PrdStore and QuestionStore. Set the *Err fields to
// make the matching operation fail.
type Store struct {
	mu        sync.Mutex
	prds      map[uuid.UUID]models.Prd
	questions []models.PrdQuestion

	Patches []PatchCall
	Deleted []uuid.UUID

	GetErr     error
	CreateErr  error
	UpdateErr  error
	ListErr    error
	AnswersErr error
	BatchErr   error
	AdvanceErr error
}

func NewStore() *Store {
	return &Store{prds: make(map[uuid.UUID]models.Prd)}
}

// AddPrd seeds a PRD, filling defaults through Prepare.
func (s *Store) AddPrd(prd models.Prd) models.Prd {
	s.mu.Lock()
	defer s.mu.Unlock()
	prd.Prepare()
	if prd.CreatedAt.IsZero() {
		prd.CreatedAt = time.Now()
		prd.UpdatedAt = prd.CreatedAt
	}
	s.prds[prd.ID] = prd
	return prd
}

// AddQuestion seeds a question. A nil answer leaves it unanswered.
func (s *Store) AddQuestion(prdID uuid.UUID, round int, text string, answer *string) models.PrdQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := models.PrdQuestion{PrdID: prdID, RoundNumber: round, Question: text, Answer: answer}
	q.Prepare()
	q.CreatedAt = time.Now().Add(time.Duration(len(s.questions)) * time.Millisecond)
	s.questions = append(s.questions, q)
	return q
}

// Prd returns the stored PRD, or nil.
func (s *Store) Prd(id uuid.UUID) *models.Prd {
	s.mu.Lock()
	defer s.mu.Unlock()
	prd, ok := s.prds[id]
	if !ok {
		return nil
	}
	return &prd
}

func (s *Store) Questions(prdID uuid.UUID) []models.PrdQuestion {
	questions, _ := s.ListByPrdID(context.Background(), prdID)
	return questions
}

func (s *Store) Create(ctx context.Context, prd *models.Prd) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prd.Prepare()
	prd.CreatedAt = time.Now()
	prd.UpdatedAt = prd.CreatedAt
	s.prds[prd.ID] = *prd
	return nil
}

func (s *Store) GetByIDAndUserID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Prd, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prd, ok := s.prds[id]
	if !ok || prd.UserID != userID {
		return nil, nil
	}
	return &prd, nil
}

func (s *Store) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Prd, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := []models.Prd{}
	for _, prd := range s.prds {
		if prd.UserID == userID {
			owned = append(owned, prd)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].UpdatedAt.Equal(owned[j].UpdatedAt) {
			return owned[i].UpdatedAt.After(owned[j].UpdatedAt)
		}
		return owned[i].ID.String() < owned[j].ID.String()
	})
	if offset >= len(owned) {
		return []models.Prd{}, nil
	}
	end := min(offset+limit, len(owned))
	return owned[offset:end], nil
}

func (s *Store) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	if s.ListErr != nil {
		return 0, s.ListErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, prd := range s.prds {
		if prd.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, patch models.PrdPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Patches = append(s.Patches, PatchCall{ID: id, Patch: patch})
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	prd, ok := s.prds[id]
	if !ok {
		return repositories.ErrPrdNotFound
	}
	if patch.Summary != nil {
		prd.Summary = patch.Summary
	}
	if patch.Content != nil {
		prd.Content = patch.Content
	}
	if patch.Status != nil {
		prd.Status = *patch.Status
	}
	prd.UpdatedAt = time.Now()
	s.prds[id] = prd
	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(id)
	return nil
}

func (s *Store) DeleteByIDAndUserID(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prd, ok := s.prds[id]
	if !ok || prd.UserID != userID {
		return repositories.ErrPrdNotFound
	}
	s.deleteLocked(id)
	return nil
}

func (s *Store) deleteLocked(id uuid.UUID) {
	delete(s.prds, id)
	s.Deleted = append(s.Deleted, id)
	kept := s.questions[:0]
	for _, q := range s.questions {
		if q.PrdID != id {
			kept = append(kept, q)
		}
	}
	s.questions = kept
}

func (s *Store) CreateBatch(ctx context.Context, prdID uuid.UUID, round int, texts []string) ([]models.PrdQuestion, error) {
	if s.BatchErr != nil {
		return nil, s.BatchErr
	}
	created := make([]models.PrdQuestion, 0, len(texts))
	for _, text := range texts {
		created = append(created, s.AddQuestion(prdID, round, text, nil))
	}
	return created, nil
}

func (s *Store) ListByPrdID(ctx context.Context, prdID uuid.UUID) ([]models.PrdQuestion, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.PrdQuestion{}
	for _, q := range s.questions {
		if q.PrdID == prdID {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RoundNumber < out[j].RoundNumber
	})
	return out, nil
}

func (s *Store) UpdateAnswers(ctx context.Context, prdID uuid.UUID, round int, answers map[uuid.UUID]*string) error {
	if s.AnswersErr != nil {
		return s.AnswersErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range answers {
		if !s.hasQuestionLocked(id, prdID, round) {
			return fmt.Errorf("question %s not in round %d of prd %s", id, round, prdID)
		}
	}
	for i, q := range s.questions {
		if answer, ok := answers[q.ID]; ok {
			s.questions[i].Answer = answer
		}
	}
	return nil
}

func (s *Store) hasQuestionLocked(id, prdID uuid.UUID, round int) bool {
	for _, q := range s.questions {
		if q.ID == id && q.PrdID == prdID && q.RoundNumber == round {
			return true
		}
	}
	return false
}

func (s *Store) AdvanceRound(ctx context.Context, prdID uuid.UUID, nextRound int, texts []string) ([]models.PrdQuestion, error) {
	if s.AdvanceErr != nil {
		return nil, s.AdvanceErr
	}
	s.mu.Lock()
	prd, ok := s.prds[prdID]
	if !ok {
		s.mu.Unlock()
		return nil, repositories.ErrPrdNotFound
	}
	prd.CurrentRoundNumber = nextRound
	prd.UpdatedAt = time.Now()
	s.prds[prdID] = prd
	s.mu.Unlock()

	created := make([]models.PrdQuestion, 0, len(texts))
	for _, text := range texts {
		created = append(created, s.AddQuestion(prdID, nextRound, text, nil))
	}
	return created, nil
}
