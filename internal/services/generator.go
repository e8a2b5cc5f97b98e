package services

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"prd_planner/internal/ai"
	"prd_planner/internal/apperrors"
	"prd_planner/internal/lifecycle"
	"prd_planner/internal/models"
	"prd_planner/internal/prompts"
)

const (
	generationTemperature    = 0.7
	DefaultQuestionsPerRound = 5
)

func questionsSchema(max int) ai.Schema {
	return ai.Schema{
		Name:        "planning_questions",
		Description: "Clarifying questions for the next planning round",
		Properties: map[string]ai.Property{
			"questions": {Type: "array", Description: "One question per item", MinItems: 1, MaxItems: max},
		},
		Required: []string{"questions"},
	}
}

var (
	summarySchema = ai.Schema{
		Name:        "planning_summary",
		Description: "Summary of the planning conversation",
		Properties: map[string]ai.Property{
			"summary": {Type: "string", Description: "The planning summary"},
		},
		Required: []string{"summary"},
	}

	documentSchema = ai.Schema{
		Name:        "prd_document",
		Description: "The complete Product Requirements Document in Markdown",
		Properties: map[string]ai.Property{
			"document": {Type: "string", Description: "The full document"},
		},
		Required: []string{"document"},
	}
)

// Generator turns prompts into AI calls. Every provider failure comes back
// as a Generation error that keeps the provider's message.
type Generator struct {
	provider          ai.Provider
	prompts           prompts.Set
	questionsPerRound int
}

func NewGenerator(provider ai.Provider, set prompts.Set, questionsPerRound int) *Generator {
	if questionsPerRound <= 0 {
		questionsPerRound = DefaultQuestionsPerRound
	}
	return &Generator{
		provider:          provider,
		prompts:           set,
		questionsPerRound: questionsPerRound,
	}
}

func (g *Generator) complete(ctx context.Context, failure string, req ai.Request, out any) error {
	raw, err := g.provider.Complete(ctx, req)
	if err == nil {
		err = ai.Decode(raw, req.Schema, out)
	}
	if err != nil {
		log.WithFields(log.Fields{
			"provider": g.provider.Name(),
			"schema":   req.Schema.Name,
			"kind":     ai.ErrorKindOf(err),
		}).WithError(err).Warn("AI generation failed")
		return apperrors.Generation(failure, err)
	}
	return nil
}

// Questions asks for the questions of the given round.
func (g *Generator) Questions(ctx context.Context, prd *models.Prd, history []models.PrdQuestion, round int) ([]string, error) {
	var out struct {
		Questions []string `json:"questions"`
	}
	req := ai.Request{
		SystemPrompt: g.prompts.Questions,
		UserPrompt:   prompts.Questions(prd, history, round, g.questionsPerRound),
		Schema:       questionsSchema(g.questionsPerRound),
		Temperature:  generationTemperature,
	}
	if err := g.complete(ctx, "Failed to generate questions", req, &out); err != nil {
		return nil, err
	}

	questions := make([]string, len(out.Questions))
	for i, q := range out.Questions {
		questions[i] = strings.TrimSpace(q)
	}
	return questions, nil
}

// Summary condenses the planning history of a PRD still in planning.
func (g *Generator) Summary(ctx context.Context, view lifecycle.Planning, history []models.PrdQuestion) (string, error) {
	var out struct {
		Summary string `json:"summary"`
	}
	req := ai.Request{
		SystemPrompt: g.prompts.Summary,
		UserPrompt:   prompts.Summary(view.Prd(), history),
		Schema:       summarySchema,
		Temperature:  generationTemperature,
	}
	if err := g.complete(ctx, "Failed to generate summary", req, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Summary) == "" {
		return "", apperrors.Generation("Failed to generate summary", emptyField("summary"))
	}
	return out.Summary, nil
}

// Document writes the full document from a PRD's summary.
func (g *Generator) Document(ctx context.Context, view lifecycle.PlanningReview) (string, error) {
	var out struct {
		Document string `json:"document"`
	}
	req := ai.Request{
		SystemPrompt: g.prompts.Document,
		UserPrompt:   prompts.Document(view.Prd(), view.Summary()),
		Schema:       documentSchema,
		Temperature:  generationTemperature,
	}
	if err := g.complete(ctx, "Failed to generate document", req, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Document) == "" {
		return "", apperrors.Generation("Failed to generate document", emptyField("document"))
	}
	return out.Document, nil
}

func emptyField(name string) error {
	return &ai.Error{Kind: ai.ErrValidation, Err: fmt.Errorf("field %q is empty", name)}
}
