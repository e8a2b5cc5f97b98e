// Package prompts builds the deterministic prompt pairs sent to the AI
// provider. System prompts have built-in defaults that a YAML file may
// override; user prompts always wrap each PRD field in a named delimiter.
package prompts

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"prd_planner/internal/models"
)

// DocumentSections are the sections every generated document must contain, in order.
var DocumentSections = []string{
	"Project Overview",
	"User Problem",
	"Functional Requirements",
	"Project Boundaries",
	"User Stories",
	"Success Metrics",
}

// Set holds the system prompts. Empty fields in a loaded file keep the default.
type Set struct {
	Questions string `yaml:"questions"`
	Summary   string `yaml:"summary"`
	Document  string `yaml:"document"`
}

func Defaults() Set {
	return Set{
		Questions: defaultQuestionsPrompt,
		Summary:   defaultSummaryPrompt,
		Document:  documentSystemPrompt(),
	}
}

// Load reads overrides from a YAML file on top of Defaults. An empty path returns Defaults.
func Load(path string) (Set, error) {
	set := Defaults()
	if path == "" {
		return set, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("reading prompts file: %w", err)
	}

	var override Set
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Set{}, fmt.Errorf("parsing prompts file %s: %w", path, err)
	}

	if strings.TrimSpace(override.Questions) != "" {
		set.Questions = override.Questions
	}
	if strings.TrimSpace(override.Summary) != "" {
		set.Summary = override.Summary
	}
	if strings.TrimSpace(override.Document) != "" {
		set.Document = override.Document
	}
	return set, nil
}

const defaultQuestionsPrompt = `You are a senior product manager helping a user plan a Product Requirements Document.
Ask focused clarifying questions that uncover users, workflows, constraints and edge cases
the user has not described yet. Never repeat a question that was already answered.
Return the questions through the provided tool only.`

const defaultSummaryPrompt = `You are a senior product manager. Summarize the planning conversation into a concise
brief that captures the product intent, key decisions, users, constraints and open risks.
Write plain prose with short paragraphs. Return the summary through the provided tool only.`

func documentSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are a senior product manager writing a Product Requirements Document in Markdown.\n")
	b.WriteString("The document MUST contain exactly these sections, in this order, each as a level-2 heading:\n")
	for i, section := range DocumentSections {
		fmt.Fprintf(&b, "%d. %s\n", i+1, section)
	}
	b.WriteString("Ground every statement in the provided project details and planning summary.\n")
	b.WriteString("Return the full document through the provided tool only.")
	return b.String()
}

func tag(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "<%s>\n%s\n</%s>\n", name, strings.TrimSpace(value), name)
}

func writeProject(b *strings.Builder, prd *models.Prd) {
	tag(b, "name", prd.Name)
	tag(b, "main_problem", prd.MainProblem)
	tag(b, "in_scope", prd.InScope)
	tag(b, "out_of_scope", prd.OutOfScope)
	tag(b, "success_criteria", prd.SuccessCriteria)
}

func writeHistory(b *strings.Builder, history []models.PrdQuestion) {
	b.WriteString("<planning_history>\n")
	for _, q := range history {
		answer := ""
		if q.Answer != nil {
			answer = strings.TrimSpace(*q.Answer)
		}
		fmt.Fprintf(b, "Round %d\nQ: %s\nA: %s\n\n", q.RoundNumber, strings.TrimSpace(q.Question), answer)
	}
	b.WriteString("</planning_history>\n")
}

// Questions builds the user prompt for the next round's questions.
func Questions(prd *models.Prd, history []models.PrdQuestion, round, count int) string {
	var b strings.Builder
	b.WriteString("Plan the next round of questions for this product.\n\n")
	writeProject(&b, prd)
	if len(history) > 0 {
		writeHistory(&b, history)
	}
	fmt.Fprintf(&b, "\nWrite between 1 and %d questions for planning round %d.", count, round)
	return b.String()
}

// Summary builds the user prompt that condenses the answered planning rounds.
func Summary(prd *models.Prd, history []models.PrdQuestion) string {
	var b strings.Builder
	b.WriteString("Summarize the planning so far.\n\n")
	writeProject(&b, prd)
	writeHistory(&b, history)
	return b.String()
}

// Document builds the user prompt for the final document. summary must be non-blank.
func Document(prd *models.Prd, summary string) string {
	var b strings.Builder
	b.WriteString("Write the Product Requirements Document for this product.\n\n")
	writeProject(&b, prd)
	tag(&b, "summary", summary)
	return b.String()
}
