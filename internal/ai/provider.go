// Package ai is the completion-provider contract the PRD core depends on:
// a system prompt, a user prompt and a strict JSON output schema in, a
// structured object (or a typed provider error) out.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

type Provider interface {
	// Name returns the provider identifier for logging.
	Name() string

	// Complete returns a JSON object conforming to req.Schema.
	Complete(ctx context.Context, req Request) (json.RawMessage, error)
}

type Request struct {
	SystemPrompt string
	UserPrompt   string
	Schema       Schema
	Temperature  float64
}

// Property is one top-level field of a Schema.
type Property struct {
	Type        string `json:"type"` // "string" or "array" (of strings)
	Description string `json:"description,omitempty"`
	MinItems    int    `json:"-"`
	MaxItems    int    `json:"-"`
}

// Schema is a flat object schema: every property listed in Required must be
// present and no other properties are allowed.
type Schema struct {
	Name        string
	Description string
	Properties  map[string]Property
	Required    []string
}

// JSONProperties renders the properties in JSON-schema form.
func (s Schema) JSONProperties() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for name, p := range s.Properties {
		prop := map[string]any{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if p.Type == "array" {
			prop["items"] = map[string]any{"type": "string"}
			if p.MinItems > 0 {
				prop["minItems"] = p.MinItems
			}
			if p.MaxItems > 0 {
				prop["maxItems"] = p.MaxItems
			}
		}
		props[name] = prop
	}
	return props
}

type ErrorKind string

const (
	ErrNetwork    ErrorKind = "network"
	ErrAPI        ErrorKind = "api"
	ErrParsing    ErrorKind = "parsing"
	ErrValidation ErrorKind = "validation"
	ErrUnknown    ErrorKind = "unknown"
)

// Error is a provider failure of one of the provider's own kinds.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// ErrorKindOf returns the provider kind of err, ErrUnknown when it carries none.
func ErrorKindOf(err error) ErrorKind {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Kind
	}
	return ErrUnknown
}
