package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// MockProvider answers every request with placeholder values shaped by the
// requested schema. Used when no API key is configured.
type MockProvider struct{}

func NewMockProvider() *MockProvider { return &MockProvider{} }

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) Complete(ctx context.Context, req Request) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Kind: ErrNetwork, Err: err}
	}

	names := make([]string, 0, len(req.Schema.Properties))
	for name := range req.Schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]any, len(names))
	for _, name := range names {
		prop := req.Schema.Properties[name]
		switch prop.Type {
		case "array":
			n := prop.MaxItems
			if n == 0 {
				n = 3
			}
			items := make([]string, n)
			for i := range items {
				items[i] = fmt.Sprintf("Mock %s %d (mock)", name, i+1)
			}
			out[name] = items
		default:
			out[name] = fmt.Sprintf("Mock %s (mock)", name)
		}
	}
	return json.Marshal(out)
}
