package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"prd_planner/internal/ai"
)

// Provider is a scripted ai.Provider. Each call pops the next response or
// error; once the script is exhausted the last entry repeats.
type Provider struct {
	mu        sync.Mutex
	responses []json.RawMessage
	errs      []error
	Requests  []ai.Request
}

func NewProvider() *Provider {
	return &Provider{}
}

// Respond queues a successful response marshalled from v.
func (p *Provider) Respond(v any) *Provider {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, raw)
	p.errs = append(p.errs, nil)
	return p
}

// Fail queues a failing call.
func (p *Provider) Fail(err error) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, nil)
	p.errs = append(p.errs, err)
	return p
}

func (p *Provider) Name() string {
	return "scripted"
}

func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Requests)
}

func (p *Provider) Complete(ctx context.Context, req ai.Request) (json.RawMessage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Requests = append(p.Requests, req)
	if len(p.errs) == 0 {
		return json.RawMessage(`{}`), nil
	}
	i := min(len(p.Requests)-1, len(p.errs)-1)
	return p.responses[i], p.errs[i]
}
