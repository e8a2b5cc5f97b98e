package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel = "claude-sonnet-4-20250514"
	defaultMaxTokens      = 8192
)

type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	// BaseURL overrides the API endpoint (tests, proxies).
	BaseURL string
}

// AnthropicProvider asks Claude for structured output by forcing a single
// tool whose input schema is the requested output schema.
type AnthropicProvider struct {
	client    anthropic.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// A failed round-trip is reported, never retried, inside one operation.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return &AnthropicProvider{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
		timeout:   cfg.Timeout,
	}, nil
}

func (p *AnthropicProvider) Name() string {
	return "anthropic-api"
}

func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (json.RawMessage, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	toolName := req.Schema.Name
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(p.maxTokens),
		Temperature: anthropic.Float(req.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
		Tools: []anthropic.ToolUnionParam{
			{OfTool: &anthropic.ToolParam{
				Name:        toolName,
				Description: anthropic.String(req.Schema.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties:  req.Schema.JSONProperties(),
					Required:    req.Schema.Required,
					ExtraFields: map[string]any{"additionalProperties": false},
				},
			}},
		},
		ToolChoice: anthropic.ToolChoiceParamOfTool(toolName),
	})
	if err != nil {
		return nil, classify(err)
	}

	for _, block := range resp.Content {
		if block.Type == "tool_use" && block.Name == toolName {
			if len(block.Input) == 0 {
				return nil, newError(ErrParsing, "tool %q returned no input", toolName)
			}
			return block.Input, nil
		}
	}
	return nil, newError(ErrParsing, "no %q tool call in response (stop reason %s)", toolName, resp.StopReason)
}

func classify(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &Error{Kind: ErrAPI, StatusCode: apiErr.StatusCode, Err: err}
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) ||
		errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: ErrNetwork, Err: err}
	}

	var jsonErr *json.SyntaxError
	if errors.As(err, &jsonErr) {
		return &Error{Kind: ErrParsing, Err: err}
	}

	return &Error{Kind: ErrUnknown, Err: err}
}
