package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
)

const (
	anthropicDefaultModel     = "claude-sonnet-4-20250514"
	anthropicDefaultMaxTokens = 4096
	anthropicStructuredTool   = "emit_result"
)

// AnthropicConfig configures an AnthropicProvider.
type AnthropicConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int
	MaxRetries int
	RetryDelay time.Duration
}

// AnthropicProvider implements Provider against Anthropic's Messages API.
// Structured output is obtained by forcing a single-tool call whose input
// schema is the declared Schema, rather than relying on free-form JSON in a
// text block.
type AnthropicProvider struct {
	client     anthropic.Client
	model      string
	maxTokens  int
	maxRetries int
	retryDelay time.Duration
}

// NewAnthropicProvider builds a Provider backed by the Anthropic SDK.
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("llm: anthropic API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = anthropicDefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicProvider{
		client:     anthropic.NewClient(opts...),
		model:      model,
		maxTokens:  maxTokens,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}, nil
}

// Generate implements Provider.
func (p *AnthropicProvider) Generate(ctx context.Context, messages []Message) (string, error) {
	params := p.baseParams(messages)

	msg, err := p.send(ctx, params)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	out := text.String()
	if out == "" {
		return "", domain.ErrEmptyResponse
	}
	return out, nil
}

// GenerateStructured implements Provider by forcing the model to call a
// single tool whose input schema is schema's JSON Schema document, then
// decoding that tool call's input through schema.Decode.
func (p *AnthropicProvider) GenerateStructured(ctx context.Context, messages []Message, schema *Schema, out any) error {
	var schemaMap map[string]any
	if err := json.Unmarshal(schema.JSON(), &schemaMap); err != nil {
		return &SchemaError{SchemaName: schema.Name, Cause: err}
	}

	tool := anthropic.ToolUnionParamOfTool(anthropic.ToolInputSchemaParam{ExtraFields: schemaMap}, anthropicStructuredTool)
	if tool.OfTool != nil {
		tool.OfTool.Description = anthropic.String("Emit the " + schema.Name + " result.")
	}

	params := p.baseParams(messages)
	params.Tools = []anthropic.ToolUnionParam{tool}
	params.ToolChoice = anthropic.ToolChoiceParamOfTool(anthropicStructuredTool)

	msg, err := p.send(ctx, params)
	if err != nil {
		return err
	}

	for _, block := range msg.Content {
		if block.Type != "tool_use" || block.Name != anthropicStructuredTool {
			continue
		}
		raw, err := json.Marshal(block.Input)
		if err != nil {
			return &Error{Provider: "anthropic", Cause: err}
		}
		return schema.Decode(raw, out)
	}

	return &SchemaError{SchemaName: schema.Name, Cause: errors.New("provider did not return a tool_use block")}
}

func (p *AnthropicProvider) baseParams(messages []Message) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(p.maxTokens),
	}

	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
		case domain.RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	return params
}

// send issues params with exponential-backoff retries for transient
// failures, mirroring the retry policy used elsewhere against this API.
func (p *AnthropicProvider) send(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		attempts = attempt + 1
		msg, err := p.client.Messages.New(ctx, params)
		if err == nil {
			return msg, nil
		}
		lastErr = err
		if !isRetryableAnthropicError(err) || attempt == p.maxRetries {
			break
		}
		delay := p.retryDelay * time.Duration(math.Pow(2, float64(attempt)))
		select {
		case <-ctx.Done():
			return nil, &Error{Provider: "anthropic", Cause: ctx.Err()}
		case <-time.After(delay):
		}
	}
	return nil, &Error{Provider: "anthropic", Cause: fmt.Errorf("after %d attempts: %w", attempts, lastErr)}
}

func isRetryableAnthropicError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, substr := range []string{
		"rate_limit", "429", "too many requests",
		"500", "502", "503", "504",
		"internal server error", "bad gateway", "service unavailable", "gateway timeout",
		"timeout", "deadline exceeded",
		"connection reset", "connection refused", "no such host",
	} {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}
