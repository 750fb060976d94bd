package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/haasonsaas/nexus/internal/assistant/domain"
)

const openaiDefaultModel = "gpt-4o"

// OpenAIProvider implements Provider as a fallback LLM backend against the
// OpenAI chat completions API. Structured output uses OpenAI's JSON-schema
// response format rather than tool calling, since a forced single-tool call
// is not available on every OpenAI-compatible deployment this provider may
// point at.
type OpenAIProvider struct {
	client     *openai.Client
	model      string
	maxRetries int
	retryDelay time.Duration
}

// OpenAIConfig configures an OpenAIProvider.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
	RetryDelay time.Duration
}

// NewOpenAIProvider builds a Provider backed by the go-openai client.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("llm: openai API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = openaiDefaultModel
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      model,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}, nil
}

// Generate implements Provider.
func (p *OpenAIProvider) Generate(ctx context.Context, messages []Message) (string, error) {
	resp, err := p.complete(ctx, openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: toOpenAIMessages(messages),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", domain.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateStructured implements Provider via OpenAI's JSON-schema response
// format, then post-validates/decodes through schema.
func (p *OpenAIProvider) GenerateStructured(ctx context.Context, messages []Message, schema *Schema, out any) error {
	var schemaMap map[string]any
	if err := json.Unmarshal(schema.JSON(), &schemaMap); err != nil {
		return &SchemaError{SchemaName: schema.Name, Cause: err}
	}

	resp, err := p.complete(ctx, openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: toOpenAIMessages(messages),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schema.Name,
				Schema: schemaMap,
				Strict: true,
			},
		},
	})
	if err != nil {
		return err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return &SchemaError{SchemaName: schema.Name, Cause: domain.ErrEmptyResponse}
	}

	return schema.Decode([]byte(resp.Choices[0].Message.Content), out)
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case domain.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case domain.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

func (p *OpenAIProvider) complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return openai.ChatCompletionResponse{}, &Error{Provider: "openai", Cause: ctx.Err()}
			case <-time.After(p.retryDelay * time.Duration(attempt)):
			}
		}

		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !isRetryableOpenAIError(err) {
			break
		}
	}
	return openai.ChatCompletionResponse{}, &Error{Provider: "openai", Cause: lastErr}
}

func isRetryableOpenAIError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, substr := range []string{
		"rate limit", "429", "too many requests",
		"500", "502", "503", "504",
		"server error", "bad gateway", "service unavailable", "gateway timeout",
		"timeout", "deadline exceeded",
		"connection reset", "connection refused",
	} {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}
