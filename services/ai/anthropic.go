package aisvc

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/tutor"
)

const anthropicMaxTokens = 1024

// anthropicModel answers text and JSON prompts. It cannot draw avatars.
type anthropicModel struct {
	client  *anthropic.Client
	model   string
	timeout time.Duration
}

var _ tutor.Model = (*anthropicModel)(nil)

func NewAnthropicModel(conf *core.Config) (tutor.Model, error) {
	if conf.AI.AnthropicAPIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}
	client := anthropic.NewClient(option.WithAPIKey(conf.AI.AnthropicAPIKey))
	return &anthropicModel{
		client:  &client,
		model:   conf.AI.AnthropicModel,
		timeout: conf.AI.Timeout,
	}, nil
}

func (m *anthropicModel) send(ctx context.Context, params anthropic.MessageNewParams) (string, error) {
	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()

	msg, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", mapAnthropicError(err)
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", &InvalidResponseError{Err: errors.New("no text content in Anthropic response")}
}

func (m *anthropicModel) params(prompt string) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{{
			Role:    anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(prompt)},
		}},
	}
}

func (m *anthropicModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	return m.send(ctx, m.params(prompt))
}

func (m *anthropicModel) GenerateImage(context.Context, string) (string, error) {
	return "", ErrImageUnsupported
}

func (m *anthropicModel) GenerateJSON(ctx context.Context, prompt string, schema tutor.Schema) (json.RawMessage, error) {
	params := m.params(prompt)
	params.OutputConfig = anthropic.OutputConfigParam{
		Format: anthropic.JSONOutputFormatParam{Schema: schema.Definition},
	}

	content, err := m.send(ctx, params)
	if err != nil {
		return nil, err
	}
	raw := json.RawMessage(content)
	if err = validateResponse(schema, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Err: err}
	}
	return errors.Wrap(err, "anthropic")
}
