package aisvc

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/tutor"
)

type openaiModel struct {
	client     *openai.Client
	model      string
	imageModel string
	timeout    time.Duration
}

var _ tutor.Model = (*openaiModel)(nil)

func NewOpenAIModel(conf *core.Config) (tutor.Model, error) {
	if conf.AI.OpenAIAPIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	return &openaiModel{
		client:     openai.NewClientWithConfig(openai.DefaultConfig(conf.AI.OpenAIAPIKey)),
		model:      conf.AI.OpenAIModel,
		imageModel: conf.AI.OpenAIImageModel,
		timeout:    conf.AI.Timeout,
	}, nil
}

func (m *openaiModel) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &InvalidResponseError{Err: errors.New("no choices in OpenAI response")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (m *openaiModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	return m.complete(ctx, openai.ChatCompletionRequest{
		Model:    m.model,
		Messages: []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
	})
}

func (m *openaiModel) GenerateImage(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()

	resp, err := m.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          m.imageModel,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", ErrNoMedia
	}
	return "data:image/png;base64," + resp.Data[0].B64JSON, nil
}

func (m *openaiModel) GenerateJSON(ctx context.Context, prompt string, schema tutor.Schema) (json.RawMessage, error) {
	schemaBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling schema")
	}

	content, err := m.complete(ctx, openai.ChatCompletionRequest{
		Model:    m.model,
		Messages: []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schema.Name,
				Schema: json.RawMessage(schemaBytes),
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	raw := json.RawMessage(content)
	if err = validateResponse(schema, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Err: err}
	}
	return errors.Wrap(err, "openai")
}
