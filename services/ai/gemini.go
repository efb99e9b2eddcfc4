package aisvc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/tutor"
)

// geminiModel is the default model: text, avatars and structured suggestions.
type geminiModel struct {
	client     *genai.Client
	model      string
	imageModel string
	timeout    time.Duration
}

var _ tutor.Model = (*geminiModel)(nil)

func NewGeminiModel(ctx context.Context, conf *core.Config) (tutor.Model, error) {
	if conf.AI.GeminiAPIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  conf.AI.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating Gemini client")
	}
	return &geminiModel{
		client:     client,
		model:      conf.AI.GeminiModel,
		imageModel: conf.AI.GeminiImageModel,
		timeout:    conf.AI.Timeout,
	}, nil
}

func (m *geminiModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()

	result, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), nil)
	if err != nil {
		return "", mapGeminiError(err)
	}
	return result.Text(), nil
}

func (m *geminiModel) GenerateImage(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
	result, err := m.client.Models.GenerateContent(ctx, m.imageModel, genai.Text(prompt), config)
	if err != nil {
		return "", mapGeminiError(err)
	}

	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return dataURI(part.InlineData.MIMEType, part.InlineData.Data), nil
			}
		}
	}
	return "", ErrNoMedia
}

func (m *geminiModel) GenerateJSON(ctx context.Context, prompt string, schema tutor.Schema) (json.RawMessage, error) {
	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   buildGeminiSchema(schema.Definition),
	}
	result, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	content := json.RawMessage(result.Text())
	if err = validateResponse(schema, content); err != nil {
		return nil, err
	}
	return content, nil
}

// buildGeminiSchema converts a JSON schema definition to a genai.Schema.
func buildGeminiSchema(def map[string]interface{}) *genai.Schema {
	schema := &genai.Schema{}
	if t, ok := def["type"].(string); ok {
		schema.Type = mapGeminiType(t)
	}
	if desc, ok := def["description"].(string); ok {
		schema.Description = desc
	}
	if props, ok := def["properties"].(map[string]interface{}); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for k, v := range props {
			if propDef, ok := v.(map[string]interface{}); ok {
				schema.Properties[k] = buildGeminiSchema(propDef)
			}
		}
	}
	if req, ok := def["required"].([]interface{}); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}
	if items, ok := def["items"].(map[string]interface{}); ok {
		schema.Items = buildGeminiSchema(items)
	}
	return schema
}

func mapGeminiType(t string) genai.Type {
	switch t {
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func mapGeminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return &RateLimitError{Err: err}
	}
	return errors.Wrap(err, "gemini")
}

func dataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	var sb strings.Builder
	sb.WriteString("data:")
	sb.WriteString(mimeType)
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String()
}
