package aisvc

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/tutor"
)

// New returns the model of the configured provider.
func New(ctx context.Context, conf *core.Config) (tutor.Model, error) {
	switch strings.ToLower(conf.AI.Provider) {
	case "", "gemini":
		return NewGeminiModel(ctx, conf)
	case "openai":
		return NewOpenAIModel(conf)
	case "anthropic":
		return NewAnthropicModel(conf)
	case "fake":
		return NewFakeModel(), nil
	default:
		return nil, errors.Errorf("unknown AI provider: %q", conf.AI.Provider)
	}
}
