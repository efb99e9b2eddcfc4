package aisvc

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/farmwise/farmwise/core/tutor"
)

// FakeModel is a deterministic tutor.Model. It records every prompt it receives.
type FakeModel struct {
	mu sync.Mutex

	Text    string
	TextErr error
	Image   string
	ImgErr  error
	JSON    json.RawMessage
	JSONErr error

	Prompts []string
}

var _ tutor.Model = (*FakeModel)(nil)

func NewFakeModel() *FakeModel {
	return &FakeModel{
		Text:  "Great question! Healthy soil holds water and nutrients for your crops.",
		Image: "data:image/png;base64,iVBORw0KGgo=",
		JSON:  json.RawMessage(`{"suggestedModules":"Soil Health Basics","reasoning":"It builds the foundation for every crop."}`),
	}
}

func (m *FakeModel) record(prompt string) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()
}

func (m *FakeModel) GenerateText(_ context.Context, prompt string) (string, error) {
	m.record(prompt)
	if m.TextErr != nil {
		return "", m.TextErr
	}
	return m.Text, nil
}

func (m *FakeModel) GenerateImage(_ context.Context, prompt string) (string, error) {
	m.record(prompt)
	if m.ImgErr != nil {
		return "", m.ImgErr
	}
	return m.Image, nil
}

func (m *FakeModel) GenerateJSON(_ context.Context, prompt string, schema tutor.Schema) (json.RawMessage, error) {
	m.record(prompt)
	if m.JSONErr != nil {
		return nil, m.JSONErr
	}
	if err := validateResponse(schema, m.JSON); err != nil {
		return nil, err
	}
	return m.JSON, nil
}

// LastPrompt returns the most recent prompt, or "" when none was sent.
func (m *FakeModel) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}

// Reset restores the default answers and forgets recorded prompts.
func (m *FakeModel) Reset() {
	fresh := NewFakeModel()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Text, m.TextErr = fresh.Text, nil
	m.Image, m.ImgErr = fresh.Image, nil
	m.JSON, m.JSONErr = fresh.JSON, nil
	m.Prompts = nil
}
