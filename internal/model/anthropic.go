// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pdiddy/dataset-forge/pkg/types"
)

const defaultAnthropicModel = "claude-3-5-haiku-20241022"

// AnthropicBackend calls the Anthropic Messages API through the official SDK.
type AnthropicBackend struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicBackend builds the backend. ANTHROPIC_API_KEY takes
// precedence over the configured key.
func NewAnthropicBackend(cfg types.AIConfig) (*AnthropicBackend, error) {
	apiKey := cfg.APIKey
	if envKey := os.Getenv("ANTHROPIC_API_KEY"); envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key required: set ANTHROPIC_API_KEY or provide via config")
	}

	m := cfg.Model
	if m == "" {
		m = defaultAnthropicModel
	}

	return &AnthropicBackend{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(m),
	}, nil
}

// Name returns the backend identifier.
func (b *AnthropicBackend) Name() string { return "anthropic" }

// Complete submits the prompt as a single user message and returns the
// first text block of the response.
func (b *AnthropicBackend) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	message, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     b.model,
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling Anthropic API: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic API response")
}
