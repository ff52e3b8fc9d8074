// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model abstracts the generative model provider behind a single
// completion interface. Query planning and entry synthesis both prompt
// through it; tests supply a mock.
package model

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/dataset-forge/pkg/types"
)

// Backend submits one prompt to the model provider and returns the raw
// response text. The provider guarantees no structure; callers parse
// heuristically.
type Backend interface {
	Name() string
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// New builds the configured backend. The default is Deepseek.
func New(cfg types.AIConfig, client *http.Client) (Backend, error) {
	switch cfg.Backend {
	case "", "deepseek":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("deepseek API key required")
		}
		return &DeepseekBackend{APIKey: cfg.APIKey, Model: cfg.Model, Client: client}, nil
	case "anthropic":
		return NewAnthropicBackend(cfg)
	default:
		return nil, fmt.Errorf("unknown model backend %q: use deepseek or anthropic", cfg.Backend)
	}
}
