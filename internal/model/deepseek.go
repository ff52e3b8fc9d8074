// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// deepseekAPIURL is the Deepseek chat completions endpoint. Package-level
// var for test substitution.
var deepseekAPIURL = "https://api.deepseek.com/chat/completions"

const defaultDeepseekModel = "deepseek-chat"

// DeepseekBackend calls the Deepseek chat API over its OpenAI-compatible
// wire format.
type DeepseekBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// deepseekRequest is the request body for the chat completions API.
type deepseekRequest struct {
	Model     string            `json:"model"`
	MaxTokens int               `json:"max_tokens"`
	Messages  []deepseekMessage `json:"messages"`
}

// deepseekMessage is a single message in the conversation.
type deepseekMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// deepseekResponse is the response body from the chat completions API.
type deepseekResponse struct {
	Choices []deepseekChoice `json:"choices"`
}

type deepseekChoice struct {
	Message deepseekMessage `json:"message"`
}

// Name returns the backend identifier.
func (b *DeepseekBackend) Name() string { return "deepseek" }

// Complete submits the prompt as a single user message and returns the
// first choice's content.
func (b *DeepseekBackend) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m := b.Model
	if m == "" {
		m = defaultDeepseekModel
	}

	reqBody := deepseekRequest{
		Model:     m,
		MaxTokens: maxTokens,
		Messages: []deepseekMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, deepseekAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Deepseek API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Deepseek API returned %d: %s", resp.StatusCode, string(body))
	}

	var dResp deepseekResponse
	if err := json.NewDecoder(resp.Body).Decode(&dResp); err != nil {
		return "", fmt.Errorf("decoding Deepseek response: %w", err)
	}

	if len(dResp.Choices) == 0 {
		return "", fmt.Errorf("Deepseek API returned no choices")
	}
	return dResp.Choices[0].Message.Content, nil
}
