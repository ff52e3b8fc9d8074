// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesize

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pdiddy/dataset-forge/internal/pacing"
	"github.com/pdiddy/dataset-forge/pkg/types"
)

// mockBackend replays canned responses in order.
type mockBackend struct {
	responses []string
	err       error
	prompts   []string
}

func (m *mockBackend) Name() string { return "mock" }

func (m *mockBackend) Complete(_ context.Context, prompt string, _ int) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	i := len(m.prompts) - 1
	if i >= len(m.responses) {
		return "[]", nil
	}
	return m.responses[i], nil
}

func makeMaterials(n int) []types.SourceMaterial {
	materials := make([]types.SourceMaterial, n)
	for i := range materials {
		materials[i] = types.SourceMaterial{
			Title:   fmt.Sprintf("Source %d", i),
			Content: fmt.Sprintf("content of source %d", i),
			URL:     fmt.Sprintf("https://example.com/%d", i),
		}
	}
	return materials
}

func entryArray(ids ...string) string {
	var parts []string
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf(`{"id": %q, "title": "T-%s", "description": "d"}`, id, id))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestSynthesizeSingleBatch(t *testing.T) {
	backend := &mockBackend{responses: []string{entryArray("a", "b", "c")}}
	var buf bytes.Buffer

	dataset, err := Synthesize(context.Background(), backend, "Solar", makeMaterials(6), 3, pacing.Nop{}, &buf)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(dataset) != 3 {
		t.Fatalf("len(dataset) = %d, want 3", len(dataset))
	}
	if len(backend.prompts) != 1 {
		t.Errorf("model calls = %d, want 1", len(backend.prompts))
	}
	if !strings.Contains(backend.prompts[0], `about "Solar"`) || !strings.Contains(backend.prompts[0], "create 3 high-quality dataset entries") {
		t.Errorf("prompt = %q", backend.prompts[0])
	}
}

func TestSynthesizeTruncatesOverproduction(t *testing.T) {
	backend := &mockBackend{responses: []string{entryArray("a", "b", "c", "d", "e")}}
	var buf bytes.Buffer

	dataset, err := Synthesize(context.Background(), backend, "Solar", makeMaterials(6), 2, pacing.Nop{}, &buf)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(dataset) != 2 {
		t.Errorf("len(dataset) = %d, want 2 (truncated)", len(dataset))
	}
}

func TestSynthesizeAcceptsUnderproduction(t *testing.T) {
	backend := &mockBackend{responses: []string{entryArray("only")}}
	var buf bytes.Buffer

	dataset, err := Synthesize(context.Background(), backend, "Solar", makeMaterials(10), 5, pacing.Nop{}, &buf)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(dataset) != 1 {
		t.Errorf("len(dataset) = %d, want 1 (no padding, no retry)", len(dataset))
	}
}

func TestSynthesizeBatchesWithOffsetSlicing(t *testing.T) {
	backend := &mockBackend{responses: []string{
		entryArray("a1", "a2", "a3", "a4", "a5"),
		entryArray("b1", "b2"),
	}}
	var buf bytes.Buffer

	dataset, err := Synthesize(context.Background(), backend, "Solar", makeMaterials(14), 7, pacing.Nop{}, &buf)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(dataset) != 7 {
		t.Errorf("len(dataset) = %d, want 7", len(dataset))
	}
	if len(backend.prompts) != 2 {
		t.Fatalf("model calls = %d, want 2 (batches of 5 then 2)", len(backend.prompts))
	}
	// Second batch starts at source offset 5 and requests 2 entries.
	if !strings.Contains(backend.prompts[1], "create 2 high-quality dataset entries") {
		t.Errorf("second prompt should request 2 entries: %q", backend.prompts[1])
	}
	if !strings.Contains(backend.prompts[1], "Source 1: Source 5") {
		t.Errorf("second batch should begin at material offset 5: %q", backend.prompts[1])
	}
}

func TestSynthesizeStopsWhenSourcesExhausted(t *testing.T) {
	backend := &mockBackend{responses: []string{
		entryArray("a1", "a2", "a3", "a4", "a5"),
	}}
	var buf bytes.Buffer

	// Only 4 materials: the second batch (offset 5) has no sources left.
	dataset, err := Synthesize(context.Background(), backend, "Solar", makeMaterials(4), 8, pacing.Nop{}, &buf)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(dataset) != 5 {
		t.Errorf("len(dataset) = %d, want 5 (first batch only)", len(dataset))
	}
	if len(backend.prompts) != 1 {
		t.Errorf("model calls = %d, want 1", len(backend.prompts))
	}
	if !strings.Contains(buf.String(), "source materials exhausted") {
		t.Errorf("expected exhaustion notice, got %q", buf.String())
	}
}

func TestSynthesizeParseFailureYieldsEmptyBatch(t *testing.T) {
	backend := &mockBackend{responses: []string{"no json here at all"}}
	var buf bytes.Buffer

	dataset, err := Synthesize(context.Background(), backend, "Solar", makeMaterials(6), 3, pacing.Nop{}, &buf)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(dataset) != 0 {
		t.Errorf("len(dataset) = %d, want 0", len(dataset))
	}
	if !strings.Contains(buf.String(), "warning: no entries recovered") {
		t.Errorf("expected parse warning, got %q", buf.String())
	}
}

func TestSynthesizeModelErrorPropagates(t *testing.T) {
	backend := &mockBackend{err: fmt.Errorf("connection refused")}
	var buf bytes.Buffer

	if _, err := Synthesize(context.Background(), backend, "Solar", makeMaterials(6), 3, pacing.Nop{}, &buf); err == nil {
		t.Fatal("Synthesize() expected error when the model call fails")
	}
}

func TestSynthesizePromptEmbedsTruncatedSources(t *testing.T) {
	long := strings.Repeat("x", 2500)
	materials := []types.SourceMaterial{{Title: "Long", Content: long, URL: "https://example.com"}}
	backend := &mockBackend{responses: []string{entryArray("a")}}
	var buf bytes.Buffer

	if _, err := Synthesize(context.Background(), backend, "Solar", materials, 1, pacing.Nop{}, &buf); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if strings.Count(backend.prompts[0], "x") > maxSourceChars {
		t.Errorf("prompt embeds more than %d chars of source content", maxSourceChars)
	}
}

func TestSynthesizePromptKeepsMultibyteSourcesValid(t *testing.T) {
	long := strings.Repeat("é", maxSourceChars+500)
	materials := []types.SourceMaterial{{Title: "Accents", Content: long, URL: "https://example.com"}}
	backend := &mockBackend{responses: []string{entryArray("a")}}
	var buf bytes.Buffer

	if _, err := Synthesize(context.Background(), backend, "Solar", materials, 1, pacing.Nop{}, &buf); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	prompt := backend.prompts[0]
	if got := strings.Count(prompt, "é"); got != maxSourceChars {
		t.Errorf("prompt embeds %d source characters, want %d", got, maxSourceChars)
	}
	if !utf8.ValidString(prompt) {
		t.Error("prompt is not valid UTF-8")
	}
}
