// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package queryplan produces the search queries for a topic, either from
// caller-supplied input or by prompting the model for a numbered list.
package queryplan

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/dataset-forge/internal/model"
)

// maxQueries caps how many queries a run will use regardless of size.
const maxQueries = 10

// queryPromptTmpl asks the model for distinct queries covering different
// subtopics, formatted as a numbered list.
var queryPromptTmpl = template.Must(template.New("queries").Parse(`I need to create a comprehensive dataset about "{{.Topic}}".
Please generate {{.Count}} specific search queries that will help gather
diverse and high-quality information for this dataset.
Each search query should focus on a different aspect or subtopic of "{{.Topic}}".
Return only the search queries as a numbered list.
`))

// listPrefixes are the leading markers stripped from list items.
var listPrefixes = []string{
	"1.", "2.", "3.", "4.", "5.", "6.", "7.", "8.", "9.", "10.", "•", "-", "*",
}

// Cap returns the query budget for a requested dataset size.
func Cap(size int) int {
	if size < maxQueries {
		return size
	}
	return maxQueries
}

// Plan returns the queries for a run. Supplied queries are used verbatim,
// capped at Cap(size); otherwise the model is prompted and its response
// parsed into a list.
func Plan(ctx context.Context, backend model.Backend, topic string, size int, supplied []string) ([]string, error) {
	limit := Cap(size)
	if len(supplied) > 0 {
		if len(supplied) > limit {
			supplied = supplied[:limit]
		}
		return supplied, nil
	}

	prompt, err := renderQueryPrompt(topic, limit)
	if err != nil {
		return nil, fmt.Errorf("rendering query prompt: %w", err)
	}

	response, err := backend.Complete(ctx, prompt, 1000)
	if err != nil {
		return nil, fmt.Errorf("generating search queries: %w", err)
	}

	queries := ParseQueryList(response)
	if len(queries) > limit {
		queries = queries[:limit]
	}
	return queries, nil
}

// ParseQueryList extracts queries from a model response. Lines beginning
// with a digit, bullet, dash, or asterisk count as list items and have
// their marker stripped. If no line matches, every non-blank line is a
// query.
func ParseQueryList(response string) []string {
	lines := strings.Split(strings.TrimSpace(response), "\n")

	var queries []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !isListItem(trimmed) {
			continue
		}
		if q := stripMarker(trimmed); q != "" {
			queries = append(queries, q)
		}
	}

	if len(queries) == 0 {
		for _, line := range lines {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				queries = append(queries, trimmed)
			}
		}
	}
	return queries
}

// isListItem reports whether the line starts with a digit or bullet marker.
func isListItem(line string) bool {
	c := line[0]
	return (c >= '0' && c <= '9') || strings.HasPrefix(line, "•") ||
		strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*")
}

// stripMarker removes the first matching list marker and surrounding space.
func stripMarker(line string) string {
	for _, prefix := range listPrefixes {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix))
		}
	}
	return line
}

func renderQueryPrompt(topic string, count int) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Topic string
		Count int
	}{Topic: topic, Count: count}
	if err := queryPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
