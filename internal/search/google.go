// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/dataset-forge/pkg/types"
)

// googleAPIBase is the Google Custom Search JSON API endpoint. Declared
// as a var so tests can substitute an httptest server.
var googleAPIBase = "https://www.googleapis.com/customsearch/v1"

// googleMaxNum is the provider-imposed ceiling on results per request.
const googleMaxNum = 10

// GoogleBackend queries the Google Custom Search JSON API.
type GoogleBackend struct {
	Client   *http.Client
	APIKey   string
	EngineID string
}

// Name returns the backend identifier.
func (b *GoogleBackend) Name() string { return "google_cse" }

// Search issues one query and returns up to count result records.
func (b *GoogleBackend) Search(ctx context.Context, query string, count int) ([]types.SearchResult, error) {
	if b.APIKey == "" || b.EngineID == "" {
		return nil, fmt.Errorf("google search requires an API key and engine ID")
	}
	if count <= 0 || count > googleMaxNum {
		count = googleMaxNum
	}

	params := url.Values{
		"key": {b.APIKey},
		"cx":  {b.EngineID},
		"q":   {query},
		"num": {fmt.Sprintf("%d", count)},
	}
	reqURL := googleAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Google search API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google search API returned HTTP %d", resp.StatusCode)
	}

	var gr googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("parsing Google search response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(gr.Items))
	for _, item := range gr.Items {
		results = append(results, types.SearchResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}

// Google Custom Search API JSON structures.
type googleResponse struct {
	Items []googleItem `json:"items"`
}

type googleItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}
