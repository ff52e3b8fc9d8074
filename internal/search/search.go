// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the web search provider and collects result
// records for the pipeline. Provider failures never propagate past this
// boundary: each query produces an Outcome carrying either results or the
// error, and the pipeline continues with whatever was gathered.
package search

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/dataset-forge/internal/pacing"
	"github.com/pdiddy/dataset-forge/pkg/types"
)

// Backend searches a single provider. Implementations follow the Strategy
// pattern so tests can substitute a stub.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, count int) ([]types.SearchResult, error)
}

// Outcome records what one query produced. Err is set when the provider
// failed; Results is then empty. Callers can distinguish "no results"
// from "provider error" even though the pipeline treats both as empty.
type Outcome struct {
	Query   string
	Results []types.SearchResult
	Err     error
}

// SearchAll runs each query against the backend in order, pausing per the
// pacing policy after every call. Provider errors are logged to w and
// recorded in the outcome; collected results concatenate in query order.
func SearchAll(ctx context.Context, backend Backend, queries []string, count int, pace pacing.Policy, w io.Writer) ([]types.SearchResult, []Outcome) {
	var all []types.SearchResult
	outcomes := make([]Outcome, 0, len(queries))

	for _, query := range queries {
		results, err := backend.Search(ctx, query, count)
		if err != nil {
			fmt.Fprintf(w, "warning: search %q failed: %v\n", query, err)
			outcomes = append(outcomes, Outcome{Query: query, Err: err})
		} else {
			outcomes = append(outcomes, Outcome{Query: query, Results: results})
			all = append(all, results...)
		}

		if err := pace.Wait(ctx, pacing.KindSearch); err != nil {
			break
		}
	}
	return all, outcomes
}
