// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline chains the generation stages into a single run:
// query planning, web search, content acquisition, entry synthesis,
// and export.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/dataset-forge/internal/archive"
	"github.com/pdiddy/dataset-forge/internal/export"
	"github.com/pdiddy/dataset-forge/internal/fetch"
	"github.com/pdiddy/dataset-forge/internal/model"
	"github.com/pdiddy/dataset-forge/internal/pacing"
	"github.com/pdiddy/dataset-forge/internal/queryplan"
	"github.com/pdiddy/dataset-forge/internal/search"
	"github.com/pdiddy/dataset-forge/internal/synthesize"
	"github.com/pdiddy/dataset-forge/pkg/types"
)

const defaultResultsPerQuery = 5

// Options selects what a single run produces.
type Options struct {
	// Topic is the subject the dataset is about.
	Topic string

	// Size is the requested number of entries.
	Size int

	// Queries, when non-empty, bypasses query planning and is used as-is.
	Queries []string
}

// Summary reports what each stage of a completed run produced.
type Summary struct {
	RunID         string
	Queries       []string
	FailedQueries int
	ResultCount   int
	SourceCount   int
	EntryCount    int
	DocumentPath  string
	CSVPath       string
}

// Pipeline holds the stage backends for a run. Model, Search, Fetcher,
// and Pace must be set; Archive is optional.
type Pipeline struct {
	Model           model.Backend
	Search          search.Backend
	Fetcher         *fetch.Fetcher
	Pace            pacing.Policy
	Export          types.ExportConfig
	Archive         *archive.Store
	ResultsPerQuery int

	// Now and NewID exist for tests; nil means time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// Run executes the full pipeline and writes the Markdown document, the
// CSV file, and the run manifest. Search and fetch failures degrade the
// run; model and file-write errors abort it.
func (p *Pipeline) Run(ctx context.Context, opts Options, w io.Writer) (Summary, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	newID := uuid.NewString
	if p.NewID != nil {
		newID = p.NewID
	}

	summary := Summary{
		RunID:        newID(),
		DocumentPath: p.Export.DocumentPath,
		CSVPath:      p.Export.CSVPath,
	}
	startedAt := now()

	fmt.Fprintf(w, "run %s: generating dataset about %q (%d entries)\n",
		summary.RunID, opts.Topic, opts.Size)

	queries, err := queryplan.Plan(ctx, p.Model, opts.Topic, opts.Size, opts.Queries)
	if err != nil {
		return summary, fmt.Errorf("planning queries: %w", err)
	}
	summary.Queries = queries
	fmt.Fprintf(w, "planned %d search queries\n", len(queries))

	resultsPerQuery := p.ResultsPerQuery
	if resultsPerQuery <= 0 {
		resultsPerQuery = defaultResultsPerQuery
	}

	results, outcomes := search.SearchAll(ctx, p.Search, queries, resultsPerQuery, p.Pace, w)
	for _, o := range outcomes {
		if o.Err != nil {
			summary.FailedQueries++
		}
	}
	summary.ResultCount = len(results)
	fmt.Fprintf(w, "collected %d search results\n", len(results))

	materials := fetch.FetchAll(ctx, p.Fetcher, results, opts.Size, p.Pace, w)
	summary.SourceCount = len(materials)
	fmt.Fprintf(w, "fetched %d source pages\n", len(materials))

	dataset, err := synthesize.Synthesize(ctx, p.Model, opts.Topic, materials, opts.Size, p.Pace, w)
	if err != nil {
		return summary, fmt.Errorf("synthesizing entries: %w", err)
	}
	summary.EntryCount = len(dataset)
	fmt.Fprintf(w, "synthesized %d entries\n", len(dataset))

	if err := p.writeOutputs(dataset, opts.Topic, now()); err != nil {
		return summary, err
	}
	fmt.Fprintf(w, "wrote %s and %s\n", p.Export.DocumentPath, p.Export.CSVPath)

	if err := writeManifest(manifestPath(p.Export.DocumentPath), summary, opts, startedAt); err != nil {
		fmt.Fprintf(w, "warning: run manifest write failed: %v\n", err)
	}

	if p.Archive != nil {
		run := archive.Run{
			ID:           summary.RunID,
			Topic:        opts.Topic,
			CreatedAt:    startedAt,
			DocumentPath: p.Export.DocumentPath,
			CSVPath:      p.Export.CSVPath,
			Entries:      dataset,
		}
		if err := p.Archive.Save(ctx, run); err != nil {
			fmt.Fprintf(w, "warning: archive save failed: %v\n", err)
		} else {
			fmt.Fprintf(w, "archived run %s\n", summary.RunID)
		}
	}

	return summary, nil
}

func (p *Pipeline) writeOutputs(dataset types.Dataset, topic string, now time.Time) error {
	if err := export.WriteDocument(p.Export.DocumentPath, dataset, topic, now); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	if err := export.WriteCSV(p.Export.CSVPath, dataset); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}
