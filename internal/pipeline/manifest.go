// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Manifest is the on-disk record of one pipeline run. It is written
// next to the Markdown document so a run can be audited without
// re-querying APIs.
type Manifest struct {
	Run     ManifestRun    `yaml:"run"`
	Stages  ManifestStages `yaml:"stages"`
	Outputs ManifestOut    `yaml:"outputs"`
}

// ManifestRun identifies the run and what was asked for.
type ManifestRun struct {
	ID        string    `yaml:"id"`
	Topic     string    `yaml:"topic"`
	Size      int       `yaml:"size"`
	Timestamp time.Time `yaml:"timestamp"`
}

// ManifestStages stores per-stage counts.
type ManifestStages struct {
	Queries       []string `yaml:"queries"`
	FailedQueries int      `yaml:"failed_queries"`
	SearchResults int      `yaml:"search_results"`
	SourcesKept   int      `yaml:"sources_kept"`
	Entries       int      `yaml:"entries"`
}

// ManifestOut stores where the run's artifacts were written.
type ManifestOut struct {
	Document string `yaml:"document"`
	CSV      string `yaml:"csv"`
}

// manifestPath derives the manifest location from the document path:
// output_dataset.md becomes output_dataset.run.yaml.
func manifestPath(documentPath string) string {
	base := strings.TrimSuffix(documentPath, ".md")
	return base + ".run.yaml"
}

func writeManifest(path string, summary Summary, opts Options, startedAt time.Time) error {
	m := Manifest{
		Run: ManifestRun{
			ID:        summary.RunID,
			Topic:     opts.Topic,
			Size:      opts.Size,
			Timestamp: startedAt,
		},
		Stages: ManifestStages{
			Queries:       summary.Queries,
			FailedQueries: summary.FailedQueries,
			SearchResults: summary.ResultCount,
			SourcesKept:   summary.SourceCount,
			Entries:       summary.EntryCount,
		},
		Outputs: ManifestOut{
			Document: summary.DocumentPath,
			CSV:      summary.CSVPath,
		},
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
