// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-forge/internal/archive"
	"github.com/pdiddy/dataset-forge/internal/fetch"
	"github.com/pdiddy/dataset-forge/internal/model"
	"github.com/pdiddy/dataset-forge/internal/pacing"
	"github.com/pdiddy/dataset-forge/internal/pipeline"
	"github.com/pdiddy/dataset-forge/internal/search"
	"github.com/pdiddy/dataset-forge/internal/secrets"
	"github.com/pdiddy/dataset-forge/pkg/types"
)

const defaultAPITimeout = 60 * time.Second

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full dataset generation pipeline",
	Long: `Generate plans search queries for a topic, searches the web, fetches and
extracts page text, synthesizes structured entries with a generative model,
and writes a Markdown document plus a CSV file. A run manifest is written
next to the document.

Search and fetch failures degrade the run; the pipeline continues with
whatever sources it gathered. Model failures abort the run.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("topic", "", "dataset topic (required)")
	generateCmd.Flags().Int("size", 10, "number of entries to generate")
	generateCmd.Flags().String("output", "output_dataset.md", "Markdown output path")
	generateCmd.Flags().String("csv", "dataset.csv", "CSV output path")
	generateCmd.Flags().StringSlice("queries", nil, "search queries to use instead of planning (comma-separated or repeatable)")
	generateCmd.Flags().String("backend", "deepseek", "model backend: deepseek or anthropic")
	generateCmd.Flags().String("model", "", "model identifier (backend default if empty)")
	generateCmd.Flags().String("deepseek-api-key", "", "Deepseek API key (default: .secrets/ or DEEPSEEK_API_KEY)")
	generateCmd.Flags().String("anthropic-api-key", "", "Anthropic API key (default: .secrets/ or ANTHROPIC_API_KEY)")
	generateCmd.Flags().String("google-api-key", "", "Google Custom Search API key (default: .secrets/ or GOOGLE_API_KEY)")
	generateCmd.Flags().String("google-cse-id", "", "Google Custom Search engine ID (default: .secrets/ or GOOGLE_CSE_ID)")
	generateCmd.Flags().String("archive-dir", "", "archive completed runs to this directory")
	generateCmd.Flags().Duration("search-delay", 0, "delay after each search call (default 1s)")
	generateCmd.Flags().Duration("fetch-delay", 0, "delay after each page fetch (default 1s)")
	generateCmd.Flags().Duration("model-delay", 0, "delay after each model call (default 2s)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	if topic == "" {
		return fmt.Errorf("provide a topic with --topic")
	}
	size, _ := cmd.Flags().GetInt("size")
	if size <= 0 {
		return fmt.Errorf("size must be positive, got %d", size)
	}

	output, _ := cmd.Flags().GetString("output")
	csvPath, _ := cmd.Flags().GetString("csv")
	queries, _ := cmd.Flags().GetStringSlice("queries")

	client := &http.Client{Timeout: defaultAPITimeout}

	backend, err := buildModelBackend(cmd, client)
	if err != nil {
		return err
	}

	googleKey, _ := cmd.Flags().GetString("google-api-key")
	googleCSE, _ := cmd.Flags().GetString("google-cse-id")
	searcher := &search.GoogleBackend{
		Client:   client,
		APIKey:   secrets.Resolve(loadedSecrets, googleKey, "google-api-key", "GOOGLE_API_KEY"),
		EngineID: secrets.Resolve(loadedSecrets, googleCSE, "google-cse-id", "GOOGLE_CSE_ID"),
	}

	searchDelay, _ := cmd.Flags().GetDuration("search-delay")
	fetchDelay, _ := cmd.Flags().GetDuration("fetch-delay")
	modelDelay, _ := cmd.Flags().GetDuration("model-delay")

	p := &pipeline.Pipeline{
		Model:   backend,
		Search:  searcher,
		Fetcher: fetch.NewFetcher(types.FetchConfig{}),
		Pace: pacing.NewFixed(types.PacingConfig{
			SearchDelay: searchDelay,
			FetchDelay:  fetchDelay,
			ModelDelay:  modelDelay,
		}),
		Export: types.ExportConfig{
			DocumentPath: output,
			CSVPath:      csvPath,
		},
	}

	archiveDir, _ := cmd.Flags().GetString("archive-dir")
	if archiveDir != "" {
		store, err := archive.NewStore(types.ArchiveConfig{Dir: archiveDir})
		if err != nil {
			return err
		}
		defer store.Close()
		p.Archive = store
	}

	summary, err := p.Run(context.Background(), pipeline.Options{
		Topic:   topic,
		Size:    size,
		Queries: queries,
	}, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("\ndataset complete: %d entries about %q\n", summary.EntryCount, topic)
	return nil
}

func buildModelBackend(cmd *cobra.Command, client *http.Client) (model.Backend, error) {
	backendName, _ := cmd.Flags().GetString("backend")
	modelID, _ := cmd.Flags().GetString("model")

	var apiKey string
	switch backendName {
	case "anthropic":
		flagKey, _ := cmd.Flags().GetString("anthropic-api-key")
		apiKey = secrets.Resolve(loadedSecrets, flagKey, "anthropic-api-key", "ANTHROPIC_API_KEY")
	default:
		flagKey, _ := cmd.Flags().GetString("deepseek-api-key")
		apiKey = secrets.Resolve(loadedSecrets, flagKey, "deepseek-api-key", "DEEPSEEK_API_KEY")
	}

	return model.New(types.AIConfig{
		Backend: backendName,
		Model:   modelID,
		APIKey:  apiKey,
	}, client)
}
