// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the search provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// EngineID is the provider-side search engine identifier.
	EngineID string `json:"engine_id,omitempty" yaml:"engine_id,omitempty"`

	// ResultsPerQuery is how many results to request per query (default 5).
	ResultsPerQuery int `json:"results_per_query" yaml:"results_per_query"`
}

// FetchConfig holds settings for the content acquisition stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`
}

// AIConfig holds shared settings for stages that call the generative model.
type AIConfig struct {
	// Backend selects the model provider: "deepseek" or "anthropic".
	Backend string `json:"backend" yaml:"backend"`

	// Model is the model identifier (e.g. "deepseek-chat").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// SynthesisConfig holds settings for query planning and entry synthesis.
type SynthesisConfig struct {
	AIConfig `yaml:",inline"`
}

// ExportConfig holds output paths for the persistence stage.
type ExportConfig struct {
	// DocumentPath is the Markdown output file (default "output_dataset.md").
	DocumentPath string `json:"document_path" yaml:"document_path"`

	// CSVPath is the tabular output file (default "dataset.csv").
	CSVPath string `json:"csv_path" yaml:"csv_path"`
}

// PacingConfig holds the fixed delays applied between external calls.
type PacingConfig struct {
	// SearchDelay follows each search provider call (default 1s).
	SearchDelay time.Duration `json:"search_delay" yaml:"search_delay"`

	// FetchDelay follows each page fetch (default 1s).
	FetchDelay time.Duration `json:"fetch_delay" yaml:"fetch_delay"`

	// ModelDelay follows each model call (default 2s).
	ModelDelay time.Duration `json:"model_delay" yaml:"model_delay"`
}

// ArchiveConfig holds settings for the optional run archive.
type ArchiveConfig struct {
	// Dir is the archive directory (contains archive.db). Empty disables archiving.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// MaxResults is the default maximum number of query hits (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for one run.
type PipelineConfig struct {
	Search    SearchConfig    `json:"search" yaml:"search"`
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Synthesis SynthesisConfig `json:"synthesis" yaml:"synthesis"`
	Export    ExportConfig    `json:"export" yaml:"export"`
	Pacing    PacingConfig    `json:"pacing" yaml:"pacing"`
	Archive   ArchiveConfig   `json:"archive" yaml:"archive"`
}
