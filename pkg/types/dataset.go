// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the dataset-forge pipeline.
package types

import "unicode/utf8"

// SearchResult represents one record returned by the search provider.
// Results live only for the duration of a pipeline run.
type SearchResult struct {
	// Title is the result title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// Link is the result URL.
	Link string `json:"link" yaml:"link"`

	// Snippet is the provider's short excerpt for the result.
	Snippet string `json:"snippet" yaml:"snippet"`
}

// SourceMaterial is the text extracted from one fetched web page.
type SourceMaterial struct {
	// Title is carried over from the search result that produced the page.
	Title string `json:"title" yaml:"title"`

	// Content is the extracted visible text, truncated to MaxContentLen.
	Content string `json:"content" yaml:"content"`

	// URL is the page address the content was fetched from.
	URL string `json:"url" yaml:"url"`
}

// MaxContentLen caps the stored content of a SourceMaterial, in characters.
const MaxContentLen = 5000

// TruncateChars caps s at n characters. The cut lands on a rune
// boundary so multibyte text never becomes invalid UTF-8.
func TruncateChars(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Relation links a dataset entry to another concept in the domain.
type Relation struct {
	// RelationType names the kind of relationship (e.g. "part_of").
	RelationType string `json:"relation_type" yaml:"relation_type"`

	// RelatedTo names the related entity.
	RelatedTo string `json:"related_to" yaml:"related_to"`
}

// DatasetEntry is one synthesized structured record. The model produces
// these as JSON; no uniqueness is enforced on ID or Title.
type DatasetEntry struct {
	// ID is the identifier the model assigned to the entry.
	ID string `json:"id" yaml:"id"`

	// Title is the entry title.
	Title string `json:"title" yaml:"title"`

	// Description is the entry's prose description.
	Description string `json:"description" yaml:"description"`

	// Attributes maps attribute names to values. Values keep whatever
	// JSON type the model emitted; insertion order is irrelevant.
	Attributes map[string]any `json:"attributes" yaml:"attributes"`

	// Relations lists typed links to other concepts, in model order.
	Relations []Relation `json:"relations" yaml:"relations"`

	// Source is the citation information for the entry.
	Source string `json:"source" yaml:"source"`
}

// Dataset is the ordered sequence of entries produced by one run.
type Dataset []DatasetEntry

// Truncate returns the dataset capped at size entries. Under-production
// is accepted as-is; overproduction is cut, never an error.
func (d Dataset) Truncate(size int) Dataset {
	if size >= 0 && len(d) > size {
		return d[:size]
	}
	return d
}
