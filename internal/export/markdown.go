// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes the final dataset as a Markdown document and a
// flattened CSV file. Missing entry fields render as documented
// placeholder strings, never as errors.
package export

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/pdiddy/dataset-forge/pkg/types"
)

// Placeholder strings for absent entry fields.
const (
	PlaceholderTitle       = "Untitled"
	PlaceholderDescription = "No description"
	PlaceholderAttributes  = "No attributes specified"
	PlaceholderRelations   = "No relations specified"
	PlaceholderSource      = "No source information"
	PlaceholderRelType     = "Related to"
	PlaceholderRelTarget   = "Unknown"
)

const timestampFmt = "2006-01-02 15:04:05"

// WriteDocument writes the dataset document to path.
func WriteDocument(path string, dataset types.Dataset, topic string, now time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating document %s: %w", path, err)
	}
	if err := RenderDocument(f, dataset, topic, now); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// RenderDocument writes the structured Markdown document to w: a topic
// heading, generation timestamp, entry count, and one section per entry
// separated by horizontal rules.
func RenderDocument(w io.Writer, dataset types.Dataset, topic string, now time.Time) error {
	fmt.Fprintf(w, "# Dataset: %s\n\n", topic)
	fmt.Fprintf(w, "Generated on: %s\n\n", now.Format(timestampFmt))
	fmt.Fprintf(w, "Number of entries: %d\n\n", len(dataset))

	for i, entry := range dataset {
		title := entry.Title
		if title == "" {
			title = PlaceholderTitle
		}
		fmt.Fprintf(w, "## Entry %d: %s\n\n", i+1, title)

		fmt.Fprintf(w, "### Description\n\n")
		if entry.Description != "" {
			fmt.Fprintf(w, "%s\n\n", entry.Description)
		} else {
			fmt.Fprintf(w, "%s\n\n", PlaceholderDescription)
		}

		fmt.Fprintf(w, "### Attributes\n\n")
		if len(entry.Attributes) > 0 {
			for _, key := range sortedKeys(entry.Attributes) {
				fmt.Fprintf(w, "- **%s**: %s\n", key, formatValue(entry.Attributes[key]))
			}
		} else {
			fmt.Fprintln(w, PlaceholderAttributes)
		}
		fmt.Fprintln(w)

		fmt.Fprintf(w, "### Relations\n\n")
		if len(entry.Relations) > 0 {
			for _, rel := range entry.Relations {
				relType := rel.RelationType
				if relType == "" {
					relType = PlaceholderRelType
				}
				target := rel.RelatedTo
				if target == "" {
					target = PlaceholderRelTarget
				}
				fmt.Fprintf(w, "- **%s**: %s\n", relType, target)
			}
		} else {
			fmt.Fprintln(w, PlaceholderRelations)
		}
		fmt.Fprintln(w)

		fmt.Fprintf(w, "### Source\n\n")
		if entry.Source != "" {
			fmt.Fprintf(w, "%s\n\n", entry.Source)
		} else {
			fmt.Fprintf(w, "%s\n\n", PlaceholderSource)
		}

		fmt.Fprintf(w, "---\n\n")
	}
	return nil
}

// sortedKeys returns the map keys in lexical order for stable output.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatValue renders an attribute value the way the model emitted it:
// strings verbatim, everything else through default formatting.
func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
