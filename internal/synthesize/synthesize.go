// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesize prompts the model with gathered source materials and
// parses its output into dataset entries.
package synthesize

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/dataset-forge/internal/model"
	"github.com/pdiddy/dataset-forge/internal/pacing"
	"github.com/pdiddy/dataset-forge/pkg/types"
)

// maxBatch bounds how many entries one prompt requests.
const maxBatch = 5

const entryMaxTokens = 4000

// Synthesize produces up to size entries from the source materials,
// prompting the model in batches of min(5, size). Each batch consumes a
// slice of sources twice its entry count, offset by cumulative progress;
// when the sources run out, synthesis stops early rather than reusing
// material. Parse failures cost only the affected batch. Model call
// failures propagate: they indicate a broken provider, not degraded data.
func Synthesize(ctx context.Context, backend model.Backend, topic string, materials []types.SourceMaterial, size int, pace pacing.Policy, w io.Writer) (types.Dataset, error) {
	batchSize := maxBatch
	if size < batchSize {
		batchSize = size
	}

	var dataset types.Dataset
	for offset := 0; offset < size; offset += batchSize {
		count := batchSize
		if size-offset < count {
			count = size - offset
		}

		sources := sliceSources(materials, offset, count*2)
		if len(sources) == 0 {
			fmt.Fprintf(w, "source materials exhausted after %d entries; stopping synthesis\n", len(dataset))
			break
		}

		prompt, err := renderEntryPrompt(topic, count, sources)
		if err != nil {
			return nil, fmt.Errorf("rendering entry prompt: %w", err)
		}

		response, err := backend.Complete(ctx, prompt, entryMaxTokens)
		if err != nil {
			return nil, fmt.Errorf("synthesizing batch at offset %d: %w", offset, err)
		}

		batch := RecoverEntries(response)
		if len(batch) == 0 {
			fmt.Fprintf(w, "warning: no entries recovered from model response for batch at offset %d\n", offset)
		}
		dataset = append(dataset, batch...)

		if err := pace.Wait(ctx, pacing.KindModel); err != nil {
			break
		}
	}

	return dataset.Truncate(size), nil
}

// sliceSources returns materials[offset : offset+n], clamped to bounds.
func sliceSources(materials []types.SourceMaterial, offset, n int) []types.SourceMaterial {
	if offset >= len(materials) {
		return nil
	}
	end := offset + n
	if end > len(materials) {
		end = len(materials)
	}
	return materials[offset:end]
}
