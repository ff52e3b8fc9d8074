// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesize

import (
	"encoding/json"
	"strings"

	"github.com/pdiddy/dataset-forge/pkg/types"
)

// RecoverEntries parses dataset entries out of a raw model response. It
// never fails: responses that contain no recoverable entries yield an
// empty slice.
//
// Tier 1 takes the substring between the first '[' and the last ']' and
// parses it as a JSON array, decoding each element independently so one
// malformed element drops only itself. If tier 1 yields nothing, tier 2
// splits the response on "}\n{" boundaries to recover concatenated
// objects, reconstructing the brace delimiters per fragment; fragments
// that still fail to parse are silently dropped.
func RecoverEntries(raw string) []types.DatasetEntry {
	if entries := recoverArray(raw); len(entries) > 0 {
		return entries
	}
	return recoverFragments(raw)
}

// recoverArray implements tier 1: bracket-scan and per-element decode.
func recoverArray(raw string) []types.DatasetEntry {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(raw[start:end+1]), &elements); err != nil {
		return nil
	}

	var entries []types.DatasetEntry
	for _, el := range elements {
		var entry types.DatasetEntry
		if err := json.Unmarshal(el, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// recoverFragments implements tier 2: delimiter-split-and-patch.
func recoverFragments(raw string) []types.DatasetEntry {
	parts := strings.Split(raw, "}\n{")
	if len(parts) < 2 {
		return nil
	}

	var entries []types.DatasetEntry
	for i, part := range parts {
		switch i {
		case 0:
			part = part + "}"
		case len(parts) - 1:
			part = "{" + part
		default:
			part = "{" + part + "}"
		}

		var entry types.DatasetEntry
		if err := json.Unmarshal([]byte(part), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}
