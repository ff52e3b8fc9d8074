// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesize

import (
	"testing"
)

func TestRecoverEntriesWellFormedArray(t *testing.T) {
	raw := `Here are your entries:
[
  {"id": "e1", "title": "Panel", "description": "A solar panel.", "attributes": {"kind": "hardware"}, "relations": [{"relation_type": "part_of", "related_to": "array"}], "source": "example.com"},
  {"id": "e2", "title": "Inverter", "description": "Converts DC to AC.", "attributes": {}, "relations": [], "source": "example.org"}
]
Hope that helps!`

	entries := RecoverEntries(raw)
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].ID != "e1" || entries[0].Title != "Panel" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[0].Attributes["kind"] != "hardware" {
		t.Errorf("attributes = %v", entries[0].Attributes)
	}
	if len(entries[0].Relations) != 1 || entries[0].Relations[0].RelationType != "part_of" {
		t.Errorf("relations = %v", entries[0].Relations)
	}
	if entries[1].ID != "e2" {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestRecoverEntriesConcatenatedObjects(t *testing.T) {
	raw := `{"id": "a", "title": "A", "description": "first"}
{"id": "b", "title": "B", "description": "second"}
{"id": "c", "title": "C", "description": "third"}`

	entries := RecoverEntries(raw)
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[0].ID != "a" || entries[1].ID != "b" || entries[2].ID != "c" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestRecoverEntriesDropsInvalidFragments(t *testing.T) {
	raw := `{"id": "a", "title": "A"}
{"id": "b", "title": broken}
{"id": "c", "title": "C"}`

	entries := RecoverEntries(raw)
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2 (invalid fragment dropped)", len(entries))
	}
	if entries[0].ID != "a" || entries[1].ID != "c" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestRecoverEntriesMalformedArrayFallsBack(t *testing.T) {
	// The bracketed substring is not valid JSON, but the response still
	// contains recoverable concatenated objects.
	raw := `[broken array
{"id": "a", "title": "A"}
{"id": "b", "title": "B"}`

	entries := RecoverEntries(raw)
	if len(entries) != 1 {
		// First fragment is `[broken array\n{"id": "a", "title": "A"}` + "}",
		// which fails; only the last reconstructs cleanly.
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].ID != "b" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
}

func TestRecoverEntriesNothingRecoverable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose only", "I could not produce any entries, sorry."},
		{"single malformed object", `{"id": broken}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if entries := RecoverEntries(tt.raw); len(entries) != 0 {
				t.Errorf("RecoverEntries(%q) = %v, want empty", tt.raw, entries)
			}
		})
	}
}

func TestRecoverEntriesDropsMalformedArrayElements(t *testing.T) {
	raw := `[{"id": "good", "title": "Good"}, {"id": ["not", "a", "string"], "title": "Bad"}]`
	entries := RecoverEntries(raw)
	if len(entries) != 1 || entries[0].ID != "good" {
		t.Errorf("entries = %+v, want single good element", entries)
	}
}
