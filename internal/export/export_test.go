// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/dataset-forge/pkg/types"
)

var testTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func sampleDataset() types.Dataset {
	return types.Dataset{
		{
			ID:          "e1",
			Title:       "Solar Panel",
			Description: "Converts sunlight to electricity.",
			Attributes:  map[string]any{"kind": "hardware", "efficiency": "20%"},
			Relations:   []types.Relation{{RelationType: "part_of", RelatedTo: "solar array"}},
			Source:      "https://example.com/panel",
		},
		{
			ID:    "e2",
			Title: "Inverter",
		},
	}
}

func TestRenderDocumentStructure(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderDocument(&buf, sampleDataset(), "Solar Energy", testTime); err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}
	doc := buf.String()

	for _, want := range []string{
		"# Dataset: Solar Energy\n",
		"Generated on: 2026-03-14 09:26:53\n",
		"Number of entries: 2\n",
		"## Entry 1: Solar Panel\n",
		"## Entry 2: Inverter\n",
		"- **efficiency**: 20%\n",
		"- **kind**: hardware\n",
		"- **part_of**: solar array\n",
		"https://example.com/panel\n",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}

	if got := strings.Count(doc, "## Entry"); got != 2 {
		t.Errorf("entry sections = %d, want 2", got)
	}
	if got := strings.Count(doc, "---\n"); got != 2 {
		t.Errorf("separators = %d, want 2", got)
	}
}

func TestRenderDocumentPlaceholders(t *testing.T) {
	dataset := types.Dataset{{ID: "bare"}}
	var buf bytes.Buffer
	if err := RenderDocument(&buf, dataset, "Topic", testTime); err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}
	doc := buf.String()

	for _, want := range []string{
		"## Entry 1: " + PlaceholderTitle,
		PlaceholderDescription,
		PlaceholderAttributes,
		PlaceholderRelations,
		PlaceholderSource,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing placeholder %q:\n%s", want, doc)
		}
	}
}

func TestRenderDocumentEmptyDataset(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderDocument(&buf, nil, "Topic", testTime); err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}
	doc := buf.String()

	if !strings.Contains(doc, "Number of entries: 0") {
		t.Errorf("expected zero count header:\n%s", doc)
	}
	if strings.Contains(doc, "## Entry") {
		t.Errorf("empty dataset should have no entry sections:\n%s", doc)
	}
}

func TestRenderCSVColumnsAndSparseCells(t *testing.T) {
	dataset := types.Dataset{
		{ID: "a", Title: "A", Description: "da", Source: "sa",
			Attributes: map[string]any{"color": "blue", "size": 42.0}},
		{ID: "b", Title: "B", Description: "db", Source: "sb",
			Attributes: map[string]any{"weight": "heavy"}},
	}

	var buf bytes.Buffer
	if err := RenderCSV(&buf, dataset); err != nil {
		t.Fatalf("RenderCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV: %v", err)
	}

	wantHeader := []string{"id", "title", "description", "source", "attribute_color", "attribute_size", "attribute_weight"}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(records))
	}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}

	// Row for "a": has color and size, weight empty.
	if records[1][4] != "blue" || records[1][5] != "42" || records[1][6] != "" {
		t.Errorf("row a = %v", records[1])
	}
	// Row for "b": only weight.
	if records[2][4] != "" || records[2][5] != "" || records[2][6] != "heavy" {
		t.Errorf("row b = %v", records[2])
	}
}

func TestRenderCSVNoAttributes(t *testing.T) {
	dataset := types.Dataset{{ID: "x", Title: "X", Description: "d", Source: "s"}}

	var buf bytes.Buffer
	if err := RenderCSV(&buf, dataset); err != nil {
		t.Fatalf("RenderCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV: %v", err)
	}
	if len(records[0]) != 4 {
		t.Errorf("header = %v, want only fixed columns", records[0])
	}
	if len(records) != 2 {
		t.Errorf("rows = %d, want header + 1", len(records))
	}
}

func TestWriteFilesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	docPath := dir + "/out.md"
	csvPath := dir + "/out.csv"

	if err := WriteDocument(docPath, sampleDataset(), "Solar", time.Now()); err != nil {
		t.Fatalf("WriteDocument() error = %v", err)
	}
	if err := WriteCSV(csvPath, sampleDataset()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
}
