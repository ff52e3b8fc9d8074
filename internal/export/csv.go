// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pdiddy/dataset-forge/pkg/types"
)

// attributeColumnPrefix namespaces flattened attribute columns.
const attributeColumnPrefix = "attribute_"

// WriteCSV writes the flattened dataset to path.
func WriteCSV(path string, dataset types.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV %s: %w", path, err)
	}
	if err := RenderCSV(f, dataset); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// RenderCSV writes one record per entry: the fixed columns id, title,
// description, source, followed by one attribute_<key> column per
// distinct attribute key across the dataset, in lexical order. Entries
// lacking a key leave that cell empty.
func RenderCSV(w io.Writer, dataset types.Dataset) error {
	attrKeys := collectAttributeKeys(dataset)

	header := append([]string{"id", "title", "description", "source"}, attrKeys...)
	for i, key := range attrKeys {
		header[4+i] = attributeColumnPrefix + key
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, entry := range dataset {
		record := []string{entry.ID, entry.Title, entry.Description, entry.Source}
		for _, key := range attrKeys {
			if v, ok := entry.Attributes[key]; ok {
				record = append(record, formatValue(v))
			} else {
				record = append(record, "")
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// collectAttributeKeys returns the sorted union of attribute keys.
func collectAttributeKeys(dataset types.Dataset) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, entry := range dataset {
		for key := range entry.Attributes {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
