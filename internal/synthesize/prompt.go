// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesize

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/dataset-forge/pkg/types"
)

// maxSourceChars caps how much of each source's content is embedded in
// the prompt, keeping batch prompts within token limits.
const maxSourceChars = 1000

// entryPromptTmpl instructs the model to produce dataset entries as a
// JSON array matching the DatasetEntry shape.
var entryPromptTmpl = template.Must(template.New("entries").Parse(`Based on the following sources about "{{.Topic}}", create {{.Count}} high-quality dataset entries.

{{.Sources}}

For each entry, include:
1. A title or identifier
2. A comprehensive description
3. Key attributes or properties (at least 5)
4. Relations to other concepts in the domain
5. Citation information

Format each entry as a JSON object with the following structure:
{
    "id": "unique identifier",
    "title": "entry title",
    "description": "comprehensive description",
    "attributes": {"attribute1": "value1", "attribute2": "value2", ...},
    "relations": [{"relation_type": "type", "related_to": "entity"}],
    "source": "citation information"
}

Return the entries as a valid JSON array.
`))

// renderEntryPrompt builds the synthesis prompt for one batch.
func renderEntryPrompt(topic string, count int, sources []types.SourceMaterial) (string, error) {
	var parts []string
	for i, src := range sources {
		content := types.TruncateChars(src.Content, maxSourceChars)
		parts = append(parts, fmt.Sprintf("Source %d: %s\n%s", i+1, src.Title, content))
	}

	data := struct {
		Topic   string
		Count   int
		Sources string
	}{
		Topic:   topic,
		Count:   count,
		Sources: strings.Join(parts, "\n\n"),
	}

	var buf bytes.Buffer
	if err := entryPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
