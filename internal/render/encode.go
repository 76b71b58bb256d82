package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/lessonrender/internal/lesson"
	"gopkg.in/yaml.v3"
)

// JSON writes the items as a JSON document {"items": [...]}.
type JSON struct {
	Indent bool
}

func (*JSON) ContentType() string { return "application/json" }

func (j *JSON) Render(w io.Writer, items []lesson.Item) error {
	enc := json.NewEncoder(w)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	if items == nil {
		items = []lesson.Item{}
	}
	if err := enc.Encode(map[string]any{"items": items}); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// YAML writes the items as a YAML document with an items key.
type YAML struct{}

func (*YAML) ContentType() string { return "application/yaml" }

func (*YAML) Render(w io.Writer, items []lesson.Item) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if items == nil {
		items = []lesson.Item{}
	}
	if err := enc.Encode(map[string]any{"items": items}); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
