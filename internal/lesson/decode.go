package lesson

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Decode failure reasons. A *DecodeError wraps exactly one of these.
var (
	ErrInvalidJSON  = errors.New("invalid JSON")
	ErrInvalidTable = errors.New("invalid table")
	ErrMissingQuery = errors.New("missing query")
	ErrUnknownKind  = errors.New("unknown payload kind")
)

// DecodeError reports a payload that could not be turned into its shape.
type DecodeError struct {
	Kind   PayloadKind
	Reason error // One of the Err* sentinels
	Cause  error // Underlying parser or schema error, may be nil
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v: %v", e.Kind, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Reason)
}

func (e *DecodeError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Reason, e.Cause}
	}
	return []error{e.Reason}
}

// MarshalJSON encodes the error as its reason string.
func (e *DecodeError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Reason.Error())
}

// MarshalYAML encodes the error as its reason string.
func (e *DecodeError) MarshalYAML() (any, error) {
	return e.Reason.Error(), nil
}

// Payload is a decoded, shape-checked payload: *Table, *Chart or *FigureSearch.
type Payload interface {
	PayloadKind() PayloadKind
}

// Table is a decoded TABLE_DATA payload. Rows may be ragged.
type Table struct {
	Headers []string `json:"headers" yaml:"headers"`
	Rows    [][]Cell `json:"rows" yaml:"rows"`
}

func (*Table) PayloadKind() PayloadKind { return PayloadTable }

// Cell is a table cell: a string, or a number kept in its source spelling.
type Cell struct {
	Text    string
	Numeric bool
}

func (c Cell) String() string { return c.Text }

func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Numeric {
		return []byte(c.Text), nil
	}
	return json.Marshal(c.Text)
}

func (c Cell) MarshalYAML() (any, error) {
	if c.Numeric {
		if n, err := strconv.ParseInt(c.Text, 10, 64); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(c.Text, 64); err == nil {
			return f, nil
		}
	}
	return c.Text, nil
}

// Chart is a decoded CHART_DATA payload. Data is opaque and handed to the
// chart renderer untouched.
type Chart struct {
	Data any `json:"data" yaml:"data"`
}

func (*Chart) PayloadKind() PayloadKind { return PayloadChart }

// FigureSearch is a decoded SEARCH_PROMPT payload.
type FigureSearch struct {
	Query string `json:"query" yaml:"query"`
}

func (*FigureSearch) PayloadKind() PayloadKind { return PayloadSearch }

var (
	leadingFenceRe  = regexp.MustCompile("^```[A-Za-z0-9_+-]*\\s*")
	trailingFenceRe = regexp.MustCompile("\\s*```$")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// Repair applies the fixed repair pass to a payload's inner text: trim,
// strip an optional code fence at either end, drop commas that directly
// precede a closing brace or bracket. No other characters are rewritten,
// so escape sequences inside strings survive as written.
func Repair(inner string) string {
	s := strings.TrimSpace(inner)
	s = leadingFenceRe.ReplaceAllString(s, "")
	s = trailingFenceRe.ReplaceAllString(s, "")
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

var (
	tableSchema = mustSchema("table_data.json", `{
		"type": "object",
		"required": ["headers", "rows"],
		"properties": {
			"headers": {"type": "array"},
			"rows": {"type": "array"}
		}
	}`)
	searchSchema = mustSchema("search_prompt.json", `{
		"type": "object",
		"required": ["query"],
		"properties": {
			"query": {"type": "string", "minLength": 1}
		}
	}`)
)

func mustSchema(url, src string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
	if err != nil {
		panic(fmt.Sprintf("lesson: parse schema %s: %v", url, err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		panic(fmt.Sprintf("lesson: add schema %s: %v", url, err))
	}
	sch, err := c.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("lesson: compile schema %s: %v", url, err))
	}
	return sch
}

// Decode repairs and parses one payload. The returned error is always a
// *DecodeError.
func Decode(kind PayloadKind, inner string) (Payload, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(Repair(inner)))
	if err != nil {
		return nil, &DecodeError{Kind: kind, Reason: ErrInvalidJSON, Cause: err}
	}

	switch kind {
	case PayloadTable:
		if err := tableSchema.Validate(doc); err != nil {
			return nil, &DecodeError{Kind: kind, Reason: ErrInvalidTable, Cause: err}
		}
		return tableFrom(doc.(map[string]any)), nil
	case PayloadChart:
		return &Chart{Data: plain(doc)}, nil
	case PayloadSearch:
		if err := searchSchema.Validate(doc); err != nil {
			return nil, &DecodeError{Kind: kind, Reason: ErrMissingQuery, Cause: err}
		}
		query := doc.(map[string]any)["query"].(string)
		if strings.TrimSpace(query) == "" {
			return nil, &DecodeError{Kind: kind, Reason: ErrMissingQuery}
		}
		return &FigureSearch{Query: query}, nil
	}
	return nil, &DecodeError{Kind: kind, Reason: ErrUnknownKind}
}

func tableFrom(m map[string]any) *Table {
	headers := m["headers"].([]any)
	rows := m["rows"].([]any)

	t := &Table{
		Headers: make([]string, 0, len(headers)),
		Rows:    make([][]Cell, 0, len(rows)),
	}
	for _, h := range headers {
		t.Headers = append(t.Headers, cellOf(h).Text)
	}
	for _, r := range rows {
		switch row := r.(type) {
		case []any:
			cells := make([]Cell, 0, len(row))
			for _, v := range row {
				cells = append(cells, cellOf(v))
			}
			t.Rows = append(t.Rows, cells)
		case nil:
			t.Rows = append(t.Rows, []Cell{})
		default:
			// A bare value stands for a one-cell row.
			t.Rows = append(t.Rows, []Cell{cellOf(row)})
		}
	}
	return t
}

func cellOf(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Cell{}
	case string:
		return Cell{Text: x}
	case json.Number:
		return Cell{Text: x.String(), Numeric: true}
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return Cell{Text: fmt.Sprint(x)}
		}
		return Cell{Text: string(b)}
	}
}

// plain replaces json.Number values with int64 or float64.
func plain(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		for k, e := range x {
			x[k] = plain(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = plain(e)
		}
		return x
	}
	return v
}
