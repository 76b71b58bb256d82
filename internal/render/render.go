package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/lessonrender/internal/lesson"
)

// Renderer writes parsed lesson items in one output form.
type Renderer interface {
	Render(w io.Writer, items []lesson.Item) error
	ContentType() string
}

// Supported output formats.
const (
	FormatHTML = "html"
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the format names ForFormat accepts.
var Formats = []string{FormatHTML, FormatText, FormatJSON, FormatYAML}

// DefaultFigureSearchURL is the image search prefix a figure query is appended to.
const DefaultFigureSearchURL = "https://www.google.com/search?tbm=isch&q="

// ErrUnsupportedFormat is returned by ForFormat for unknown format names.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Options configures renderers built by ForFormat.
type Options struct {
	FigureSearchURL string
}

// Normalize maps a format name or alias to its canonical name. An empty
// name means html.
func Normalize(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatHTML, "":
		return FormatHTML, nil
	case FormatText, "txt":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// ForFormat returns the renderer for a format name.
func ForFormat(format string, opts Options) (Renderer, error) {
	name, err := Normalize(format)
	if err != nil {
		return nil, err
	}
	switch name {
	case FormatText:
		return &Text{}, nil
	case FormatJSON:
		return &JSON{Indent: true}, nil
	case FormatYAML:
		return &YAML{}, nil
	default:
		return NewHTML(opts), nil
	}
}

// FailureMessage is the placeholder shown in place of a payload that failed
// to decode.
func FailureMessage(kind lesson.PayloadKind) string {
	switch kind {
	case lesson.PayloadTable:
		return "Could not display the table."
	case lesson.PayloadChart:
		return "Could not display the chart."
	case lesson.PayloadSearch:
		return "Could not process the figure search."
	}
	return "Could not display this content."
}
