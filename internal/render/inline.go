package render

import (
	"bytes"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
)

// Inline renders a span of lesson text (bold, italic, code, links) to
// sanitized inline HTML. Only the paragraph block parser is registered, so
// text that looks like a markdown heading or list stays inline. Line breaks
// inside the span become <br>.
type Inline struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewInline() *Inline {
	p := parser.NewParser(
		parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)
	return &Inline{
		md: goldmark.New(
			goldmark.WithParser(p),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

var defaultInline = sync.OnceValue(NewInline)

// Render converts text to an inline HTML fragment.
func (in *Inline) Render(text string) string {
	var buf bytes.Buffer
	if err := in.md.Convert([]byte(text), &buf); err != nil {
		return html.EscapeString(text)
	}
	out := strings.TrimSpace(buf.String())
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	return in.policy.Sanitize(out)
}
