package render

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/dgallion1/lessonrender/internal/lesson"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML renders items as an HTML fragment, one top-level element per item.
type HTML struct {
	Inline          *Inline
	FigureSearchURL string
}

func NewHTML(opts Options) *HTML {
	searchURL := opts.FigureSearchURL
	if searchURL == "" {
		searchURL = DefaultFigureSearchURL
	}
	return &HTML{Inline: defaultInline(), FigureSearchURL: searchURL}
}

func (h *HTML) ContentType() string { return "text/html; charset=utf-8" }

func (h *HTML) Render(w io.Writer, items []lesson.Item) error {
	for _, it := range items {
		if err := html.Render(w, h.Node(it)); err != nil {
			return fmt.Errorf("render item %d: %w", it.Index, err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Node builds the element tree for one item.
func (h *HTML) Node(it lesson.Item) *html.Node {
	switch it.Kind {
	case lesson.KindHeading2:
		n := elem(atom.H2)
		h.appendInline(n, it.Text)
		return n
	case lesson.KindHeading3:
		n := elem(atom.H3)
		h.appendInline(n, it.Text)
		return n
	case lesson.KindBulletList:
		ul := elem(atom.Ul)
		for _, item := range it.Items {
			li := elem(atom.Li)
			h.appendInline(li, item)
			ul.AppendChild(li)
		}
		return ul
	case lesson.KindMixedContent:
		div := elem(atom.Div, attr("class", "mixed"))
		for _, tok := range it.Tokens {
			if tok.Type == lesson.TokenText {
				h.appendInline(div, tok.Text)
				continue
			}
			div.AppendChild(h.payloadNode(tok))
		}
		return div
	default:
		p := elem(atom.P, attr("class", "soft-breaks"))
		h.appendInline(p, it.Text)
		return p
	}
}

func (h *HTML) payloadNode(tok lesson.Token) *html.Node {
	if tok.Err != nil || tok.Value == nil {
		p := elem(atom.P, attr("class", "payload-error"), attr("data-kind", string(tok.Kind)))
		p.AppendChild(textNode(FailureMessage(tok.Kind)))
		return p
	}
	switch v := tok.Value.(type) {
	case *lesson.Table:
		return tableNode(v)
	case *lesson.Chart:
		return chartNode(v)
	case *lesson.FigureSearch:
		return h.figureNode(v)
	}
	p := elem(atom.P, attr("class", "payload-error"))
	p.AppendChild(textNode(FailureMessage(tok.Kind)))
	return p
}

func tableNode(t *lesson.Table) *html.Node {
	wrap := elem(atom.Div, attr("class", "table-wrap"))
	table := elem(atom.Table)
	wrap.AppendChild(table)

	thead := elem(atom.Thead)
	tr := elem(atom.Tr)
	for _, hdr := range t.Headers {
		th := elem(atom.Th)
		th.AppendChild(textNode(hdr))
		tr.AppendChild(th)
	}
	thead.AppendChild(tr)
	table.AppendChild(thead)

	tbody := elem(atom.Tbody)
	for _, row := range t.Rows {
		tr := elem(atom.Tr)
		for _, cell := range row {
			td := elem(atom.Td)
			if cell.Numeric {
				td.Attr = append(td.Attr, attr("class", "num"))
			}
			td.AppendChild(textNode(cell.Text))
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)
	return wrap
}

func chartNode(c *lesson.Chart) *html.Node {
	data, err := json.Marshal(c.Data)
	if err != nil {
		p := elem(atom.P, attr("class", "payload-error"), attr("data-kind", string(lesson.PayloadChart)))
		p.AppendChild(textNode(FailureMessage(lesson.PayloadChart)))
		return p
	}
	return elem(atom.Div, attr("class", "chart"), attr("data-chart", string(data)))
}

func (h *HTML) figureNode(f *lesson.FigureSearch) *html.Node {
	fig := elem(atom.Figure, attr("class", "figure-search"))

	caption := elem(atom.Figcaption)
	caption.AppendChild(textNode(f.Query))
	fig.AppendChild(caption)

	a := elem(atom.A,
		attr("href", h.FigureSearchURL+url.QueryEscape(f.Query)),
		attr("target", "_blank"),
		attr("rel", "noopener noreferrer"),
	)
	a.AppendChild(textNode("Search images"))
	fig.AppendChild(a)
	return fig
}

// appendInline renders text as inline markup and attaches it to parent.
func (h *HTML) appendInline(parent *html.Node, text string) {
	frag := h.Inline.Render(text)
	ctx := &html.Node{Type: html.ElementNode, Data: parent.Data, DataAtom: parent.DataAtom}
	nodes, err := html.ParseFragment(strings.NewReader(frag), ctx)
	if err != nil {
		parent.AppendChild(textNode(text))
		return
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
}

func elem(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}
