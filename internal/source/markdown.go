package source

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/lessonrender/internal/lesson"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownLoader handles Markdown lessons. ATX and setext headings and
// unordered lists are rewritten into lesson conventions; other blocks pass
// through as written.
type MarkdownLoader struct{}

func (l *MarkdownLoader) Load(r io.Reader, filename string) (*Source, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}
	return &Source{
		Title:  titleFrom(filename),
		Text:   fromMarkdown(normalize(string(src))),
		Format: "md",
	}, nil
}

// fromMarkdown converts markdown to lesson text one blank-line block at a
// time. Blocks carrying payload markers are kept verbatim so fenced JSON
// inside a marker is never read as a code block.
func fromMarkdown(md string) string {
	var out []string
	for _, b := range lesson.Split(md) {
		if lesson.HasMarker(b.Text) {
			out = append(out, b.Text)
			continue
		}
		out = append(out, markdownBlocks([]byte(b.Text))...)
	}
	return strings.Join(out, "\n\n")
}

func markdownBlocks(src []byte) []string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if b := lessonBlock(n, src); b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func lessonBlock(n ast.Node, src []byte) string {
	switch node := n.(type) {
	case *ast.Heading:
		title := rawText(node, src)
		if title == "" {
			return ""
		}
		if node.Level <= 2 {
			return "**" + title + "**"
		}
		return "### " + title
	case *ast.List:
		var lines []string
		listLines(node, src, &lines)
		return strings.Join(lines, "\n")
	case *ast.ThematicBreak:
		return ""
	}
	return rawText(n, src)
}

// listLines flattens a list, nested lists included, into one line per item.
func listLines(list *ast.List, src []byte, out *[]string) {
	num := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var parts []string
		var nested []*ast.List
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, sub)
				continue
			}
			if t := rawText(c, src); t != "" {
				parts = append(parts, strings.ReplaceAll(t, "\n", " "))
			}
		}
		line := strings.Join(parts, " ")
		if list.IsOrdered() {
			*out = append(*out, fmt.Sprintf("%d. %s", num, line))
			num++
		} else {
			*out = append(*out, "* "+line)
		}
		for _, sub := range nested {
			listLines(sub, src, out)
		}
	}
}

// rawText returns the source lines of a block node, keeping inline markup.
// Container blocks without lines of their own are joined from their children.
func rawText(n ast.Node, src []byte) string {
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() != ast.TypeBlock {
			continue
		}
		if t := rawText(c, src); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}
