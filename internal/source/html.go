package source

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
)

// HTMLLoader handles HTML lessons. The page is converted to markdown and
// then to lesson text; if conversion fails the visible body text is used.
type HTMLLoader struct{}

var mdConverter = sync.OnceValue(func() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
})

func (l *HTMLLoader) Load(r io.Reader, filename string) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	src := &Source{Title: titleFrom(filename), Format: "html"}
	if title := findTitle(doc); title != "" {
		src.Title = title
	}

	md, err := mdConverter().ConvertString(string(data))
	if err != nil || strings.TrimSpace(md) == "" {
		src.Text = bodyText(doc)
		return src, nil
	}
	src.Text = fromMarkdown(normalize(md))
	return src, nil
}

// bodyText walks <body> and emits headings, list items and text blocks in
// lesson form.
func bodyText(doc *html.Node) string {
	var blocks []string
	var list []string

	flushList := func() {
		if len(list) > 0 {
			blocks = append(blocks, strings.Join(list, "\n"))
			list = nil
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				flushList()
				if t := textContent(n); t != "" {
					if level <= 2 {
						blocks = append(blocks, "**"+t+"**")
					} else {
						blocks = append(blocks, "### "+t)
					}
				}
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "li":
				if t := textContent(n); t != "" {
					list = append(list, "* "+oneLine(t))
				}
				return
			case "p", "td", "blockquote", "pre":
				flushList()
				if t := textContent(n); t != "" {
					blocks = append(blocks, t)
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	flushList()
	return strings.Join(blocks, "\n\n")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
