package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXLoader handles .docx files. Heading styles map to lesson headings and
// list-styled paragraphs to bullet items.
type DOCXLoader struct{}

func (l *DOCXLoader) Load(r io.Reader, filename string) (*Source, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "lessonrender-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var blocks []string
	var list []string
	flushList := func() {
		if len(list) > 0 {
			blocks = append(blocks, strings.Join(list, "\n"))
			list = nil
		}
	}

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		style := docxStyle(para)
		if isListStyle(style) {
			list = append(list, "* "+text)
			continue
		}
		flushList()

		switch level := headingLevelOf(style); {
		case level == 1 || level == 2:
			blocks = append(blocks, "**"+text+"**")
		case level >= 3:
			blocks = append(blocks, "### "+text)
		default:
			blocks = append(blocks, text)
		}
	}
	flushList()

	return &Source{
		Title:  titleFrom(filename),
		Text:   strings.Join(blocks, "\n\n"),
		Format: "docx",
	}, nil
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

// headingLevelOf reads "Heading2" or "heading 2" style names.
func headingLevelOf(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if !strings.HasPrefix(s, "heading") || len(s) != len("heading")+1 {
		return 0
	}
	d := s[len(s)-1]
	if d < '1' || d > '9' {
		return 0
	}
	return int(d - '0')
}

func isListStyle(style string) bool {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	return s == "listparagraph" || strings.HasPrefix(s, "listbullet")
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
