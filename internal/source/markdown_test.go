package source

import (
	"strings"
	"testing"
)

func TestMarkdownLoader_HeadingsAndLists(t *testing.T) {
	input := `# Title

Intro text with **bold**.

## Section A

- first
- second

#### Deep heading

1. one
2. two
`
	l := &MarkdownLoader{}
	src, err := l.Load(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", src.Title)
	}

	want := "**Title**\n\n" +
		"Intro text with **bold**.\n\n" +
		"**Section A**\n\n" +
		"* first\n* second\n\n" +
		"### Deep heading\n\n" +
		"1. one\n2. two"
	if src.Text != want {
		t.Errorf("unexpected text:\n got %q\nwant %q", src.Text, want)
	}
}

func TestMarkdownLoader_SetextHeading(t *testing.T) {
	l := &MarkdownLoader{}
	src, err := l.Load(strings.NewReader("Title\n=====\n\nBody."), "s.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Text != "**Title**\n\nBody." {
		t.Errorf("unexpected text %q", src.Text)
	}
}

func TestMarkdownLoader_HeadingFollowedByText(t *testing.T) {
	l := &MarkdownLoader{}
	src, err := l.Load(strings.NewReader("### Parts\nThe parts are listed below."), "h.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "### Parts\n\nThe parts are listed below."
	if src.Text != want {
		t.Errorf("expected %q, got %q", want, src.Text)
	}
}

func TestMarkdownLoader_KeepsPayloadBlocksVerbatim(t *testing.T) {
	payload := "See [TABLE_DATA]```json\n{\"headers\":[\"a\"],\"rows\":[[1]]}\n```[/TABLE_DATA]"
	input := "# Data\n\n" + payload
	l := &MarkdownLoader{}
	src, err := l.Load(strings.NewReader(input), "p.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(src.Text, payload) {
		t.Errorf("payload block changed: %q", src.Text)
	}
}

func TestMarkdownLoader_NestedList(t *testing.T) {
	input := "- outer\n  - inner\n- last"
	l := &MarkdownLoader{}
	src, err := l.Load(strings.NewReader(input), "n.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "* outer\n* inner\n* last"
	if src.Text != want {
		t.Errorf("expected %q, got %q", want, src.Text)
	}
}

func TestMarkdownLoader_EmptyInput(t *testing.T) {
	l := &MarkdownLoader{}
	src, err := l.Load(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Text != "" {
		t.Errorf("expected empty text, got %q", src.Text)
	}
}
