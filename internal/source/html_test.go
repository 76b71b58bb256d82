package source

import (
	"strings"
	"testing"

	"github.com/dgallion1/lessonrender/internal/lesson"
	"golang.org/x/net/html"
)

const cellPage = `<html><head><title>The Cell</title></head><body>
<h1>Cells</h1>
<p>Cells are <strong>small</strong>.</p>
<h3>Parts</h3>
<ul><li>Membrane</li><li>Nucleus</li></ul>
<script>var x = 1;</script>
</body></html>`

func kinds(items []lesson.Item) []lesson.BlockKind {
	out := make([]lesson.BlockKind, len(items))
	for i, it := range items {
		out[i] = it.Kind
	}
	return out
}

func TestHTMLLoader_ConvertsToLesson(t *testing.T) {
	l := &HTMLLoader{}
	src, err := l.Load(strings.NewReader(cellPage), "cell.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "The Cell" {
		t.Errorf("expected title from <title>, got %q", src.Title)
	}

	items := lesson.Parse(src.Text)
	want := []lesson.BlockKind{
		lesson.KindHeading2,
		lesson.KindParagraph,
		lesson.KindHeading3,
		lesson.KindBulletList,
	}
	got := kinds(items)
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d (%q)", len(want), len(got), src.Text)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if items[0].Text != "Cells" {
		t.Errorf("expected heading %q, got %q", "Cells", items[0].Text)
	}
	if strings.Contains(src.Text, "var x") {
		t.Errorf("script content leaked into text: %q", src.Text)
	}
}

func TestHTMLLoader_TitleFallsBackToFilename(t *testing.T) {
	l := &HTMLLoader{}
	src, err := l.Load(strings.NewReader("<p>Hi</p>"), "page.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "page" {
		t.Errorf("expected title %q, got %q", "page", src.Title)
	}
}

func TestBodyText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(cellPage))
	if err != nil {
		t.Fatal(err)
	}
	want := "**Cells**\n\nCells are small.\n\n### Parts\n\n* Membrane\n* Nucleus"
	if got := bodyText(doc); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
