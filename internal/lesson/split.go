package lesson

import (
	"regexp"
	"strings"
)

// A blank line is any whitespace run containing two line breaks.
var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// Split divides raw into trimmed, non-empty blocks in document order.
func Split(raw string) []Block {
	parts := blankLineRe.Split(raw, -1)
	blocks := make([]Block, 0, len(parts))
	for _, p := range parts {
		text := strings.TrimSpace(p)
		if text == "" {
			continue
		}
		blocks = append(blocks, Block{Index: len(blocks), Text: text})
	}
	return blocks
}

// HasMarker reports whether text contains an opening payload marker.
func HasMarker(text string) bool {
	for _, k := range PayloadKinds {
		if strings.Contains(text, k.OpenMarker()) {
			return true
		}
	}
	return false
}

// Classify turns a block into an item. Blocks carrying a payload marker
// become MixedContent with undecoded tokens; the simple rules are not tried
// on them, since a heading-like prefix may precede a payload.
func Classify(b Block) Item {
	item := Item{Index: b.Index, Raw: b.Text}
	text := b.Text

	if HasMarker(text) {
		item.Kind = KindMixedContent
		item.Tokens = Tokenize(text)
		return item
	}

	switch {
	case len(text) >= 4 && strings.HasPrefix(text, "**") && strings.HasSuffix(text, "**"):
		item.Kind = KindHeading2
		item.Text = text[2 : len(text)-2]
	case strings.HasPrefix(text, "### "):
		item.Kind = KindHeading3
		item.Text = text[4:]
	default:
		if items, ok := bulletItems(text); ok {
			item.Kind = KindBulletList
			item.Items = items
		} else {
			// Single line breaks stay in place and render as soft breaks.
			item.Kind = KindParagraph
			item.Text = text
		}
	}
	return item
}

// bulletItems returns the list items when every non-blank line starts with "* ".
func bulletItems(text string) ([]string, bool) {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "* ") {
			return nil, false
		}
		items = append(items, line[2:])
	}
	return items, len(items) > 0
}
