// Package lesson turns generated lesson text into an ordered sequence of
// typed render items.
//
// The text is split into blank-line separated blocks. Plain blocks are
// classified as headings, bullet lists or paragraphs. Blocks that carry
// tagged payloads ([TABLE_DATA]...[/TABLE_DATA] and friends) are tokenized
// into text and payload tokens, and each payload is repaired and decoded on
// its own so a malformed payload only affects itself.
//
// Parsing is total: every input yields items, nothing is returned as an error.
package lesson

import "strings"

// BlockKind classifies a top-level block.
type BlockKind string

const (
	KindHeading2     BlockKind = "heading2"
	KindHeading3     BlockKind = "heading3"
	KindBulletList   BlockKind = "bullet_list"
	KindParagraph    BlockKind = "paragraph"
	KindMixedContent BlockKind = "mixed_content"
)

// PayloadKind is the tag name of an embedded payload.
type PayloadKind string

const (
	PayloadTable  PayloadKind = "TABLE_DATA"
	PayloadChart  PayloadKind = "CHART_DATA"
	PayloadSearch PayloadKind = "SEARCH_PROMPT"
)

// PayloadKinds lists the admissible tag names.
var PayloadKinds = []PayloadKind{PayloadTable, PayloadChart, PayloadSearch}

// OpenMarker returns the opening tag, e.g. "[TABLE_DATA]".
func (k PayloadKind) OpenMarker() string { return "[" + string(k) + "]" }

// CloseMarker returns the closing tag, e.g. "[/TABLE_DATA]".
func (k PayloadKind) CloseMarker() string { return "[/" + string(k) + "]" }

// Valid reports whether k is one of the admissible tag names.
func (k PayloadKind) Valid() bool {
	for _, v := range PayloadKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Block is one blank-line delimited unit of the input, trimmed.
type Block struct {
	Index int    // Position among the non-empty blocks of the document
	Text  string // Trimmed block text
}

// Item is one render-ready unit, produced per block.
type Item struct {
	Kind   BlockKind `json:"kind" yaml:"kind"`
	Index  int       `json:"index" yaml:"index"`
	Text   string    `json:"text,omitempty" yaml:"text,omitempty"`     // Heading2, Heading3, Paragraph
	Items  []string  `json:"items,omitempty" yaml:"items,omitempty"`   // BulletList
	Tokens []Token   `json:"tokens,omitempty" yaml:"tokens,omitempty"` // MixedContent

	// Raw is the trimmed block text the item was built from.
	Raw string `json:"-" yaml:"-"`
}

// TokenType distinguishes plain text from payload tokens.
type TokenType string

const (
	TokenText    TokenType = "text"
	TokenPayload TokenType = "payload"
)

// Token is a segment of a mixed-content block, in source order.
type Token struct {
	Type TokenType `json:"type" yaml:"type"`

	// Text holds the verbatim text of a TokenText.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Payload fields. Inner is the untouched text between the markers.
	Kind  PayloadKind  `json:"kind,omitempty" yaml:"kind,omitempty"`
	Inner string       `json:"raw_inner,omitempty" yaml:"raw_inner,omitempty"`
	Value Payload      `json:"value,omitempty" yaml:"value,omitempty"`
	Err   *DecodeError `json:"error,omitempty" yaml:"error,omitempty"`
}

// Raw returns the exact source span of the token.
func (t Token) Raw() string {
	if t.Type == TokenPayload {
		return t.Kind.OpenMarker() + t.Inner + t.Kind.CloseMarker()
	}
	return t.Text
}

// Failed reports whether the token is a payload that did not decode.
func (t Token) Failed() bool {
	return t.Type == TokenPayload && t.Err != nil
}

// JoinRaw concatenates the raw spans of tokens.
func JoinRaw(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Raw())
	}
	return sb.String()
}
