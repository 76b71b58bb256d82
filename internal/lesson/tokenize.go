package lesson

import "strings"

// Tokenize splits a block into text and payload tokens. A payload runs from
// [NAME] to the nearest following [/NAME] with the same NAME. Markers that
// never close are left in the surrounding text, so a block without any
// complete pair comes back as a single text token.
//
// Concatenating the Raw spans of the result always gives back text.
func Tokenize(text string) []Token {
	var tokens []Token
	sc := newTagScanner(text)
	last := 0
	for {
		m, ok := sc.next()
		if !ok {
			break
		}
		if m.start > last {
			tokens = append(tokens, Token{Type: TokenText, Text: text[last:m.start]})
		}
		tokens = append(tokens, Token{
			Type:  TokenPayload,
			Kind:  m.kind,
			Inner: text[m.innerStart:m.innerEnd],
		})
		last = m.end
	}
	if last < len(text) {
		tokens = append(tokens, Token{Type: TokenText, Text: text[last:]})
	}
	return tokens
}

type tagMatch struct {
	kind       PayloadKind
	start      int // Index of '[' in the opening marker
	innerStart int
	innerEnd   int
	end        int // Index just past the closing marker
}

// tagScanner holds the scan position for one Tokenize call.
type tagScanner struct {
	text string
	pos  int

	// Kinds with no closing marker left at or after pos. Later opening
	// markers of these kinds can never match.
	unclosed map[PayloadKind]bool
}

func newTagScanner(text string) *tagScanner {
	return &tagScanner{text: text, unclosed: make(map[PayloadKind]bool, len(PayloadKinds))}
}

func (s *tagScanner) next() (tagMatch, bool) {
	for s.pos < len(s.text) {
		start, kind := s.nextOpen()
		if start < 0 {
			s.pos = len(s.text)
			return tagMatch{}, false
		}

		innerStart := start + len(kind.OpenMarker())
		if i := strings.Index(s.text[innerStart:], kind.CloseMarker()); i >= 0 {
			m := tagMatch{
				kind:       kind,
				start:      start,
				innerStart: innerStart,
				innerEnd:   innerStart + i,
				end:        innerStart + i + len(kind.CloseMarker()),
			}
			s.pos = m.end
			return m, true
		}

		s.unclosed[kind] = true
		s.pos = start + 1
	}
	return tagMatch{}, false
}

// nextOpen finds the earliest opening marker at or after pos whose kind may
// still close. It returns -1 when there is none.
func (s *tagScanner) nextOpen() (int, PayloadKind) {
	best := -1
	var bestKind PayloadKind
	rest := s.text[s.pos:]
	for _, k := range PayloadKinds {
		if s.unclosed[k] {
			continue
		}
		i := strings.Index(rest, k.OpenMarker())
		if i >= 0 && (best < 0 || i < best) {
			best, bestKind = i, k
		}
	}
	if best < 0 {
		return -1, ""
	}
	return s.pos + best, bestKind
}
