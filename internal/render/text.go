package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/lessonrender/internal/lesson"
)

// Text renders a plain transcript, suitable for reading aloud or for a
// terminal. Inline emphasis markers are dropped.
type Text struct{}

func (*Text) ContentType() string { return "text/plain; charset=utf-8" }

var emphasis = strings.NewReplacer("**", "", "__", "", "`", "")

func (*Text) Render(w io.Writer, items []lesson.Item) error {
	bw := bufio.NewWriter(w)
	for i, it := range items {
		if i > 0 {
			bw.WriteString("\n")
		}
		switch it.Kind {
		case lesson.KindHeading2, lesson.KindHeading3:
			bw.WriteString(emphasis.Replace(it.Text))
			bw.WriteString("\n")
		case lesson.KindBulletList:
			for _, item := range it.Items {
				bw.WriteString("- ")
				bw.WriteString(emphasis.Replace(item))
				bw.WriteString("\n")
			}
		case lesson.KindMixedContent:
			writeTokens(bw, it.Tokens)
			bw.WriteString("\n")
		default:
			bw.WriteString(emphasis.Replace(it.Text))
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

func writeTokens(bw *bufio.Writer, tokens []lesson.Token) {
	for _, tok := range tokens {
		if tok.Type == lesson.TokenText {
			bw.WriteString(emphasis.Replace(tok.Text))
			continue
		}
		if tok.Err != nil || tok.Value == nil {
			bw.WriteString(FailureMessage(tok.Kind))
			continue
		}
		switch v := tok.Value.(type) {
		case *lesson.Table:
			bw.WriteString("\n")
			bw.WriteString(strings.Join(v.Headers, " | "))
			bw.WriteString("\n")
			for _, row := range v.Rows {
				cells := make([]string, len(row))
				for i, c := range row {
					cells[i] = c.Text
				}
				bw.WriteString(strings.Join(cells, " | "))
				bw.WriteString("\n")
			}
		case *lesson.Chart:
			bw.WriteString("[chart]")
		case *lesson.FigureSearch:
			bw.WriteString("[figure: " + v.Query + "]")
		}
	}
}
