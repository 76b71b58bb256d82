package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dgallion1/lessonrender/internal/lesson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const lessonDoc = `**La Célula**

### Estructura

line one
line two

* Membrana
* **Núcleo**

A. [TABLE_DATA]{"headers":["Orgánulo","Función"],"rows":[["Mitocondria","Energía"],[3]]}[/TABLE_DATA]

[CHART_DATA]{"type":"pie","data":[40,60]}[/CHART_DATA]

[SEARCH_PROMPT]{"query":"diagrama de una célula animal"}[/SEARCH_PROMPT]

[TABLE_DATA]{"headers":[[/TABLE_DATA]`

func renderString(t *testing.T, r Renderer, items []lesson.Item) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, items))
	return buf.String()
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		want   Renderer
	}{
		{"html", &HTML{}},
		{"", &HTML{}},
		{"HTML", &HTML{}},
		{"text", &Text{}},
		{"txt", &Text{}},
		{"json", &JSON{}},
		{"yaml", &YAML{}},
		{"yml", &YAML{}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			r, err := ForFormat(tt.format, Options{})
			require.NoError(t, err)
			assert.IsType(t, tt.want, r)
		})
	}

	_, err := ForFormat("pdf", Options{})
	assert.EqualError(t, err, "unsupported format: pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNormalize(t *testing.T) {
	for in, want := range map[string]string{"": "html", " Text ": "text", "yml": "yaml", "JSON": "json"} {
		got, err := Normalize(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := Normalize("docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestInline(t *testing.T) {
	in := NewInline()

	assert.Equal(t, "<strong>bold</strong> and <em>it</em>", in.Render("**bold** and *it*"))
	assert.Equal(t, "# Not a heading", in.Render("# Not a heading"))
	assert.Equal(t, "1. not a list", in.Render("1. not a list"))
	assert.Contains(t, in.Render("a\nb"), "<br")
	assert.Contains(t, in.Render("[docs](http://example.com)"), `href="http://example.com"`)

	out := in.Render("<script>alert(1)</script> safe")
	assert.NotContains(t, out, "<script")
	assert.Contains(t, out, "safe")
}

func TestHTML_Render(t *testing.T) {
	items := lesson.Parse(lessonDoc)
	out := renderString(t, NewHTML(Options{}), items)

	assert.Contains(t, out, "<h2>La Célula</h2>\n")
	assert.Contains(t, out, "<h3>Estructura</h3>\n")
	assert.Contains(t, out, `<p class="soft-breaks">line one<br/>`)
	assert.Contains(t, out, "<ul><li>Membrana</li><li><strong>Núcleo</strong></li></ul>\n")
	assert.Contains(t, out, `<div class="mixed">A.`)
	assert.Contains(t, out,
		`<div class="table-wrap"><table><thead><tr><th>Orgánulo</th><th>Función</th></tr></thead>`+
			`<tbody><tr><td>Mitocondria</td><td>Energía</td></tr><tr><td class="num">3</td></tr></tbody></table></div>`)
	assert.Contains(t, out, `<div class="chart" data-chart="`)
	assert.Contains(t, out, `<figure class="figure-search"><figcaption>diagrama de una célula animal</figcaption>`)
	assert.Contains(t, out, "q=diagrama+de+una+c%C3%A9lula+animal")
	assert.Contains(t, out, `<p class="payload-error" data-kind="TABLE_DATA">Could not display the table.</p>`)
}

func TestHTML_FigureSearchURL(t *testing.T) {
	items := lesson.Parse(`[SEARCH_PROMPT]{"query":"mitosis phases"}[/SEARCH_PROMPT]`)
	out := renderString(t, NewHTML(Options{FigureSearchURL: "https://images.example.org/?q="}), items)
	assert.Contains(t, out, `href="https://images.example.org/?q=mitosis+phases"`)
}

func TestHTML_EscapesTableCells(t *testing.T) {
	items := lesson.Parse(`[TABLE_DATA]{"headers":["<b>x</b>"],"rows":[["a < b"]]}[/TABLE_DATA]`)
	out := renderString(t, NewHTML(Options{}), items)
	assert.Contains(t, out, "<th>&lt;b&gt;x&lt;/b&gt;</th>")
	assert.Contains(t, out, "<td>a &lt; b</td>")
}

func TestText_Render(t *testing.T) {
	doc := "**Title**\n\n* a\n* **b**\n\n" +
		"See [TABLE_DATA]{\"headers\":[\"A\",\"B\"],\"rows\":[[1,\"x\"]]}[/TABLE_DATA]\n\n" +
		"[SEARCH_PROMPT]{}[/SEARCH_PROMPT]"
	out := renderString(t, &Text{}, lesson.Parse(doc))

	want := "Title\n" +
		"\n" +
		"- a\n- b\n" +
		"\n" +
		"See \nA | B\n1 | x\n\n" +
		"\n" +
		"Could not process the figure search.\n"
	assert.Equal(t, want, out)
}

func TestText_ChartAndFigure(t *testing.T) {
	doc := `[CHART_DATA]{}[/CHART_DATA] and [SEARCH_PROMPT]{"query":"leaf"}[/SEARCH_PROMPT]`
	out := renderString(t, &Text{}, lesson.Parse(doc))
	assert.Equal(t, "[chart] and [figure: leaf]\n", out)
}

func TestJSON_Render(t *testing.T) {
	out := renderString(t, &JSON{}, lesson.Parse(lessonDoc))

	var doc struct {
		Items []struct {
			Kind   string           `json:"kind"`
			Text   string           `json:"text"`
			Tokens []map[string]any `json:"tokens"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Items, 8)
	assert.Equal(t, "heading2", doc.Items[0].Kind)
	assert.Equal(t, "La Célula", doc.Items[0].Text)

	table := doc.Items[4].Tokens[1]
	assert.Equal(t, "TABLE_DATA", table["kind"])
	value := table["value"].(map[string]any)
	assert.Equal(t, []any{"Orgánulo", "Función"}, value["headers"])

	failed := doc.Items[7].Tokens[0]
	assert.Equal(t, "invalid JSON", failed["error"])
	assert.NotContains(t, failed, "value")
}

func TestJSON_EmptyDocument(t *testing.T) {
	out := renderString(t, &JSON{}, lesson.Parse(""))
	assert.JSONEq(t, `{"items": []}`, out)
}

func TestYAML_Render(t *testing.T) {
	out := renderString(t, &YAML{}, lesson.Parse(lessonDoc))

	var doc map[string][]map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	items := doc["items"]
	require.Len(t, items, 8)
	assert.Equal(t, "heading2", items[0]["kind"])
	assert.Equal(t, "bullet_list", items[3]["kind"])

	tokens := items[4]["tokens"].([]any)
	table := tokens[1].(map[string]any)["value"].(map[string]any)
	rows := table["rows"].([]any)
	assert.Equal(t, []any{3}, rows[1])
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, "Could not display the table.", FailureMessage(lesson.PayloadTable))
	assert.Equal(t, "Could not display the chart.", FailureMessage(lesson.PayloadChart))
	assert.Equal(t, "Could not process the figure search.", FailureMessage(lesson.PayloadSearch))
	assert.Equal(t, "Could not display this content.", FailureMessage("OTHER"))
}
