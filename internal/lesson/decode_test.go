package lesson

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepair(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trims", input: "  {}\n", want: "{}"},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", input: "```\n[1]\n```", want: "[1]"},
		{name: "leading fence only", input: "```json {\"a\":1}", want: `{"a":1}`},
		{name: "trailing fence only", input: "{\"a\":1}\n```", want: `{"a":1}`},
		{name: "trailing comma in array", input: `[1,2,]`, want: `[1,2]`},
		{name: "trailing comma in object", input: "{\"a\":1,\n}", want: `{"a":1}`},
		{name: "nested trailing commas", input: `{"rows":[["1","2"],],}`, want: `{"rows":[["1","2"]]}`},
		{name: "escaped quotes untouched", input: `{"h":["Say \"hi\""]}`, want: `{"h":["Say \"hi\""]}`},
		{name: "backslashes untouched", input: `{"m":"\\frac{1}{2}"}`, want: `{"m":"\\frac{1}{2}"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Repair(tt.input))
		})
	}
}

func TestDecode_Table(t *testing.T) {
	v, err := Decode(PayloadTable, `{"headers":["A","B"],"rows":[["1","2"],]}`)
	require.NoError(t, err)

	table, ok := v.(*Table)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, table.Headers)
	assert.Equal(t, [][]Cell{{{Text: "1"}, {Text: "2"}}}, table.Rows)
}

func TestDecode_TableEscapedQuote(t *testing.T) {
	v, err := Decode(PayloadTable, `{"headers":["Say \"hi\""],"rows":[]}`)
	require.NoError(t, err)

	table := v.(*Table)
	assert.Equal(t, []string{`Say "hi"`}, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestDecode_TableCells(t *testing.T) {
	v, err := Decode(PayloadTable, `{"headers":["x", 2],"rows":[[1.50, "a", true, null], "solo", null]}`)
	require.NoError(t, err)

	table := v.(*Table)
	assert.Equal(t, []string{"x", "2"}, table.Headers)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []Cell{{Text: "1.50", Numeric: true}, {Text: "a"}, {Text: "true"}, {}}, table.Rows[0])
	assert.Equal(t, []Cell{{Text: "solo"}}, table.Rows[1])
	assert.Empty(t, table.Rows[2])
}

func TestDecode_TableRaggedRows(t *testing.T) {
	v, err := Decode(PayloadTable, `{"headers":["A","B"],"rows":[["1"],["2","3","4"]]}`)
	require.NoError(t, err)

	table := v.(*Table)
	require.Len(t, table.Rows, 2)
	assert.Len(t, table.Rows[0], 1)
	assert.Len(t, table.Rows[1], 3)
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name   string
		kind   PayloadKind
		input  string
		reason error
	}{
		{name: "empty", kind: PayloadTable, input: "", reason: ErrInvalidJSON},
		{name: "syntax error", kind: PayloadTable, input: `{"headers":["A"`, reason: ErrInvalidJSON},
		{name: "trailing garbage", kind: PayloadChart, input: `{"a":1} extra`, reason: ErrInvalidJSON},
		{name: "single quotes", kind: PayloadChart, input: `{'a':1}`, reason: ErrInvalidJSON},
		{name: "table missing rows", kind: PayloadTable, input: `{"headers":["A"]}`, reason: ErrInvalidTable},
		{name: "table headers not array", kind: PayloadTable, input: `{"headers":"A","rows":[]}`, reason: ErrInvalidTable},
		{name: "table not object", kind: PayloadTable, input: `[["A"]]`, reason: ErrInvalidTable},
		{name: "search empty object", kind: PayloadSearch, input: `{}`, reason: ErrMissingQuery},
		{name: "search empty query", kind: PayloadSearch, input: `{"query":""}`, reason: ErrMissingQuery},
		{name: "search blank query", kind: PayloadSearch, input: `{"query":"   "}`, reason: ErrMissingQuery},
		{name: "search query not string", kind: PayloadSearch, input: `{"query":42}`, reason: ErrMissingQuery},
		{name: "unknown kind", kind: PayloadKind("IMAGE_DATA"), input: `{}`, reason: ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode(tt.kind, tt.input)
			assert.Nil(t, v)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.reason), "got %v", err)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.kind, de.Kind)
			assert.Equal(t, tt.reason.Error(), Reason(err))
		})
	}
}

func TestDecode_Chart(t *testing.T) {
	v, err := Decode(PayloadChart, "```json\n{\"type\":\"bar\",\"values\":[1,2.5],}\n```")
	require.NoError(t, err)

	chart := v.(*Chart)
	want := map[string]any{"type": "bar", "values": []any{int64(1), 2.5}}
	assert.Equal(t, want, chart.Data)
}

func TestDecode_ChartAnyJSON(t *testing.T) {
	v, err := Decode(PayloadChart, `[1, "two"]`)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), "two"}, v.(*Chart).Data)
}

func TestDecode_Search(t *testing.T) {
	v, err := Decode(PayloadSearch, " {\"query\": \"diagram of a plant cell\"} ")
	require.NoError(t, err)
	assert.Equal(t, &FigureSearch{Query: "diagram of a plant cell"}, v)
	assert.Equal(t, PayloadSearch, v.PayloadKind())
}

func TestCellMarshalJSON(t *testing.T) {
	b, err := json.Marshal([]Cell{{Text: "1.50", Numeric: true}, {Text: "a"}, {}})
	require.NoError(t, err)
	assert.JSONEq(t, `[1.50, "a", ""]`, string(b))
}

func TestCellMarshalYAML(t *testing.T) {
	v, err := Cell{Text: "3", Numeric: true}.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	v, err = Cell{Text: "2.5", Numeric: true}.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = Cell{Text: "3"}.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestDecodeErrorMarshalsReason(t *testing.T) {
	tok := Token{
		Type:  TokenPayload,
		Kind:  PayloadSearch,
		Inner: "{}",
		Err:   &DecodeError{Kind: PayloadSearch, Reason: ErrMissingQuery},
	}
	b, err := json.Marshal(tok)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"payload","kind":"SEARCH_PROMPT","raw_inner":"{}","error":"missing query"}`, string(b))
}
