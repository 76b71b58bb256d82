package source

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/lessonrender/internal/lesson"
)

// CSVLoader handles CSV files. The first record is the header row; the
// whole file becomes a single table payload.
type CSVLoader struct{}

func (l *CSVLoader) Load(r io.Reader, filename string) (*Source, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	src := &Source{Title: titleFrom(filename), Format: "csv"}
	if len(records) == 0 {
		return src, nil
	}

	rows := records[1:]
	if rows == nil {
		rows = [][]string{}
	}
	data, err := json.Marshal(map[string]any{
		"headers": records[0],
		"rows":    rows,
	})
	if err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}

	kind := lesson.PayloadTable
	src.Text = kind.OpenMarker() + string(data) + kind.CloseMarker()
	return src, nil
}
