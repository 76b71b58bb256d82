package source

import (
	"fmt"
	"io"
)

// TextLoader handles plain text lessons, which are already in lesson form.
type TextLoader struct{}

func (l *TextLoader) Load(r io.Reader, filename string) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return &Source{
		Title:  titleFrom(filename),
		Text:   normalize(string(data)),
		Format: "txt",
	}, nil
}
