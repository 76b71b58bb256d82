// Package source loads uploaded lesson files and turns them into the raw
// lesson text understood by package lesson.
package source

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Source is a loaded lesson ready for parsing.
type Source struct {
	Title  string `json:"title"`
	Text   string `json:"-"`
	Format string `json:"format"`
}

// Loader converts raw file bytes into lesson text.
type Loader interface {
	Load(r io.Reader, filename string) (*Source, error)
}

// Options tunes loader construction.
type Options struct {
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate loader for a filename.
func ForFile(filename string, opts Options) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextLoader{}, nil
	case ".md", ".markdown":
		return &MarkdownLoader{}, nil
	case ".csv":
		return &CSVLoader{}, nil
	case ".html", ".htm":
		return &HTMLLoader{}, nil
	case ".pdf":
		return &PDFLoader{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXLoader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupported checks if a file extension is supported.
func IsSupported(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// titleFrom strips directories and the extension from a filename.
func titleFrom(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var lineEndings = strings.NewReplacer("\r\n", "\n")

// normalize strips a UTF-8 byte order mark and converts CRLF to LF.
func normalize(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return lineEndings.Replace(s)
}
