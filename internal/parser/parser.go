// Package parser bridges raw document files to the conversion contract, so
// the service can ingest common formats without an external conversion
// engine. Each adapter emits the same typed element stream the engine would.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Cnoccir/docindex/internal/convert"
)

// Parser converts raw document bytes into a conversion result.
type Parser interface {
	Parse(r io.Reader, filename string) (*convert.Result, error)
}

// SupportedExtensions lists file extensions this service can handle. The
// .json entry is the native conversion payload passed through unchanged.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
	".json": true,
}

// Options tunes parser behavior for formats that support it.
type Options struct {
	PDFFallbackPdftotext bool
}

// DefaultOptions enables the pdftotext fallback for PDFs.
func DefaultOptions() Options {
	return Options{PDFFallbackPdftotext: true}
}

// ForFile returns the appropriate parser for a filename with default options.
func ForFile(filename string) (Parser, error) {
	return ForFileWith(filename, DefaultOptions())
}

// ForFileWith returns the appropriate parser for a filename.
func ForFileWith(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".json":
		return &NativeParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// NativeParser accepts the conversion contract itself as JSON.
type NativeParser struct{}

func (p *NativeParser) Parse(r io.Reader, filename string) (*convert.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return convert.Decode(data)
}

// headingElement builds a section_header element on the given page.
func headingElement(text string, level, page int) convert.Element {
	return convert.Element{
		Type:  convert.ElementSectionHeader,
		Text:  text,
		Level: level,
		Page:  page,
	}
}

// textElement builds a plain text element on the given page.
func textElement(text string, page int) convert.Element {
	return convert.Element{
		Type: convert.ElementText,
		Text: text,
		Page: page,
	}
}
