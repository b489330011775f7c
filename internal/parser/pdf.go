package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/Cnoccir/docindex/internal/convert"
)

// PDFParser handles PDF files: per-page text elements plus the document's
// native outline as bookmarks. It tries the Go library first, then falls
// back to pdftotext for the text if available.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*convert.Result, error) {
	// ledongthuc/pdf requires a ReadSeeker plus size, so spool to a temp file.
	tmp, err := os.CreateTemp("", "docindex-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pageTexts, bookmarks, err := extractPDF(tmpPath)
	if err != nil && p.FallbackPdftotext {
		pageTexts, err = extractPdftotext(tmpPath)
		bookmarks = nil
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf: %w", err)
	}

	result := &convert.Result{Bookmarks: bookmarks}
	for i, text := range pageTexts {
		pageNo := i + 1
		page := convert.Page{PageNo: pageNo}
		if t := strings.TrimSpace(text); t != "" {
			page.Elements = append(page.Elements, textElement(t, pageNo))
		}
		result.Pages = append(result.Pages, page)
	}
	return result, nil
}

// extractPDF pulls per-page plain text and the native outline.
func extractPDF(path string) ([]string, []convert.Bookmark, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var texts []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, text)
	}

	return texts, outlineBookmarks(reader.Outline(), texts), nil
}

// outlineBookmarks flattens the native outline tree. The library exposes no
// destination pages, so each entry is anchored to the first page whose text
// contains its title; entries that match no page are dropped.
func outlineBookmarks(outline pdflib.Outline, pageTexts []string) []convert.Bookmark {
	lowered := make([]string, len(pageTexts))
	for i, t := range pageTexts {
		lowered[i] = strings.ToLower(t)
	}

	var out []convert.Bookmark
	var walk func(entries []pdflib.Outline, level int)
	walk = func(entries []pdflib.Outline, level int) {
		for _, e := range entries {
			title := strings.TrimSpace(e.Title)
			if title != "" {
				needle := strings.ToLower(title)
				for i, text := range lowered {
					if strings.Contains(text, needle) {
						out = append(out, convert.Bookmark{
							Title: title,
							Level: level,
							Page:  i + 1,
						})
						break
					}
				}
			}
			walk(e.Child, level+1)
		}
	}
	walk(outline.Child, 1)
	return out
}

// extractPdftotext shells out to pdftotext, splitting pages on form feeds.
func extractPdftotext(path string) ([]string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return strings.Split(string(out), "\f"), nil
}
