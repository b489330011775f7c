// Package convert defines the input contract delivered by the upstream
// document-conversion engine: ordered pages of typed elements, plus optional
// pictures, tables, and native outline bookmarks.
package convert

import "fmt"

// Element types emitted by the conversion engine.
const (
	ElementText          = "text"
	ElementSectionHeader = "section_header"
	ElementTable         = "table"
	ElementFigure        = "figure"
)

// BBox is a layout bounding box in page coordinates.
type BBox struct {
	L float64 `json:"l"`
	T float64 `json:"t"`
	R float64 `json:"r"`
	B float64 `json:"b"`
}

// Prov carries the page anchor and layout box for an image or table.
type Prov struct {
	PageNo int   `json:"page_no"`
	BBox   *BBox `json:"bbox,omitempty"`
}

// Element is a single typed item on a page.
type Element struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Label string `json:"label,omitempty"`
	Level int    `json:"level,omitempty"`
	BBox  *BBox  `json:"bbox,omitempty"`
	Page  int    `json:"page"`
}

// Page is one page of the segmented document. For time-based documents a
// "page" is a transcript segment.
type Page struct {
	PageNo   int       `json:"page_no"`
	Elements []Element `json:"elements"`
}

// Picture is an extracted image with its provenance and caption.
type Picture struct {
	Prov []Prov `json:"prov"`
	Text string `json:"text,omitempty"`
}

// Table is an extracted table: provenance, structured grid, and caption.
type Table struct {
	Prov []Prov     `json:"prov"`
	Data [][]string `json:"data,omitempty"`
	Text string     `json:"text,omitempty"`
}

// Bookmark is one entry of the document's native outline.
type Bookmark struct {
	Title string `json:"title"`
	Level int    `json:"level"`
	Page  int    `json:"page"`
}

// Result is the full conversion payload for one document.
type Result struct {
	Pages     []Page     `json:"pages"`
	Pictures  []Picture  `json:"pictures,omitempty"`
	Tables    []Table    `json:"tables,omitempty"`
	Bookmarks []Bookmark `json:"bookmarks,omitempty"`
}

// Validate checks the structural invariants the builder depends on. A
// violation here is the one condition that aborts a build.
func (r *Result) Validate() error {
	if r == nil {
		return fmt.Errorf("nil conversion result")
	}
	for i, p := range r.Pages {
		if p.PageNo < 1 {
			return fmt.Errorf("page %d: page_no must be >= 1, got %d", i, p.PageNo)
		}
		for j, el := range p.Elements {
			if el.Page < 1 {
				return fmt.Errorf("page %d element %d: missing page anchor", p.PageNo, j)
			}
		}
	}
	for i, b := range r.Bookmarks {
		if b.Title == "" {
			return fmt.Errorf("bookmark %d: missing title", i)
		}
		if b.Level < 1 {
			return fmt.Errorf("bookmark %d (%q): level must be >= 1, got %d", i, b.Title, b.Level)
		}
		if b.Page < 1 {
			return fmt.Errorf("bookmark %d (%q): missing page anchor", i, b.Title)
		}
	}
	return nil
}

// LastPage returns the highest page number in the result, or 0 if empty.
func (r *Result) LastPage() int {
	last := 0
	for _, p := range r.Pages {
		if p.PageNo > last {
			last = p.PageNo
		}
	}
	return last
}
