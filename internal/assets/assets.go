// Package assets maps extracted images and tables to their page and
// enclosing section, and renders table grids to markdown.
package assets

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Cnoccir/docindex/internal/convert"
	"github.com/Cnoccir/docindex/internal/hierarchy"
)

// markdownStrategy is one way to obtain a markdown rendering of a table.
// Strategies are tried in order; the first success wins.
type markdownStrategy struct {
	name   string
	render func(t convert.Table) (string, error)
}

// Indexer resolves asset attribution for one document. Caption patterns are
// compiled once at construction.
type Indexer struct {
	figureNumber *regexp.Regexp
	imageNumber  *regexp.Regexp
	tableNumber  *regexp.Regexp
	strategies   []markdownStrategy
}

// NewIndexer builds an indexer with the standard caption patterns and the
// grid-then-caption markdown strategy chain.
func NewIndexer() *Indexer {
	ix := &Indexer{
		figureNumber: regexp.MustCompile(`(?i)\b(?:figure|fig\.?)\s*(\d+[a-z]?)`),
		imageNumber:  regexp.MustCompile(`(?i)\bimage\s*(\d+[a-z]?)`),
		tableNumber:  regexp.MustCompile(`(?i)\btable\s*(\d+[a-z]?)`),
	}
	ix.strategies = []markdownStrategy{
		{name: "grid", render: renderGrid},
		{name: "caption", render: renderCaption},
	}
	return ix
}

// Index attributes every picture and table to its page and deepest enclosing
// section, registers ids on the owning pages, and returns the flat asset
// index. Malformed entries are skipped with a warning, never propagated.
func (ix *Indexer) Index(pictures []convert.Picture, tables []convert.Table, lookup *hierarchy.PageLookup, pageByNo map[int]*hierarchy.Page) (*hierarchy.AssetIndex, []string) {
	index := hierarchy.NewAssetIndex()
	var warnings []string

	for i, pic := range pictures {
		page, bbox, ok := anchor(pic.Prov)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("picture %d: missing provenance, skipped", i))
			continue
		}
		ref := &hierarchy.AssetRef{
			ID:      fmt.Sprintf("img_%04d", len(index.Images)+1),
			Number:  ix.pictureNumber(pic.Text),
			Caption: strings.TrimSpace(pic.Text),
			Page:    page,
			BBox:    bbox,
		}
		ix.attach(ref, lookup)
		index.Images[ref.ID] = ref
		if p := pageByNo[page]; p != nil {
			p.ImageIDs = append(p.ImageIDs, ref.ID)
		}
	}

	for i, tbl := range tables {
		page, bbox, ok := anchor(tbl.Prov)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("table %d: missing provenance, skipped", i))
			continue
		}
		md, err := ix.tableMarkdown(tbl)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("table %d: markdown rendering failed: %v", i, err))
		}
		var number string
		if m := ix.tableNumber.FindStringSubmatch(tbl.Text); m != nil {
			number = "Table " + m[1]
		}
		ref := &hierarchy.AssetRef{
			ID:       fmt.Sprintf("tbl_%04d", len(index.Tables)+1),
			Number:   number,
			Caption:  strings.TrimSpace(tbl.Text),
			Page:     page,
			BBox:     bbox,
			Grid:     tbl.Data,
			Markdown: md,
		}
		ix.attach(ref, lookup)
		index.Tables[ref.ID] = ref
		if p := pageByNo[page]; p != nil {
			p.TableIDs = append(p.TableIDs, ref.ID)
		}
	}

	return index, warnings
}

// attach resolves the enclosing section, the deepest one whose page range
// contains the asset's page.
func (ix *Indexer) attach(ref *hierarchy.AssetRef, lookup *hierarchy.PageLookup) {
	if sec := lookup.Covering(ref.Page); sec != nil {
		ref.SectionID = sec.ID
		ref.SectionTitle = sec.Title
	}
}

// pictureNumber extracts "Figure N" or "Image N" from a caption.
func (ix *Indexer) pictureNumber(caption string) string {
	if m := ix.figureNumber.FindStringSubmatch(caption); m != nil {
		return "Figure " + m[1]
	}
	if m := ix.imageNumber.FindStringSubmatch(caption); m != nil {
		return "Image " + m[1]
	}
	return ""
}

// tableMarkdown tries each rendering strategy in order. All failures are
// surfaced together only when the last strategy also fails.
func (ix *Indexer) tableMarkdown(t convert.Table) (string, error) {
	var errs []error
	for _, s := range ix.strategies {
		md, err := s.render(t)
		if err == nil {
			return md, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
	}
	return "", errors.Join(errs...)
}

// renderGrid produces a pipe table from the structured grid, first row as
// header.
func renderGrid(t convert.Table) (string, error) {
	if len(t.Data) == 0 || len(t.Data[0]) == 0 {
		return "", fmt.Errorf("empty grid")
	}
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" ")
			b.WriteString(strings.ReplaceAll(strings.TrimSpace(c), "|", `\|`))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(t.Data[0])
	b.WriteString("|")
	for range t.Data[0] {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range t.Data[1:] {
		writeRow(row)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// renderCaption falls back to the caption text when no grid is available.
func renderCaption(t convert.Table) (string, error) {
	caption := strings.TrimSpace(t.Text)
	if caption == "" {
		return "", fmt.Errorf("no caption")
	}
	return caption, nil
}

// anchor returns the first provenance entry's page and bbox.
func anchor(prov []convert.Prov) (int, *convert.BBox, bool) {
	if len(prov) == 0 || prov[0].PageNo < 1 {
		return 0, nil, false
	}
	return prov[0].PageNo, prov[0].BBox, true
}
