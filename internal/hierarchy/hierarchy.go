// Package hierarchy holds the materialized document index: the section tree,
// the page list, and the chunk and asset records referenced from both. All
// cross-references are ids resolved through the owning DocumentHierarchy,
// never direct pointers, so the structure serializes without cycles.
package hierarchy

import (
	"encoding/json"
	"fmt"

	"github.com/Cnoccir/docindex/internal/convert"
)

// Section sources.
const (
	SourceOutline = "outline"
	SourceHeading = "heading"
)

// ChunkRange records the contiguous chunk span of a section for O(1) slicing.
type ChunkRange struct {
	FirstID  string `json:"first_chunk_id"`
	LastID   string `json:"last_chunk_id"`
	Count    int    `json:"count"`
	StartIdx int    `json:"start_idx"`
	EndIdx   int    `json:"end_idx"`
}

// Section is one node of the document tree. Parent and children are id
// back-references; the flat Sections list on DocumentHierarchy owns the nodes.
type Section struct {
	ID       string `json:"section_id"`
	Title    string `json:"title"`
	Number   string `json:"section_number,omitempty"`
	Level    int    `json:"level"`
	ParentID string `json:"parent_section_id,omitempty"`

	ChildIDs []string `json:"child_section_ids,omitempty"`

	StartPage int `json:"start_page"`
	EndPage   int `json:"end_page"`

	Path []string `json:"section_path,omitempty"`

	ChunkIDs []string    `json:"chunk_ids,omitempty"`
	Chunks   *ChunkRange `json:"chunk_range,omitempty"`

	Source     string         `json:"source,omitempty"`
	Provenance map[string]any `json:"provenance,omitempty"`
}

// Label renders the section's path segment: "{number} {title}" when a
// detected or outline number exists, otherwise the bare title.
func (s *Section) Label() string {
	if s.Number != "" {
		return s.Number + " " + s.Title
	}
	return s.Title
}

// Page aggregates everything anchored to one page.
type Page struct {
	PageNo       int      `json:"page_no"`
	SectionIDs   []string `json:"section_ids,omitempty"`
	ChunkIDs     []string `json:"chunk_ids,omitempty"`
	ImageIDs     []string `json:"image_ids,omitempty"`
	TableIDs     []string `json:"table_ids,omitempty"`
	SectionCount int      `json:"section_count"`
	ChunkCount   int      `json:"chunk_count"`
	ImageCount   int      `json:"image_count"`
	TableCount   int      `json:"table_count"`
}

// Chunk is a merged, retrieval-sized unit of text owned by exactly one page
// and at most one section. Section path and level are denormalized copies so
// consumers never need a second lookup.
type Chunk struct {
	ID              string   `json:"id"`
	Content         string   `json:"content"`
	PageNumber      int      `json:"page_number"`
	SectionID       string   `json:"section_id,omitempty"`
	ParentSectionID string   `json:"parent_section_id,omitempty"`
	SectionPath     []string `json:"section_path,omitempty"`
	SectionLevel    int      `json:"section_level,omitempty"`
	ElementType     string   `json:"element_type"`
}

// AssetRef is an image or table anchored to a page and its enclosing section.
// Grid and Markdown are populated for tables only.
type AssetRef struct {
	ID           string        `json:"id"`
	Number       string        `json:"number,omitempty"`
	Caption      string        `json:"caption,omitempty"`
	Page         int           `json:"page"`
	SectionID    string        `json:"section_id,omitempty"`
	SectionTitle string        `json:"section_title,omitempty"`
	BBox         *convert.BBox `json:"bbox,omitempty"`
	Grid         [][]string    `json:"grid,omitempty"`
	Markdown     string        `json:"markdown,omitempty"`
}

// AssetIndex is the flat id-keyed map of all extracted images and tables.
type AssetIndex struct {
	Images map[string]*AssetRef `json:"images"`
	Tables map[string]*AssetRef `json:"tables"`
}

// NewAssetIndex returns an empty index with both maps allocated.
func NewAssetIndex() *AssetIndex {
	return &AssetIndex{
		Images: make(map[string]*AssetRef),
		Tables: make(map[string]*AssetRef),
	}
}

// DocumentHierarchy is the aggregate root. It is built once per ingestion
// attempt and immutable afterwards; reprocessing discards and rebuilds.
type DocumentHierarchy struct {
	DocID        string     `json:"doc_id"`
	Pages        []*Page    `json:"pages"`
	Sections     []*Section `json:"sections"`
	PageCount    int        `json:"page_count"`
	SectionCount int        `json:"section_count"`
	ChunkCount   int        `json:"chunk_count"`

	byID map[string]*Section
}

// New assembles a hierarchy from its finished parts and indexes sections.
func New(docID string, pages []*Page, sections []*Section, chunkCount int) *DocumentHierarchy {
	h := &DocumentHierarchy{
		DocID:        docID,
		Pages:        pages,
		Sections:     sections,
		PageCount:    len(pages),
		SectionCount: len(sections),
		ChunkCount:   chunkCount,
	}
	h.reindex()
	return h
}

func (h *DocumentHierarchy) reindex() {
	h.byID = make(map[string]*Section, len(h.Sections))
	for _, s := range h.Sections {
		h.byID[s.ID] = s
	}
}

// SectionByID resolves a section id, returning nil if unknown.
func (h *DocumentHierarchy) SectionByID(id string) *Section {
	return h.byID[id]
}

// ToJSON serializes the hierarchy for storage and transport.
func (h *DocumentHierarchy) ToJSON() ([]byte, error) {
	return json.Marshal(h)
}

// FromJSON reconstructs a hierarchy previously produced by ToJSON. The
// caller-supplied doc id wins over any id in the payload.
func FromJSON(docID string, data []byte) (*DocumentHierarchy, error) {
	var h DocumentHierarchy
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decode hierarchy: %w", err)
	}
	if docID != "" {
		h.DocID = docID
	}
	h.PageCount = len(h.Pages)
	h.SectionCount = len(h.Sections)
	h.reindex()
	return &h, nil
}
