// Package builder runs the full hierarchy construction pipeline for one
// document: heading detection, hybrid section resolution, tree and path
// building, chunking, asset indexing, chunk-range annotation, and page index
// generation. Phases run strictly in sequence; each consumes only the output
// of earlier phases.
package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Cnoccir/docindex/internal/assets"
	"github.com/Cnoccir/docindex/internal/chunker"
	"github.com/Cnoccir/docindex/internal/convert"
	"github.com/Cnoccir/docindex/internal/headings"
	"github.com/Cnoccir/docindex/internal/hierarchy"
	"github.com/Cnoccir/docindex/internal/pageindex"
	"github.com/Cnoccir/docindex/internal/sections"
	"github.com/Cnoccir/docindex/internal/summarize"
)

// Config bundles the per-phase tunables.
type Config struct {
	Headings  headings.Config
	Sections  sections.Config
	Chunker   chunker.Config
	PageIndex pageindex.Config
}

// DefaultConfig returns the production defaults for every phase.
func DefaultConfig() Config {
	return Config{
		Headings:  headings.DefaultConfig(),
		Sections:  sections.DefaultConfig(),
		Chunker:   chunker.DefaultConfig(),
		PageIndex: pageindex.DefaultConfig(),
	}
}

// Result is the complete, immutable output of one build.
type Result struct {
	Hierarchy *hierarchy.DocumentHierarchy `json:"hierarchy"`
	Chunks    []*hierarchy.Chunk           `json:"chunks"`
	PageIndex map[string]pageindex.Entry   `json:"page_index"`
	Assets    *hierarchy.AssetIndex        `json:"asset_index"`
	Warnings  []string                     `json:"warnings,omitempty"`
}

// Builder constructs document hierarchies. All state is local to one Build
// invocation, so a single Builder is safe for concurrent documents.
type Builder struct {
	cfg        Config
	summarizer summarize.Summarizer
	log        *slog.Logger
}

// New creates a builder wired to the summarization collaborator.
func New(cfg Config, s summarize.Summarizer, log *slog.Logger) *Builder {
	if s == nil {
		s = summarize.Disabled{}
	}
	return &Builder{cfg: cfg, summarizer: s, log: log}
}

// Build runs all phases and returns the finished index. The only error path
// is a structurally invalid input contract; everything else degrades with a
// warning.
func (b *Builder) Build(ctx context.Context, docID string, doc *convert.Result) (*Result, error) {
	if docID == "" {
		return nil, fmt.Errorf("doc id is required")
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid conversion result: %w", err)
	}
	log := b.log.With("doc_id", docID)
	lastPage := doc.LastPage()

	// Phase 1: heading detection, with the native outline merged in.
	detector := headings.NewDetector(b.cfg.Headings)
	detected := detector.Detect(doc.Pages)

	// Phase 2: hybrid section resolution.
	resolver := sections.NewResolver(b.cfg.Sections, detector)
	secs := resolver.Resolve(detected, doc.Bookmarks)
	log.Info("sections resolved",
		"detected_headings", len(detected),
		"bookmarks", len(doc.Bookmarks),
		"sections", len(secs),
	)

	// Phase 3: page ranges, tree links, materialized paths.
	hierarchy.ComputeEndPages(secs, lastPage)
	hierarchy.BuildTree(secs)
	hierarchy.BuildPaths(secs)
	lookup := hierarchy.NewPageLookup(secs, lastPage)

	// Page skeletons, in input order.
	pages := make([]*hierarchy.Page, 0, len(doc.Pages))
	pageByNo := make(map[int]*hierarchy.Page, len(doc.Pages))
	for _, p := range doc.Pages {
		page := &hierarchy.Page{PageNo: p.PageNo}
		for _, s := range secs {
			if s.StartPage <= p.PageNo && p.PageNo <= s.EndPage {
				page.SectionIDs = append(page.SectionIDs, s.ID)
			}
		}
		pages = append(pages, page)
		pageByNo[p.PageNo] = page
	}

	// Phase 4: chunking.
	chunks := chunker.New(docID, secs, lookup, detector, b.cfg.Chunker).Build(doc.Pages)
	secByID := make(map[string]*hierarchy.Section, len(secs))
	for _, s := range secs {
		secByID[s.ID] = s
	}
	for _, c := range chunks {
		if s := secByID[c.SectionID]; s != nil {
			s.ChunkIDs = append(s.ChunkIDs, c.ID)
		}
		if p := pageByNo[c.PageNumber]; p != nil {
			p.ChunkIDs = append(p.ChunkIDs, c.ID)
		}
	}
	log.Info("chunks built", "chunks", len(chunks))

	// Phase 5: chunk ranges.
	hierarchy.AnnotateChunkRanges(secs)

	// Phase 6: asset attribution.
	assetIndex, warnings := assets.NewIndexer().Index(doc.Pictures, doc.Tables, lookup, pageByNo)
	for _, w := range warnings {
		log.Warn("asset skipped", "reason", w)
	}

	// Finalize per-page counts and the aggregate root.
	for _, p := range pages {
		p.SectionCount = len(p.SectionIDs)
		p.ChunkCount = len(p.ChunkIDs)
		p.ImageCount = len(p.ImageIDs)
		p.TableCount = len(p.TableIDs)
	}
	h := hierarchy.New(docID, pages, secs, len(chunks))

	// Phase 7: page index, with summarizer degradation handled inside.
	pageIdx := pageindex.NewGenerator(b.cfg.PageIndex, b.summarizer, log).Generate(ctx, h, chunks)

	return &Result{
		Hierarchy: h,
		Chunks:    chunks,
		PageIndex: pageIdx,
		Assets:    assetIndex,
		Warnings:  warnings,
	}, nil
}
