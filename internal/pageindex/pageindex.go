// Package pageindex produces the per-page summary and metadata map used for
// fast page-level lookups.
package pageindex

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/Cnoccir/docindex/internal/hierarchy"
	"github.com/Cnoccir/docindex/internal/summarize"
)

// SectionInfo is the per-page view of one covering section.
type SectionInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"`
}

// Entry is the index record for one page.
type Entry struct {
	Summary    string        `json:"summary"`
	SectionIDs []string      `json:"section_ids"`
	KeyTopics  []string      `json:"key_topics"`
	HasImages  bool          `json:"has_images"`
	ImageCount int           `json:"image_count"`
	HasTables  bool          `json:"has_tables"`
	TableCount int           `json:"table_count"`
	ChunkCount int           `json:"chunk_count"`
	Sections   []SectionInfo `json:"sections"`
}

// Config bounds the per-page work.
type Config struct {
	MaxChunksPerPage int // chunks concatenated into the summary input
	MaxKeywords      int // keyword candidates kept per page
	MinKeywordLen    int // keywords must be longer than this
}

// DefaultConfig returns the production limits.
func DefaultConfig() Config {
	return Config{
		MaxChunksPerPage: 10,
		MaxKeywords:      5,
		MinKeywordLen:    4,
	}
}

// Generator builds the page index. A summarizer failure degrades to a
// generic placeholder; Generate never fails.
type Generator struct {
	cfg        Config
	summarizer summarize.Summarizer
	log        *slog.Logger
	stopwords  map[string]bool
}

// NewGenerator wires a generator to its summarization collaborator.
func NewGenerator(cfg Config, s summarize.Summarizer, log *slog.Logger) *Generator {
	if cfg.MaxChunksPerPage <= 0 {
		cfg = DefaultConfig()
	}
	return &Generator{
		cfg:        cfg,
		summarizer: s,
		log:        log,
		stopwords:  stopwordSet(),
	}
}

// Generate produces the page index keyed by page number (string key) for
// every page with at least one chunk.
func (g *Generator) Generate(ctx context.Context, h *hierarchy.DocumentHierarchy, chunks []*hierarchy.Chunk) map[string]Entry {
	chunkByID := make(map[string]*hierarchy.Chunk, len(chunks))
	for _, c := range chunks {
		chunkByID[c.ID] = c
	}

	index := make(map[string]Entry)
	for _, page := range h.Pages {
		if len(page.ChunkIDs) == 0 {
			continue
		}

		var parts []string
		for i, id := range page.ChunkIDs {
			if i >= g.cfg.MaxChunksPerPage {
				break
			}
			if c := chunkByID[id]; c != nil {
				parts = append(parts, c.Content)
			}
		}
		content := strings.Join(parts, "\n\n")

		summary, err := g.summarizer.SummarizePage(ctx, content, page.PageNo)
		if err != nil {
			g.log.Warn("page summary failed, using fallback", "page", page.PageNo, "error", err)
			summary = fmt.Sprintf("Page %d content", page.PageNo)
		}

		var infos []SectionInfo
		for _, id := range page.SectionIDs {
			if s := h.SectionByID(id); s != nil {
				infos = append(infos, SectionInfo{ID: s.ID, Title: s.Title, Level: s.Level})
			}
		}

		index[strconv.Itoa(page.PageNo)] = Entry{
			Summary:    summary,
			SectionIDs: append([]string(nil), page.SectionIDs...),
			KeyTopics:  g.keywords(content),
			HasImages:  len(page.ImageIDs) > 0,
			ImageCount: len(page.ImageIDs),
			HasTables:  len(page.TableIDs) > 0,
			TableCount: len(page.TableIDs),
			ChunkCount: len(page.ChunkIDs),
			Sections:   infos,
		}
	}
	return index
}

// keywords extracts the top frequency-ranked alphabetic words as a
// lightweight topic hint. Ties break alphabetically for determinism.
func (g *Generator) keywords(content string) []string {
	freq := make(map[string]int)
	for _, raw := range strings.Fields(strings.ToLower(content)) {
		w := strings.TrimFunc(raw, func(r rune) bool { return !unicode.IsLetter(r) })
		if len(w) <= g.cfg.MinKeywordLen || g.stopwords[w] || !alphabetic(w) {
			continue
		}
		freq[w]++
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > g.cfg.MaxKeywords {
		words = words[:g.cfg.MaxKeywords]
	}
	return words
}

func alphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}

func stopwordSet() map[string]bool {
	words := []string{
		"about", "above", "after", "again", "being", "below", "between",
		"could", "during", "every", "further", "having", "into", "itself",
		"other", "should", "their", "there", "these", "they", "this",
		"those", "through", "under", "until", "very", "were", "where",
		"which", "while", "would", "because", "before", "against",
		"shall", "might", "also", "than", "then", "them", "when", "what",
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
