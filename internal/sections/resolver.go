// Package sections reconciles machine-detected headings with the document's
// native outline into one ordered section list.
package sections

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/Cnoccir/docindex/internal/convert"
	"github.com/Cnoccir/docindex/internal/headings"
	"github.com/Cnoccir/docindex/internal/hierarchy"
)

// Config holds the fuzzy-match scoring table. The 100/80/50 values are
// empirically chosen; keep them overridable rather than baked in.
type Config struct {
	ExactScore        int // normalized titles identical
	SubstringScore    int // one normalized title contains the other
	OverlapScore      int // titles share a significant word
	AcceptThreshold   int // minimum score to accept a match
	MinOverlapWordLen int // words must be longer than this to count as overlap
}

// DefaultConfig returns the production scoring table.
func DefaultConfig() Config {
	return Config{
		ExactScore:        100,
		SubstringScore:    80,
		OverlapScore:      50,
		AcceptThreshold:   50,
		MinOverlapWordLen: 3,
	}
}

// Resolver merges outline and detected headings under the precedence rules:
// when an outline exists it is the sole ground truth for titles and nesting,
// while a matched detected heading contributes the more precise start page.
type Resolver struct {
	cfg      Config
	detector *headings.Detector
}

// NewResolver creates a resolver. The detector is borrowed for numbering
// extraction on outline titles.
func NewResolver(cfg Config, detector *headings.Detector) *Resolver {
	if cfg.AcceptThreshold <= 0 {
		cfg = DefaultConfig()
	}
	return &Resolver{cfg: cfg, detector: detector}
}

// Resolve produces the final page-ordered section list with sequential ids.
// With no outline the detected headings pass through unchanged; with an
// outline, detected headings that match no outline entry are discarded.
func (r *Resolver) Resolve(detected []headings.Detected, bookmarks []convert.Bookmark) []*hierarchy.Section {
	var out []*hierarchy.Section

	if len(bookmarks) == 0 {
		for _, h := range detected {
			out = append(out, &hierarchy.Section{
				Title:     h.Title,
				Number:    h.Number,
				Level:     h.Level,
				StartPage: h.Page,
				Source:    hierarchy.SourceHeading,
				Provenance: map[string]any{
					"raw_title": h.Raw,
				},
			})
		}
	} else {
		used := make([]bool, len(detected))
		for _, bm := range bookmarks {
			number, title, _ := r.detector.ParseNumbering(bm.Title)

			bestIdx, bestScore := -1, 0
			for i, h := range detected {
				if used[i] {
					continue
				}
				score := r.score(bm.Title, h.Raw)
				if score > bestScore {
					bestIdx, bestScore = i, score
				}
			}

			sec := &hierarchy.Section{
				Title:     title,
				Number:    number,
				Level:     bm.Level,
				StartPage: bm.Page,
				Source:    hierarchy.SourceOutline,
				Provenance: map[string]any{
					"raw_title":    bm.Title,
					"outline_page": bm.Page,
				},
			}
			if bestIdx >= 0 && bestScore >= r.cfg.AcceptThreshold {
				used[bestIdx] = true
				h := detected[bestIdx]
				// Detection is more precise about where content starts.
				sec.StartPage = h.Page
				if sec.Number == "" {
					sec.Number = h.Number
				}
				sec.Provenance["matched_heading"] = h.Raw
				sec.Provenance["match_score"] = bestScore
			}
			out = append(out, sec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartPage != out[j].StartPage {
			return out[i].StartPage < out[j].StartPage
		}
		return out[i].Level < out[j].Level
	})
	for i, s := range out {
		s.ID = fmt.Sprintf("sec_%04d", i+1)
	}
	return out
}

// score rates how well two titles refer to the same section.
func (r *Resolver) score(a, b string) int {
	na, nb := normalize(a), normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return r.cfg.ExactScore
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return r.cfg.SubstringScore
	}
	wordsA := significantWords(a, r.cfg.MinOverlapWordLen)
	for w := range significantWords(b, r.cfg.MinOverlapWordLen) {
		if wordsA[w] {
			return r.cfg.OverlapScore
		}
	}
	return 0
}

// normalize lowercases and strips everything non-alphanumeric.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func significantWords(s string, minLen int) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		n := normalize(w)
		if len(n) > minLen {
			words[n] = true
		}
	}
	return words
}
