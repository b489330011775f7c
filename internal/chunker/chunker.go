// Package chunker merges page elements into size-bounded, section-aware
// chunks, filtering running headers, footers, and other repeated noise.
package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Cnoccir/docindex/internal/convert"
	"github.com/Cnoccir/docindex/internal/headings"
	"github.com/Cnoccir/docindex/internal/hierarchy"
)

// Config controls chunking behavior. Sizes are in characters of merged text.
type Config struct {
	TargetSize      int // flush once the buffer reaches this size
	MinViable       int // flushes below this are discarded as noise
	MaxSize         int // hard cap, forces a flush even mid-section
	MinElement      int // element text below this is dropped outright
	RepeatMaxLen    int // repeated-text suppression applies up to this length
	RepeatPageLimit int // text on more than this many pages is a header/footer
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TargetSize:      1200,
		MinViable:       150,
		MaxSize:         2000,
		MinElement:      30,
		RepeatMaxLen:    60,
		RepeatPageLimit: 3,
	}
}

var (
	filenameRe  = regexp.MustCompile(`(?i)^[\w\- ]+\.(pdf|docx?|xlsx?|pptx?|txt|md|html?)$`)
	pageLabelRe = regexp.MustCompile(`(?i)^(page\s+)?\d{1,4}(\s+of\s+\d+)?$`)
)

// Builder walks one document's pages and emits its chunk sequence. It keeps
// exactly one text buffer at a time together with the buffer's owning page
// and section.
type Builder struct {
	cfg      Config
	docID    string
	detector *headings.Detector
	lookup   *hierarchy.PageLookup
	byAnchor map[string]*hierarchy.Section

	buf     strings.Builder
	bufPage int
	current *hierarchy.Section
	seq     int
	chunks  []*hierarchy.Chunk
}

// New prepares a builder for one document. Sections must already carry their
// page ranges and materialized paths.
func New(docID string, sections []*hierarchy.Section, lookup *hierarchy.PageLookup, detector *headings.Detector, cfg Config) *Builder {
	if cfg.TargetSize <= 0 {
		cfg = DefaultConfig()
	}
	b := &Builder{
		cfg:      cfg,
		docID:    docID,
		detector: detector,
		lookup:   lookup,
		byAnchor: make(map[string]*hierarchy.Section, len(sections)*2),
	}
	for _, s := range sections {
		b.byAnchor[anchorKey(s.StartPage, s.Title)] = s
		b.byAnchor[anchorKey(s.StartPage, s.Label())] = s
	}
	return b
}

// Build runs the walk and returns chunks in document order.
func (b *Builder) Build(pages []convert.Page) []*hierarchy.Chunk {
	noise := repeatedNoise(pages, b.cfg.RepeatMaxLen, b.cfg.RepeatPageLimit)

	for _, page := range pages {
		// Page-level default: content before any heading on this page
		// belongs to the deepest section already covering it.
		if def := b.lookup.Covering(page.PageNo); def != b.current {
			b.flush()
			b.current = def
		}

		for _, el := range page.Elements {
			switch el.Type {
			case convert.ElementSectionHeader:
				b.onHeading(el, noise)
			case convert.ElementText:
				b.append(el.Text, el.Page, noise)
			default:
				// Tables and figures are handled by the asset indexer.
			}
		}
	}
	b.flush()
	return b.chunks
}

// onHeading switches the owning section when the heading corresponds to a
// known section on this page, seeding the new buffer with a markdown heading
// line. Headings that resolve to no section are treated as ordinary text.
func (b *Builder) onHeading(el convert.Element, noise map[string]bool) {
	_, title, _ := b.detector.ParseNumbering(strings.TrimSpace(el.Text))
	sec := b.byAnchor[anchorKey(el.Page, title)]
	if sec == nil {
		sec = b.byAnchor[anchorKey(el.Page, strings.TrimSpace(el.Text))]
	}
	if sec == nil {
		b.append(el.Text, el.Page, noise)
		return
	}
	b.flush()
	b.current = sec
	b.bufPage = el.Page
	b.buf.WriteString("## " + sec.Label())
}

// append applies the drop rules and adds element text to the buffer, flushing
// at the size thresholds.
func (b *Builder) append(text string, page int, noise map[string]bool) {
	t := strings.TrimSpace(text)
	if t == "" || len(t) < b.cfg.MinElement {
		return
	}
	if filenameRe.MatchString(t) || pageLabelRe.MatchString(t) {
		return
	}
	if noise[t] {
		return
	}

	if b.buf.Len() > 0 && b.buf.Len()+len(t)+2 > b.cfg.MaxSize {
		b.flush()
	}
	if b.buf.Len() == 0 {
		b.bufPage = page
	} else {
		b.buf.WriteString("\n\n")
	}
	b.buf.WriteString(t)

	if b.buf.Len() >= b.cfg.TargetSize {
		b.flush()
	}
}

// flush emits the buffer as a chunk if it meets the minimum viable size;
// smaller buffers are discarded as noise. The owning section survives the
// flush, the buffer does not.
func (b *Builder) flush() {
	content := strings.TrimSpace(b.buf.String())
	b.buf.Reset()
	if len(content) < b.cfg.MinViable {
		return
	}

	chunk := &hierarchy.Chunk{
		ID:          fmt.Sprintf("%s_%06d", b.docID, b.seq),
		Content:     content,
		PageNumber:  b.bufPage,
		ElementType: "merged",
	}
	if s := b.current; s != nil {
		chunk.SectionID = s.ID
		chunk.ParentSectionID = s.ParentID
		chunk.SectionLevel = s.Level
		chunk.SectionPath = append([]string(nil), s.Path...)
	}
	b.chunks = append(b.chunks, chunk)
	b.seq++
}

func anchorKey(page int, title string) string {
	return fmt.Sprintf("%d|%s", page, strings.ToLower(strings.TrimSpace(title)))
}

// repeatedNoise finds short text that recurs verbatim across many pages
// (running headers, footers, legal stamps), keyed by trimmed text.
func repeatedNoise(pages []convert.Page, maxLen, pageLimit int) map[string]bool {
	pagesByText := make(map[string]map[int]bool)
	for _, page := range pages {
		for _, el := range page.Elements {
			if el.Type != convert.ElementText {
				continue
			}
			t := strings.TrimSpace(el.Text)
			if t == "" || len(t) > maxLen {
				continue
			}
			if pagesByText[t] == nil {
				pagesByText[t] = make(map[int]bool)
			}
			pagesByText[t][page.PageNo] = true
		}
	}

	noise := make(map[string]bool)
	for t, pageSet := range pagesByText {
		if len(pageSet) > pageLimit {
			noise[t] = true
		}
	}
	return noise
}
