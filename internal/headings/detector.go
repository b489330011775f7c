// Package headings detects real section headings in the converted element
// stream, classifies their nesting level from numbering patterns, and filters
// the structural noise (running headers, boilerplate, TOC navigation) that
// layout analysis mislabels as headings.
package headings

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Cnoccir/docindex/internal/convert"
)

// Detected is one accepted heading with its classified level.
type Detected struct {
	Title  string // title with any numeric prefix stripped
	Number string // numeric prefix, e.g. "1." or "2.3"
	Level  int
	Page   int
	Raw    string // original element text
}

// Config holds the detection thresholds. The values are empirically chosen;
// they are surfaced here so deployments can tune them without a rebuild.
type Config struct {
	MinTitleLen       int // reject heading text shorter than this
	MaxTitleLen       int // reject titles longer than this
	MinAlphaChars     int // minimum alphabetic characters in a valid title
	TOCHeadingCount   int // heading elements on one page suggesting a TOC
	TOCDotLeaderCount int // dot-leader elements on one page suggesting a TOC
}

// DefaultConfig returns the thresholds used in production.
func DefaultConfig() Config {
	return Config{
		MinTitleLen:       10,
		MaxTitleLen:       150,
		MinAlphaChars:     3,
		TOCHeadingCount:   8,
		TOCDotLeaderCount: 3,
	}
}

// numberingPattern maps a numeric-prefix shape to a nesting level. Patterns
// are tried most-specific first.
type numberingPattern struct {
	re    *regexp.Regexp
	level int
}

// Detector scans pages for headings. It is stateless across calls; all
// pattern tables are compiled once at construction.
type Detector struct {
	cfg Config

	numbering []numberingPattern

	dotLeader   *regexp.Regexp
	bareNumber  *regexp.Regexp
	pageLabel   *regexp.Regexp
	filename    *regexp.Regexp
	legal       *regexp.Regexp
	cookie      *regexp.Regexp
	linkTarget  *regexp.Regexp
	email       *regexp.Regexp
	capsIdent   *regexp.Regexp
	docMetadata *regexp.Regexp
}

// NewDetector compiles the filter and numbering tables for the given config.
func NewDetector(cfg Config) *Detector {
	if cfg.MinTitleLen <= 0 {
		cfg = DefaultConfig()
	}
	return &Detector{
		cfg: cfg,
		numbering: []numberingPattern{
			{regexp.MustCompile(`^(\d+\.\d+\.\d+\.\d+)\.?\s+(.+)$`), 4},
			{regexp.MustCompile(`^(\d+\.\d+\.\d+)\.?\s+(.+)$`), 3},
			{regexp.MustCompile(`^(\d+\.\d+)\.?\s+(.+)$`), 2},
			{regexp.MustCompile(`^(\d+\.)\s+(.+)$`), 1},
		},
		dotLeader:  regexp.MustCompile(`\.{5,}`),
		bareNumber: regexp.MustCompile(`^\d{1,4}$`),
		pageLabel:  regexp.MustCompile(`(?i)^page\s+\d+(\s+of\s+\d+)?$`),
		filename:   regexp.MustCompile(`(?i)^[\w\- ]+\.(pdf|docx?|xlsx?|pptx?|txt|md|html?)$`),
		legal: regexp.MustCompile(
			`(?i)(copyright|©|\(c\)\s*\d{4}|all rights reserved|confidential|proprietary|internal use only)`),
		cookie: regexp.MustCompile(
			`(?i)(cookie|privacy policy|terms of (service|use)|accept all|consent preferences|gdpr)`),
		linkTarget: regexp.MustCompile(`\(/[^\s)]+\)`),
		email:      regexp.MustCompile(`\S+@\S+\.\S+`),
		capsIdent:  regexp.MustCompile(`^[A-Z0-9_]{6,}$`),
		docMetadata: regexp.MustCompile(
			`(?i)^(version|rev(ision)?|author|date|status|draft|prepared by|reviewed by|approved by|doc(ument)?\s+(no|number|id))\b`),
	}
}

// Detect scans the element stream and returns accepted headings in document
// order. TOC pages are excluded entirely: their heading-typed elements are
// navigation entries, not structure.
func (d *Detector) Detect(pages []convert.Page) []Detected {
	var out []Detected
	seen := make(map[string]bool)

	for idx, page := range pages {
		if d.isTOCPage(page) {
			continue
		}
		firstPage := idx == 0

		for _, el := range page.Elements {
			if el.Type != convert.ElementSectionHeader {
				continue
			}
			text := strings.TrimSpace(el.Text)
			if !d.accept(text, firstPage, seen) {
				continue
			}
			seen[strings.ToLower(text)] = true

			number, title, level := d.ParseNumbering(text)
			if level == 0 {
				level = el.Level
				if level < 1 {
					level = 1
				}
			}
			if !d.validTitle(title) {
				continue
			}
			out = append(out, Detected{
				Title:  title,
				Number: number,
				Level:  level,
				Page:   el.Page,
				Raw:    text,
			})
		}
	}
	return out
}

// isTOCPage applies the table-of-contents heuristic: an explicit "contents"
// marker, or an unusual density of headings combined with dot leaders.
func (d *Detector) isTOCPage(page convert.Page) bool {
	headingCount := 0
	dotLeaderCount := 0
	for _, el := range page.Elements {
		text := strings.ToLower(strings.TrimSpace(el.Text))
		switch text {
		case "contents", "table of contents", "toc":
			return true
		}
		if el.Type == convert.ElementSectionHeader {
			headingCount++
		}
		if d.dotLeader.MatchString(el.Text) {
			dotLeaderCount++
		}
	}
	return headingCount > d.cfg.TOCHeadingCount && dotLeaderCount > d.cfg.TOCDotLeaderCount
}

// accept runs the rejection filters in order. Returns true if the text
// survives all of them.
func (d *Detector) accept(text string, firstPage bool, seen map[string]bool) bool {
	if text == "" {
		return false
	}
	if d.bareNumber.MatchString(text) || d.pageLabel.MatchString(text) || d.filename.MatchString(text) {
		return false
	}
	if d.legal.MatchString(text) || d.cookie.MatchString(text) {
		return false
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "http://") || strings.Contains(lower, "https://") ||
		strings.Contains(lower, "www.") || d.email.MatchString(text) {
		return false
	}
	if d.capsIdent.MatchString(text) && strings.Contains(text, "_") {
		return false
	}
	if strings.Contains(lower, "see also") || strings.Contains(lower, "see section") ||
		d.linkTarget.MatchString(text) {
		return false
	}
	if len(text) < d.cfg.MinTitleLen {
		return false
	}
	if firstPage && d.docMetadata.MatchString(text) {
		return false
	}
	if seen[lower] {
		return false
	}
	return true
}

// ParseNumbering splits a heading into numeric prefix and title, returning
// the level implied by the prefix shape. Level 0 means no pattern matched.
func (d *Detector) ParseNumbering(text string) (number, title string, level int) {
	text = strings.TrimSpace(text)
	for _, p := range d.numbering {
		if m := p.re.FindStringSubmatch(text); m != nil {
			return m[1], strings.TrimSpace(m[2]), p.level
		}
	}
	return "", text, 0
}

// validTitle is the final acceptance check on the title with any numbering
// stripped.
func (d *Detector) validTitle(title string) bool {
	if len(title) > d.cfg.MaxTitleLen {
		return false
	}
	alpha := 0
	for _, r := range title {
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	if alpha < d.cfg.MinAlphaChars {
		return false
	}
	runes := []rune(title)
	if len(runes) > 0 && (unicode.IsPunct(runes[0]) || unicode.IsSymbol(runes[0])) {
		return false
	}
	// Shouting boilerplate: entirely uppercase with multiple long words.
	// A single long uppercase word may be an acronym, so it passes.
	if title == strings.ToUpper(title) && title != strings.ToLower(title) {
		long := 0
		for _, w := range strings.Fields(title) {
			if len(w) > 4 {
				long++
			}
		}
		if long >= 2 {
			return false
		}
	}
	return true
}
