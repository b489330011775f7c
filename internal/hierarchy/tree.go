package hierarchy

import (
	"strconv"
	"strings"
)

// ComputeEndPages assigns each section's end page: the page before the next
// section at the same or a shallower level begins, or the document's last
// page. A section never ends before it starts, even when two sections share
// a page.
func ComputeEndPages(sections []*Section, lastPage int) {
	for i, s := range sections {
		end := lastPage
		for j := i + 1; j < len(sections); j++ {
			if sections[j].Level <= s.Level {
				end = sections[j].StartPage - 1
				break
			}
		}
		if end < s.StartPage {
			end = s.StartPage
		}
		s.EndPage = end
	}
}

// BuildTree links parents and children over the page-ordered section list.
// Each section's parent is the nearest preceding section with a strictly
// lower level; sections with no such predecessor are roots.
func BuildTree(sections []*Section) {
	for i, s := range sections {
		for j := i - 1; j >= 0; j-- {
			if sections[j].Level < s.Level {
				s.ParentID = sections[j].ID
				sections[j].ChildIDs = append(sections[j].ChildIDs, s.ID)
				break
			}
		}
	}
}

// BuildPaths materializes each section's root-to-self titled path. Must run
// after BuildTree and before chunking, since chunks copy the path at
// creation time.
func BuildPaths(sections []*Section) {
	byID := make(map[string]*Section, len(sections))
	for _, s := range sections {
		byID[s.ID] = s
	}
	for _, s := range sections {
		var path []string
		for cur := s; cur != nil; cur = byID[cur.ParentID] {
			path = append(path, cur.Label())
		}
		// Collected leaf-first; reverse to root-first.
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
		s.Path = path
	}
}

// AnnotateChunkRanges records, for every section with chunks, its first and
// last chunk id plus the integer index range parsed from the ids' trailing
// numeric suffix.
func AnnotateChunkRanges(sections []*Section) {
	for _, s := range sections {
		if len(s.ChunkIDs) == 0 {
			continue
		}
		first := s.ChunkIDs[0]
		last := s.ChunkIDs[len(s.ChunkIDs)-1]
		s.Chunks = &ChunkRange{
			FirstID:  first,
			LastID:   last,
			Count:    len(s.ChunkIDs),
			StartIdx: ChunkSeq(first),
			EndIdx:   ChunkSeq(last),
		}
	}
}

// ChunkSeq parses the numeric suffix of a chunk id ("{doc}_{seq:06d}").
// Returns -1 for malformed ids.
func ChunkSeq(id string) int {
	i := strings.LastIndexByte(id, '_')
	if i < 0 || i == len(id)-1 {
		return -1
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return -1
	}
	return n
}

// PageLookup resolves, for any page, the deepest section whose page range
// contains it. Chunking's default-section rule and asset attribution share
// this table.
type PageLookup struct {
	byPage map[int]*Section
}

// NewPageLookup precomputes the per-page deepest-section table. When several
// sections at the same depth cover a page, the later one in document order
// wins.
func NewPageLookup(sections []*Section, lastPage int) *PageLookup {
	byPage := make(map[int]*Section, lastPage)
	for p := 1; p <= lastPage; p++ {
		var best *Section
		for _, s := range sections {
			if s.StartPage <= p && p <= s.EndPage {
				if best == nil || s.Level >= best.Level {
					best = s
				}
			}
		}
		if best != nil {
			byPage[p] = best
		}
	}
	return &PageLookup{byPage: byPage}
}

// Covering returns the deepest section containing the page, or nil when the
// page precedes all sections.
func (l *PageLookup) Covering(page int) *Section {
	return l.byPage[page]
}
