package hierarchy

import "testing"

func sampleSections() []*Section {
	return []*Section{
		{ID: "sec_0001", Title: "Overview", Number: "1.", Level: 1, StartPage: 1},
		{ID: "sec_0002", Title: "Components", Number: "1.1", Level: 2, StartPage: 2},
		{ID: "sec_0003", Title: "Wiring", Number: "1.2", Level: 2, StartPage: 4},
		{ID: "sec_0004", Title: "Installation", Number: "2.", Level: 1, StartPage: 6},
	}
}

func TestComputeEndPages(t *testing.T) {
	secs := sampleSections()
	ComputeEndPages(secs, 10)

	wantEnds := []int{5, 3, 5, 10}
	for i, want := range wantEnds {
		if secs[i].EndPage != want {
			t.Errorf("section %s: end page = %d, want %d", secs[i].ID, secs[i].EndPage, want)
		}
	}
}

func TestComputeEndPages_NeverBeforeStart(t *testing.T) {
	// Two sections starting on the same page at the same level.
	secs := []*Section{
		{ID: "sec_0001", Level: 1, StartPage: 3},
		{ID: "sec_0002", Level: 1, StartPage: 3},
	}
	ComputeEndPages(secs, 8)

	if secs[0].EndPage != 3 {
		t.Errorf("expected end page clamped to start page, got %d", secs[0].EndPage)
	}
	if secs[1].EndPage != 8 {
		t.Errorf("expected last section to run to document end, got %d", secs[1].EndPage)
	}
}

func TestBuildTree(t *testing.T) {
	secs := sampleSections()
	BuildTree(secs)

	if secs[0].ParentID != "" {
		t.Errorf("expected first section to be a root, got parent %q", secs[0].ParentID)
	}
	if secs[1].ParentID != "sec_0001" || secs[2].ParentID != "sec_0001" {
		t.Errorf("expected subsections under sec_0001, got %q and %q", secs[1].ParentID, secs[2].ParentID)
	}
	if secs[3].ParentID != "" {
		t.Errorf("expected second chapter to be a root, got parent %q", secs[3].ParentID)
	}
	if len(secs[0].ChildIDs) != 2 {
		t.Errorf("expected sec_0001 to have 2 children, got %d", len(secs[0].ChildIDs))
	}
}

func TestBuildPaths(t *testing.T) {
	secs := sampleSections()
	BuildTree(secs)
	BuildPaths(secs)

	want := []string{"1. Overview", "1.1 Components"}
	got := secs[1].Path
	if len(got) != len(want) {
		t.Fatalf("expected path %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("path[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if len(secs[0].Path) != 1 || secs[0].Path[0] != "1. Overview" {
		t.Errorf("expected root path of itself only, got %v", secs[0].Path)
	}
}

func TestAnnotateChunkRanges(t *testing.T) {
	sec := &Section{
		ID:       "sec_0001",
		ChunkIDs: []string{"doc1_000003", "doc1_000004", "doc1_000005"},
	}
	AnnotateChunkRanges([]*Section{sec})

	cr := sec.Chunks
	if cr == nil {
		t.Fatal("expected chunk range to be set")
	}
	if cr.FirstID != "doc1_000003" || cr.LastID != "doc1_000005" {
		t.Errorf("unexpected range ids: %+v", cr)
	}
	if cr.Count != 3 || cr.StartIdx != 3 || cr.EndIdx != 5 {
		t.Errorf("unexpected range bounds: %+v", cr)
	}
}

func TestAnnotateChunkRanges_EmptySectionSkipped(t *testing.T) {
	sec := &Section{ID: "sec_0001"}
	AnnotateChunkRanges([]*Section{sec})
	if sec.Chunks != nil {
		t.Error("expected no chunk range for a section without chunks")
	}
}

func TestChunkSeq(t *testing.T) {
	cases := []struct {
		id   string
		want int
	}{
		{"manual_000042", 42},
		{"doc_with_underscores_000007", 7},
		{"manual_", -1},
		{"no-suffix", -1},
		{"doc_notanumber", -1},
	}
	for _, tc := range cases {
		if got := ChunkSeq(tc.id); got != tc.want {
			t.Errorf("ChunkSeq(%q) = %d, want %d", tc.id, got, tc.want)
		}
	}
}

func TestPageLookup_DeepestWins(t *testing.T) {
	secs := sampleSections()
	ComputeEndPages(secs, 10)
	lookup := NewPageLookup(secs, 10)

	cases := []struct {
		page int
		want string
	}{
		{1, "sec_0001"}, // before any subsection
		{2, "sec_0002"}, // subsection covers, deeper wins
		{4, "sec_0003"},
		{6, "sec_0004"},
		{10, "sec_0004"},
	}
	for _, tc := range cases {
		got := lookup.Covering(tc.page)
		if got == nil || got.ID != tc.want {
			t.Errorf("Covering(%d) = %v, want %s", tc.page, got, tc.want)
		}
	}
}

func TestPageLookup_PageBeforeAllSections(t *testing.T) {
	secs := []*Section{{ID: "sec_0001", Level: 1, StartPage: 3, EndPage: 5}}
	lookup := NewPageLookup(secs, 5)
	if got := lookup.Covering(1); got != nil {
		t.Errorf("expected nil for uncovered page, got %v", got)
	}
}
