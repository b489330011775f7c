package convert

import (
	"strings"
	"testing"
)

const validPayload = `{
  "pages": [
    {"page_no": 1, "elements": [
      {"type": "section_header", "text": "1. Overview", "level": 1, "page": 1},
      {"type": "text", "text": "The device ships fully assembled.", "page": 1}
    ]},
    {"page_no": 2, "elements": []}
  ],
  "pictures": [{"prov": [{"page_no": 2}], "text": "Figure 1: Front view"}],
  "tables": [{"prov": [{"page_no": 2}], "data": [["a", "b"]], "text": "Table 1"}],
  "bookmarks": [{"title": "Overview", "level": 1, "page": 1}]
}`

func TestDecode_Valid(t *testing.T) {
	r, err := Decode([]byte(validPayload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(r.Pages) != 2 || r.Pages[0].PageNo != 1 {
		t.Errorf("unexpected pages: %+v", r.Pages)
	}
	if len(r.Pages[0].Elements) != 2 || r.Pages[0].Elements[0].Type != ElementSectionHeader {
		t.Errorf("unexpected elements: %+v", r.Pages[0].Elements)
	}
	if len(r.Pictures) != 1 || len(r.Tables) != 1 || len(r.Bookmarks) != 1 {
		t.Errorf("unexpected counts: %d pictures, %d tables, %d bookmarks",
			len(r.Pictures), len(r.Tables), len(r.Bookmarks))
	}
	if r.LastPage() != 2 {
		t.Errorf("LastPage() = %d, want 2", r.LastPage())
	}
}

func TestDecode_RejectsContractViolations(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"not json", `{broken`},
		{"missing pages", `{}`},
		{"page_no zero", `{"pages": [{"page_no": 0, "elements": []}]}`},
		{"element without page", `{"pages": [{"page_no": 1, "elements": [{"type": "text", "text": "x"}]}]}`},
		{"unknown element type", `{"pages": [{"page_no": 1, "elements": [{"type": "sidebar", "page": 1}]}]}`},
		{"bookmark without title", `{"pages": [], "bookmarks": [{"level": 1, "page": 1}]}`},
		{"bookmark level zero", `{"pages": [], "bookmarks": [{"title": "Intro", "level": 0, "page": 1}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode([]byte(tc.payload)); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}

func TestDecode_EmptyPagesAllowed(t *testing.T) {
	r, err := Decode([]byte(`{"pages": []}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if r.LastPage() != 0 {
		t.Errorf("LastPage() = %d, want 0", r.LastPage())
	}
}

func TestValidate_StructuralChecks(t *testing.T) {
	bad := &Result{Pages: []Page{{PageNo: 1, Elements: []Element{{Type: ElementText, Text: "x"}}}}}
	err := bad.Validate()
	if err == nil || !strings.Contains(err.Error(), "page anchor") {
		t.Errorf("expected page anchor error, got %v", err)
	}

	good := &Result{Pages: []Page{{PageNo: 1, Elements: []Element{{Type: ElementText, Text: "x", Page: 1}}}}}
	if err := good.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
