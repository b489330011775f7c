package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Cnoccir/docindex/internal/convert"
)

func TestForFile_Dispatch(t *testing.T) {
	cases := []struct {
		filename string
		wantType string
	}{
		{"notes.txt", "*parser.TextParser"},
		{"README.md", "*parser.MarkdownParser"},
		{"data.csv", "*parser.CSVParser"},
		{"page.html", "*parser.HTMLParser"},
		{"page.HTM", "*parser.HTMLParser"},
		{"manual.pdf", "*parser.PDFParser"},
		{"report.docx", "*parser.DOCXParser"},
		{"converted.json", "*parser.NativeParser"},
	}
	for _, tc := range cases {
		p, err := ForFile(tc.filename)
		if err != nil {
			t.Errorf("ForFile(%q): %v", tc.filename, err)
			continue
		}
		if got := fmt.Sprintf("%T", p); got != tc.wantType {
			t.Errorf("ForFile(%q) = %s, want %s", tc.filename, got, tc.wantType)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	if _, err := ForFile("archive.zip"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("file.PDF") {
		t.Error("expected case-insensitive extension match")
	}
	if IsSupportedExtension("file.exe") {
		t.Error("expected .exe unsupported")
	}
}

func TestTextParser_Paragraphs(t *testing.T) {
	input := "First paragraph line one.\nline two.\n\n\nSecond paragraph.\n"
	res, err := (&TextParser{}).Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Pages) != 1 || res.Pages[0].PageNo != 1 {
		t.Fatalf("unexpected pages: %+v", res.Pages)
	}
	els := res.Pages[0].Elements
	if len(els) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(els))
	}
	if els[0].Text != "First paragraph line one.\nline two." {
		t.Errorf("unexpected first paragraph %q", els[0].Text)
	}
	if els[1].Text != "Second paragraph." {
		t.Errorf("unexpected second paragraph %q", els[1].Text)
	}
}

func TestMarkdownParser_HeadingsAndBody(t *testing.T) {
	input := "# Title Here\n\nIntro paragraph text.\n\n## Subsection Name\n\nMore body text.\n"
	res, err := (&MarkdownParser{}).Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	els := res.Pages[0].Elements
	if len(els) != 4 {
		t.Fatalf("expected 4 elements, got %d: %+v", len(els), els)
	}
	if els[0].Type != convert.ElementSectionHeader || els[0].Text != "Title Here" || els[0].Level != 1 {
		t.Errorf("unexpected first heading: %+v", els[0])
	}
	if els[2].Type != convert.ElementSectionHeader || els[2].Level != 2 {
		t.Errorf("unexpected second heading: %+v", els[2])
	}
	if els[1].Type != convert.ElementText || els[1].Text != "Intro paragraph text." {
		t.Errorf("unexpected body element: %+v", els[1])
	}
}

func TestMarkdownParser_WrappedParagraph(t *testing.T) {
	input := "Soft-wrapped line one\ncontinues on line two\nand on line three.\n"
	res, err := (&MarkdownParser{}).Parse(strings.NewReader(input), "notes.md")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	els := res.Pages[0].Elements
	if len(els) != 1 {
		t.Fatalf("expected 1 element, got %d: %+v", len(els), els)
	}
	got := els[0].Text
	for _, want := range []string{"line one", "line two", "line three"} {
		if !strings.Contains(got, want) {
			t.Errorf("paragraph text missing %q: %q", want, got)
		}
	}
	if n := strings.Count(got, "line one"); n != 1 {
		t.Errorf("source line duplicated %d times in %q", n, got)
	}
}

func TestCSVParser_TableAndBatches(t *testing.T) {
	input := "name,rating\nbreaker,16A\nfuse,10A\n"
	res, err := (&CSVParser{}).Parse(strings.NewReader(input), "parts.csv")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(res.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(res.Tables))
	}
	tbl := res.Tables[0]
	if len(tbl.Data) != 3 || tbl.Data[0][0] != "name" {
		t.Errorf("unexpected grid: %+v", tbl.Data)
	}
	if tbl.Text != "Table 1. parts.csv" {
		t.Errorf("unexpected caption %q", tbl.Text)
	}

	els := res.Pages[0].Elements
	if len(els) != 1 {
		t.Fatalf("expected 1 batched text element, got %d", len(els))
	}
	if !strings.Contains(els[0].Text, "name: breaker, rating: 16A") {
		t.Errorf("unexpected batch text %q", els[0].Text)
	}
}

func TestCSVParser_Empty(t *testing.T) {
	res, err := (&CSVParser{}).Parse(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Tables) != 0 {
		t.Errorf("expected no table for empty input, got %d", len(res.Tables))
	}
	if len(res.Pages) != 1 || len(res.Pages[0].Elements) != 0 {
		t.Errorf("expected one empty page, got %+v", res.Pages)
	}
}

func TestNativeParser_RoundTrip(t *testing.T) {
	payload := `{"pages": [{"page_no": 1, "elements": [{"type": "text", "text": "hello there", "page": 1}]}]}`
	res, err := (&NativeParser{}).Parse(strings.NewReader(payload), "doc.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Pages) != 1 || res.Pages[0].Elements[0].Text != "hello there" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestNativeParser_RejectsInvalid(t *testing.T) {
	payload := `{"pages": [{"page_no": 0, "elements": []}]}`
	if _, err := (&NativeParser{}).Parse(strings.NewReader(payload), "doc.json"); err == nil {
		t.Error("expected contract violation to fail")
	}
}
