package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/Cnoccir/docindex/internal/convert"
)

// MarkdownParser handles Markdown files using goldmark. Markdown has no
// native pagination, so the whole document lands on page 1; headings keep
// their AST level as the hierarchy hint.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*convert.Result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	page := convert.Page{PageNo: 1}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := string(node.Text(src))
			if title == "" {
				continue
			}
			page.Elements = append(page.Elements, headingElement(title, node.Level, 1))
		default:
			if t := blockText(n, src); t != "" {
				page.Elements = append(page.Elements, textElement(t, 1))
			}
		}
	}

	return &convert.Result{Pages: []convert.Page{page}}, nil
}

// blockText gets the text content of a goldmark AST block node. A block's
// Lines already cover its inline children, so only one of the two is read.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			if s := blockText(c, src); s != "" {
				if buf.Len() > 0 {
					buf.WriteByte('\n')
				}
				buf.WriteString(s)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
