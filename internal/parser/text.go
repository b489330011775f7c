package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/Cnoccir/docindex/internal/convert"
)

// TextParser handles plain text files. Blank-line-separated paragraphs
// become text elements on page 1.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*convert.Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	page := convert.Page{PageNo: 1}
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			page.Elements = append(page.Elements, textElement(current.String(), 1))
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &convert.Result{Pages: []convert.Page{page}}, nil
}
