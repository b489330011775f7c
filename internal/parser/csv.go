package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Cnoccir/docindex/internal/convert"
)

// CSVParser handles CSV files: the full grid becomes one structured table
// asset, and rows are batched into readable text elements for chunking.
type CSVParser struct{}

// csvBatchSize groups rows into manageable text elements.
const csvBatchSize = 20

func (p *CSVParser) Parse(r io.Reader, filename string) (*convert.Result, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	page := convert.Page{PageNo: 1}
	result := &convert.Result{}

	if len(records) == 0 {
		result.Pages = []convert.Page{page}
		return result, nil
	}

	headers := records[0]
	dataRows := records[1:]

	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))

		var text strings.Builder
		text.WriteString("Headers: " + strings.Join(headers, ", ") + "\n\n")
		for _, row := range dataRows[i:end] {
			for j, cell := range row {
				if j < len(headers) {
					text.WriteString(headers[j] + ": " + cell)
				} else {
					text.WriteString(cell)
				}
				if j < len(row)-1 {
					text.WriteString(", ")
				}
			}
			text.WriteString("\n")
		}
		page.Elements = append(page.Elements, textElement(text.String(), 1))
	}

	result.Pages = []convert.Page{page}
	result.Tables = []convert.Table{{
		Prov: []convert.Prov{{PageNo: 1}},
		Data: records,
		Text: "Table 1. " + filename,
	}}
	return result, nil
}
