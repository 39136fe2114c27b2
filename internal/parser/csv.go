package parser

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/dgallion1/contentgen/internal/doctree"
)

// CSVParser handles CSV files. The first record is the header row; the rest
// become table rows, which is the shape the glossary extractor reads.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.Source, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	src := &doctree.Source{
		Filename: filename,
		Title:    TitleFromFilename(filename),
	}
	if len(records) == 0 {
		return src, nil
	}

	var sb strings.Builder
	sb.WriteString("<table>\n")
	for i, row := range records {
		cell := "td"
		if i == 0 {
			cell = "th"
		}
		sb.WriteString("<tr>")
		for _, v := range row {
			fmt.Fprintf(&sb, "<%s>%s</%s>", cell, html.EscapeString(strings.TrimSpace(v)), cell)
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>")
	src.HTML = sb.String()
	return src, nil
}
