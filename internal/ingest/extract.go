// Package ingest turns uploaded bulk files into the ordered list of
// material codes they contain.
package ingest

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"minestock/internal/util"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// DetectFormat infers the bulk file format from its name; anything
// unrecognized is treated as plain text.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return FormatXLSX
	case ".html", ".htm":
		return FormatHTML
	case ".pdf":
		return FormatPDF
	default:
		return FormatCSV
	}
}

// ExtractCodes parses the uploaded content into material codes. Order
// follows the file, duplicates are kept, header rows are dropped.
func ExtractCodes(format Format, content []byte) ([]string, error) {
	switch format {
	case FormatCSV:
		return parseDelimited(string(content)), nil
	case FormatXLSX:
		return parseXLSX(content)
	case FormatHTML:
		return parseHTML(content)
	case FormatPDF:
		return parsePDF(content)
	default:
		return nil, fmt.Errorf("unsupported bulk format: %s", format)
	}
}

func isHeaderCell(cell string) bool {
	return strings.EqualFold(strings.TrimSpace(cell), "material code")
}

// parseDelimited handles CSV and plain text: one code per line, first
// comma field only, whitespace trimmed, blank lines and the literal
// "material code" header skipped.
func parseDelimited(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := []string{}
	for _, line := range lines {
		first := strings.TrimSpace(strings.Split(line, ",")[0])
		if first == "" || isHeaderCell(first) {
			continue
		}
		out = append(out, first)
	}
	return out
}

func parseXLSX(content []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := []string{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			cell := firstNonEmpty(row)
			if cell == "" || isHeaderCell(cell) {
				continue
			}
			out = append(out, cell)
		}
	}
	return out, nil
}

func parseHTML(content []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	out := []string{}
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := []string{}
		row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, util.NormalizeSpaces(cell.Text()))
		})
		first := firstNonEmpty(cells)
		if first == "" || isHeaderCell(first) {
			return
		}
		if row.Find("th").Length() > 0 {
			return
		}
		out = append(out, first)
	})
	return out, nil
}

// parsePDF is line-oriented like the delimited path but filters through
// LooksLikeCode since extracted PDF text carries headings and totals.
func parsePDF(content []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	out := []string{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			token := strings.TrimSpace(strings.Split(line, ",")[0])
			if idx := strings.IndexAny(token, " \t"); idx > 0 {
				token = token[:idx]
			}
			if token == "" || isHeaderCell(token) || !util.LooksLikeCode(token) {
				continue
			}
			out = append(out, token)
		}
	}
	return out, nil
}

func firstNonEmpty(cells []string) string {
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c != "" {
			return c
		}
	}
	return ""
}
