// Package htmltable extracts tabular data from raw HTML documents and
// locates a table by the column names it is required to carry.
package htmltable

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Table is a parsed HTML table: one header row plus body rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// ErrTableNotFound is returned when no parsed table carries the required
// columns. The caller must treat this as fatal: proceeding with a wrong
// table would silently corrupt everything downstream.
type ErrTableNotFound struct {
	Required []string
}

func (e *ErrTableNotFound) Error() string {
	return fmt.Sprintf("no table found with columns: %s", strings.Join(e.Required, ", "))
}

// Parse reads every <table> element from an HTML document. The first row
// of each table is taken as the header; remaining rows become body rows.
func Parse(r io.Reader) ([]*Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var tables []*Table
	doc.Find("table").Each(func(i int, sel *goquery.Selection) {
		table := &Table{}
		sel.Find("tr").Each(func(j int, row *goquery.Selection) {
			var cells []string
			row.Find("th, td").Each(func(k int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) == 0 {
				return
			}
			if table.Header == nil {
				table.Header = cells
			} else {
				table.Rows = append(table.Rows, cells)
			}
		})
		if table.Header != nil {
			tables = append(tables, table)
		}
	})

	return tables, nil
}

var footnoteRe = regexp.MustCompile(`\[[^\[\]]*\]`)

// NormalizeColumn strips bracketed footnote markers such as "[1]" or
// "[note 2]", collapses embedded newlines to spaces, and trims whitespace.
// Idempotent: normalizing an already-normalized name is a no-op.
func NormalizeColumn(name string) string {
	// Footnote markers can nest on some pages, so strip to a fixpoint.
	for {
		stripped := footnoteRe.ReplaceAllString(name, "")
		if stripped == name {
			break
		}
		name = stripped
	}
	name = strings.ReplaceAll(name, "\n", " ")
	return strings.TrimSpace(name)
}

// NormalizeHeader returns the normalized form of every column name.
func NormalizeHeader(header []string) []string {
	normalized := make([]string, len(header))
	for i, name := range header {
		normalized[i] = NormalizeColumn(name)
	}
	return normalized
}

// Locate returns the first table whose normalized header contains every
// required column name, replacing that table's header with its normalized
// form. Returns ErrTableNotFound if no table qualifies.
func Locate(tables []*Table, required ...string) (*Table, error) {
	for _, table := range tables {
		normalized := NormalizeHeader(table.Header)

		have := make(map[string]bool, len(normalized))
		for _, name := range normalized {
			have[name] = true
		}

		match := true
		for _, name := range required {
			if !have[name] {
				match = false
				break
			}
		}
		if match {
			table.Header = normalized
			return table, nil
		}
	}

	return nil, &ErrTableNotFound{Required: required}
}

// Column returns the values of the named column, one per body row. Rows
// shorter than the column's position contribute an empty value.
func (t *Table) Column(name string) ([]string, error) {
	idx := -1
	for i, col := range t.Header {
		if col == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("column %q not present in table", name)
	}

	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values, nil
}
