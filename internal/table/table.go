// Package table assembles flattened publication records into a single
// tabular structure with a stable superset column schema, and serializes
// it as CSV.
package table

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/helixir/publication-metadata-service/internal/domain"
	"github.com/helixir/publication-metadata-service/internal/flatten"
)

// Table is a rectangular result: every row has exactly one value per
// column. Row order matches the order records were supplied in.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows. An empty table is the
// "no results" outcome, distinct from a failure.
func (t *Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// Assemble combines flattened records into a Table.
//
// The column set is the batch schema: the canonical static columns, the
// enrichment columns for each toggled-on provider, and the dynamic per-year
// citation columns in first-seen order across records. Every row is
// materialized against that union; absent values become the empty string.
// An empty input yields a valid zero-row, zero-column table.
func Assemble(records []flatten.FlatRecord, toggles domain.EnrichmentToggles) *Table {
	if len(records) == 0 {
		return &Table{}
	}

	columns := make([]string, 0, len(flatten.BaseColumns)+8)
	columns = append(columns, flatten.BaseColumns...)
	if toggles.Crossref {
		columns = append(columns, flatten.CrossrefColumns...)
	}
	if toggles.Altmetric {
		columns = append(columns, flatten.AltmetricColumns...)
	}

	// Dynamic per-year citation columns, first-seen order across records.
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		seen[col] = true
	}
	for _, record := range records {
		for _, year := range record.Years {
			col := flatten.CitationsColumn(year)
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = record.Fields[col]
		}
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}
}

// WriteCSV serializes the table as UTF-8 CSV: a header row of canonical
// column names followed by one data row per record, in assembler order.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if len(t.Columns) > 0 {
		if err := writer.Write(t.Columns); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
	}
	for i, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
