package table

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/publication-metadata-service/internal/domain"
	"github.com/helixir/publication-metadata-service/internal/flatten"
)

func record(fields map[string]string, years ...int) flatten.FlatRecord {
	return flatten.FlatRecord{Fields: fields, Years: years}
}

func TestAssemble_EmptyInput(t *testing.T) {
	tbl := Assemble(nil, domain.EnrichmentToggles{})

	assert.True(t, tbl.IsEmpty())
	assert.Zero(t, tbl.RowCount())
	assert.Empty(t, tbl.Columns)
}

func TestAssemble_StaticColumnsAlwaysPresent(t *testing.T) {
	records := []flatten.FlatRecord{
		record(map[string]string{flatten.ColID: "W1"}),
	}
	tbl := Assemble(records, domain.EnrichmentToggles{})

	assert.Equal(t, flatten.BaseColumns, tbl.Columns)
	require.Len(t, tbl.Rows, 1)
	assert.Len(t, tbl.Rows[0], len(flatten.BaseColumns), "rows are rectangular")
	assert.Equal(t, "W1", tbl.Rows[0][0])
	assert.Equal(t, "", tbl.Rows[0][1], "absent fields render empty")
}

func TestAssemble_EnrichmentColumnsFollowToggles(t *testing.T) {
	records := []flatten.FlatRecord{record(map[string]string{flatten.ColID: "W1"})}

	both := Assemble(records, domain.EnrichmentToggles{Crossref: true, Altmetric: true})
	want := len(flatten.BaseColumns) + len(flatten.CrossrefColumns) + len(flatten.AltmetricColumns)
	assert.Len(t, both.Columns, want)
	assert.Contains(t, both.Columns, flatten.ColCrossrefPublisher)
	assert.Contains(t, both.Columns, flatten.ColAltmetricScore)

	crossrefOnly := Assemble(records, domain.EnrichmentToggles{Crossref: true})
	assert.Contains(t, crossrefOnly.Columns, flatten.ColCrossrefPublisher)
	assert.NotContains(t, crossrefOnly.Columns, flatten.ColAltmetricScore)
}

func TestAssemble_SchemaIndependentOfPayloads(t *testing.T) {
	// One record carries Crossref fields, the other does not; the schema is
	// identical for both because it depends only on the toggles.
	records := []flatten.FlatRecord{
		record(map[string]string{flatten.ColID: "W1", flatten.ColCrossrefPublisher: "Springer"}),
		record(map[string]string{flatten.ColID: "W2"}),
	}
	tbl := Assemble(records, domain.EnrichmentToggles{Crossref: true})

	idx := -1
	for i, col := range tbl.Columns {
		if col == flatten.ColCrossrefPublisher {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "Springer", tbl.Rows[0][idx])
	assert.Equal(t, "", tbl.Rows[1][idx])
}

func TestAssemble_PerYearColumnsFirstSeenOrder(t *testing.T) {
	records := []flatten.FlatRecord{
		record(map[string]string{
			flatten.CitationsColumn(2023): "7",
			flatten.CitationsColumn(2021): "2",
		}, 2023, 2021),
		record(map[string]string{
			flatten.CitationsColumn(2022): "4",
			flatten.CitationsColumn(2023): "1",
		}, 2022, 2023),
	}
	tbl := Assemble(records, domain.EnrichmentToggles{})

	n := len(flatten.BaseColumns)
	require.Len(t, tbl.Columns, n+3)
	assert.Equal(t, flatten.CitationsColumn(2023), tbl.Columns[n])
	assert.Equal(t, flatten.CitationsColumn(2021), tbl.Columns[n+1])
	assert.Equal(t, flatten.CitationsColumn(2022), tbl.Columns[n+2])

	assert.Equal(t, []string{"7", "2", ""}, tbl.Rows[0][n:])
	assert.Equal(t, []string{"1", "", "4"}, tbl.Rows[1][n:])
}

func TestAssemble_RowOrderMatchesInput(t *testing.T) {
	records := []flatten.FlatRecord{
		record(map[string]string{flatten.ColID: "W2"}),
		record(map[string]string{flatten.ColID: "W1"}),
		record(map[string]string{flatten.ColID: "W3"}),
	}
	tbl := Assemble(records, domain.EnrichmentToggles{})

	assert.Equal(t, "W2", tbl.Rows[0][0])
	assert.Equal(t, "W1", tbl.Rows[1][0])
	assert.Equal(t, "W3", tbl.Rows[2][0])
}

func TestWriteCSV(t *testing.T) {
	records := []flatten.FlatRecord{
		record(map[string]string{
			flatten.ColID:    "W1",
			flatten.ColTitle: `Quotes "inside", and commas`,
		}),
	}
	tbl := Assemble(records, domain.EnrichmentToggles{})

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 2, "header plus one data row")
	assert.Equal(t, tbl.Columns, parsed[0])
	assert.Equal(t, "W1", parsed[1][0])
	assert.Equal(t, `Quotes "inside", and commas`, parsed[1][2])
}

func TestWriteCSV_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	tbl := Assemble(nil, domain.EnrichmentToggles{})
	require.NoError(t, tbl.WriteCSV(&buf))
	assert.Zero(t, buf.Len(), "no header for a zero-column table")
}
