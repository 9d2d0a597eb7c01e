package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/calebhart/enrichflow/internal/csvio"
	"github.com/calebhart/enrichflow/internal/model"
)

func enrichedTable() *model.ParsedTable {
	return &model.ParsedTable{
		Columns: []string{"email", "first_name", "company_name"},
		Rows: []map[string]string{
			{"email": "ada@example.com", "first_name": "Ada", "company_name": "Lovelace, Ltd"},
			{"email": "grace@example.com", "first_name": "Grace", "company_name": "Hopper Inc"},
		},
	}
}

func TestWriteCSVRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "enriched.csv")

	require.NoError(t, WriteCSV(enrichedTable(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	parsed := csvio.Parse(string(data))
	assert.Equal(t, enrichedTable().Columns, parsed.Columns)
	require.Equal(t, 2, parsed.RowCount())
	assert.Equal(t, "Lovelace, Ltd", parsed.Rows[0]["company_name"], "embedded comma survives")
}

func TestWriteXLSXProducesReadableWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enriched.xlsx")

	require.NoError(t, WriteXLSX(enrichedTable(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	require.Equal(t, []string{"Enriched Contacts"}, sheets)

	rows, err := f.GetRows(sheets[0])
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"email", "first_name", "company_name"}, rows[0])
	assert.Equal(t, []string{"ada@example.com", "Ada", "Lovelace, Ltd"}, rows[1])
}

func TestWritePicksFormatFromExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "out.csv")
	xlsxPath := filepath.Join(dir, "out.XLSX")
	require.NoError(t, Write(enrichedTable(), csvPath))
	require.NoError(t, Write(enrichedTable(), xlsxPath))

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "email,first_name,company_name")

	_, err = excelize.OpenFile(xlsxPath)
	assert.NoError(t, err, "uppercase extension still yields a workbook")
}

func TestWriteCSVEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	require.NoError(t, WriteCSV(&model.ParsedTable{}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, string(data))
}
