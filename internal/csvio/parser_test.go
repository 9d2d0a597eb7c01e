package csvio

import (
	"testing"

	"github.com/calebhart/enrichflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantColumns []string
		wantRows    []map[string]string
	}{
		{
			name:        "simple table",
			input:       "email,name\na@x.com,Alice\nb@x.com,Bob",
			wantColumns: []string{"email", "name"},
			wantRows: []map[string]string{
				{"email": "a@x.com", "name": "Alice"},
				{"email": "b@x.com", "name": "Bob"},
			},
		},
		{
			name:        "multi-line quoted field stays one row",
			input:       "col1,col2\nfoo,\"bar\nbaz\"",
			wantColumns: []string{"col1", "col2"},
			wantRows: []map[string]string{
				{"col1": "foo", "col2": "bar\nbaz"},
			},
		},
		{
			name:        "escaped quotes",
			input:       "name\n\"O\"\"Brien\"",
			wantColumns: []string{"name"},
			wantRows: []map[string]string{
				{"name": `O"Brien`},
			},
		},
		{
			name:        "quoted comma",
			input:       "company,city\n\"Acme, Inc\",Reno",
			wantColumns: []string{"company", "city"},
			wantRows: []map[string]string{
				{"company": "Acme, Inc", "city": "Reno"},
			},
		},
		{
			name:        "crlf terminators",
			input:       "a,b\r\n1,2\r\n3,4\r\n",
			wantColumns: []string{"a", "b"},
			wantRows: []map[string]string{
				{"a": "1", "b": "2"},
				{"a": "3", "b": "4"},
			},
		},
		{
			name:        "bare cr terminators",
			input:       "a,b\r1,2\r3,4",
			wantColumns: []string{"a", "b"},
			wantRows: []map[string]string{
				{"a": "1", "b": "2"},
				{"a": "3", "b": "4"},
			},
		},
		{
			name:        "blank lines dropped",
			input:       "a,b\n\n1,2\n,\n3,4\n\n",
			wantColumns: []string{"a", "b"},
			wantRows: []map[string]string{
				{"a": "1", "b": "2"},
				{"a": "3", "b": "4"},
			},
		},
		{
			name:        "short row padded with empty strings",
			input:       "a,b,c\n1,2",
			wantColumns: []string{"a", "b", "c"},
			wantRows: []map[string]string{
				{"a": "1", "b": "2", "c": ""},
			},
		},
		{
			name:        "fields are trimmed",
			input:       "a, b\n 1 ,2 ",
			wantColumns: []string{"a", "b"},
			wantRows: []map[string]string{
				{"a": "1", "b": "2"},
			},
		},
		{
			name:        "duplicate header later column wins",
			input:       "name,name\nfirst,second",
			wantColumns: []string{"name", "name"},
			wantRows: []map[string]string{
				{"name": "second"},
			},
		},
		{
			name:        "empty input",
			input:       "",
			wantColumns: nil,
			wantRows:    nil,
		},
		{
			name:        "header only",
			input:       "email,name\n",
			wantColumns: []string{"email", "name"},
			wantRows:    []map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if tt.wantColumns == nil {
				assert.Empty(t, got.Columns)
			} else {
				assert.Equal(t, tt.wantColumns, got.Columns)
			}
			if tt.wantRows == nil {
				assert.Empty(t, got.Rows)
			} else {
				require.Len(t, got.Rows, len(tt.wantRows))
				for i, want := range tt.wantRows {
					assert.Equal(t, want, got.Rows[i], "row %d", i)
				}
			}
		})
	}
}

func TestParseNeverPanicsOnMalformedInput(t *testing.T) {
	inputs := []string{
		`"unterminated quote`,
		`a,b"c,d`,
		"\",\n\r",
		"\"\"\"",
		",,,,\n,,,,",
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() { Parse(input) }, "input %q", input)
	}
}

func TestToCSVEscaping(t *testing.T) {
	columns := []string{"name", "note"}
	rows := []map[string]string{
		{"name": `O"Brien`, "note": "line1\nline2"},
		{"name": "plain", "note": "a,b"},
	}

	got := ToCSV(columns, rows)
	want := "name,note\n\"O\"\"Brien\",\"line1\nline2\"\nplain,\"a,b\""
	assert.Equal(t, want, got)
}

func TestRoundTrip(t *testing.T) {
	tables := []*model.ParsedTable{
		{
			Columns: []string{"email", "first_name", "note"},
			Rows: []map[string]string{
				{"email": "a@x.com", "first_name": "Alice", "note": "has, comma"},
				{"email": "b@x.com", "first_name": `B "Quote"`, "note": "multi\nline"},
				{"email": "c@x.com", "first_name": "", "note": ""},
			},
		},
		{
			Columns: []string{"only"},
			Rows: []map[string]string{
				{"only": "1"},
				{"only": "2"},
			},
		},
	}

	for _, table := range tables {
		got := Parse(ToCSV(table.Columns, table.Rows))
		assert.Equal(t, table.Columns, got.Columns)
		require.Len(t, got.Rows, len(table.Rows))
		for i := range table.Rows {
			assert.Equal(t, table.Rows[i], got.Rows[i], "row %d", i)
		}
	}
}
