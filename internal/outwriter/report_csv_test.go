package outwriter

import (
	"bytes"
	"testing"

	"github.com/huangsam/tomato/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadReportTable(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *schema.ReportTable
	}{
		{
			name:     "empty input",
			input:    "",
			expected: &schema.ReportTable{},
		},
		{
			name:     "header only",
			input:    "date,writing\n",
			expected: &schema.ReportTable{Columns: []string{"writing"}},
		},
		{
			name:  "rows in file order",
			input: "date,writing,api:docs\n2024-03-09,1.5,0.5\n2024-03-10,2,0\n",
			expected: &schema.ReportTable{
				Columns: []string{"writing", "api:docs"},
				Rows: []schema.ReportRow{
					{Date: "2024-03-09", Values: map[string]float64{"writing": 1.5, "api:docs": 0.5}},
					{Date: "2024-03-10", Values: map[string]float64{"writing": 2, "api:docs": 0}},
				},
			},
		},
		{
			name:  "missing cells read as zero",
			input: "date,a,b\n2024-03-09,,1\n2024-03-10,3\n",
			expected: &schema.ReportTable{
				Columns: []string{"a", "b"},
				Rows: []schema.ReportRow{
					{Date: "2024-03-09", Values: map[string]float64{"a": 0, "b": 1}},
					{Date: "2024-03-10", Values: map[string]float64{"a": 3, "b": 0}},
				},
			},
		},
		{
			name:  "empty date rows are dropped",
			input: "date,a\r\n2024-03-09,1\r\n,4\r\n",
			expected: &schema.ReportTable{
				Columns: []string{"a"},
				Rows: []schema.ReportRow{
					{Date: "2024-03-09", Values: map[string]float64{"a": 1}},
				},
			},
		},
		{
			name:  "date column anywhere",
			input: "a,date\n2,2024-03-09\n",
			expected: &schema.ReportTable{
				Columns: []string{"a"},
				Rows: []schema.ReportRow{
					{Date: "2024-03-09", Values: map[string]float64{"a": 2}},
				},
			},
		},
		{
			name:  "byte order mark",
			input: "\ufeffdate,a\n2024-03-09,1\n",
			expected: &schema.ReportTable{
				Columns: []string{"a"},
				Rows: []schema.ReportRow{
					{Date: "2024-03-09", Values: map[string]float64{"a": 1}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseReportTable(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, table)
		})
	}
}

func TestReadReportTableMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "no date column", input: "day,a\n2024-03-09,1\n"},
		{name: "duplicate column", input: "date,a,a\n2024-03-09,1,2\n"},
		{name: "empty column name", input: "date,,a\n2024-03-09,1,2\n"},
		{name: "non numeric cell", input: "date,a\n2024-03-09,lots\n"},
		{name: "nan cell", input: "date,a\n2024-03-09,NaN\n"},
		{name: "bad quoting", input: "date,a\n2024-03-09,\"1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReportTable(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrMalformedReport)
		})
	}
}

func TestWriteReportTable(t *testing.T) {
	table := &schema.ReportTable{
		Columns: []string{"writing", "api", "api:docs"},
		Rows: []schema.ReportRow{
			{Date: "2024-03-09", Values: map[string]float64{"writing": 1.5, "api": 0.25}},
			{Date: "2024-03-10", Values: map[string]float64{"writing": 0, "api": 2, "api:docs": 0.5}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReportTable(&buf, table))
	expected := "date,writing,api,api:docs\n" +
		"2024-03-09,1.5,0.25,0\n" +
		"2024-03-10,0,2,0.5\n"
	assert.Equal(t, expected, buf.String())

	text, err := FormatReportTable(table)
	require.NoError(t, err)
	assert.Equal(t, expected, text)
}

func TestReportTableRoundTrip(t *testing.T) {
	text := "date,b,a\n2024-03-09,0.1,3\n2024-03-10,0,12.75\n"
	table, err := ParseReportTable(text)
	require.NoError(t, err)

	out, err := FormatReportTable(table)
	require.NoError(t, err)
	assert.Equal(t, text, out)
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "0", formatHours(0))
	assert.Equal(t, "1.5", formatHours(1.5))
	assert.Equal(t, "0.1", formatHours(0.1))
	assert.Equal(t, "1000000", formatHours(1e6))
}
