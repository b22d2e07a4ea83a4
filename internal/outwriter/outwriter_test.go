package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/tomato/internal/contract"
	"github.com/huangsam/tomato/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:       output,
		Precision:    1,
		Workers:      4,
		ResultLimit:  2,
		Width:        120,
		CacheBackend: schema.SQLiteBackend,
		Location:     time.UTC,
	}
}

func testReportResult() *schema.ReportResult {
	return &schema.ReportResult{
		Date:           "2024-03-10",
		HoursPerTomato: 0.5,
		Units:          schema.UnitsToday{"writing": 4, "api": 3, "api:docs": 1, "api:tests": 2},
		Hours:          map[string]float64{"writing": 2, "api": 1.5, "api:docs": 0.5, "api:tests": 1},
		ReportFile:     "time_statistics_report.csv",
		TotalRows:      3,
		Skipped:        []string{"broken.md"},
		RunID:          "run-1",
	}
}

func TestWriteReportResultTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReportResult(&buf, testReportResult(), testConfig(schema.TextOut), 100*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "writing")
	assert.Contains(t, output, "api:docs")
	assert.Contains(t, output, "Total")
	assert.Contains(t, output, "3.5") // api + writing hours, sub-projects excluded
	assert.Contains(t, output, "Skipped broken.md")
	assert.Contains(t, output, "Updated time_statistics_report.csv (3 rows) for 2024-03-10 at 0.5 hours per tomato")
	assert.Contains(t, output, "Recorded run run-1")
	assert.Contains(t, output, "Report completed in 100ms with 4 workers. Cache backend: sqlite")
}

func TestWriteReportResultCreated(t *testing.T) {
	result := testReportResult()
	result.Created = true
	result.RunID = ""

	var buf bytes.Buffer
	require.NoError(t, WriteReportResult(&buf, result, testConfig(schema.TextOut), time.Second))
	assert.Contains(t, buf.String(), "Created time_statistics_report.csv")
	assert.NotContains(t, buf.String(), "Recorded run")
}

func TestWriteReportResultJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportResult(&buf, testReportResult(), testConfig(schema.JSONOut), 0))

	var decoded schema.ReportResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "2024-03-10", decoded.Date)
	assert.Equal(t, 0.5, decoded.HoursPerTomato)
	assert.Equal(t, 2.0, decoded.Hours["writing"])
	assert.Equal(t, []string{"broken.md"}, decoded.Skipped)
}

func TestWriteReportResultCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportResult(&buf, testReportResult(), testConfig(schema.CSVOut), 0))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"date", "report_key", "tomatoes", "hours"},
		{"2024-03-10", "api", "3", "1.5"},
		{"2024-03-10", "api:docs", "1", "0.5"},
		{"2024-03-10", "api:tests", "2", "1.0"},
		{"2024-03-10", "writing", "4", "2.0"},
	}, records)
}

func TestWriteSummary(t *testing.T) {
	summary := schema.NewSummary("2024-03-10", 0.25, schema.UnitsToday{"k": 2})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummary(&buf, summary, testConfig(schema.TextOut), 5*time.Millisecond))
		assert.Contains(t, buf.String(), "0.5")
		assert.Contains(t, buf.String(), "Summary for 2024-03-10 computed in 5ms with 4 workers")
	})

	t.Run("empty summary still prints a total", func(t *testing.T) {
		var buf bytes.Buffer
		empty := schema.NewSummary("2024-03-10", 0.5, schema.UnitsToday{})
		require.NoError(t, WriteSummary(&buf, empty, testConfig(schema.TextOut), 0))
		assert.Contains(t, buf.String(), "Total")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummary(&buf, summary, testConfig(schema.JSONOut), 0))
		assert.Contains(t, buf.String(), `"report_key": "k"`)
		assert.Contains(t, buf.String(), `"hours": 0.5`)
	})
}

func TestWriteReportView(t *testing.T) {
	table := &schema.ReportTable{
		Columns: []string{"a", "b"},
		Rows: []schema.ReportRow{
			{Date: "2024-03-08", Values: map[string]float64{"a": 1, "b": 0}},
			{Date: "2024-03-09", Values: map[string]float64{"a": 2, "b": 0.5}},
			{Date: "2024-03-10", Values: map[string]float64{"a": 0, "b": 3}},
		},
	}

	t.Run("table shows the last rows", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReportView(&buf, table, testConfig(schema.TextOut)))
		output := buf.String()
		assert.NotContains(t, output, "2024-03-08")
		assert.Contains(t, output, "2024-03-09")
		assert.Contains(t, output, "2024-03-10")
		assert.Contains(t, output, "Showing 2 of 3 rows")
	})

	t.Run("csv matches the report encoding", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReportView(&buf, table, testConfig(schema.CSVOut)))
		assert.Equal(t, "date,a,b\n2024-03-09,2,0.5\n2024-03-10,0,3\n", buf.String())
	})

	t.Run("json is the long form", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReportView(&buf, table, testConfig(schema.JSONOut)))
		var cells []schema.ReportHours
		require.NoError(t, json.Unmarshal(buf.Bytes(), &cells))
		require.Len(t, cells, 4)
		assert.Equal(t, schema.ReportHours{Date: "2024-03-09", ReportKey: "a", Hours: 2}, cells[0])
	})

	t.Run("json of an empty table is an empty list", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReportView(&buf, &schema.ReportTable{}, testConfig(schema.JSONOut)))
		assert.Equal(t, "[]\n", buf.String())
	})

	assert.Len(t, table.Rows, 3, "input table is not modified")
}

func TestWriteCleanupResult(t *testing.T) {
	result := &schema.CleanupResult{
		DryRun: true,
		Outcomes: []schema.CleanupOutcome{
			{DocumentID: "projects/a.md", Status: schema.PlannedStatus, Diff: "- doneToday: 3\n+ doneToday: 0\n"},
			{DocumentID: "projects/b.md", Status: schema.UnchangedStatus},
			{DocumentID: "projects/c.md", Status: schema.SkippedStatus, Error: "malformed document"},
		},
	}

	t.Run("table with diffs", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCleanupResult(&buf, result, testConfig(schema.TextOut), 10*time.Millisecond))
		output := buf.String()
		assert.Contains(t, output, "projects/a.md")
		assert.Contains(t, output, "planned")
		assert.Contains(t, output, "malformed document")
		assert.Contains(t, output, "+ doneToday: 0")
		assert.Contains(t, output, "0 cleaned, 1 planned, 1 unchanged, 1 skipped")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCleanupResult(&buf, result, testConfig(schema.CSVOut), 0))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, []string{"document", "status", "error"}, records[0])
		assert.Equal(t, []string{"projects/c.md", "skipped", "malformed document"}, records[3])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCleanupResult(&buf, result, testConfig(schema.JSONOut), 0))
		var decoded schema.CleanupResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, result, &decoded)
	})
}

func TestWriteHistoryRuns(t *testing.T) {
	runs := []schema.ReportRunRecord{
		{RunID: "r1", ReportDate: "2024-03-08", RunTime: time.Date(2024, 3, 8, 20, 0, 0, 0, time.UTC), HoursPerTomato: 0.5, TotalTomatoes: 2, TotalHours: 1},
		{RunID: "r2", ReportDate: "2024-03-09", RunTime: time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC), HoursPerTomato: 0.5, TotalTomatoes: 4, TotalHours: 2},
		{RunID: "r3", ReportDate: "2024-03-10", RunTime: time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC), HoursPerTomato: 0.5, TotalTomatoes: 6, TotalHours: 3},
	}

	t.Run("table keeps the latest runs", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteHistoryRuns(&buf, runs, testConfig(schema.TextOut)))
		assert.NotContains(t, buf.String(), "r1")
		assert.Contains(t, buf.String(), "2024-03-10 20:00:00")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteHistoryRuns(&buf, runs, testConfig(schema.CSVOut)))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []string{"r3", "2024-03-10", "2024-03-10T20:00:00Z", "0.5", "6", "3.0"}, records[2])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteHistoryRuns(&buf, runs, testConfig(schema.JSONOut)))
		assert.Contains(t, buf.String(), `"run_id": "r2"`)
		assert.Contains(t, buf.String(), `"run_time": "2024-03-09T20:00:00Z"`)
	})
}
