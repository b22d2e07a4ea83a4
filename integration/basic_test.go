//go:build basic

package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noCache keeps the tests away from any shared cache file.
var noCache = []string{"TOMATO_CACHE_BACKEND=none"}

func TestReportAndCleanup(t *testing.T) {
	vault := newVault(t, testVault)

	out, err := runTomato(t, vault, noCache, "report", "--date", "2024-03-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Report finished")
	assert.Equal(t,
		"date,api,api:docs,api:http,writing\n2024-03-10,1.5,0.5,1,1.5\n",
		readFile(t, filepath.Join(vault, "time_statistics_report.csv")))

	// Same day again only replaces the row
	_, err = runTomato(t, vault, noCache, "report", "--date", "2024-03-10", "--hours-per-tomato", "1")
	require.NoError(t, err)
	assert.Equal(t,
		"date,api,api:docs,api:http,writing\n2024-03-10,3,1,2,3\n",
		readFile(t, filepath.Join(vault, "time_statistics_report.csv")))

	out, err = runTomato(t, vault, noCache, "cleanup", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "- doneToday: 3")
	assert.Contains(t, readFile(t, filepath.Join(vault, "projects", "writing.md")), "doneToday: 3")

	out, err = runTomato(t, vault, noCache, "cleanup")
	require.NoError(t, err)
	assert.Contains(t, out, "start cleaning up 2 files")
	assert.Contains(t, out, "writing.md cleaned up")
	assert.Equal(t,
		"---\npageType: project\nreportKey: writing\ndoneToday: 0\n---\n# Writing\n",
		readFile(t, filepath.Join(vault, "projects", "writing.md")))
	assert.Equal(t,
		"---\npageType: project\nreportKey: api\nhttp_sub_done_today: 0\ndocs_sub_done_today: 0\n---\n# API\n",
		readFile(t, filepath.Join(vault, "projects", "api.md")))
}

func TestTodayAndShow(t *testing.T) {
	vault := newVault(t, testVault)

	out, err := runTomato(t, vault, noCache, "today", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"report_key": "api:http"`)
	_, err = os.Stat(filepath.Join(vault, "time_statistics_report.csv"))
	assert.True(t, os.IsNotExist(err), "today never writes the report")

	_, err = runTomato(t, vault, noCache, "report", "--date", "2024-03-10")
	require.NoError(t, err)
	out, err = runTomato(t, vault, noCache, "show", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-10,1.5,0.5,1,1.5")
}

func TestSettingsPersist(t *testing.T) {
	vault := newVault(t, testVault)
	configFile := filepath.Join(vault, ".tomato.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("workers: 2\n"), 0o644))

	out, err := runTomato(t, vault, noCache, "settings", "set", "0.25")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved hours-per-tomato=0.25")
	assert.Contains(t, readFile(t, configFile), "hours-per-tomato: 0.25")

	out, err = runTomato(t, vault, noCache, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "hours-per-tomato: 0.25")

	_, err = runTomato(t, vault, noCache, "report", "--date", "2024-03-10")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(vault, "time_statistics_report.csv")), "2024-03-10,0.75,0.25,0.5,0.75")

	_, err = runTomato(t, vault, noCache, "settings", "set", "--", "-1")
	assert.Error(t, err)
}

func TestHistoryAndExport(t *testing.T) {
	vault := newVault(t, testVault)
	dbDir := t.TempDir()
	env := []string{
		"TOMATO_CACHE_BACKEND=sqlite",
		"TOMATO_CACHE_DB_CONNECT=" + filepath.Join(dbDir, "cache.db"),
		"TOMATO_HISTORY_BACKEND=sqlite",
		"TOMATO_HISTORY_DB_CONNECT=" + filepath.Join(dbDir, "history.db"),
	}

	_, err := runTomato(t, vault, env, "report", "--date", "2024-03-09")
	require.NoError(t, err)
	_, err = runTomato(t, vault, env, "report", "--date", "2024-03-10")
	require.NoError(t, err)

	out, err := runTomato(t, vault, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	out, err = runTomato(t, vault, env, "history", "list", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-09")
	assert.Contains(t, out, "2024-03-10")

	out, err = runTomato(t, vault, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	prefix := filepath.Join(dbDir, "export")
	out, err = runTomato(t, vault, env, "history", "export", "--output-file", prefix)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 report runs")
	assert.FileExists(t, prefix+".report_runs.parquet")
	assert.FileExists(t, prefix+".report_entries.parquet")

	out, err = runTomato(t, vault, env, "export", "--output-file", filepath.Join(dbDir, "hours.parquet"))
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 8 report cells")

	_, err = runTomato(t, vault, env, "history", "clear")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dbDir, "history.db"))
}

func TestFailures(t *testing.T) {
	vault := newVault(t, map[string]string{
		"bad.md": "---\npageType: project\ndoneToday: 1\n---\n",
	})

	out, err := runTomato(t, vault, noCache, "report")
	assert.Error(t, err)
	assert.Contains(t, out, "Failed")
	_, statErr := os.Stat(filepath.Join(vault, "time_statistics_report.csv"))
	assert.True(t, os.IsNotExist(statErr), "a failed run leaves no report behind")

	_, err = runTomato(t, vault, noCache, "report", "--on-error", "skip")
	assert.NoError(t, err)

	_, err = runTomato(t, vault, noCache, "report", "--hours-per-tomato", "-2")
	assert.Error(t, err)
}
