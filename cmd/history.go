package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/tomato/internal/contract"
	"github.com/huangsam/tomato/internal/iocache"
	"github.com/huangsam/tomato/internal/outwriter"
	"github.com/huangsam/tomato/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendConfig reads and validates the history backend settings.
// An unset backend is treated as NoneBackend.
func historyBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.NoneBackend
	if s := viper.GetString("history-backend"); s != "" {
		backend = schema.DatabaseBackend(s)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
func historySetup() error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}

	// No metadata cache for history commands
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup is like historySetup but does NOT open the store, so
// migrations can run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyDBFile returns the SQLite file holding the history.
func historyDBFile() string {
	if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect != "" {
		return cfg.HistoryDBConnect
	}
	return contract.GetHistoryDBFilePath()
}

// historyCmd focused on report history.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the history of report runs",
	Long: `Manage the record of report runs kept next to the CSV report.

When --history-backend is set, every report run stores its date, the hours per
tomato in effect, the totals, and the tomatoes and hours of each report key.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show history statistics
  list    - Show recent report runs
  export  - Export runs and entries to Parquet
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  # Record history in SQLite
  tomato report --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  tomato history export --history-backend sqlite --output-file tomato`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display history statistics and connection details",
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyListCmd prints recent runs.
var historyListCmd = &cobra.Command{
	Use:   "list [vault-path]",
	Short: "Show the most recent report runs",
	Long: `Print the most recent report runs, oldest first.

Examples:
  tomato history list --history-backend sqlite --limit 10`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		history := cacheManager.GetHistoryStore()
		if history == nil {
			return errors.New("history is disabled, set --history-backend to list it")
		}
		runs, err := history.GetAllRuns()
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteHistory(runs, cfg)
	},
}

// historyClearCmd clears the history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all report history",
	Long: `Delete all stored report runs and their entries.

WARNING: This action cannot be undone. Consider exporting data first.
The CSV report itself is not touched.

Examples:
  tomato history export --output-file backup
  tomato history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		iocache.CloseStores()
		if err := iocache.ClearHistory(cfg.HistoryBackend, historyDBFile(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyExportCmd exports history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export report history to Parquet",
	Long: `Export all report runs and entries to two Parquet files:
<output-file>` + iocache.ReportRunsSuffix + ` and <output-file>` + iocache.ReportEntriesSuffix + `

Requires: --output-file parameter

Examples:
  tomato history export --output-file tomato
  duckdb -c "SELECT report_key, sum(hours) FROM read_parquet('tomato.report_entries.parquet') GROUP BY 1"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(os.Stdout, iocache.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  tomato history migrate --history-backend sqlite

  # Rollback to initial state
  tomato history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
