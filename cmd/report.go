package cmd

import (
	"time"

	"github.com/huangsam/tomato/core"
	"github.com/huangsam/tomato/internal/outwriter"
	"github.com/spf13/cobra"
)

// reportCmd aggregates today's tomatoes into the CSV time report.
var reportCmd = &cobra.Command{
	Use:   "report [vault-path]",
	Short: "Add today's tomatoes to the CSV time report.",
	Long: `Aggregate the tomato counters of every project note and write them as hours
into the time report.

A project note has front matter with pageType: project and a reportKey. Its
tomatoes come from doneToday, or from every <name>_sub_done_today counter, which
also produce <reportKey>:<name> columns.

Today's row is replaced when it already exists, otherwise a new row is appended.
New report keys become new columns and are filled with 0 on older rows.

Examples:
  # Report the vault in the current directory
  tomato report

  # Report another vault at one hour per tomato
  tomato report ~/notes --hours-per-tomato 1

  # Fix a forgotten day
  tomato report --date yesterday`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		start := time.Now()
		result, err := core.ExecuteReport(rootCtx, cfg, docStore, console, cacheManager.GetHistoryStore())
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteReport(result, cfg, time.Since(start))
	},
}

// todayCmd previews the report without writing it.
var todayCmd = &cobra.Command{
	Use:   "today [vault-path]",
	Short: "Show today's tomatoes and hours without writing anything.",
	Long: `Aggregate the project notes like report does, but only print the result.

Examples:
  # Preview today's hours
  tomato today

  # As JSON for scripts
  tomato today --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		start := time.Now()
		summary, err := core.ExecuteSummary(rootCtx, cfg, docStore)
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteSummary(summary, cfg, time.Since(start))
	},
}

// cleanupCmd resets the daily counters.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup [vault-path]",
	Short: "Reset the daily tomato counters of every project note.",
	Long: `Set doneToday, or every <name>_sub_done_today counter, back to 0 in all
project notes. The rest of each note is left untouched.

Run this after report, usually at the end of the day.

Examples:
  # See what would change
  tomato cleanup --dry-run

  # Reset the counters, skipping notes with broken front matter
  tomato cleanup --on-error skip`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		start := time.Now()
		result, err := core.ExecuteCleanup(rootCtx, cfg, docStore, console)
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteCleanup(result, cfg, time.Since(start))
	},
}

// showCmd prints the latest rows of the CSV time report.
var showCmd = &cobra.Command{
	Use:   "show [vault-path]",
	Short: "Show the latest rows of the CSV time report.",
	Long: `Read the time report and print its most recent rows.

Examples:
  # Last 7 days
  tomato show --limit 7

  # Copy the report elsewhere as JSON
  tomato show --output json --output-file report.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		table, err := core.LoadReportTable(rootCtx, cfg, docStore)
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteTable(table, cfg)
	},
}
