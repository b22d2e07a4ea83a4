package cmd

import (
	"errors"
	"fmt"

	"github.com/huangsam/tomato/core"
	"github.com/huangsam/tomato/internal/parquet"
	"github.com/spf13/cobra"
)

// exportCmd writes the CSV report as a long-form Parquet file.
var exportCmd = &cobra.Command{
	Use:   "export [vault-path]",
	Short: "Export the CSV time report to Parquet",
	Long: `Write every cell of the time report as one (date, report_key, hours) row
of a Parquet file. The CSV report stays the source of truth.

Requires: --output-file parameter

Examples:
  tomato export --output-file hours.parquet
  duckdb -c "SELECT report_key, sum(hours) FROM read_parquet('hours.parquet') GROUP BY 1"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.OutputFile == "" {
			return errors.New("--output-file is required for export command")
		}
		table, err := core.LoadReportTable(rootCtx, cfg, docStore)
		if err != nil {
			return err
		}

		cells := parquet.ConvertReportTable(table)
		if err := parquet.WriteReportCellsParquet(cells, cfg.OutputFile); err != nil {
			return fmt.Errorf("failed to export report: %w", err)
		}
		cmd.Printf("Exported %d report cells to: %s\n", len(cells), cfg.OutputFile)
		return nil
	},
}
