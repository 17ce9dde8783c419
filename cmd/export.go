package cmd

import (
	"fmt"

	"github.com/huangsam/peloton/core"
	"github.com/huangsam/peloton/internal/contract"
	"github.com/spf13/cobra"
)

// exportCmd writes the portal's rankings to parquet files.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stage results and race classifications to Parquet",
	Long: `Export every concluded stage ranking and every race classification to Parquet files
for analytics tools.

Two files are written next to the prefix given by --output-file:
  <prefix>.stage_results.parquet
  <prefix>.race_classifications.parquet

Requires: --output-file parameter

Examples:
  peloton export --output-file out/tour
  duckdb -c "SELECT * FROM read_parquet('out/tour.stage_results.parquet') LIMIT 10"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		s, err := loadPortal()
		if err != nil {
			contract.LogFatal("Cannot export portal", err)
		}
		if err := core.ExecuteExport(rootCtx, s, cfg.OutputFile); err != nil {
			contract.LogFatal("Cannot export portal", err)
		}
		stages, races := core.ExportPaths(cfg.OutputFile)
		fmt.Printf("Exported %s and %s\n", stages, races)
	},
}
