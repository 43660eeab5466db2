package cmd

import (
	"github.com/spf13/cobra"

	"github.com/solartools/epdload/core"
	"github.com/solartools/epdload/internal/contract"
)

// loadCmd runs the full load pipeline.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load EPD science data into per-species tables.",
	Long: `Resolve, fetch and decode the daily files of a date range, then assemble
them into per-species time-indexed tables with energy channel metadata.

Missing or corrupt days degrade to gaps in the assembled series. When
auto-fetch is enabled, the archive is consulted for newer file versions even
when a local file exists.

Examples:
  # Load one day of HET sunward level 2 data
  epdload load --sensor het --viewing sun --start 20200820

  # Load a week of EPT low latency data without touching the archive
  epdload load --sensor ept --viewing asun --level ll --start 20200820 --end 20200826 --auto-fetch no

  # Export a range as Parquet
  epdload load --sensor step --start 20200820 --end 20200831 --output parquet --output-file step.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLoad(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot load data", err)
		}
	},
}
