package cmd

import (
	"github.com/spf13/cobra"

	"github.com/solartools/epdload/core"
	"github.com/solartools/epdload/internal/contract"
)

// fetchCmd synchronizes the local tree with the archive.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Synchronize local files with the SOAR archive.",
	Long: `Download the newest file version of every day in the range without
decoding anything, and report the per-day outcome.

Days whose local file already carries the newest version are reported as
local. Days absent from both the local tree and the archive are reported as
missing.

Examples:
  # Mirror a month of HET data
  epdload fetch --sensor het --viewing sun --start 20200801 --end 20200831

  # Check what a fetch would find, as JSON
  epdload fetch --sensor step --start 20200820 --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFetch(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot fetch data", err)
		}
	},
}
