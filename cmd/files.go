package cmd

import (
	"github.com/spf13/cobra"

	"github.com/solartools/epdload/core"
	"github.com/solartools/epdload/internal/contract"
)

// filesCmd lists locally resolved daily files.
var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the locally available daily files for a range.",
	Long: `Resolve the highest-version local file of every day in the range and list
them. No archive interaction takes place; days without a local file are
silently skipped.

Examples:
  # See which HET days are already on disk
  epdload files --sensor het --viewing sun --start 20200801 --end 20200831

  # Machine-readable listing
  epdload files --sensor ept --viewing north --start 20200820 --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFiles(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list files", err)
		}
	},
}
