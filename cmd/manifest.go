package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solartools/epdload/core"
	"github.com/solartools/epdload/internal/contract"
)

// manifestCmd focused on fetch manifest management.
//
// Note: Manifest subcommands use minimal initialization instead of the full
// sharedSetup used by loading commands. This avoids requiring a sensor and
// date range for simple bookkeeping operations.
var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Manage the fetch manifest (download bookkeeping)",
	Long: `Manage the manifest that records every file downloaded from the archive.

Each successful download is tracked with its sensor, viewing, level, date,
version, local path, size and timestamp, so a local data tree can be audited
and reproduced.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show manifest statistics and connection info
  clear  - Remove all manifest records
  export - Write the manifest to a Parquet file

Examples:
  # Check manifest status
  epdload manifest status

  # Export download history for analysis
  epdload manifest export --output-file fetches.parquet`,
}

// manifestStatusCmd shows manifest status.
var manifestStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display manifest statistics and connection details",
	Long: `Show detailed information about the fetch manifest.

Displays:
- Backend type and connection status
- Total number of recorded downloads
- Last and oldest download timestamps

Examples:
  # Check manifest status
  epdload manifest status

  # Check a PostgreSQL-backed manifest (set connection via env variable)
  EPDLOAD_MANIFEST_BACKEND=postgresql EPDLOAD_MANIFEST_DB_CONNECT="host=... dbname=..." epdload manifest status`,
	PreRunE: minimalSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteManifestStatus(rootCtx, cfg); err != nil {
			contract.LogFatal("Failed to get manifest status", err)
		}
	},
}

// manifestClearCmd clears the manifest.
var manifestClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded downloads from the manifest",
	Long: `Delete all download records from the configured backend.

Use this when:
- The local data tree was wiped or rebuilt
- The manifest may be stale or corrupted

Examples:
  # Clear the SQLite manifest (default)
  epdload manifest clear`,
	PreRunE: minimalSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteManifestClear(rootCtx, cfg); err != nil {
			contract.LogFatal("Failed to clear manifest", err)
		}
		fmt.Println("Manifest cleared successfully.")
	},
}

// manifestExportCmd exports the manifest to Parquet.
var manifestExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the fetch manifest to a Parquet file",
	Long: `Export every recorded download as one Parquet row.

Requires --output-file.

Examples:
  # Export download history
  epdload manifest export --output-file fetches.parquet`,
	PreRunE: minimalSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteManifestExport(rootCtx, cfg); err != nil {
			contract.LogFatal("Failed to export manifest", err)
		}
		fmt.Printf("Manifest exported to %s.\n", cfg.OutputFile)
	},
}
