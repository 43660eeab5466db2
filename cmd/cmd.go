// Package cmd defines the command-line interface for epdload.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solartools/epdload/internal/contract"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the manifest subcommands to the parent manifest command
	manifestCmd.AddCommand(manifestStatusCmd)
	manifestCmd.AddCommand(manifestClearCmd)
	manifestCmd.AddCommand(manifestExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("sensor", "s", "", "Instrument sensor: ept, het or step")
	rootCmd.PersistentFlags().StringP("viewing", "v", "", "Viewing direction: sun, asun, north or south (not used for step)")
	rootCmd.PersistentFlags().String("level", string(contract.DefaultLevel), "Data level: ll or l2")
	rootCmd.PersistentFlags().String("start", "", "First day of the range (YYYYMMDD or YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("end", "", "Last day of the range, inclusive (defaults to start)")
	rootCmd.PersistentFlags().String("data-path", "", "Root of the local data tree (defaults to ~/soar_data)")
	rootCmd.PersistentFlags().String("auto-fetch", "yes", "Download missing or newer files from the archive (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("output", string(contract.DefaultOutput), "Output format: text, csv, json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("manifest-backend", string(contract.DefaultManifestBackend), "Fetch manifest backend: sqlite, mysql, postgresql or none")
	rootCmd.PersistentFlags().String("manifest-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}
}
