package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solartools/epdload/internal/contract"
	"github.com/solartools/epdload/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "epdload",
	Short:              "Load Solar Orbiter EPD science data into analysis-ready tables.",
	Long:               `epdload resolves, fetches and assembles daily EPD telemetry files from the SOAR archive into per-species time series.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".epdload") // Name of config file (without extension)
		viper.SetConfigType("yaml")     // We'll use YAML format
		viper.AddConfigPath(".")        // Look in the current directory
		viper.AddConfigPath("$HOME")    // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("EPDLOAD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("level", string(contract.DefaultLevel))
	viper.SetDefault("output", string(contract.DefaultOutput))
	viper.SetDefault("auto-fetch", "yes")
	viper.SetDefault("manifest-backend", string(contract.DefaultManifestBackend))
	viper.SetDefault("manifest-db-connect", "")
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	// This function populates the global 'cfg' from 'input'.
	return contract.ProcessAndValidate(cfg, input)
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".epdload")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// minimalSetup loads the configuration needed by commands that operate without
// a date range, such as the manifest commands and the MCP server.
func minimalSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	cfg.Level = contract.DefaultLevel
	if l := viper.GetString("level"); l != "" {
		cfg.Level = schema.Level(strings.ToLower(l))
	}
	cfg.DataPath = viper.GetString("data-path")
	if cfg.DataPath == "" {
		cfg.DataPath = contract.GetDefaultDataPath()
	}

	cfg.Output = contract.DefaultOutput
	if o := viper.GetString("output"); o != "" {
		cfg.Output = schema.OutputMode(strings.ToLower(o))
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return schema.NewConfigError("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Width = viper.GetInt("width")

	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return schema.NewConfigError("invalid --color value: %v", err)
	}
	cfg.UseColors = colors

	backend := contract.DefaultManifestBackend
	if b := viper.GetString("manifest-backend"); b != "" {
		backend = schema.DatabaseBackend(strings.ToLower(b))
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return schema.NewConfigError("invalid manifest backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	cfg.ManifestBackend = backend
	cfg.ManifestDBConnect = viper.GetString("manifest-db-connect")
	return contract.ValidateDatabaseConnectionString(cfg.ManifestBackend, cfg.ManifestDBConnect)
}

// minimalSetupWrapper wraps minimalSetup to provide PreRunE for commands that
// skip full shared setup.
func minimalSetupWrapper(_ *cobra.Command, _ []string) error {
	return minimalSetup()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
