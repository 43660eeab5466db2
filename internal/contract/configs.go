package contract

import (
	"strings"
	"time"

	"github.com/solartools/epdload/schema"
)

// Default values for configuration.
const (
	DefaultLevel           = schema.Level2
	DefaultOutput          = schema.TextOut
	DefaultManifestBackend = schema.SQLiteBackend
)

// DateInputFormats lists the accepted date representations for the start and
// end flags, tried in order.
var DateInputFormats = []string{schema.DateFormat, "2006-01-02"}

// Config holds the runtime configuration for a load or fetch run.
// This struct remains the "final, validated" config.
type Config struct {
	Sensor    schema.Sensor
	Viewing   schema.Viewing
	Level     schema.Level
	StartDate time.Time
	EndDate   time.Time
	DataPath  string
	AutoFetch bool

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	ManifestBackend   schema.DatabaseBackend
	ManifestDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Sensor            string `mapstructure:"sensor"`
	Viewing           string `mapstructure:"viewing"`
	Level             string `mapstructure:"level"`
	Start             string `mapstructure:"start"`
	End               string `mapstructure:"end"`
	DataPath          string `mapstructure:"data-path"`
	AutoFetch         string `mapstructure:"auto-fetch"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Width             int    `mapstructure:"width"`
	ManifestBackend   string `mapstructure:"manifest-backend"`
	ManifestDBConnect string `mapstructure:"manifest-db-connect"`
	Color             string `mapstructure:"color"`
}

// Clone returns a copy of the config for per-request mutation.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// BuildRequest converts the validated config into the request handed to the
// loading pipeline.
func (c *Config) BuildRequest() schema.Request {
	return schema.Request{
		Sensor:    c.Sensor,
		Viewing:   c.Viewing,
		Level:     c.Level,
		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		BasePath:  c.DataPath,
		AutoFetch: c.AutoFetch,
	}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. All violations surface as
// schema.ConfigError so callers can tell bad input from runtime failure.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processSelection(cfg, input); err != nil {
		return err
	}
	if err := processDateRange(cfg, input); err != nil {
		return err
	}
	if err := processOutput(cfg, input); err != nil {
		return err
	}
	if err := processManifestBackend(cfg, input); err != nil {
		return err
	}
	return nil
}

// processSelection validates the sensor/viewing/level combination and the
// local data path.
func processSelection(cfg *Config, input *ConfigRawInput) error {
	cfg.Sensor = schema.Sensor(strings.ToLower(strings.TrimSpace(input.Sensor)))
	cfg.Viewing = schema.Viewing(strings.ToLower(strings.TrimSpace(input.Viewing)))

	cfg.Level = DefaultLevel
	if input.Level != "" {
		cfg.Level = schema.Level(strings.ToLower(input.Level))
	}

	cfg.DataPath = strings.TrimSpace(input.DataPath)
	if cfg.DataPath == "" {
		cfg.DataPath = GetDefaultDataPath()
	}

	autoFetch, err := ParseBoolString(input.AutoFetch)
	if err != nil {
		return schema.NewConfigError("invalid --auto-fetch value: %v", err)
	}
	cfg.AutoFetch = autoFetch

	// Sensor/viewing/level consistency is shared with the request type.
	probe := schema.Request{Sensor: cfg.Sensor, Viewing: cfg.Viewing, Level: cfg.Level}
	probe.StartDate = time.Unix(0, 0)
	probe.EndDate = time.Unix(0, 0)
	return probe.Validate()
}

// processDateRange parses the start and end dates. Both are required; the end
// date defaults to the start date so a single flag selects one day.
func processDateRange(cfg *Config, input *ConfigRawInput) error {
	if input.Start == "" {
		return schema.NewConfigError("--start is required (YYYYMMDD or YYYY-MM-DD)")
	}

	start, err := ParseDateString(input.Start)
	if err != nil {
		return schema.NewConfigError("invalid start date '%s'. expected YYYYMMDD or YYYY-MM-DD", input.Start)
	}
	cfg.StartDate = start

	cfg.EndDate = cfg.StartDate
	if input.End != "" {
		end, err := ParseDateString(input.End)
		if err != nil {
			return schema.NewConfigError("invalid end date '%s'. expected YYYYMMDD or YYYY-MM-DD", input.End)
		}
		cfg.EndDate = end
	}

	if cfg.StartDate.After(cfg.EndDate) {
		return schema.NewConfigError("start date (%s) cannot be after end date (%s)",
			cfg.StartDate.Format(schema.DateFormat), cfg.EndDate.Format(schema.DateFormat))
	}
	return nil
}

// processOutput validates the output mode and color flag.
func processOutput(cfg *Config, input *ConfigRawInput) error {
	cfg.Output = DefaultOutput
	if input.Output != "" {
		cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return schema.NewConfigError("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return schema.NewConfigError("invalid --color value: %v", err)
	}
	cfg.UseColors = colors
	return nil
}

// processManifestBackend validates the manifest backend selection and its
// connection string.
func processManifestBackend(cfg *Config, input *ConfigRawInput) error {
	cfg.ManifestBackend = DefaultManifestBackend
	if input.ManifestBackend != "" {
		cfg.ManifestBackend = schema.DatabaseBackend(strings.ToLower(input.ManifestBackend))
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.ManifestBackend]; !ok {
		return schema.NewConfigError("invalid manifest backend '%s'. must be sqlite, mysql, postgresql, none", input.ManifestBackend)
	}
	cfg.ManifestDBConnect = input.ManifestDBConnect
	return ValidateDatabaseConnectionString(cfg.ManifestBackend, cfg.ManifestDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return schema.NewConfigError("manifest-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return schema.NewConfigError("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return schema.NewConfigError("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return schema.NewConfigError("manifest-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return schema.NewConfigError("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return schema.NewConfigError("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseDateString parses a date flag value in any accepted format and returns
// UTC midnight of that day.
func ParseDateString(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range DateInputFormats {
		t, err := time.Parse(layout, strings.TrimSpace(s))
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
