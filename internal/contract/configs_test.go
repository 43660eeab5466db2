package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solartools/epdload/schema"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Sensor:    "het",
		Viewing:   "sun",
		Level:     "l2",
		Start:     "20200820",
		End:       "20200821",
		AutoFetch: "yes",
		Color:     "no",
	}
}

func TestProcessAndValidate(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, schema.HET, cfg.Sensor)
	assert.Equal(t, schema.SunViewing, cfg.Viewing)
	assert.Equal(t, schema.Level2, cfg.Level)
	assert.Equal(t, time.Date(2020, 8, 20, 0, 0, 0, 0, time.UTC), cfg.StartDate)
	assert.Equal(t, time.Date(2020, 8, 21, 0, 0, 0, 0, time.UTC), cfg.EndDate)
	assert.True(t, cfg.AutoFetch)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.ManifestBackend)
	assert.NotEmpty(t, cfg.DataPath)
}

func TestProcessAndValidateDefaultsEndToStart(t *testing.T) {
	input := validInput()
	input.End = ""

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, cfg.StartDate, cfg.EndDate)
}

func TestProcessAndValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{"bad sensor", func(i *ConfigRawInput) { i.Sensor = "sis" }},
		{"step with viewing", func(i *ConfigRawInput) { i.Sensor = "step" }},
		{"ept without viewing", func(i *ConfigRawInput) { i.Sensor = "ept"; i.Viewing = "" }},
		{"bad level", func(i *ConfigRawInput) { i.Level = "l3" }},
		{"missing start", func(i *ConfigRawInput) { i.Start = "" }},
		{"bad start format", func(i *ConfigRawInput) { i.Start = "08/20/2020" }},
		{"reversed range", func(i *ConfigRawInput) { i.Start = "20200822"; i.End = "20200821" }},
		{"bad output", func(i *ConfigRawInput) { i.Output = "xml" }},
		{"bad backend", func(i *ConfigRawInput) { i.ManifestBackend = "oracle" }},
		{"mysql without connect", func(i *ConfigRawInput) { i.ManifestBackend = "mysql" }},
		{"bad auto-fetch", func(i *ConfigRawInput) { i.AutoFetch = "maybe" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)

			err := ProcessAndValidate(&Config{}, input)
			require.Error(t, err)
			var cfgErr *schema.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestParseDateString(t *testing.T) {
	want := time.Date(2021, 4, 15, 0, 0, 0, 0, time.UTC)

	got, err := ParseDateString("20210415")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = ParseDateString("2021-04-15")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ParseDateString("April 15")
	assert.Error(t, err)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/manifest"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "localhost:3306"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=manifest"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost"))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		got, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, got)
	}
	for _, s := range []string{"no", "False", "0"} {
		got, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, got)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestBuildRequest(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	req := cfg.BuildRequest()
	assert.Equal(t, cfg.Sensor, req.Sensor)
	assert.Equal(t, cfg.Viewing, req.Viewing)
	assert.Equal(t, cfg.Level, req.Level)
	assert.Equal(t, cfg.DataPath, req.BasePath)
	assert.True(t, req.AutoFetch)
	assert.NoError(t, req.Validate())
}
