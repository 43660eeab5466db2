package outwriter

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solartools/epdload/internal/contract"
	"github.com/solartools/epdload/schema"
)

func plainConfig() *contract.Config {
	return &contract.Config{
		Output:    schema.TextOut,
		Width:     120,
		UseColors: false,
	}
}

func sampleLoadResult() *schema.LoadResult {
	start := time.Date(2020, 8, 20, 0, 0, 0, 0, time.UTC)
	return &schema.LoadResult{
		Tables: []*schema.SpeciesTable{{
			Name:        "het_ions",
			Epochs:      []time.Time{start, start.Add(time.Hour)},
			ColumnNames: []string{"H_Flux_0", "H_Flux_1"},
			Columns: map[string][]float64{
				"H_Flux_0": {1.5, 2.5},
				"H_Flux_1": {3.5, 4.5},
			},
		}},
		Channels: schema.ChannelTable{
			"H": {{Index: 0, Label: "7.0 - 7.3 MeV", LowerEdgeMeV: 7.0, WidthMeV: 0.3}},
		},
		Files: []schema.FileDescriptor{{
			Name:    "solo_L2_epd-het-sun-rates_20200820_V02.cdf",
			Version: 2,
			Fetched: true,
			Date:    start,
		}},
		MissingDays: []time.Time{start.AddDate(0, 0, 1)},
	}
}

func TestWriteLoadTables(t *testing.T) {
	var buf bytes.Buffer
	err := writeLoadTables(sampleLoadResult(), plainConfig(), time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Table het_ions: 2 rows x 2 columns")
	assert.Contains(t, out, "H_Flux_0")
	assert.Contains(t, out, "Energy channels for H:")
	assert.Contains(t, out, "7.0 - 7.3 MeV")
	assert.Contains(t, out, "solo_L2_epd-het-sun-rates_20200820_V02.cdf")
	assert.Contains(t, out, "(fetched)")
	assert.Contains(t, out, "Missing day: 20200821")
	assert.Contains(t, out, "Loaded in 1s")
}

func TestWriteLoadTablesHidesOverflowColumns(t *testing.T) {
	result := sampleLoadResult()
	cfg := plainConfig()
	cfg.Width = 45 // Room for a single data column

	var buf bytes.Buffer
	require.NoError(t, writeLoadTables(result, cfg, time.Second, &buf))
	assert.Contains(t, buf.String(), "(1 more columns not shown)")
}

func TestWriteFetchTable(t *testing.T) {
	day := time.Date(2020, 8, 20, 0, 0, 0, 0, time.UTC)
	outcomes := []schema.FetchOutcome{
		{Date: day, Status: schema.FetchedStatus, Version: 2, Name: "a_V02.cdf"},
		{Date: day.AddDate(0, 0, 1), Status: schema.LocalStatus, Version: 1, Name: "b_V01.cdf"},
		{Date: day.AddDate(0, 0, 2), Status: schema.MissingStatus},
		{Date: day.AddDate(0, 0, 3), Status: schema.FailedStatus, Detail: "connection refused"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeFetchTable(outcomes, plainConfig(), 2*time.Second, &buf))

	out := buf.String()
	assert.Contains(t, out, "fetched")
	assert.Contains(t, out, "local")
	assert.Contains(t, out, "missing")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "1 fetched, 1 local, 1 missing, 1 failed in 2s")
}

func TestWriteFilesTable(t *testing.T) {
	files := []schema.FileDescriptor{{
		Date:      time.Date(2020, 8, 20, 0, 0, 0, 0, time.UTC),
		Version:   2,
		Name:      "solo_L2_epd-het-sun-rates_20200820_V02.cdf",
		LocalPath: "/data/l2/epd/het/solo_L2_epd-het-sun-rates_20200820_V02.cdf",
	}}

	var buf bytes.Buffer
	require.NoError(t, writeFilesTable(files, time.Second, &buf))

	out := buf.String()
	assert.Contains(t, out, "20200820")
	assert.Contains(t, out, "V02")
	assert.Contains(t, out, "1 files found in 1s")
}

func TestWriteManifestStatusText(t *testing.T) {
	status := schema.ManifestStatus{
		Backend:      "sqlite",
		Connected:    true,
		TotalFetches: 3,
		OldestFetch:  time.Date(2020, 8, 20, 10, 0, 0, 0, time.UTC),
		LastFetch:    time.Date(2020, 8, 22, 10, 0, 0, 0, time.UTC),
		TableSizes:   map[string]int64{"epd_fetch_manifest": 3},
	}

	var buf bytes.Buffer
	require.NoError(t, writeManifestStatusText(status, &buf))

	out := buf.String()
	assert.Contains(t, out, "Backend:       sqlite")
	assert.Contains(t, out, "Total fetches: 3")
	assert.Contains(t, out, "Oldest fetch:  2020-08-20T10:00:00Z")
	assert.Contains(t, out, "Last fetch:    2020-08-22T10:00:00Z")
	assert.Contains(t, out, "Table epd_fetch_manifest: 3 rows")
}

func TestWriteManifestStatusTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeManifestStatusText(schema.ManifestStatus{Backend: "none"}, &buf))
	assert.NotContains(t, buf.String(), "Oldest fetch")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	e := writeCSVWithHeader(&buf, []string{"a", "b"}, func(w *csv.Writer) error {
		return w.Write([]string{"1", "2"})
	})
	require.NoError(t, e)
	assert.Equal(t, "a,b\n1,2\n", buf.String())
}

func TestGetMaxPreviewColumns(t *testing.T) {
	tests := []struct {
		name  string
		width int
		want  int
	}{
		{name: "narrow", width: 40, want: 1},
		{name: "medium", width: 80, want: 3},
		{name: "wide", width: 300, want: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := plainConfig()
			cfg.Width = tt.width
			assert.Equal(t, tt.want, getMaxPreviewColumns(cfg))
		})
	}
}

func TestSortedSpecies(t *testing.T) {
	channels := schema.ChannelTable{"H": nil, "Alpha": nil, "Electron": nil}
	assert.Equal(t, []string{"Alpha", "Electron", "H"}, sortedSpecies(channels))
}

func TestStatusLabel(t *testing.T) {
	cfg := plainConfig()
	assert.Equal(t, "fetched", statusLabel(cfg, schema.FetchedStatus))

	cfg.UseColors = true
	assert.Contains(t, statusLabel(cfg, schema.FetchedStatus), "fetched")
}
