package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solartools/epdload/schema"
)

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
	}
}

func TestFluxRecordStructTags(t *testing.T) {
	fileSchema := parquet.SchemaOf(new(FluxRecord))
	require.NotNil(t, fileSchema)

	for _, colName := range []string{"table", "time", "column", "value"} {
		_, ok := fileSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestManifestFetchStructTags(t *testing.T) {
	fileSchema := parquet.SchemaOf(new(ManifestFetch))
	require.NotNil(t, fileSchema)

	expectedColumns := []string{
		"fetch_id",
		"sensor",
		"viewing",
		"level",
		"file_date",
		"version",
		"file_name",
		"local_path",
		"size_bytes",
		"fetched_at",
	}
	for _, colName := range expectedColumns {
		_, ok := fileSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestConvertLoadResult(t *testing.T) {
	records := ConvertLoadResult(sampleLoadResult())
	require.Len(t, records, 4)

	// Rows come out in time-major order: both columns of a sample first.
	assert.Equal(t, "het_ions", records[0].Table)
	assert.Equal(t, "H_Flux_0", records[0].Column)
	assert.Equal(t, 1.5, records[0].Value)
	assert.Equal(t, "H_Flux_1", records[1].Column)
	assert.Equal(t, 3.5, records[1].Value)
	assert.Equal(t, "H_Flux_0", records[2].Column)
	assert.Equal(t, 2.5, records[2].Value)
}

func TestWriteLoadResultRoundTrip(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "series.parquet")
	result := sampleLoadResult()

	require.NoError(t, WriteLoadResult(outputPath, result))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[FluxRecord](file)
	defer func() { _ = reader.Close() }()

	readData := make([]FluxRecord, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 4, n)

	assert.Equal(t, "het_ions", readData[0].Table)
	assert.Equal(t, "H_Flux_0", readData[0].Column)
	assert.Equal(t, 1.5, readData[0].Value)
	assert.WithinDuration(t, result.Tables[0].Epochs[0], readData[0].Time, time.Nanosecond)
}

func TestWriteChannels(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "channels.parquet")
	require.NoError(t, WriteChannels(outputPath, sampleLoadResult().Channels))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[ChannelRecord](file)
	defer func() { _ = reader.Close() }()

	readData := make([]ChannelRecord, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 1, n)
	assert.Equal(t, "H", readData[0].Species)
	assert.Equal(t, "7.0 - 7.3 MeV", readData[0].Label)
	assert.InDelta(t, 7.0, readData[0].LowerEdgeMeV, 1e-9)
}

func TestWriteManifestRecordsRoundTrip(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "manifest.parquet")
	fetchedAt := time.Date(2020, 8, 22, 10, 30, 0, 0, time.UTC)
	records := []schema.ManifestRecord{{
		ID:        7,
		Sensor:    schema.HET,
		Viewing:   schema.SunViewing,
		Level:     schema.Level2,
		FileDate:  time.Date(2020, 8, 20, 0, 0, 0, 0, time.UTC),
		Version:   2,
		FileName:  "solo_L2_epd-het-sun-rates_20200820_V02.cdf",
		LocalPath: "/data/l2/epd/het/solo_L2_epd-het-sun-rates_20200820_V02.cdf",
		SizeBytes: 123456,
		FetchedAt: fetchedAt,
	}}

	require.NoError(t, WriteManifestRecords(outputPath, records))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[ManifestFetch](file)
	defer func() { _ = reader.Close() }()

	readData := make([]ManifestFetch, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 1, n)

	assert.Equal(t, int64(7), readData[0].FetchID)
	assert.Equal(t, "het", readData[0].Sensor)
	assert.Equal(t, "sun", readData[0].Viewing)
	assert.Equal(t, "l2", readData[0].Level)
	assert.Equal(t, "20200820", readData[0].FileDate)
	assert.Equal(t, int32(2), readData[0].Version)
	assert.Equal(t, int64(123456), readData[0].SizeBytes)
	assert.WithinDuration(t, fetchedAt, readData[0].FetchedAt, time.Nanosecond)
}

func TestWriteLoadResultEmpty(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteLoadResult(outputPath, &schema.LoadResult{}))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteManifestRecordsInvalidPath(t *testing.T) {
	err := WriteManifestRecords("/nonexistent/directory/manifest.parquet", nil)
	require.Error(t, err)
}
