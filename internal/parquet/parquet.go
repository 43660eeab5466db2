// Package parquet exports assembled series and fetch manifest data to Parquet
// files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/solartools/epdload/schema"
)

// FluxRecord is one sample value of an assembled series in long format. Each
// row names the table, the sample time, the column and the value, so the file
// can be filtered or pivoted downstream without knowing the column set up
// front.
type FluxRecord struct {
	// Table is the per-species table the value belongs to, e.g. "het_ions"
	Table string `parquet:"table,snappy,dict"`

	// Time is the sample timestamp (stored as TIMESTAMP with nanosecond precision)
	Time time.Time `parquet:"time,snappy"`

	// Column is the flattened column name, e.g. "H_Flux_0"
	Column string `parquet:"column,snappy,dict"`

	// Value is the sample value. Invalid samples carry NaN.
	Value float64 `parquet:"value,snappy"`
}

// ChannelRecord is one energy channel of the channel metadata table.
type ChannelRecord struct {
	// Species is the particle species the channel belongs to, e.g. "H"
	Species string `parquet:"species,snappy,dict"`

	// Index is the zero-based channel number
	Index int32 `parquet:"index,snappy"`

	// Label is the human-readable energy range, e.g. "7.0 - 7.3 MeV"
	Label string `parquet:"label,snappy"`

	// LowerEdgeMeV is the lower edge of the energy bin in MeV
	LowerEdgeMeV float64 `parquet:"lower_edge_mev,snappy"`

	// WidthMeV is the width of the energy bin in MeV
	WidthMeV float64 `parquet:"width_mev,snappy"`
}

// ManifestFetch is one exported row of the fetch manifest.
type ManifestFetch struct {
	// FetchID is the unique identifier of the fetch
	FetchID int64 `parquet:"fetch_id,snappy"`

	// Sensor is the instrument sensor, e.g. "het"
	Sensor string `parquet:"sensor,snappy,dict"`

	// Viewing is the viewing direction, empty for step
	Viewing string `parquet:"viewing,snappy,dict"`

	// Level is the data level, "ll" or "l2"
	Level string `parquet:"level,snappy,dict"`

	// FileDate is the calendar day the file covers, formatted YYYYMMDD
	FileDate string `parquet:"file_date,snappy"`

	// Version is the file version number
	Version int32 `parquet:"version,snappy"`

	// FileName is the archive filename
	FileName string `parquet:"file_name,snappy"`

	// LocalPath is where the file was stored locally
	LocalPath string `parquet:"local_path,snappy"`

	// SizeBytes is the downloaded file size
	SizeBytes int64 `parquet:"size_bytes,snappy"`

	// FetchedAt is when the download completed (stored as TIMESTAMP with nanosecond precision)
	FetchedAt time.Time `parquet:"fetched_at,snappy"`
}

// WriteLoadResult writes an assembled series to a Parquet file in long format.
func WriteLoadResult(outputPath string, result *schema.LoadResult) error {
	data := ConvertLoadResult(result)

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the FluxRecord struct tags
	writer := parquet.NewGenericWriter[FluxRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteChannels writes the energy channel metadata to a Parquet file.
func WriteChannels(outputPath string, channels schema.ChannelTable) error {
	data := ConvertChannels(channels)

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[ChannelRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteManifestRecords writes fetch manifest rows to a Parquet file.
func WriteManifestRecords(outputPath string, records []schema.ManifestRecord) error {
	data := ConvertManifestRecords(records)

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[ManifestFetch](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// ConvertLoadResult flattens per-species tables into long-format flux records.
func ConvertLoadResult(result *schema.LoadResult) []FluxRecord {
	var records []FluxRecord
	for _, table := range result.Tables {
		for r := range table.Rows() {
			for _, name := range table.ColumnNames {
				records = append(records, FluxRecord{
					Table:  table.Name,
					Time:   table.Epochs[r],
					Column: name,
					Value:  table.Columns[name][r],
				})
			}
		}
	}
	return records
}

// ConvertChannels flattens a channel table into channel records.
func ConvertChannels(channels schema.ChannelTable) []ChannelRecord {
	var records []ChannelRecord
	for species, list := range channels {
		for _, ch := range list {
			records = append(records, ChannelRecord{
				Species:      species,
				Index:        int32(ch.Index),
				Label:        ch.Label,
				LowerEdgeMeV: ch.LowerEdgeMeV,
				WidthMeV:     ch.WidthMeV,
			})
		}
	}
	return records
}

// ConvertManifestRecords converts schema.ManifestRecord rows for Parquet export.
func ConvertManifestRecords(records []schema.ManifestRecord) []ManifestFetch {
	result := make([]ManifestFetch, len(records))
	for i, rec := range records {
		result[i] = ManifestFetch{
			FetchID:   rec.ID,
			Sensor:    string(rec.Sensor),
			Viewing:   string(rec.Viewing),
			Level:     string(rec.Level),
			FileDate:  rec.FileDate.Format(schema.DateFormat),
			Version:   int32(rec.Version),
			FileName:  rec.FileName,
			LocalPath: rec.LocalPath,
			SizeBytes: rec.SizeBytes,
			FetchedAt: rec.FetchedAt,
		}
	}
	return result
}
