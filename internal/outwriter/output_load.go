package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/solartools/epdload/internal/contract"
	"github.com/solartools/epdload/internal/parquet"
	"github.com/solartools/epdload/schema"
)

// WriteLoadResult outputs an assembled load, dispatching based on the output
// format configured.
func WriteLoadResult(result *schema.LoadResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeLoadJSON(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeLoadCSV(result, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("--output-file is required for parquet output")
		}
		return parquet.WriteLoadResult(cfg.OutputFile, result)
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLoadTables(result, cfg, duration, w)
		}, "tables")
	}
	return nil
}

// writeLoadTables generates and writes the human-readable preview tables.
func writeLoadTables(result *schema.LoadResult, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	maxCols := getMaxPreviewColumns(cfg)

	for _, st := range result.Tables {
		span := ""
		if st.Rows() > 0 {
			span = fmt.Sprintf(" (%s .. %s)",
				st.Epochs[0].Format(time.RFC3339),
				st.Epochs[st.Rows()-1].Format(time.RFC3339))
		}
		if _, err := fmt.Fprintf(writer, "Table %s: %d rows x %d columns%s\n",
			st.Name, st.Rows(), len(st.ColumnNames), span); err != nil {
			return err
		}

		shown := st.ColumnNames
		if len(shown) > maxCols {
			shown = shown[:maxCols]
		}

		table := tablewriter.NewWriter(writer)
		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Header.Formatting.AutoFormat = tw.Off
			tcfg.Row.Alignment.Global = tw.AlignRight
		})
		table.Header(append([]string{"Time"}, shown...))

		var data [][]string
		for r := 0; r < st.Rows() && r < previewRows; r++ {
			row := []string{st.Epochs[r].Format(time.RFC3339)}
			for _, name := range shown {
				row = append(row, strconv.FormatFloat(st.Columns[name][r], 'g', 5, 64))
			}
			data = append(data, row)
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		if hidden := len(st.ColumnNames) - len(shown); hidden > 0 {
			if _, err := fmt.Fprintf(writer, "(%d more columns not shown)\n", hidden); err != nil {
				return err
			}
		}
	}

	if err := writeChannelTables(result.Channels, writer); err != nil {
		return err
	}

	for _, f := range result.Files {
		origin := "local"
		if f.Fetched {
			origin = "fetched"
		}
		if _, err := fmt.Fprintf(writer, "File %s V%02d (%s)\n", f.Name, f.Version, origin); err != nil {
			return err
		}
	}
	for _, day := range result.MissingDays {
		if _, err := fmt.Fprintf(writer, "Missing day: %s\n", day.Format(schema.DateFormat)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(writer, "Loaded in %v\n", duration)
	return err
}

// writeChannelTables renders the per-species energy channels.
func writeChannelTables(channels schema.ChannelTable, writer io.Writer) error {
	for _, species := range sortedSpecies(channels) {
		if _, err := fmt.Fprintf(writer, "Energy channels for %s:\n", species); err != nil {
			return err
		}
		table := tablewriter.NewWriter(writer)
		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Header.Formatting.AutoFormat = tw.Off
			tcfg.Row.Alignment.Global = tw.AlignRight
		})
		table.Header([]string{"Channel", "Label", "Low [MeV]", "Width [MeV]"})

		var data [][]string
		for _, ch := range channels[species] {
			data = append(data, []string{
				strconv.Itoa(ch.Index),
				ch.Label,
				strconv.FormatFloat(ch.LowerEdgeMeV, 'g', 5, 64),
				strconv.FormatFloat(ch.WidthMeV, 'g', 5, 64),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}

// writeLoadCSV writes the assembled series in long format: one value per row.
func writeLoadCSV(result *schema.LoadResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"table", "time", "column", "value"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, st := range result.Tables {
				for r := range st.Rows() {
					ts := st.Epochs[r].Format(time.RFC3339Nano)
					for _, name := range st.ColumnNames {
						rec := []string{
							st.Name,
							ts,
							name,
							strconv.FormatFloat(st.Columns[name][r], 'g', -1, 64),
						}
						if err := csvWriter.Write(rec); err != nil {
							return err
						}
					}
				}
			}
			return nil
		})
	}, "CSV")
}

// JSONTable is the JSON view of one per-species table. Column values are
// pointers so invalid samples encode as null instead of NaN, which
// encoding/json rejects.
type JSONTable struct {
	Name    string                `json:"name"`
	Times   []string              `json:"times"`
	Columns map[string][]*float64 `json:"columns"`
}

// JSONFile is the JSON view of one resolved daily file.
type JSONFile struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
	Path    string `json:"path"`
	Fetched bool   `json:"fetched"`
}

// JSONLoadResult is the JSON view of a full load.
type JSONLoadResult struct {
	Tables      []JSONTable                 `json:"tables"`
	Channels    map[string][]schema.Channel `json:"channels"`
	Files       []JSONFile                  `json:"files"`
	MissingDays []string                    `json:"missing_days"`
}

// BuildLoadJSON converts a load result into its JSON view. Shared between the
// JSON output mode and the MCP tools.
func BuildLoadJSON(result *schema.LoadResult) JSONLoadResult {
	output := JSONLoadResult{
		Channels:    result.Channels,
		MissingDays: []string{},
	}
	for _, st := range result.Tables {
		jt := JSONTable{
			Name:    st.Name,
			Times:   make([]string, st.Rows()),
			Columns: make(map[string][]*float64, len(st.ColumnNames)),
		}
		for i, ts := range st.Epochs {
			jt.Times[i] = ts.Format(time.RFC3339Nano)
		}
		for _, name := range st.ColumnNames {
			values := make([]*float64, st.Rows())
			for i, v := range st.Columns[name] {
				if !math.IsNaN(v) {
					value := v
					values[i] = &value
				}
			}
			jt.Columns[name] = values
		}
		output.Tables = append(output.Tables, jt)
	}
	for _, f := range result.Files {
		output.Files = append(output.Files, JSONFile{
			Name: f.Name, Version: f.Version, Path: f.LocalPath, Fetched: f.Fetched,
		})
	}
	for _, day := range result.MissingDays {
		output.MissingDays = append(output.MissingDays, day.Format(schema.DateFormat))
	}
	return output
}

// writeLoadJSON writes the full result, channels included, as one document.
func writeLoadJSON(result *schema.LoadResult, cfg *contract.Config) error {
	output := BuildLoadJSON(result)
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, output)
	}, "JSON")
}
