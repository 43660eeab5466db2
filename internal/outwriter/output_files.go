package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/solartools/epdload/internal/contract"
	"github.com/solartools/epdload/schema"
)

// WriteFilesReport outputs the locally resolved daily files, dispatching based
// on the output format configured.
func WriteFilesReport(files []schema.FileDescriptor, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeFilesJSON(files, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeFilesCSV(files, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFilesTable(files, duration, w)
		}, "file listing")
	}
	return nil
}

// writeFilesTable prints resolved files in the human-readable format.
func writeFilesTable(files []schema.FileDescriptor, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Date", "Version", "Name", "Path"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, f := range files {
		data = append(data, []string{
			f.Date.Format(schema.DateFormat),
			fmt.Sprintf("V%02d", f.Version),
			f.Name,
			f.LocalPath,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "%d files found in %v\n", len(files), duration)
	return err
}

// writeFilesCSV writes the file listing as CSV.
func writeFilesCSV(files []schema.FileDescriptor, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"date", "version", "name", "path"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, f := range files {
				rec := []string{
					f.Date.Format(schema.DateFormat),
					strconv.Itoa(f.Version),
					f.Name,
					f.LocalPath,
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "CSV")
}

// writeFilesJSON writes the file listing as one JSON document.
func writeFilesJSON(files []schema.FileDescriptor, cfg *contract.Config) error {
	type JSONFile struct {
		Date    string `json:"date"`
		Version int    `json:"version"`
		Name    string `json:"name"`
		Path    string `json:"path"`
	}

	output := make([]JSONFile, 0, len(files))
	for _, f := range files {
		output = append(output, JSONFile{
			Date:    f.Date.Format(schema.DateFormat),
			Version: f.Version,
			Name:    f.Name,
			Path:    f.LocalPath,
		})
	}

	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, output)
	}, "JSON")
}
