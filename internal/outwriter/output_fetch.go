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

// WriteFetchReport outputs the per-day results of a synchronization pass,
// dispatching based on the output format configured.
func WriteFetchReport(outcomes []schema.FetchOutcome, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeFetchJSON(outcomes, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeFetchCSV(outcomes, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFetchTable(outcomes, cfg, duration, w)
		}, "fetch report")
	}
	return nil
}

// writeFetchTable prints the per-day outcomes in the human-readable format.
func writeFetchTable(outcomes []schema.FetchOutcome, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Date", "Status", "Version", "File", "Detail"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	counts := make(map[schema.FetchStatus]int)
	var data [][]string
	for _, o := range outcomes {
		counts[o.Status]++
		version := ""
		if o.Version > 0 {
			version = fmt.Sprintf("V%02d", o.Version)
		}
		data = append(data, []string{
			o.Date.Format(schema.DateFormat),
			statusLabel(cfg, o.Status),
			version,
			o.Name,
			o.Detail,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "%d fetched, %d local, %d missing, %d failed in %v\n",
		counts[schema.FetchedStatus], counts[schema.LocalStatus],
		counts[schema.MissingStatus], counts[schema.FailedStatus], duration)
	return err
}

// writeFetchCSV writes outcomes as CSV, one row per day.
func writeFetchCSV(outcomes []schema.FetchOutcome, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"date", "status", "version", "file", "path", "detail"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, o := range outcomes {
				rec := []string{
					o.Date.Format(schema.DateFormat),
					string(o.Status),
					strconv.Itoa(o.Version),
					o.Name,
					o.Path,
					o.Detail,
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "CSV")
}

// JSONOutcome is the JSON view of one per-day synchronization outcome.
type JSONOutcome struct {
	Date    string `json:"date"`
	Status  string `json:"status"`
	Version int    `json:"version"`
	Name    string `json:"name,omitempty"`
	Path    string `json:"path,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// BuildFetchJSON converts per-day outcomes into their JSON view. Shared
// between the JSON output mode and the MCP tools.
func BuildFetchJSON(outcomes []schema.FetchOutcome) []JSONOutcome {
	output := make([]JSONOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		output = append(output, JSONOutcome{
			Date:    o.Date.Format(schema.DateFormat),
			Status:  string(o.Status),
			Version: o.Version,
			Name:    o.Name,
			Path:    o.Path,
			Detail:  o.Detail,
		})
	}
	return output
}

// writeFetchJSON writes outcomes as one JSON document.
func writeFetchJSON(outcomes []schema.FetchOutcome, cfg *contract.Config) error {
	output := BuildFetchJSON(outcomes)
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, output)
	}, "JSON")
}
