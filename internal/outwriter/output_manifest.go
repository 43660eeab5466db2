package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/solartools/epdload/internal/contract"
	"github.com/solartools/epdload/schema"
)

// WriteManifestStatus outputs the state of the fetch manifest store.
func WriteManifestStatus(status schema.ManifestStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeManifestStatusJSON(status, cfg)
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeManifestStatusText(status, w)
	}, "manifest status")
}

// writeManifestStatusText prints the status as plain key-value lines.
func writeManifestStatusText(status schema.ManifestStatus, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Backend:       %s\n", status.Backend); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Connected:     %t\n", status.Connected); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Total fetches: %d\n", status.TotalFetches); err != nil {
		return err
	}
	if status.TotalFetches > 0 {
		if _, err := fmt.Fprintf(writer, "Oldest fetch:  %s\n", status.OldestFetch.Format(time.RFC3339)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(writer, "Last fetch:    %s\n", status.LastFetch.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	for table, size := range status.TableSizes {
		if _, err := fmt.Fprintf(writer, "Table %s: %d rows\n", table, size); err != nil {
			return err
		}
	}
	return nil
}

// writeManifestStatusJSON writes the status as one JSON document.
func writeManifestStatusJSON(status schema.ManifestStatus, cfg *contract.Config) error {
	type JSONStatus struct {
		Backend      string           `json:"backend"`
		Connected    bool             `json:"connected"`
		TotalFetches int64            `json:"total_fetches"`
		OldestFetch  string           `json:"oldest_fetch,omitempty"`
		LastFetch    string           `json:"last_fetch,omitempty"`
		TableSizes   map[string]int64 `json:"table_sizes"`
	}

	output := JSONStatus{
		Backend:      status.Backend,
		Connected:    status.Connected,
		TotalFetches: status.TotalFetches,
		TableSizes:   status.TableSizes,
	}
	if !status.OldestFetch.IsZero() {
		output.OldestFetch = status.OldestFetch.Format(time.RFC3339)
	}
	if !status.LastFetch.IsZero() {
		output.LastFetch = status.LastFetch.Format(time.RFC3339)
	}

	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, output)
	}, "JSON")
}
