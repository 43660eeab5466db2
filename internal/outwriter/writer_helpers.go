// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/term"

	"github.com/solartools/epdload/internal/contract"
	"github.com/solartools/epdload/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "Wrote %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// previewRows caps how many samples of each table the text output shows.
const previewRows = 8

// getMaxPreviewColumns calculates how many data columns fit next to the
// timestamp column, based on terminal width.
func getMaxPreviewColumns(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth == 0 {
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// The timestamp column plus borders take ~30 characters; each data
	// column takes ~14 with padding.
	available := (termWidth - 30) / 14
	if available < 1 {
		return 1
	}
	if available > 8 {
		return 8
	}
	return available
}

// sortedSpecies returns the channel table keys in stable order.
func sortedSpecies(channels schema.ChannelTable) []string {
	names := make([]string, 0, len(channels))
	for name := range channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// statusLabel picks the colored or plain fetch status label.
func statusLabel(cfg *contract.Config, status schema.FetchStatus) string {
	if cfg.UseColors {
		return contract.GetColorStatus(status)
	}
	return contract.GetPlainStatus(status)
}
