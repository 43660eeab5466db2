// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/solartools/epdload/schema"
)

// ArchiveClient defines the necessary operations against the remote archive.
// This allows the resolution logic to be tested without network access.
type ArchiveClient interface {
	// ListCandidates queries the archive for all public files whose name
	// starts with the given stem for the given day, newest version included.
	ListCandidates(ctx context.Context, stem string, date time.Time) ([]schema.FileCandidate, error)

	// Download retrieves the named file into destPath and returns the number
	// of bytes written. destPath never holds a partial file afterwards.
	Download(ctx context.Context, name string, destPath string) (int64, error)
}

// Decoder defines the reading of one daily file into named variable arrays.
// This allows the assembler to be tested with synthetic day files.
type Decoder interface {
	// Decode reads the file at path. Corrupt or unsupported files surface
	// as a schema.DecodeError.
	Decode(path string) (*schema.DayFile, error)
}

// ManifestStore defines the interface for tracking downloaded files.
// This allows mocking the store for testing.
type ManifestStore interface {
	// RecordFetch stores one completed download.
	RecordFetch(rec schema.ManifestRecord) error

	// ListFetches returns the most recent downloads, newest first.
	ListFetches(limit int) ([]schema.ManifestRecord, error)

	// GetStatus returns status information about the manifest store.
	GetStatus() (schema.ManifestStatus, error)

	// Clear removes all manifest records.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}
