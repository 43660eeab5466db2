package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/solartools/epdload/internal/contract"
	"github.com/solartools/epdload/schema"
)

// Synchronizer resolves the daily file for each requested day, downloading
// the newest archived version whenever auto-fetch is on.
type Synchronizer struct {
	Archive  contract.ArchiveClient
	Manifest contract.ManifestStore
}

// NewSynchronizer builds a synchronizer. The manifest store may be nil when
// fetch bookkeeping is disabled.
func NewSynchronizer(archive contract.ArchiveClient, manifest contract.ManifestStore) *Synchronizer {
	return &Synchronizer{Archive: archive, Manifest: manifest}
}

// ResolveDay finds the best usable file for one day. With AutoFetch set the
// newest remote version is always downloaded, even when the local tree holds
// the same version; the local copy only serves the day when the archive lists
// nothing. Without AutoFetch only the local tree is considered. Listing and
// download failures surface as NetworkError so callers can treat the day as a
// gap; a stale local copy never masks them.
func (s *Synchronizer) ResolveDay(ctx context.Context, req *schema.Request, date time.Time) (schema.FileDescriptor, error) {
	dir := DayDirectory(req.BasePath, req.Level, req.Sensor)
	stem := FilenameStem(req.Sensor, req.Viewing, req.Level, date)

	localCandidates, err := ListLocalCandidates(dir, stem)
	if err != nil {
		return schema.FileDescriptor{}, err
	}
	localBest, hasLocal := SelectHighestVersion(localCandidates)

	if !req.AutoFetch {
		if !hasLocal {
			return schema.FileDescriptor{}, s.missing(req, date)
		}
		return s.describe(req, date, localBest, dir, false), nil
	}

	remoteCandidates, err := s.Archive.ListCandidates(ctx, stem, date)
	if err != nil {
		return schema.FileDescriptor{}, err
	}
	remoteBest, hasRemote := SelectHighestVersion(remoteCandidates)

	if !hasRemote {
		if hasLocal {
			return s.describe(req, date, localBest, dir, false), nil
		}
		return schema.FileDescriptor{}, s.missing(req, date)
	}
	return s.fetch(ctx, req, date, remoteBest, dir)
}

// SyncRange resolves every day of the request and reports the per-day
// outcome. Failures never abort the range.
func (s *Synchronizer) SyncRange(ctx context.Context, req *schema.Request) []schema.FetchOutcome {
	var outcomes []schema.FetchOutcome
	for _, day := range req.Days() {
		desc, err := s.ResolveDay(ctx, req, day)
		outcome := schema.FetchOutcome{Date: day}
		switch {
		case err == nil:
			outcome.Version = desc.Version
			outcome.Name = desc.Name
			outcome.Path = desc.LocalPath
			if desc.Fetched {
				outcome.Status = schema.FetchedStatus
			} else {
				outcome.Status = schema.LocalStatus
			}
		case isMissing(err):
			outcome.Status = schema.MissingStatus
			outcome.Detail = err.Error()
		default:
			outcome.Status = schema.FailedStatus
			outcome.Detail = err.Error()
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// fetch downloads one remote candidate into the local tree and records it in
// the fetch manifest.
func (s *Synchronizer) fetch(ctx context.Context, req *schema.Request, date time.Time, candidate schema.FileCandidate, dir string) (schema.FileDescriptor, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return schema.FileDescriptor{}, err
	}
	destPath := filepath.Join(dir, candidate.Name)
	size, err := s.Archive.Download(ctx, candidate.Name, destPath)
	if err != nil {
		return schema.FileDescriptor{}, err
	}

	if s.Manifest != nil {
		rec := schema.ManifestRecord{
			Sensor:    req.Sensor,
			Viewing:   req.Viewing,
			Level:     req.Level,
			FileDate:  date,
			Version:   candidate.Version,
			FileName:  candidate.Name,
			LocalPath: destPath,
			SizeBytes: size,
			FetchedAt: time.Now().UTC(),
		}
		if err := s.Manifest.RecordFetch(rec); err != nil {
			contract.LogWarn("manifest record failed", err)
		}
	}
	return s.describe(req, date, candidate, dir, true), nil
}

func (s *Synchronizer) describe(req *schema.Request, date time.Time, candidate schema.FileCandidate, dir string, fetched bool) schema.FileDescriptor {
	return schema.FileDescriptor{
		Sensor:    req.Sensor,
		Viewing:   req.Viewing,
		Level:     req.Level,
		Date:      date,
		Version:   candidate.Version,
		Name:      candidate.Name,
		LocalPath: filepath.Join(dir, candidate.Name),
		Fetched:   fetched,
	}
}

func (s *Synchronizer) missing(req *schema.Request, date time.Time) error {
	return &schema.MissingFileError{Sensor: req.Sensor, Viewing: req.Viewing, Level: req.Level, Date: date}
}

func isMissing(err error) bool {
	var missing *schema.MissingFileError
	return errors.As(err, &missing)
}
