package core

import (
	"context"
	"errors"
	"time"

	"github.com/solartools/epdload/internal/cdf"
	"github.com/solartools/epdload/internal/contract"
	"github.com/solartools/epdload/internal/manifest"
	"github.com/solartools/epdload/internal/outwriter"
	"github.com/solartools/epdload/internal/parquet"
	"github.com/solartools/epdload/internal/soar"
	"github.com/solartools/epdload/schema"
)

// soarClient builds the default archive client.
func soarClient() contract.ArchiveClient {
	return soar.NewClient()
}

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// ExecuteLoad runs the full load pipeline and prints the per-species tables.
// It serves as the main entry point for the 'load' command.
func ExecuteLoad(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	store := openManifest(cfg)
	defer closeManifest(store)

	loader := NewLoader(NewSynchronizer(soarClient(), store), cdf.NewDecoder())
	req := cfg.BuildRequest()
	result, err := loader.Load(ctx, &req)
	if err != nil {
		return err
	}
	return outwriter.WriteLoadResult(result, cfg, time.Since(start))
}

// ExecuteFetch synchronizes the local tree with the archive for the requested
// range, without decoding, and prints the per-day outcome.
func ExecuteFetch(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	store := openManifest(cfg)
	defer closeManifest(store)

	req := cfg.BuildRequest()
	req.AutoFetch = true
	if err := req.Validate(); err != nil {
		return err
	}
	sync := NewSynchronizer(soarClient(), store)
	outcomes := sync.SyncRange(ctx, &req)
	return outwriter.WriteFetchReport(outcomes, cfg, time.Since(start))
}

// ExecuteFiles lists the resolved daily files of the range from the local
// tree only. No archive interaction takes place.
func ExecuteFiles(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()

	req := cfg.BuildRequest()
	req.AutoFetch = false
	if err := req.Validate(); err != nil {
		return err
	}

	sync := NewSynchronizer(soarClient(), nil)
	var files []schema.FileDescriptor
	for _, day := range req.Days() {
		desc, err := sync.ResolveDay(ctx, &req, day)
		if err != nil {
			if schema.IsDayFailure(err) {
				continue
			}
			return err
		}
		files = append(files, desc)
	}
	return outwriter.WriteFilesReport(files, cfg, time.Since(start))
}

// ExecuteManifestStatus prints the state of the fetch manifest store.
func ExecuteManifestStatus(_ context.Context, cfg *contract.Config) error {
	store, err := manifest.OpenStore(cfg.ManifestBackend, cfg.ManifestDBConnect)
	if err != nil {
		return err
	}
	defer closeManifest(store)

	status, err := store.GetStatus()
	if err != nil {
		return err
	}
	return outwriter.WriteManifestStatus(status, cfg)
}

// ExecuteManifestClear removes all records from the fetch manifest.
func ExecuteManifestClear(_ context.Context, cfg *contract.Config) error {
	store, err := manifest.OpenStore(cfg.ManifestBackend, cfg.ManifestDBConnect)
	if err != nil {
		return err
	}
	defer closeManifest(store)
	return store.Clear()
}

// ExecuteManifestExport writes the fetch manifest to a Parquet file.
func ExecuteManifestExport(_ context.Context, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for manifest export")
	}
	store, err := manifest.OpenStore(cfg.ManifestBackend, cfg.ManifestDBConnect)
	if err != nil {
		return err
	}
	defer closeManifest(store)

	records, err := store.ListFetches(0)
	if err != nil {
		return err
	}
	return parquet.WriteManifestRecords(cfg.OutputFile, records)
}

// openManifest opens the configured manifest store. Failures downgrade to a
// warning since fetch bookkeeping is not worth failing a load over.
func openManifest(cfg *contract.Config) contract.ManifestStore {
	if cfg.ManifestBackend == schema.NoneBackend {
		return nil
	}
	store, err := manifest.OpenStore(cfg.ManifestBackend, cfg.ManifestDBConnect)
	if err != nil {
		contract.LogWarn("manifest store unavailable, downloads will not be recorded", err)
		return nil
	}
	return store
}

func closeManifest(store contract.ManifestStore) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		contract.LogWarn("manifest store close failed", err)
	}
}
