package core

import (
	"context"

	"github.com/solartools/epdload/internal/contract"
	"github.com/solartools/epdload/schema"
)

// Loader is the top-level pipeline: resolve each day, decode, assemble and
// reshape into the caller-facing result.
type Loader struct {
	Sync    *Synchronizer
	Decoder contract.Decoder
}

// NewLoader builds a loader over a synchronizer and a file decoder.
func NewLoader(sync *Synchronizer, decoder contract.Decoder) *Loader {
	return &Loader{Sync: sync, Decoder: decoder}
}

// Load runs the full pipeline for one request. Per-day failures degrade to
// gaps; only a range where no day produced data returns schema.ErrNoData.
func (l *Loader) Load(ctx context.Context, req *schema.Request) (*schema.LoadResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	assembler := NewAssembler(l.Sync, l.Decoder)
	series, err := assembler.Assemble(ctx, req)
	if err != nil {
		return nil, err
	}
	if series.Empty() {
		return nil, schema.ErrNoData
	}

	tables, channels, err := Reshape(series, req)
	if err != nil {
		return nil, err
	}
	return &schema.LoadResult{
		Tables:      tables,
		Channels:    channels,
		Files:       series.Files,
		MissingDays: series.MissingDays,
	}, nil
}
