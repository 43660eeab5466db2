package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/solartools/epdload/schema"
)

// mockArchive serves candidate listings and downloads from memory.
type mockArchive struct {
	candidates  map[string][]schema.FileCandidate // keyed by YYYYMMDD
	listErr     error
	downloadErr error
	downloads   []string
}

func (m *mockArchive) ListCandidates(_ context.Context, _ string, date time.Time) ([]schema.FileCandidate, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.candidates[date.Format(schema.DateFormat)], nil
}

func (m *mockArchive) Download(_ context.Context, name string, destPath string) (int64, error) {
	if m.downloadErr != nil {
		return 0, m.downloadErr
	}
	m.downloads = append(m.downloads, name)
	if err := os.WriteFile(destPath, []byte("cdf"), 0o644); err != nil {
		return 0, err
	}
	return 3, nil
}

// mockDecoder maps file base names to prepared day files.
type mockDecoder struct {
	files map[string]*schema.DayFile
	errs  map[string]error
}

func (m *mockDecoder) Decode(path string) (*schema.DayFile, error) {
	base := filepath.Base(path)
	if err, ok := m.errs[base]; ok {
		return nil, &schema.DecodeError{Path: path, Err: err}
	}
	df, ok := m.files[base]
	if !ok {
		return nil, &schema.DecodeError{Path: path, Err: errors.New("unexpected file")}
	}
	return df, nil
}

// mockManifest records fetches in memory.
type mockManifest struct {
	records []schema.ManifestRecord
}

func (m *mockManifest) RecordFetch(rec schema.ManifestRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *mockManifest) ListFetches(int) ([]schema.ManifestRecord, error) {
	return m.records, nil
}

func (m *mockManifest) GetStatus() (schema.ManifestStatus, error) {
	return schema.ManifestStatus{Backend: "mock", Connected: true, TotalFetches: int64(len(m.records))}, nil
}

func (m *mockManifest) Clear() error {
	m.records = nil
	return nil
}

func (m *mockManifest) Close() error { return nil }

// hetRequest builds a valid HET sun level-2 request rooted at base.
func hetRequest(base string, start, end time.Time, autoFetch bool) schema.Request {
	return schema.Request{
		Sensor:    schema.HET,
		Viewing:   schema.SunViewing,
		Level:     schema.Level2,
		StartDate: start,
		EndDate:   end,
		BasePath:  base,
		AutoFetch: autoFetch,
	}
}

// hetDayFile builds a synthetic HET level-2 day file with the given number of
// records per epoch axis and two energy channels per variable.
func hetDayFile(day time.Time, records int) *schema.DayFile {
	base := schema.TimeToEpoch(day)
	ionEpochs := make([]int64, records)
	eleEpochs := make([]int64, records)
	for i := range records {
		ionEpochs[i] = base + int64(i)*int64(time.Hour)
		eleEpochs[i] = base + int64(i)*int64(time.Hour) + int64(time.Minute)
	}

	wide := func(name string, fill float64) *schema.Array {
		values := make([]float64, records*2)
		for i := range values {
			values[i] = fill + float64(i)
		}
		return &schema.Array{Name: name, Width: 2, Floats: values}
	}
	scalar := func(name string, value float64) *schema.Array {
		values := make([]float64, records)
		for i := range values {
			values[i] = value
		}
		return &schema.Array{Name: name, Width: 1, Floats: values}
	}

	vars := map[string]*schema.Array{
		"EPOCH":   {Name: "EPOCH", Width: 1, Ints: ionEpochs},
		"EPOCH_4": {Name: "EPOCH_4", Width: 1, Ints: eleEpochs},
	}
	vars["H_Flux"] = wide("H_Flux", 1)
	vars["H_Uncertainty"] = wide("H_Uncertainty", 0.1)
	vars["H_Rate"] = wide("H_Rate", 10)
	vars["Electron_Flux"] = wide("Electron_Flux", 2)
	vars["Electron_Uncertainty"] = wide("Electron_Uncertainty", 0.2)
	vars["Electron_Rate"] = wide("Electron_Rate", 20)
	vars["DELTA_EPOCH"] = scalar("DELTA_EPOCH", 0.5)
	vars["QUALITY_FLAG"] = scalar("QUALITY_FLAG", 0)
	vars["QUALITY_BITMASK"] = scalar("QUALITY_BITMASK", 0)
	vars["DELTA_EPOCH_4"] = scalar("DELTA_EPOCH_4", 0.5)
	vars["QUALITY_FLAG_4"] = scalar("QUALITY_FLAG_4", 1)
	vars["QUALITY_BITMASK_4"] = scalar("QUALITY_BITMASK_4", 0)
	vars["H_Bins_Text"] = &schema.Array{Name: "H_Bins_Text", Width: 2, Strings: []string{"7.0 - 7.3 MeV", "7.3 - 7.8 MeV"}}
	vars["H_Bins_Low_Energy"] = &schema.Array{Name: "H_Bins_Low_Energy", Width: 2, Floats: []float64{7.0, 7.3}}
	vars["H_Bins_Width"] = &schema.Array{Name: "H_Bins_Width", Width: 2, Floats: []float64{0.3, 0.5}}
	vars["Electron_Bins_Text"] = &schema.Array{Name: "Electron_Bins_Text", Width: 2, Strings: []string{"0.45 - 0.50 MeV", "0.50 - 0.55 MeV"}}
	vars["Electron_Bins_Low_Energy"] = &schema.Array{Name: "Electron_Bins_Low_Energy", Width: 2, Floats: []float64{0.45, 0.50}}
	vars["Electron_Bins_Width"] = &schema.Array{Name: "Electron_Bins_Width", Width: 2, Floats: []float64{0.05, 0.05}}
	return &schema.DayFile{Vars: vars}
}

// hetLLDayFile builds a synthetic HET low-latency day file. Ions and
// electrons share the EPOCH axis and a single quality flag.
func hetLLDayFile(day time.Time, records int) *schema.DayFile {
	base := schema.TimeToEpoch(day)
	epochs := make([]int64, records)
	for i := range records {
		epochs[i] = base + int64(i)*int64(time.Hour)
	}

	wide := func(name string, fill float64) *schema.Array {
		values := make([]float64, records*2)
		for i := range values {
			values[i] = fill + float64(i)
		}
		return &schema.Array{Name: name, Width: 2, Floats: values}
	}

	vars := map[string]*schema.Array{
		"EPOCH":        {Name: "EPOCH", Width: 1, Ints: epochs},
		"QUALITY_FLAG": {Name: "QUALITY_FLAG", Width: 1, Floats: make([]float64, records)},
	}
	vars["H_Flux"] = wide("H_Flux", 1)
	vars["H_Flux_Sigma"] = wide("H_Flux_Sigma", 0.1)
	vars["Ele_Flux"] = wide("Ele_Flux", 2)
	vars["Ele_Flux_Sigma"] = wide("Ele_Flux_Sigma", 0.2)
	vars["H_Bins_Text"] = &schema.Array{Name: "H_Bins_Text", Width: 2, Strings: []string{"7.0 - 7.3 MeV", "7.3 - 7.8 MeV"}}
	vars["H_Bins_Low_Energy"] = &schema.Array{Name: "H_Bins_Low_Energy", Width: 2, Floats: []float64{7.0, 7.3}}
	vars["H_Bins_Width"] = &schema.Array{Name: "H_Bins_Width", Width: 2, Floats: []float64{0.3, 0.5}}
	vars["Ele_Bins_Text"] = &schema.Array{Name: "Ele_Bins_Text", Width: 2, Strings: []string{"0.45 - 0.50 MeV", "0.50 - 0.55 MeV"}}
	vars["Ele_Bins_Low_Energy"] = &schema.Array{Name: "Ele_Bins_Low_Energy", Width: 2, Floats: []float64{0.45, 0.50}}
	vars["Ele_Bins_Width"] = &schema.Array{Name: "Ele_Bins_Width", Width: 2, Floats: []float64{0.05, 0.05}}
	return &schema.DayFile{Vars: vars}
}

// placeLocalFile drops an empty placeholder file into the local tree.
func placeLocalFile(base string, req *schema.Request, name string) error {
	dir := DayDirectory(base, req.Level, req.Sensor)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), []byte("cdf"), 0o644)
}
