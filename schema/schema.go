// Package schema has configs, models and shared constants for all parts of epdload.
package schema

import (
	"regexp"
	"strconv"
	"time"
)

// DateFormat is the compact date representation used in archive filenames.
const DateFormat = "20060102"

// FillValue marks invalid samples in the archive files. The assembler
// replaces it with NaN.
const FillValue = -1e31

// versionPattern matches the trailing version suffix of archive filenames,
// e.g. "_V02.cdf".
var versionPattern = regexp.MustCompile(`_V(\d+)\.cdf$`)

// ParseVersion extracts the integer version suffix from an archive filename.
// The second return value is false when the name carries no version suffix.
func ParseVersion(name string) (int, bool) {
	m := versionPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// Request describes one load or fetch operation. It is validated before any
// I/O happens.
type Request struct {
	Sensor    Sensor
	Viewing   Viewing
	Level     Level
	StartDate time.Time // UTC midnight of the first day, inclusive
	EndDate   time.Time // UTC midnight of the last day, inclusive
	BasePath  string
	AutoFetch bool
}

// Validate checks the sensor/viewing/level combination and the date range.
// All violations surface as ConfigError.
func (r *Request) Validate() error {
	if _, ok := ValidSensors[r.Sensor]; !ok {
		return NewConfigError("invalid sensor '%s'. must be ept, het, step", r.Sensor)
	}
	if _, ok := ValidLevels[r.Level]; !ok {
		return NewConfigError("invalid level '%s'. must be ll, l2", r.Level)
	}
	if r.Sensor == STEP {
		if r.Viewing != NoViewing {
			return NewConfigError("sensor step has no viewing direction (received '%s')", r.Viewing)
		}
	} else {
		if r.Viewing == NoViewing {
			return NewConfigError("sensor %s needs a viewing direction: sun, asun, north, south", r.Sensor)
		}
		if _, ok := ValidViewings[r.Viewing]; !ok {
			return NewConfigError("invalid viewing '%s'. must be sun, asun, north, south", r.Viewing)
		}
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return NewConfigError("start and end dates are required")
	}
	if r.StartDate.After(r.EndDate) {
		return NewConfigError("start date (%s) cannot be after end date (%s)",
			r.StartDate.Format(DateFormat), r.EndDate.Format(DateFormat))
	}
	return nil
}

// Days returns every calendar day of the inclusive request range.
func (r *Request) Days() []time.Time {
	var days []time.Time
	for d := r.StartDate; !d.After(r.EndDate); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// FileCandidate is one versioned filename, local or remote.
type FileCandidate struct {
	Name    string
	Version int
}

// FileDescriptor is a fully resolved daily file. It is produced fresh per
// request and never cached across requests.
type FileDescriptor struct {
	Sensor    Sensor
	Viewing   Viewing
	Level     Level
	Date      time.Time
	Version   int
	Name      string
	LocalPath string
	Fetched   bool // true when this resolution downloaded the file
}

// Array is one decoded variable: a sequence of records with a fixed number of
// values per record. Numeric data lives in Floats; epoch variables keep full
// precision in Ints; character data lives in Strings.
type Array struct {
	Name    string
	Width   int // values per record, 1 for scalars
	Floats  []float64
	Ints    []int64
	Strings []string
}

// Records returns the number of records held by the array.
func (a *Array) Records() int {
	if a.Width == 0 {
		return 0
	}
	switch {
	case a.Ints != nil:
		return len(a.Ints) / a.Width
	case a.Strings != nil:
		return len(a.Strings) / a.Width
	default:
		return len(a.Floats) / a.Width
	}
}

// DayFile is the decoded content of one daily file. It is owned by the
// assembler while that day is folded into the aggregate and discarded after.
type DayFile struct {
	Path string
	Vars map[string]*Array
}

// Var looks up a decoded variable by name.
func (d *DayFile) Var(name string) (*Array, bool) {
	a, ok := d.Vars[name]
	return a, ok
}

// Block is one time-aligned group of assembled columns sharing an epoch axis.
// EPT/HET requests carry an ion block and an electron block; the two share
// the epoch axis in low-latency files but stay separate blocks either way.
type Block struct {
	EpochVar string
	Epochs   []int64 // TT2000 nanoseconds, ascending, de-duplicated at day boundaries
	Order    []string
	Columns  map[string]*Array
}

// Rows returns the number of samples on the block's time axis.
func (b *Block) Rows() int {
	return len(b.Epochs)
}

// AssembledSeries is the multi-day concatenation result: per-variable arrays
// spanning the full requested range, with missing days recorded as gaps.
type AssembledSeries struct {
	Blocks      map[string]*Block // keyed by output table name
	BinVars     map[string]*Array // energy-bin variables from the first decoded day
	Files       []FileDescriptor  // successfully resolved daily files, in date order
	MissingDays []time.Time
}

// Empty reports whether no day of the range decoded successfully.
func (s *AssembledSeries) Empty() bool {
	for _, b := range s.Blocks {
		if len(b.Epochs) > 0 {
			return false
		}
	}
	return true
}

// Channel describes one discrete energy bin of the instrument.
type Channel struct {
	Index        int     `json:"index"`
	Label        string  `json:"label"`
	LowerEdgeMeV float64 `json:"lower_edge_mev"`
	WidthMeV     float64 `json:"width_mev"`
}

// ChannelTable maps a species name to its ordered energy channels. Channel
// count and ordering are assumed stable for one sensor/level combination and
// are sourced from the first decoded day of the range.
type ChannelTable map[string][]Channel

// SpeciesTable is one per-species time-indexed output table.
type SpeciesTable struct {
	Name        string `json:"name"`
	Epochs      []time.Time
	ColumnNames []string
	Columns     map[string][]float64
}

// Rows returns the number of time samples in the table.
func (t *SpeciesTable) Rows() int {
	return len(t.Epochs)
}

// LoadResult is what the top-level load operation hands back to callers.
type LoadResult struct {
	Tables      []*SpeciesTable
	Channels    ChannelTable
	Files       []FileDescriptor
	MissingDays []time.Time
}

// FetchOutcome records the per-day result of a synchronization pass.
type FetchOutcome struct {
	Date    time.Time
	Status  FetchStatus
	Version int
	Name    string
	Path    string
	Detail  string // failure detail, empty on success
}

// ManifestRecord is one row of the fetch manifest: a file that was downloaded
// from the archive to the local tree.
type ManifestRecord struct {
	ID        int64
	Sensor    Sensor
	Viewing   Viewing
	Level     Level
	FileDate  time.Time
	Version   int
	FileName  string
	LocalPath string
	SizeBytes int64
	FetchedAt time.Time
}

// ManifestStatus summarizes the state of the fetch manifest store.
type ManifestStatus struct {
	Backend      string
	Connected    bool
	TotalFetches int64
	LastFetch    time.Time
	OldestFetch  time.Time
	TableSizes   map[string]int64
}
