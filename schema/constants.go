package schema

// Custom string types for type safety.
type (
	// Sensor represents a physical EPD instrument head.
	Sensor string

	// Viewing represents one of the instrument's look directions.
	Viewing string

	// Level represents the processing tier of the data.
	Level string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the fetch manifest.
	DatabaseBackend string

	// FetchStatus represents the per-day outcome of a synchronization pass.
	FetchStatus string
)

// All sensors supported.
const (
	EPT  Sensor = "ept"
	HET  Sensor = "het"
	STEP Sensor = "step"
)

// All viewing directions supported. STEP has no viewing direction.
const (
	SunViewing   Viewing = "sun"
	AsunViewing  Viewing = "asun"
	NorthViewing Viewing = "north"
	SouthViewing Viewing = "south"
	NoViewing    Viewing = ""
)

// All processing levels supported.
const (
	LowLatency Level = "ll" // near-real-time
	Level2     Level = "l2" // science-grade, default
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All manifest backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All fetch statuses supported.
const (
	FetchedStatus FetchStatus = "fetched" // downloaded from the archive
	LocalStatus   FetchStatus = "local"   // an existing local file was used
	MissingStatus FetchStatus = "missing" // no usable local or remote file
	FailedStatus  FetchStatus = "failed"  // a fetch was attempted and failed
)

// ValidSensors lists all valid sensors.
var ValidSensors = map[Sensor]struct{}{
	EPT:  {},
	HET:  {},
	STEP: {},
}

// ValidViewings lists all valid viewing directions for EPT and HET.
var ValidViewings = map[Viewing]struct{}{
	SunViewing:   {},
	AsunViewing:  {},
	NorthViewing: {},
	SouthViewing: {},
}

// ValidLevels lists all valid processing levels.
var ValidLevels = map[Level]struct{}{
	LowLatency: {},
	Level2:     {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid manifest backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Directory returns the level's directory name in the local data layout.
// The on-disk layout base/{l2|low_latency}/epd/{sensor} is a compatibility
// contract with tools that inspect the data tree directly.
func (l Level) Directory() string {
	if l == LowLatency {
		return "low_latency"
	}
	return "l2"
}

// Product returns the level token used in archive filenames.
func (l Level) Product() string {
	if l == LowLatency {
		return "LL02"
	}
	return "L2"
}
