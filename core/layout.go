// Package core has core logic for resolving, assembling and reshaping
// daily archive files into time-indexed particle series.
package core

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/solartools/epdload/schema"
)

// DayDirectory returns the directory that holds the daily files for a
// sensor/level combination. The base/{l2|low_latency}/epd/{sensor} layout is a
// compatibility contract with tools that inspect the data tree directly.
func DayDirectory(basePath string, level schema.Level, sensor schema.Sensor) string {
	return filepath.Join(basePath, level.Directory(), "epd", string(sensor))
}

// FilenameStem returns the versionless prefix of a daily archive filename,
// e.g. "solo_L2_epd-het-sun-rates_20200820". Low-latency files carry a time
// token after the date, so their stem ends at the "T" separator and matches
// by prefix only.
func FilenameStem(sensor schema.Sensor, viewing schema.Viewing, level schema.Level, date time.Time) string {
	descriptor := string(sensor)
	if viewing != schema.NoViewing {
		descriptor += "-" + string(viewing)
	}
	stem := fmt.Sprintf("solo_%s_epd-%s-rates_%s", level.Product(), descriptor, date.Format(schema.DateFormat))
	if level == schema.LowLatency {
		stem += "T"
	}
	return stem
}
