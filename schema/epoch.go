package schema

import "time"

// Epoch values in the archive files are TT2000: nanoseconds of Terrestrial
// Time since 2000-01-01T12:00:00 TT. TT runs ahead of UTC by 32.184s plus the
// accumulated leap seconds (32 at the 2000 epoch), so the J2000 epoch falls at
// 2000-01-01T11:58:55.816 UTC.
const j2000UnixNano = 946727935_816000000

// leapSteps lists the UTC instants after the 2000 epoch where TAI-UTC
// changed, with the extra seconds (relative to the 32 baked into
// j2000UnixNano) in effect from that instant on.
var leapSteps = []struct {
	unixSec int64
	extra   int64
}{
	{1136073600, 1}, // 2006-01-01
	{1230768000, 2}, // 2009-01-01
	{1341100800, 3}, // 2012-07-01
	{1435708800, 4}, // 2015-07-01
	{1483228800, 5}, // 2017-01-01
}

// EpochToTime converts a TT2000 epoch value to UTC wall time. Samples inside
// a leap second collapse onto its end; the instrument cadence makes that
// indistinguishable in practice.
func EpochToTime(tt2000 int64) time.Time {
	var extra int64
	for _, step := range leapSteps {
		threshold := step.unixSec*1e9 - j2000UnixNano + step.extra*1e9
		if tt2000 >= threshold {
			extra = step.extra
		}
	}
	return time.Unix(0, tt2000+j2000UnixNano-extra*1e9).UTC()
}

// TimeToEpoch converts UTC wall time to a TT2000 epoch value. It is the
// inverse of EpochToTime outside leap seconds.
func TimeToEpoch(t time.Time) int64 {
	var extra int64
	for _, step := range leapSteps {
		if t.Unix() >= step.unixSec {
			extra = step.extra
		}
	}
	return t.UnixNano() - j2000UnixNano + extra*1e9
}
