package schema

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoData indicates that no day in the requested range produced usable data.
// Per-day failures degrade to gaps; only a fully empty range surfaces this.
var ErrNoData = errors.New("no usable data files for the requested range")

// ConfigError indicates an invalid request (bad sensor/viewing/level
// combination). It is raised before any I/O happens.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return e.Msg
}

// NewConfigError builds a ConfigError with a formatted message.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// MissingFileError indicates that no usable local or remote file exists for a
// given day. Callers skip the day and continue with the rest of the range.
type MissingFileError struct {
	Sensor  Sensor
	Viewing Viewing
	Level   Level
	Date    time.Time
}

func (e *MissingFileError) Error() string {
	if e.Viewing == NoViewing {
		return fmt.Sprintf("no %s %s file for %s", e.Sensor, e.Level, e.Date.Format(DateFormat))
	}
	return fmt.Sprintf("no %s %s %s file for %s", e.Sensor, e.Viewing, e.Level, e.Date.Format(DateFormat))
}

// NetworkError indicates a failed archive interaction. Fetches are attempted
// once; the error propagates and the day is treated as missing.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("archive request %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError indicates a corrupt or unsupported file. The day is skipped.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDayFailure reports whether an error is one of the per-day failure modes
// that the assembler converts into a gap instead of aborting the range.
func IsDayFailure(err error) bool {
	var missing *MissingFileError
	var network *NetworkError
	var decode *DecodeError
	return errors.As(err, &missing) || errors.As(err, &network) || errors.As(err, &decode)
}
