// Package series provides the in-memory time series model and CSV loading
// for engine emissions log files.
package series

import (
	"errors"
	"fmt"
)

// Record is one sampled instant of an emissions log. Records are immutable
// once loaded; window aggregation only ever reads them.
type Record struct {
	TimeSecs float64 // monotonic time, seconds
	SpeedMPH float64 // vehicle speed, mph
	PowerHP  float64 // engine power, hp

	CO2GramsPerSec float64 // tailpipe CO2 rate, g/s (valid only when Series.HasCO2)
	NOxGramsPerSec float64 // tailpipe NOx rate, g/s (valid only when Series.HasNOx)

	// Extra carries additional channel values passed through untouched,
	// keyed by their output name (e.g. "Aftertreatment Out Temp C").
	Extra map[string]float64
}

// Series is a finite ordered sequence of records loaded from one source file.
type Series struct {
	Name    string // source file base name
	Records []Record

	HasCO2 bool
	HasNOx bool

	// ExtraChannels lists the pass-through channel names present on every
	// record, in stable output order.
	ExtraChannels []string
}

// ErrNotMonotonic indicates a series whose timestamps decrease. Timestamps
// must be non-decreasing for window selection to work.
var ErrNotMonotonic = errors.New("series timestamps are not non-decreasing")

// Span returns the first and last timestamps of the series. A series with
// fewer than one record returns (0, 0).
func (s *Series) Span() (t0, tN float64) {
	if len(s.Records) == 0 {
		return 0, 0
	}
	return s.Records[0].TimeSecs, s.Records[len(s.Records)-1].TimeSecs
}

// Duration returns the total time covered by the series in seconds.
func (s *Series) Duration() float64 {
	t0, tN := s.Span()
	return tN - t0
}

// checkMonotonic verifies the timestamp invariant.
func (s *Series) checkMonotonic() error {
	for i := 1; i < len(s.Records); i++ {
		if s.Records[i].TimeSecs < s.Records[i-1].TimeSecs {
			return fmt.Errorf("%w: record %d at t=%f follows t=%f",
				ErrNotMonotonic, i, s.Records[i].TimeSecs, s.Records[i-1].TimeSecs)
		}
	}
	return nil
}
