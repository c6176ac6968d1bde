// Package window implements the time-based windowing, aggregation and
// power-bin classification engine for engine emissions time series.
package window

import (
	"errors"

	"github.com/banshee-data/emissions.report/internal/units"
)

// Window is a half-open candidate interval [StartSecs, EndSecs) over a
// series. EndSecs is the nominal end (start + configured length) even when
// the window overruns the series tail. Windows are produced transiently by
// the generator and consumed immediately by aggregation; they are not
// retained.
type Window struct {
	StartSecs float64
	EndSecs   float64
}

// Length returns the nominal window length in seconds.
func (w Window) Length() float64 {
	return w.EndSecs - w.StartSecs
}

// Summary holds the aggregate statistics over the records inside one window.
type Summary struct {
	StartSecs   float64
	EndSecs     float64
	ElapsedSecs float64 // last selected timestamp − first, may be < nominal length at edges
	RecordCount int

	MeanSpeedMPH float64
	MeanPowerHP  float64

	MeanCO2GramsPerSec float64 // valid only when HasCO2
	MeanNOxGramsPerSec float64 // valid only when HasNOx
	HasCO2             bool
	HasNOx             bool

	// TrueIdle is set when every record in the window has speed below
	// the idle threshold (not merely the mean).
	TrueIdle bool

	// NOxGPerHpHr is the window brake-specific NOx rate, either
	// work-based or CO2-normalized depending on configuration. Set
	// during the rate pass; zero when NOx is absent.
	NOxGPerHpHr float64

	// BinLabel is assigned by the classifier in the second pass.
	BinLabel string

	// ExtraMeans holds per-window averages of pass-through channels.
	ExtraMeans map[string]float64
}

// CO2Grams returns the window CO2 mass estimated from the mean rate.
func (s *Summary) CO2Grams() float64 {
	return s.MeanCO2GramsPerSec * s.ElapsedSecs
}

// NOxGrams returns the window NOx mass estimated from the mean rate.
func (s *Summary) NOxGrams() float64 {
	return s.MeanNOxGramsPerSec * s.ElapsedSecs
}

// WorkHpHr returns the window engine work in hp-hr.
func (s *Summary) WorkHpHr() float64 {
	return s.MeanPowerHP * s.ElapsedSecs / units.SecondsPerHour
}

// ErrDegenerateSeries indicates a source series too short to produce any
// valid window. It is a per-file warning, not a run-fatal error.
var ErrDegenerateSeries = errors.New("series too short to produce any valid window")
