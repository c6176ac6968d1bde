package window

import (
	"fmt"
	"math"

	"github.com/banshee-data/emissions.report/internal/config"
	"github.com/banshee-data/emissions.report/internal/monitoring"
	"github.com/banshee-data/emissions.report/internal/series"
	"github.com/banshee-data/emissions.report/internal/units"
)

// Result holds the full output of processing one source series.
type Result struct {
	FileName string

	// Summaries are ordered by window start time, one per retained window.
	Summaries []Summary

	// Thresholds are the absolute cutpoint values computed from the
	// observed distribution; BinLabels lists every assignable label.
	Thresholds []float64
	BinLabels  []string

	// Cycle totals over the whole series.
	CycleWorkHpHr    float64
	CycleNOxGrams    float64
	CycleNOxGPerHpHr float64

	// EmptyWindows counts generated windows that contained no records.
	EmptyWindows int
}

// Engine runs the two-pass window processing pipeline for one series:
// aggregate every window and collect the classification distribution, then
// compute percentile thresholds once and classify. The two-pass ordering is
// load-bearing: thresholds depend on the full set of windows, so no window
// can be classified until all are aggregated.
type Engine struct {
	cfg *config.Config
}

// NewEngine validates the configuration and returns an Engine. Configuration
// errors fail here, before any file is processed.
func NewEngine(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Process runs the engine over one series. A series too short to produce any
// valid window returns ErrDegenerateSeries; callers treat that as a per-file
// warning, not a run failure.
func (e *Engine) Process(s *series.Series) (*Result, error) {
	cfg := e.cfg

	if len(s.Records) < 2 {
		return nil, fmt.Errorf("%w: %s has %d records", ErrDegenerateSeries, s.Name, len(s.Records))
	}
	t0, tN := s.Span()
	if tN-t0 < cfg.GetWindowMinSecs() {
		return nil, fmt.Errorf("%w: %s spans %.1fs, need at least %.1fs",
			ErrDegenerateSeries, s.Name, tN-t0, cfg.GetWindowMinSecs())
	}

	gen := Generator{
		LengthSecs: cfg.GetWindowLengthSecs(),
		StepSecs:   cfg.GetWindowStepSecs(),
		MinSecs:    cfg.GetWindowMinSecs(),
	}
	agg := Aggregator{IdleSpeedThreshMPH: cfg.GetIdleSpeedThreshMPH()}

	var normalizer *Normalizer
	if cfg.GetCO2Normalization() {
		var err error
		normalizer, err = NewNormalizer(cfg.GetFTPCO2GpHpHr())
		if err != nil {
			return nil, err
		}
	}

	result := &Result{FileName: s.Name}

	// Pass 1: aggregate windows and collect the classification values.
	var classValues []float64
	for w := range gen.Windows(t0, tN) {
		sum, ok := agg.Aggregate(s, w)
		if !ok {
			result.EmptyWindows++
			monitoring.Debugf("skipping empty window [%.1f, %.1f) in %s", w.StartSecs, w.EndSecs, s.Name)
			continue
		}

		// Emissions rate for the window: CO2-normalized or work-based.
		if s.HasNOx {
			if normalizer != nil && s.HasCO2 {
				normalizer.Apply(&sum)
			} else {
				ApplyWorkBased(&sum)
			}
		}

		classValues = append(classValues, e.classificationValue(&sum))
		result.Summaries = append(result.Summaries, sum)
	}

	if len(result.Summaries) == 0 {
		return nil, fmt.Errorf("%w: %s produced no non-empty windows", ErrDegenerateSeries, s.Name)
	}

	// Pass 2: thresholds from the observed distribution, then classify.
	classifier, err := NewClassifier(classValues, cfg.GetHPCutpointsPct(), cfg.GetTrueIdleBin())
	if err != nil {
		return nil, err
	}
	result.Thresholds = classifier.Thresholds()
	result.BinLabels = classifier.Labels()
	for i := range result.Summaries {
		result.Summaries[i].BinLabel = classifier.Classify(&result.Summaries[i], classValues[i])
	}

	e.cycleTotals(s, result)
	return result, nil
}

// classificationValue returns the quantity the cutpoints partition: window
// mean power, or the normalized emissions rate when cutpoints are defined on
// the normalized quantity.
func (e *Engine) classificationValue(sum *Summary) float64 {
	if e.cfg.GetCutpointsNormalized() {
		return sum.NOxGPerHpHr
	}
	return sum.MeanPowerHP
}

// cycleTotals computes whole-series work and NOx figures by trapezoidal
// integration over the record timestamps.
func (e *Engine) cycleTotals(s *series.Series, result *Result) {
	var workHpSecs, noxGrams float64
	for i := 1; i < len(s.Records); i++ {
		prev, cur := s.Records[i-1], s.Records[i]
		dt := cur.TimeSecs - prev.TimeSecs
		// Only positive power contributes engine work.
		workHpSecs += 0.5 * (math.Max(prev.PowerHP, 0) + math.Max(cur.PowerHP, 0)) * dt
		if s.HasNOx {
			noxGrams += 0.5 * (prev.NOxGramsPerSec + cur.NOxGramsPerSec) * dt
		}
	}
	result.CycleWorkHpHr = workHpSecs / units.SecondsPerHour
	result.CycleNOxGrams = noxGrams
	if result.CycleWorkHpHr > 0 {
		result.CycleNOxGPerHpHr = noxGrams / result.CycleWorkHpHr
	}
}
