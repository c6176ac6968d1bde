package window

import (
	"sort"

	"github.com/banshee-data/emissions.report/internal/series"
)

// Aggregator computes per-window summary statistics from the records falling
// inside each window.
type Aggregator struct {
	// IdleSpeedThreshMPH is the speed below which a record counts toward
	// the true-idle condition.
	IdleSpeedThreshMPH float64
}

// Aggregate selects the records with StartSecs <= t < EndSecs and computes
// their summary statistics. Selection is inclusive-exclusive: a record
// exactly on a boundary belongs only to the window it opens. The second
// return value is false when no records fall inside the window; such windows
// produce no summary and are skipped by the caller.
func (a Aggregator) Aggregate(s *series.Series, w Window) (Summary, bool) {
	recs := s.Records

	// Timestamps are non-decreasing, so binary search finds the selected
	// half-open range directly.
	lo := sort.Search(len(recs), func(i int) bool { return recs[i].TimeSecs >= w.StartSecs })
	hi := sort.Search(len(recs), func(i int) bool { return recs[i].TimeSecs >= w.EndSecs })
	if lo >= hi {
		return Summary{}, false
	}

	selected := recs[lo:hi]
	n := float64(len(selected))

	sum := Summary{
		StartSecs:   w.StartSecs,
		EndSecs:     w.EndSecs,
		ElapsedSecs: selected[len(selected)-1].TimeSecs - selected[0].TimeSecs,
		RecordCount: len(selected),
		HasCO2:      s.HasCO2,
		HasNOx:      s.HasNOx,
		TrueIdle:    true,
	}

	var speedSum, powerSum, co2Sum, noxSum float64
	extraSums := make(map[string]float64, len(s.ExtraChannels))
	for _, rec := range selected {
		speedSum += rec.SpeedMPH
		powerSum += rec.PowerHP
		co2Sum += rec.CO2GramsPerSec
		noxSum += rec.NOxGramsPerSec
		if rec.SpeedMPH >= a.IdleSpeedThreshMPH {
			sum.TrueIdle = false
		}
		for _, name := range s.ExtraChannels {
			extraSums[name] += rec.Extra[name]
		}
	}

	sum.MeanSpeedMPH = speedSum / n
	sum.MeanPowerHP = powerSum / n
	if s.HasCO2 {
		sum.MeanCO2GramsPerSec = co2Sum / n
	}
	if s.HasNOx {
		sum.MeanNOxGramsPerSec = noxSum / n
	}
	if len(s.ExtraChannels) > 0 {
		sum.ExtraMeans = make(map[string]float64, len(s.ExtraChannels))
		for name, total := range extraSums {
			sum.ExtraMeans[name] = total / n
		}
	}

	return sum, true
}
