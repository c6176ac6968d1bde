// Package report builds per-bin summaries and writes result tables and
// charts for window processing runs.
package report

import (
	"sort"

	"github.com/banshee-data/emissions.report/internal/units"
	"github.com/banshee-data/emissions.report/internal/window"
	"gonum.org/v1/gonum/stat"
)

// PercentileStep is the spacing of the reported per-bin NOx percentile curve.
const PercentileStep = 5

// BinSummary aggregates all windows assigned to one bin.
type BinSummary struct {
	Label       string
	WindowCount int

	MeanPowerHP float64

	// NOxGPerHpHr is the bin aggregate brake-specific rate: total NOx
	// mass over total work (or over total CO2 mass, FTP-rescaled, when
	// CO2 normalization is on).
	NOxGPerHpHr float64

	// NOxGPerHr is the time-based rate, the headline figure for the
	// true-idle bin where work is near zero.
	NOxGPerHr float64

	// NOxPercentiles maps percentile (0,5,...,100) to the window
	// NOx g/hp-hr value at that percentile within the bin.
	NOxPercentiles map[int]float64

	// ExtraMeans and ExtraSDs summarize pass-through channel averages
	// across the bin's windows (e.g. aftertreatment temperature).
	ExtraMeans map[string]float64
	ExtraSDs   map[string]float64
}

// BuildBinSummaries groups a result's windows by bin label and computes the
// per-bin aggregates. Bins appear in the result's label order, including
// empty bins so reports keep a stable shape across files.
func BuildBinSummaries(res *window.Result, ftpCO2GpHpHr float64, co2Normalization bool) []BinSummary {
	byBin := make(map[string][]*window.Summary)
	for i := range res.Summaries {
		s := &res.Summaries[i]
		byBin[s.BinLabel] = append(byBin[s.BinLabel], s)
	}

	out := make([]BinSummary, 0, len(res.BinLabels))
	for _, label := range res.BinLabels {
		out = append(out, buildOne(label, byBin[label], ftpCO2GpHpHr, co2Normalization))
	}
	return out
}

func buildOne(label string, windows []*window.Summary, ftp float64, co2Norm bool) BinSummary {
	bs := BinSummary{Label: label, WindowCount: len(windows)}
	if len(windows) == 0 {
		return bs
	}

	powers := make([]float64, len(windows))
	rates := make([]float64, len(windows))
	var noxGrams, co2Grams, workHpHr, elapsedSecs float64
	extraVals := make(map[string][]float64)

	for i, w := range windows {
		powers[i] = w.MeanPowerHP
		rates[i] = w.NOxGPerHpHr
		noxGrams += w.NOxGrams()
		co2Grams += w.CO2Grams()
		workHpHr += w.WorkHpHr()
		elapsedSecs += w.ElapsedSecs
		for name, v := range w.ExtraMeans {
			extraVals[name] = append(extraVals[name], v)
		}
	}

	bs.MeanPowerHP = stat.Mean(powers, nil)

	if co2Norm && co2Grams > 0 {
		bs.NOxGPerHpHr = noxGrams / co2Grams * ftp
	} else if workHpHr > 0 {
		bs.NOxGPerHpHr = noxGrams / workHpHr
	}
	if elapsedSecs > 0 {
		bs.NOxGPerHr = noxGrams / elapsedSecs * units.SecondsPerHour
	}

	sort.Float64s(rates)
	bs.NOxPercentiles = make(map[int]float64, 100/PercentileStep+1)
	for pct := 0; pct <= 100; pct += PercentileStep {
		bs.NOxPercentiles[pct] = window.Percentile(rates, float64(pct))
	}

	if len(extraVals) > 0 {
		bs.ExtraMeans = make(map[string]float64, len(extraVals))
		bs.ExtraSDs = make(map[string]float64, len(extraVals))
		for name, vals := range extraVals {
			bs.ExtraMeans[name] = stat.Mean(vals, nil)
			bs.ExtraSDs[name] = stat.StdDev(vals, nil)
		}
	}

	return bs
}
