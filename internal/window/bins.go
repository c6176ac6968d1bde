package window

import (
	"fmt"
	"math"
	"sort"
)

// TrueIdleBinLabel is the reserved bin for windows where vehicle speed stays
// below the idle threshold for every contained sample.
const TrueIdleBinLabel = "true_idle"

// Classifier assigns each window summary to a named power bin. Cutpoints are
// percentiles of the observed distribution of window classification values,
// so thresholds are computed once per run from the full set of windows (the
// two-pass design); classification itself is stateless.
type Classifier struct {
	cutpointsPct []float64
	thresholds   []float64
	labels       []string
	trueIdleBin  bool
}

// NewClassifier computes absolute thresholds from the observed distribution
// of classification values and the ordered cutpoint percentiles (0–100).
// values need not be sorted. len(cutpointsPct) thresholds partition the axis
// into len(cutpointsPct)+1 bins, plus the reserved idle bin when enabled.
func NewClassifier(values []float64, cutpointsPct []float64, trueIdleBin bool) (*Classifier, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no observed values to compute percentile thresholds from")
	}

	pcts := append([]float64(nil), cutpointsPct...)
	sort.Float64s(pcts)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	thresholds := make([]float64, len(pcts))
	for i, pct := range pcts {
		thresholds[i] = Percentile(sorted, pct)
	}

	return &Classifier{
		cutpointsPct: pcts,
		thresholds:   thresholds,
		labels:       binLabels(pcts),
		trueIdleBin:  trueIdleBin,
	}, nil
}

// Percentile returns the pct-th percentile of sorted values using linear
// interpolation between closest ranks (h = p·(n−1)). This is the
// interpolation convention of the published reference analyses, so thresholds
// and reported percentile curves stay comparable with them. values must be
// sorted ascending and non-empty.
func Percentile(sorted []float64, pct float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := pct / 100 * float64(n-1)
	i := int(math.Floor(h))
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (h-float64(i))*(sorted[i+1]-sorted[i])
}

// BinLabels returns the full ordered label set a run with the given
// cutpoints will produce, idle bin last when enabled. The labels depend only
// on configuration, so output shapes can be fixed before any file is read.
func BinLabels(cutpointsPct []float64, trueIdleBin bool) []string {
	pcts := append([]float64(nil), cutpointsPct...)
	sort.Float64s(pcts)
	out := binLabels(pcts)
	if trueIdleBin {
		out = append(out, TrueIdleBinLabel)
	}
	return out
}

// binLabels builds the stable human-readable labels for each bin. Labels
// combine the bin sequence index with the cutpoint percentages so reports
// stay comparable across runs with identical configuration.
func binLabels(pcts []float64) []string {
	labels := make([]string, len(pcts)+1)
	for i := range labels {
		switch {
		case i == 0:
			labels[i] = fmt.Sprintf("bin%d <%.1f%%", i, pcts[0])
		case i == len(pcts):
			labels[i] = fmt.Sprintf("bin%d >=%.1f%%", i, pcts[i-1])
		default:
			labels[i] = fmt.Sprintf("bin%d %.1f-%.1f%%", i, pcts[i-1], pcts[i])
		}
	}
	return labels
}

// Thresholds returns the absolute threshold values, ordered to match the
// cutpoint percentiles.
func (c *Classifier) Thresholds() []float64 {
	return append([]float64(nil), c.thresholds...)
}

// Labels returns every bin label the classifier can assign, idle bin last
// when enabled.
func (c *Classifier) Labels() []string {
	out := append([]string(nil), c.labels...)
	if c.trueIdleBin {
		out = append(out, TrueIdleBinLabel)
	}
	return out
}

// Classify assigns a bin label to the summary based on its classification
// value. Boundary values belong to the upper bin. When the idle bin is
// enabled, a true-idle window takes the reserved label regardless of its
// power-derived bin.
func (c *Classifier) Classify(sum *Summary, value float64) string {
	if c.trueIdleBin && sum.TrueIdle {
		return TrueIdleBinLabel
	}
	bin := 0
	for _, th := range c.thresholds {
		if value >= th {
			bin++
		}
	}
	return c.labels[bin]
}
