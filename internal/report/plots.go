package report

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/emissions.report/internal/window"
)

// SavePowerHistogram plots the distribution of per-window mean power with a
// vertical marker at each bin threshold.
func SavePowerHistogram(path, title string, summaries []window.Summary, thresholds []float64) error {
	values := make(plotter.Values, 0, len(summaries))
	maxRate := 0.0
	for _, s := range summaries {
		values = append(values, s.MeanPowerHP)
	}
	if len(values) == 0 {
		return fmt.Errorf("no windows to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Mean Window Power (hp)"
	p.Y.Label.Text = "Windows"

	hist, err := plotter.NewHist(values, 40)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	p.Add(hist)

	_, _, _, ymax := hist.DataRange()
	if ymax > maxRate {
		maxRate = ymax
	}
	for _, thresh := range thresholds {
		line, err := plotter.NewLine(plotter.XYs{
			{X: thresh, Y: 0},
			{X: thresh, Y: maxRate},
		})
		if err != nil {
			return fmt.Errorf("failed to build threshold marker: %w", err)
		}
		line.Width = vg.Points(1)
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
	}

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save power histogram: %w", err)
	}
	return nil
}

// SaveNOxPercentilePlot plots the ranked per-window brake-specific NOx rates,
// one line per bin.
func SaveNOxPercentilePlot(path, title string, bins []BinSummary) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Percentile"
	p.Y.Label.Text = "NOx (g/hp-hr)"

	plotted := 0
	for _, b := range bins {
		if len(b.NOxPercentiles) == 0 {
			continue
		}
		pcts := make([]int, 0, len(b.NOxPercentiles))
		for pct := range b.NOxPercentiles {
			pcts = append(pcts, pct)
		}
		sort.Ints(pcts)

		pts := make(plotter.XYs, len(pcts))
		for i, pct := range pcts {
			pts[i] = plotter.XY{X: float64(pct), Y: b.NOxPercentiles[pct]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("failed to build percentile line for %s: %w", b.Label, err)
		}
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(b.Label, line)
		plotted++
	}
	if plotted == 0 {
		return fmt.Errorf("no bins to plot")
	}
	p.Legend.Top = true

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save percentile plot: %w", err)
	}
	return nil
}
