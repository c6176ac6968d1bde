package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderBinCharts renders the per-bin summary page (brake-specific NOx and
// window count bars) as standalone HTML.
func RenderBinCharts(w io.Writer, title string, bins []BinSummary) error {
	labels := make([]string, len(bins))
	rateData := make([]opts.BarData, len(bins))
	countData := make([]opts.BarData, len(bins))
	for i, b := range bins {
		labels[i] = b.Label
		rateData[i] = opts.BarData{Value: b.NOxGPerHpHr}
		countData[i] = opts.BarData{Value: b.WindowCount}
	}

	rateBar := charts.NewBar()
	rateBar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Bin Brake-Specific NOx", Subtitle: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "NOx (g/hp-hr)"}),
	)
	rateBar.SetXAxis(labels).AddSeries("NOx g/hp-hr", rateData)

	countBar := charts.NewBar()
	countBar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Bin Window Count", Subtitle: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Windows"}),
	)
	countBar.SetXAxis(labels).AddSeries("windows", countData)

	page := components.NewPage()
	page.AddCharts(rateBar, countBar)
	return page.Render(w)
}

// WriteBinCharts renders the bin summary page to an HTML file.
func WriteBinCharts(path, title string, bins []BinSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := RenderBinCharts(f, title, bins); err != nil {
		return fmt.Errorf("failed to render bin charts: %w", err)
	}
	return nil
}
