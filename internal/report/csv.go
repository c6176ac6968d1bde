package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WindowWriter writes one CSV row per retained window.
type WindowWriter struct {
	w *csv.Writer
}

// NewWindowWriter creates a WindowWriter over the given writer.
func NewWindowWriter(w io.Writer) *WindowWriter {
	return &WindowWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the per-window column header.
func (ww *WindowWriter) WriteHeader() error {
	return ww.w.Write([]string{
		"file",
		"window_start_secs",
		"elapsed_secs",
		"record_count",
		"mean_speed_mph",
		"mean_power_hp",
		"mean_co2_gps",
		"nox_gphphr",
		"bin",
	})
}

// WindowRow is the flattened output form of one window summary.
type WindowRow struct {
	File         string
	StartSecs    float64
	ElapsedSecs  float64
	RecordCount  int
	MeanSpeedMPH float64
	MeanPowerHP  float64
	MeanCO2GPS   float64
	NOxGPerHpHr  float64
	BinLabel     string
}

// WriteRow writes a single window row.
func (ww *WindowWriter) WriteRow(row WindowRow) error {
	return ww.w.Write([]string{
		row.File,
		fmt.Sprintf("%.3f", row.StartSecs),
		fmt.Sprintf("%.3f", row.ElapsedSecs),
		fmt.Sprintf("%d", row.RecordCount),
		fmt.Sprintf("%.6f", row.MeanSpeedMPH),
		fmt.Sprintf("%.6f", row.MeanPowerHP),
		fmt.Sprintf("%.6f", row.MeanCO2GPS),
		fmt.Sprintf("%.6f", row.NOxGPerHpHr),
		row.BinLabel,
	})
}

// Flush flushes buffered rows to the underlying writer.
func (ww *WindowWriter) Flush() error {
	ww.w.Flush()
	return ww.w.Error()
}

// SummaryWriter writes the cross-file results summary: one row per source
// file with cycle totals and per-bin aggregates. Column shape is fixed by
// the bin label set, which is stable for a given configuration.
type SummaryWriter struct {
	w      *csv.Writer
	labels []string
}

// NewSummaryWriter creates a SummaryWriter for the given bin label set.
func NewSummaryWriter(w io.Writer, binLabels []string) *SummaryWriter {
	return &SummaryWriter{w: csv.NewWriter(w), labels: binLabels}
}

// WriteHeader writes the summary column header.
func (sw *SummaryWriter) WriteHeader() error {
	header := []string{"file", "cycle_work_hphr", "cycle_nox_g", "cycle_nox_gphphr"}
	for _, label := range sw.labels {
		header = append(header,
			label+" window_count",
			label+" nox_gphphr",
			label+" nox_gphr",
			label+" p70 nox_gphphr",
			label+" p95 nox_gphphr",
		)
	}
	return sw.w.Write(header)
}

// WriteFile writes the summary row for one processed file. bins must be in
// the same label order the writer was created with.
func (sw *SummaryWriter) WriteFile(file string, cycleWorkHpHr, cycleNOxG, cycleNOxGPerHpHr float64, bins []BinSummary) error {
	row := []string{
		file,
		fmt.Sprintf("%.6f", cycleWorkHpHr),
		fmt.Sprintf("%.6f", cycleNOxG),
		fmt.Sprintf("%.6f", cycleNOxGPerHpHr),
	}
	for _, b := range bins {
		row = append(row,
			fmt.Sprintf("%d", b.WindowCount),
			fmt.Sprintf("%.6f", b.NOxGPerHpHr),
			fmt.Sprintf("%.6f", b.NOxGPerHr),
			fmt.Sprintf("%.6f", b.NOxPercentiles[70]),
			fmt.Sprintf("%.6f", b.NOxPercentiles[95]),
		)
	}
	return sw.w.Write(row)
}

// Flush flushes buffered rows to the underlying writer.
func (sw *SummaryWriter) Flush() error {
	sw.w.Flush()
	return sw.w.Error()
}
