package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/emissions.report/internal/config"
	"github.com/banshee-data/emissions.report/internal/fsutil"
	"github.com/banshee-data/emissions.report/internal/monitoring"
	"github.com/banshee-data/emissions.report/internal/report"
	"github.com/banshee-data/emissions.report/internal/resultdb"
	"github.com/banshee-data/emissions.report/internal/series"
	"github.com/banshee-data/emissions.report/internal/window"
)

var (
	sourceDir  = flag.String("source", ".", "directory containing source CSV logs")
	outputDir  = flag.String("output", "output", "directory for result files")
	include    = flag.String("include", "*.csv", "comma-separated include globs, relative to -source")
	exclude    = flag.String("exclude", "", "comma-separated exclude globs, relative to -source")
	configPath = flag.String("config", "", "JSON analysis config file")
	profPath   = flag.String("profile", "", "JSON signal profile mapping CSV columns to channels")

	windowLength = flag.Float64("window-length", config.DefaultWindowLengthSecs, "window length in seconds")
	windowStep   = flag.Float64("window-step", config.DefaultWindowStepSecs, "window step in seconds")
	windowMin    = flag.Float64("window-min", config.DefaultWindowMinSecs, "minimum valid window span in seconds")
	idleThresh   = flag.Float64("idle-speed-thresh", config.DefaultIdleSpeedThreshMPH, "true-idle speed threshold in mph")
	trueIdleBin  = flag.Bool("true-idle-bin", false, "reserve a separate bin for true-idle windows")
	cutpoints    = flag.String("cutpoints", "", "comma-separated power bin cutpoint percentiles (e.g. 25,75)")
	ftpCO2       = flag.Float64("ftp-co2", 0, "FTP cycle CO2 rate in g/hp-hr for CO2 normalization")
	co2Norm      = flag.Bool("co2-normalization", false, "normalize NOx by CO2-apportioned work")

	dbPath  = flag.String("db", "", "optional sqlite results database path")
	charts  = flag.Bool("charts", false, "write per-file HTML charts and plots")
	workers = flag.Int("workers", 4, "number of files to process concurrently")
	verbose = flag.Bool("verbose", false, "enable debug logging")
)

// fileOutput collects everything one source file produced so results can be
// written in discovery order after the parallel phase.
type fileOutput struct {
	base   string
	result *window.Result
	bins   []report.BinSummary
	err    error
}

func main() {
	flag.Parse()
	monitoring.SetVerbose(*verbose)

	cfg, err := buildConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

// buildConfig merges the optional config file with explicitly-set flags.
// Flags override file values.
func buildConfig() (*config.Config, error) {
	var cfg *config.Config
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}

	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "window-length":
			cfg.WindowLengthSecs = windowLength
		case "window-step":
			cfg.WindowStepSecs = windowStep
		case "window-min":
			cfg.WindowMinSecs = windowMin
		case "idle-speed-thresh":
			cfg.IdleSpeedThreshMPH = idleThresh
		case "true-idle-bin":
			cfg.TrueIdleBin = trueIdleBin
		case "ftp-co2":
			cfg.FTPCO2GpHpHr = ftpCO2
		case "co2-normalization":
			cfg.CO2Normalization = co2Norm
		case "cutpoints":
			pcts, err := parseCutpoints(*cutpoints)
			if err != nil {
				flagErr = err
				return
			}
			cfg.HPCutpointsPct = pcts
		}
	})
	if flagErr != nil {
		return nil, flagErr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseCutpoints(s string) ([]float64, error) {
	var pcts []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid cutpoint %q: %w", part, err)
		}
		pcts = append(pcts, v)
	}
	if len(pcts) == 0 {
		return nil, fmt.Errorf("no cutpoints in %q", s)
	}
	return pcts, nil
}

func run(cfg *config.Config) error {
	engine, err := window.NewEngine(cfg)
	if err != nil {
		return err
	}

	profile := series.DefaultProfile()
	if *profPath != "" {
		profile, err = series.LoadProfile(*profPath)
		if err != nil {
			return err
		}
	}

	files, err := fsutil.DiscoverFiles(*sourceDir, splitGlobs(*include), splitGlobs(*exclude))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no source files matched under %s", *sourceDir)
	}
	log.Printf("Processing %d file(s) from %s (%s)", len(files), *sourceDir, cfg.Descriptor())

	if err := fsutil.ValidateDir(*outputDir); err != nil {
		return err
	}

	var store *resultdb.DB
	if *dbPath != "" {
		store, err = resultdb.Open(*dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	outputs := processFiles(engine, profile, cfg, files)

	if err := writeOutputs(cfg, store, outputs); err != nil {
		return err
	}

	failed := 0
	for _, out := range outputs {
		if out.err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(outputs))
	}
	log.Printf("Processed %d file(s) into %s", len(outputs), *outputDir)
	return nil
}

// processFiles runs the engine over every file with bounded parallelism.
// Per-file failures are recorded, not fatal: one unreadable log must not
// sink the batch.
func processFiles(engine *window.Engine, profile *series.SignalProfile, cfg *config.Config, files []string) []*fileOutput {
	outputs := make([]*fileOutput, len(files))

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(*workers)
	for i, path := range files {
		out := &fileOutput{base: fsutil.BaseName(path)}
		outputs[i] = out
		g.Go(func() error {
			out.result, out.err = processOne(engine, profile, path)
			if out.result != nil {
				out.bins = report.BuildBinSummaries(out.result, cfg.GetFTPCO2GpHpHr(), cfg.GetCO2Normalization())
			}
			return nil
		})
	}
	g.Wait()

	return outputs
}

func processOne(engine *window.Engine, profile *series.SignalProfile, path string) (*window.Result, error) {
	s, err := series.LoadCSV(path, profile)
	if err != nil {
		log.Printf("Failed to load %s: %v", path, err)
		return nil, err
	}

	res, err := engine.Process(s)
	if err != nil {
		// A series too short to window is a warning, not a failure.
		if errors.Is(err, window.ErrDegenerateSeries) {
			log.Printf("Skipping %s: %v", path, err)
			return nil, nil
		}
		log.Printf("Failed to process %s: %v", path, err)
		return nil, err
	}

	monitoring.Debugf("%s: %d windows, %d empty, cycle NOx %.4f g/hp-hr",
		path, len(res.Summaries), res.EmptyWindows, res.CycleNOxGPerHpHr)
	return res, nil
}

// writeOutputs writes the window table, the cross-file summary, the optional
// database rows and the optional charts, in discovery order.
func writeOutputs(cfg *config.Config, store *resultdb.DB, outputs []*fileOutput) error {
	winFile, err := os.Create(filepath.Join(*outputDir, "windows.csv"))
	if err != nil {
		return fmt.Errorf("failed to create window output: %w", err)
	}
	defer winFile.Close()
	ww := report.NewWindowWriter(winFile)
	if err := ww.WriteHeader(); err != nil {
		return err
	}

	labels := window.BinLabels(cfg.GetHPCutpointsPct(), cfg.GetTrueIdleBin())
	sumFile, err := os.Create(filepath.Join(*outputDir, "summary.csv"))
	if err != nil {
		return fmt.Errorf("failed to create summary output: %w", err)
	}
	defer sumFile.Close()
	sw := report.NewSummaryWriter(sumFile, labels)
	if err := sw.WriteHeader(); err != nil {
		return err
	}

	for _, out := range outputs {
		if out.result == nil {
			continue
		}
		res := out.result

		for _, s := range res.Summaries {
			err := ww.WriteRow(report.WindowRow{
				File:         out.base,
				StartSecs:    s.StartSecs,
				ElapsedSecs:  s.ElapsedSecs,
				RecordCount:  s.RecordCount,
				MeanSpeedMPH: s.MeanSpeedMPH,
				MeanPowerHP:  s.MeanPowerHP,
				MeanCO2GPS:   s.MeanCO2GramsPerSec,
				NOxGPerHpHr:  s.NOxGPerHpHr,
				BinLabel:     s.BinLabel,
			})
			if err != nil {
				return err
			}
		}

		if err := sw.WriteFile(out.base, res.CycleWorkHpHr, res.CycleNOxGrams, res.CycleNOxGPerHpHr, out.bins); err != nil {
			return err
		}

		if store != nil {
			runID, err := store.RecordRun(res, cfg.Descriptor(), out.bins)
			if err != nil {
				return err
			}
			monitoring.Debugf("%s: stored run %s", out.base, runID)
		}

		if *charts {
			if err := writeCharts(out); err != nil {
				log.Printf("Failed to write charts for %s: %v", out.base, err)
			}
		}
	}

	if err := ww.Flush(); err != nil {
		return err
	}
	return sw.Flush()
}

func writeCharts(out *fileOutput) error {
	base := filepath.Join(*outputDir, out.base)
	if err := report.WriteBinCharts(base+"_bins.html", out.base, out.bins); err != nil {
		return err
	}
	if err := report.SavePowerHistogram(base+"_power.png", out.base, out.result.Summaries, out.result.Thresholds); err != nil {
		return err
	}
	return report.SaveNOxPercentilePlot(base+"_percentiles.png", out.base, out.bins)
}

func splitGlobs(s string) []string {
	var globs []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			globs = append(globs, part)
		}
	}
	return globs
}
