// Package resultdb persists processing runs to a local sqlite database so
// window and bin results can be queried across batches.
package resultdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/emissions.report/internal/report"
	"github.com/banshee-data/emissions.report/internal/window"
)

type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the sqlite database at path and applies
// any pending migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Serialized writes; sqlite handles one writer at a time.
	db.SetMaxOpenConns(1)

	rdb := &DB{db}
	if err := rdb.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return rdb, nil
}

// Run is one processed source file.
type Run struct {
	RunID            string
	SourceFile       string
	Descriptor       string
	WindowCount      int
	EmptyWindows     int
	CycleWorkHpHr    float64
	CycleNOxGrams    float64
	CycleNOxGPerHpHr float64
	CreatedAt        time.Time
}

// RecordRun stores a file's result and bin summaries, returning the new
// run's id. All rows are written in one transaction.
func (db *DB) RecordRun(res *window.Result, descriptor string, bins []report.BinSummary) (string, error) {
	runID := uuid.New().String()

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (
			run_id, source_file, descriptor, window_count, empty_windows,
			cycle_work_hphr, cycle_nox_g, cycle_nox_gphphr
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, res.FileName, descriptor, len(res.Summaries), res.EmptyWindows,
		res.CycleWorkHpHr, res.CycleNOxGrams, res.CycleNOxGPerHpHr,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	winStmt, err := tx.Prepare(`
		INSERT INTO window_summaries (
			run_id, start_secs, elapsed_secs, record_count,
			mean_speed_mph, mean_power_hp, mean_co2_gps, mean_nox_gps,
			true_idle, nox_gphphr, bin
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare window insert: %w", err)
	}
	defer winStmt.Close()

	for _, s := range res.Summaries {
		_, err = winStmt.Exec(
			runID, s.StartSecs, s.ElapsedSecs, s.RecordCount,
			s.MeanSpeedMPH, s.MeanPowerHP, s.MeanCO2GramsPerSec, s.MeanNOxGramsPerSec,
			s.TrueIdle, s.NOxGPerHpHr, s.BinLabel,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert window at %gs: %w", s.StartSecs, err)
		}
	}

	for _, b := range bins {
		_, err = tx.Exec(`
			INSERT INTO bin_summaries (
				run_id, bin, window_count, mean_power_hp,
				nox_gphphr, nox_gphr, p70_nox_gphphr, p95_nox_gphphr
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, b.Label, b.WindowCount, b.MeanPowerHP,
			b.NOxGPerHpHr, b.NOxGPerHr, b.NOxPercentiles[70], b.NOxPercentiles[95],
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert bin summary %q: %w", b.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns stored runs, newest first.
func (db *DB) ListRuns() ([]Run, error) {
	rows, err := db.Query(`
		SELECT run_id, source_file, descriptor, window_count, empty_windows,
			cycle_work_hphr, cycle_nox_g, cycle_nox_gphphr, created_at
		FROM runs ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		err := rows.Scan(
			&r.RunID, &r.SourceFile, &r.Descriptor, &r.WindowCount, &r.EmptyWindows,
			&r.CycleWorkHpHr, &r.CycleNOxGrams, &r.CycleNOxGPerHpHr, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// WindowCountForRun returns how many window rows a run stored.
func (db *DB) WindowCountForRun(runID string) (int, error) {
	var n int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM window_summaries WHERE run_id = ?", runID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count windows for run %s: %w", runID, err)
	}
	return n, nil
}

// BinRatesForRun returns the stored bin aggregate rates for a run, keyed by
// bin label.
func (db *DB) BinRatesForRun(runID string) (map[string]float64, error) {
	rows, err := db.Query(
		"SELECT bin, nox_gphphr FROM bin_summaries WHERE run_id = ?", runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query bin summaries for run %s: %w", runID, err)
	}
	defer rows.Close()

	rates := make(map[string]float64)
	for rows.Next() {
		var label string
		var rate float64
		if err := rows.Scan(&label, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan bin summary: %w", err)
		}
		rates[label] = rate
	}
	return rates, rows.Err()
}
