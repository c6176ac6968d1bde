package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/banshee-data/emissions.report/internal/fsutil"
	"github.com/banshee-data/emissions.report/internal/monitoring"
	"github.com/banshee-data/emissions.report/internal/units"
)

// LoadCSV reads one source file into a Series using the given profile.
// Rows whose required fields fail to parse are skipped (test cell exports
// often carry trailing comment or unit rows); the skip count is logged when
// verbose diagnostics are on.
func LoadCSV(path string, profile *SignalProfile) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	s, err := ReadCSV(f, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	s.Name = fsutil.BaseName(path)
	return s, nil
}

// ReadCSV parses CSV emissions data from r. The first row must be a header
// containing at least the profile's time, speed and power columns.
func ReadCSV(r io.Reader, profile *SignalProfile) (*Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged trailing rows are tolerated, then skipped

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}

	timeIdx, ok := colIdx[profile.TimeColumn]
	if !ok {
		return nil, fmt.Errorf("missing required column %q", profile.TimeColumn)
	}
	speedIdx, ok := colIdx[profile.SpeedColumn]
	if !ok {
		return nil, fmt.Errorf("missing required column %q", profile.SpeedColumn)
	}
	powerIdx, ok := colIdx[profile.PowerColumn]
	if !ok {
		return nil, fmt.Errorf("missing required column %q", profile.PowerColumn)
	}

	co2Idx, hasCO2 := -1, false
	if profile.CO2Column != "" {
		co2Idx, hasCO2 = indexOf(colIdx, profile.CO2Column)
	}
	noxIdx, hasNOx := -1, false
	if profile.NOxColumn != "" {
		noxIdx, hasNOx = indexOf(colIdx, profile.NOxColumn)
	}

	var extraIdx []int
	var extraNames []string
	for _, name := range profile.ExtraColumns {
		if i, ok := colIdx[name]; ok {
			extraIdx = append(extraIdx, i)
			extraNames = append(extraNames, name)
		}
	}

	s := &Series{
		HasCO2:        hasCO2,
		HasNOx:        hasNOx,
		ExtraChannels: extraNames,
	}

	skipped := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		t, errT := fieldFloat(row, timeIdx)
		speed, errS := fieldFloat(row, speedIdx)
		power, errP := fieldFloat(row, powerIdx)
		if errT != nil || errS != nil || errP != nil {
			skipped++
			continue
		}

		rec := Record{
			TimeSecs: t * profile.scaleFor(profile.TimeColumn),
			SpeedMPH: units.ConvertSpeedToMPH(speed*profile.scaleFor(profile.SpeedColumn), profile.SpeedUnits),
			PowerHP:  units.ConvertPowerToHP(power*profile.scaleFor(profile.PowerColumn), profile.PowerUnits),
		}

		if hasCO2 {
			v, err := fieldFloat(row, co2Idx)
			if err != nil {
				skipped++
				continue
			}
			rec.CO2GramsPerSec = v * profile.scaleFor(profile.CO2Column)
		}
		if hasNOx {
			v, err := fieldFloat(row, noxIdx)
			if err != nil {
				skipped++
				continue
			}
			rec.NOxGramsPerSec = v * profile.scaleFor(profile.NOxColumn)
		}

		if len(extraIdx) > 0 {
			rec.Extra = make(map[string]float64, len(extraIdx))
			for j, i := range extraIdx {
				// Missing extra values default to zero rather than
				// dropping the row.
				if v, err := fieldFloat(row, i); err == nil {
					rec.Extra[extraNames[j]] = v
				}
			}
		}

		s.Records = append(s.Records, rec)
	}

	if skipped > 0 {
		monitoring.Debugf("skipped %d non-numeric rows", skipped)
	}

	if err := s.checkMonotonic(); err != nil {
		return nil, err
	}
	return s, nil
}

func indexOf(colIdx map[string]int, name string) (int, bool) {
	i, ok := colIdx[name]
	return i, ok
}

func fieldFloat(row []string, idx int) (float64, error) {
	if idx >= len(row) {
		return 0, fmt.Errorf("row too short for column %d", idx)
	}
	return strconv.ParseFloat(row[idx], 64)
}
