package series

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/emissions.report/internal/units"
)

// SignalProfile maps source CSV column headings onto the channels the engine
// needs, with optional per-signal scale factors for unit fixups. Different
// test cells label and scale their channels differently; the profile keeps
// that variation out of the core.
type SignalProfile struct {
	TimeColumn  string `json:"time_column"`
	SpeedColumn string `json:"speed_column"`
	PowerColumn string `json:"power_column"`
	CO2Column   string `json:"co2_column,omitempty"`
	NOxColumn   string `json:"nox_column,omitempty"`

	// PowerUnits and SpeedUnits name the units of the source columns.
	// Values are converted to hp and mph at load time.
	PowerUnits string `json:"power_units,omitempty"`
	SpeedUnits string `json:"speed_units,omitempty"`

	// Scale holds per-column multipliers applied before unit conversion
	// (e.g. a torque cell logging power in tenths of a kW).
	Scale map[string]float64 `json:"scale,omitempty"`

	// ExtraColumns are passed through to records untouched and reported
	// as per-window averages (e.g. aftertreatment temperature).
	ExtraColumns []string `json:"extra_columns,omitempty"`
}

// DefaultProfile returns the column mapping used by EPA heavy-duty in-use
// test data exports.
func DefaultProfile() *SignalProfile {
	return &SignalProfile{
		TimeColumn:  "Time secs",
		SpeedColumn: "Vehicle Speed MPH",
		PowerColumn: "Power hp",
		CO2Column:   "Tailpipe CO2 g/s",
		NOxColumn:   "Tailpipe NOX g/s",
		PowerUnits:  units.HP,
		SpeedUnits:  units.MPH,
	}
}

// LoadProfile reads a SignalProfile from a JSON file.
func LoadProfile(path string) (*SignalProfile, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	// Start from defaults so partial profiles only override what they name.
	profile := DefaultProfile()
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// Validate checks that the required columns are named and units recognised.
func (p *SignalProfile) Validate() error {
	if p.TimeColumn == "" {
		return fmt.Errorf("profile missing time_column")
	}
	if p.SpeedColumn == "" {
		return fmt.Errorf("profile missing speed_column")
	}
	if p.PowerColumn == "" {
		return fmt.Errorf("profile missing power_column")
	}
	if p.PowerUnits != "" && !units.IsValidPowerUnit(p.PowerUnits) {
		return fmt.Errorf("profile power_units %q not one of %v", p.PowerUnits, units.ValidPowerUnits)
	}
	return nil
}

// scaleFor returns the configured multiplier for a column, defaulting to 1.
func (p *SignalProfile) scaleFor(column string) float64 {
	if s, ok := p.Scale[column]; ok {
		return s
	}
	return 1
}
