// Package config holds the run configuration for window processing.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Default values applied when a field is absent from the config file and not
// overridden on the command line. These match the published EPA tool defaults.
const (
	DefaultWindowLengthSecs   = 300.0
	DefaultWindowStepSecs     = 300.0
	DefaultWindowMinSecs      = 30.0
	DefaultIdleSpeedThreshMPH = 1.0
)

// DefaultCutpointsPct is the default horsepower cutpoint set (percentiles of
// the observed window mean-power distribution).
var DefaultCutpointsPct = []float64{25}

// Config represents the run configuration for time-based window processing.
// Fields are pointers so a partial JSON config can be distinguished from
// explicit zero values; the Get* methods provide fallback defaults.
type Config struct {
	// Window params
	WindowLengthSecs *float64 `json:"window_length_secs,omitempty"`
	WindowStepSecs   *float64 `json:"window_step_secs,omitempty"`
	WindowMinSecs    *float64 `json:"window_min_secs,omitempty"`

	// Idle and bin params
	IdleSpeedThreshMPH *float64  `json:"idle_speed_thresh_mph,omitempty"`
	TrueIdleBin        *bool     `json:"true_idle_bin,omitempty"`
	HPCutpointsPct     []float64 `json:"hp_cutpoints_pct,omitempty"`

	// CO2 normalization params
	FTPCO2GpHpHr        *float64 `json:"ftp_co2_gphphr,omitempty"`
	CO2Normalization    *bool    `json:"co2_normalization,omitempty"`
	CutpointsNormalized *bool    `json:"cutpoints_normalized,omitempty"`

	// Engine params (optional; used for percent-of-rated-power reporting)
	EnginePowerRatingHP *float64 `json:"engine_power_rating_hp,omitempty"`
}

// ValidationError describes an invalid or inconsistent configuration value.
// Validation runs before any file is processed; a ValidationError aborts the
// whole run.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Msg)
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }

// EmptyConfig returns a Config with all fields set to nil.
// Use Load to populate values from a JSON file.
func EmptyConfig() *Config {
	return &Config{}
}

// DefaultConfig returns a Config populated with the standard defaults.
func DefaultConfig() *Config {
	return &Config{
		WindowLengthSecs:   ptrFloat64(DefaultWindowLengthSecs),
		WindowStepSecs:     ptrFloat64(DefaultWindowStepSecs),
		WindowMinSecs:      ptrFloat64(DefaultWindowMinSecs),
		IdleSpeedThreshMPH: ptrFloat64(DefaultIdleSpeedThreshMPH),
		TrueIdleBin:        ptrBool(false),
		CO2Normalization:   ptrBool(false),
		HPCutpointsPct:     append([]float64(nil), DefaultCutpointsPct...),
	}
}

// Load loads a Config from a JSON file. Fields omitted from the JSON retain
// their defaults via the Get* methods, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Getter methods with fallback defaults

func (c *Config) GetWindowLengthSecs() float64 {
	if c.WindowLengthSecs != nil {
		return *c.WindowLengthSecs
	}
	return DefaultWindowLengthSecs
}

func (c *Config) GetWindowStepSecs() float64 {
	if c.WindowStepSecs != nil {
		return *c.WindowStepSecs
	}
	return DefaultWindowStepSecs
}

func (c *Config) GetWindowMinSecs() float64 {
	if c.WindowMinSecs != nil {
		return *c.WindowMinSecs
	}
	return DefaultWindowMinSecs
}

func (c *Config) GetIdleSpeedThreshMPH() float64 {
	if c.IdleSpeedThreshMPH != nil {
		return *c.IdleSpeedThreshMPH
	}
	return DefaultIdleSpeedThreshMPH
}

func (c *Config) GetTrueIdleBin() bool {
	return c.TrueIdleBin != nil && *c.TrueIdleBin
}

func (c *Config) GetCO2Normalization() bool {
	return c.CO2Normalization != nil && *c.CO2Normalization
}

// GetCutpointsNormalized reports whether bin cutpoints are defined on the
// CO2-normalized quantity rather than raw mean power.
func (c *Config) GetCutpointsNormalized() bool {
	return c.CutpointsNormalized != nil && *c.CutpointsNormalized
}

func (c *Config) GetFTPCO2GpHpHr() float64 {
	if c.FTPCO2GpHpHr != nil {
		return *c.FTPCO2GpHpHr
	}
	return 0
}

func (c *Config) GetEnginePowerRatingHP() float64 {
	if c.EnginePowerRatingHP != nil {
		return *c.EnginePowerRatingHP
	}
	return 0
}

// GetHPCutpointsPct returns the cutpoint percentiles in ascending order.
func (c *Config) GetHPCutpointsPct() []float64 {
	src := c.HPCutpointsPct
	if len(src) == 0 {
		src = DefaultCutpointsPct
	}
	out := append([]float64(nil), src...)
	sort.Float64s(out)
	return out
}

// Validate checks the configuration for invalid or inconsistent values.
// It returns a *ValidationError describing the first problem found.
func (c *Config) Validate() error {
	if c.GetWindowLengthSecs() <= 0 {
		return &ValidationError{Field: "window_length_secs", Msg: "must be positive"}
	}
	if c.GetWindowStepSecs() <= 0 {
		return &ValidationError{Field: "window_step_secs", Msg: "must be positive"}
	}
	if c.GetWindowMinSecs() <= 0 {
		return &ValidationError{Field: "window_min_secs", Msg: "must be positive"}
	}
	if c.GetWindowMinSecs() > c.GetWindowLengthSecs() {
		return &ValidationError{Field: "window_min_secs", Msg: "must not exceed window_length_secs"}
	}
	if c.GetIdleSpeedThreshMPH() < 0 {
		return &ValidationError{Field: "idle_speed_thresh_mph", Msg: "must not be negative"}
	}

	for _, pct := range c.HPCutpointsPct {
		if pct < 0 || pct > 100 {
			return &ValidationError{
				Field: "hp_cutpoints_pct",
				Msg:   fmt.Sprintf("cutpoint %.1f outside [0,100]", pct),
			}
		}
	}

	if c.GetCO2Normalization() && c.GetFTPCO2GpHpHr() <= 0 {
		return &ValidationError{
			Field: "ftp_co2_gphphr",
			Msg:   "must be positive when co2_normalization is enabled",
		}
	}
	if c.GetCutpointsNormalized() && !c.GetCO2Normalization() {
		return &ValidationError{
			Field: "cutpoints_normalized",
			Msg:   "requires co2_normalization to be enabled",
		}
	}
	if c.EnginePowerRatingHP != nil && *c.EnginePowerRatingHP <= 0 {
		return &ValidationError{Field: "engine_power_rating_hp", Msg: "must be positive"}
	}

	return nil
}

// Descriptor returns a short string summarizing the run settings, used in
// output folder and file names (e.g. "300_300_TI_c(25.0)_co2n_idl1.0").
func (c *Config) Descriptor() string {
	s := fmt.Sprintf("%d_%d", int(c.GetWindowLengthSecs()), int(c.GetWindowStepSecs()))
	if c.GetTrueIdleBin() {
		s += "_TI"
	}
	s += "_c("
	for i, pct := range c.GetHPCutpointsPct() {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%.1f", pct)
	}
	s += ")"
	if c.GetCO2Normalization() {
		s += "_co2n"
	}
	s += fmt.Sprintf("_idl%.1f", c.GetIdleSpeedThreshMPH())
	return s
}
