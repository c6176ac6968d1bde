package series

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	require.NoError(t, p.Validate())
	assert.Equal(t, "Time secs", p.TimeColumn)
	assert.Equal(t, "Power hp", p.PowerColumn)
	assert.Equal(t, "hp", p.PowerUnits)
}

func TestLoadProfile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "profile.json")
	profileJSON := `{
  "power_column": "Power kW",
  "power_units": "kw",
  "scale": {"Tailpipe NOX g/s": 0.001},
  "extra_columns": ["Aftertreatment Out Temp C"]
}`
	require.NoError(t, os.WriteFile(path, []byte(profileJSON), 0644))

	p, err := LoadProfile(path)
	require.NoError(t, err)

	// Overrides applied
	assert.Equal(t, "Power kW", p.PowerColumn)
	assert.Equal(t, "kw", p.PowerUnits)
	assert.Equal(t, 0.001, p.scaleFor("Tailpipe NOX g/s"))
	// Defaults retained for unnamed fields
	assert.Equal(t, "Time secs", p.TimeColumn)
	assert.Equal(t, 1.0, p.scaleFor("Time secs"))
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SignalProfile)
	}{
		{"missing time column", func(p *SignalProfile) { p.TimeColumn = "" }},
		{"missing speed column", func(p *SignalProfile) { p.SpeedColumn = "" }},
		{"missing power column", func(p *SignalProfile) { p.PowerColumn = "" }},
		{"bad power units", func(p *SignalProfile) { p.PowerUnits = "watts" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProfile()
			tt.mutate(p)
			assert.Error(t, p.Validate())
		})
	}
}
