// Package units provides shared constants and conversions for power,
// speed and emissions-rate units.
package units

// Power unit constants
const (
	HP = "hp"
	KW = "kw"
)

// Speed unit constants
const (
	MPH = "mph"
	MPS = "mps"
	KPH = "kph"
)

// Conversion factors
const (
	KWToHP   = 1.34102209
	HPToKW   = 1.0 / KWToHP
	MPHToMPS = 0.44704
	MPSToMPH = 1.0 / MPHToMPS

	SecondsPerHour = 3600.0
)

// ValidPowerUnits contains all valid power unit values
var ValidPowerUnits = []string{HP, KW}

// IsValidPowerUnit checks if the given unit is in the list of valid power units
func IsValidPowerUnit(unit string) bool {
	for _, validUnit := range ValidPowerUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// ConvertPowerToHP converts a power value in the given units to horsepower.
// Source files record power in either hp or kW depending on the test cell.
func ConvertPowerToHP(power float64, sourceUnits string) float64 {
	switch sourceUnits {
	case KW:
		return power * KWToHP
	case HP:
		return power
	default:
		return power
	}
}

// ConvertSpeedToMPH converts a speed in the given units to miles per hour.
// Window statistics and the idle threshold are defined in mph.
func ConvertSpeedToMPH(speed float64, sourceUnits string) float64 {
	switch sourceUnits {
	case MPS:
		return speed * MPSToMPH
	case KPH:
		return speed / 1.609344
	case MPH:
		return speed
	default:
		return speed
	}
}

// RatePerSecToPerHour converts a g/s emissions rate to g/hr.
func RatePerSecToPerHour(gramsPerSec float64) float64 {
	return gramsPerSec * SecondsPerHour
}
