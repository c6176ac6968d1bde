package window

import "fmt"

// Normalizer rescales a window's CO2-based emissions ratio against the FTP
// reference, yielding a brake-specific rate in g/hp-hr:
//
//	NOx g/hp-hr = (NOx g / CO2 g) × FTP CO2 g/hp-hr
//
// The transform is a pure per-summary scalar rescale.
type Normalizer struct {
	FTPCO2GpHpHr float64
}

// NewNormalizer returns a Normalizer for the given FTP CO2 reference.
// A non-positive reference is a configuration error.
func NewNormalizer(ftpCO2GpHpHr float64) (*Normalizer, error) {
	if ftpCO2GpHpHr <= 0 {
		return nil, fmt.Errorf("ftp_co2_gphphr must be positive, got %f", ftpCO2GpHpHr)
	}
	return &Normalizer{FTPCO2GpHpHr: ftpCO2GpHpHr}, nil
}

// Apply sets the summary's normalized NOx rate in place. A window with zero
// CO2 mass leaves the rate at zero rather than dividing by zero.
func (n *Normalizer) Apply(sum *Summary) {
	co2 := sum.CO2Grams()
	if co2 <= 0 {
		sum.NOxGPerHpHr = 0
		return
	}
	sum.NOxGPerHpHr = sum.NOxGrams() / co2 * n.FTPCO2GpHpHr
}

// ApplyWorkBased sets the summary's work-based NOx rate in place
// (NOx g / window work hp-hr). Used when CO2 normalization is disabled.
func ApplyWorkBased(sum *Summary) {
	work := sum.WorkHpHr()
	if work <= 0 {
		sum.NOxGPerHpHr = 0
		return
	}
	sum.NOxGPerHpHr = sum.NOxGrams() / work
}
