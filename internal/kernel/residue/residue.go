package residue

import "math"

// Params configures the clutter residue correction.
type Params struct {
	Enabled bool
	// MinSnrDb is the raw SNR, relative to calibrated noise, below which no correction is made.
	MinSnrDb float64

	// DbForDb selects the legacy NEXRAD correction: a fixed dB-for-dB ratio plus the excess
	// over a threshold.
	DbForDb          bool
	DbForDbRatio     float64
	DbForDbThreshold float64
}

// Powers carries the filter diagnostics the correction depends on.
type Powers struct {
	Raw             float64
	Filtered        float64
	Removed         float64
	CalibratedNoise float64
	SpectralSnr     float64 // spectral noise / calibrated noise
}

const (
	lowerBoundDb = 6.0  // clutter-to-weather ratio below which nothing extra is removed
	upperBoundDb = 12.0 // ratio above which the whole residue is removed
	minPowerLeft = 1.0e-12
)

// CorrectionRatio returns the factor to apply to the filtered spectrum to account for the
// noise the clutter peak spreads across the spectrum. It is 1 when no correction applies.
//
// The correction is worked out in dB. Outside of dB-for-dB mode, the fraction of the residue
// 10*log10(1/spectralSnr) that is applied grows linearly from 0 at a 6 dB clutter-to-weather
// ratio to 1 at 12 dB.
func CorrectionRatio(params Params, powers Powers) float64 {
	if !params.Enabled || powers.CalibratedNoise <= 0 {
		return 1.0
	}

	snr := (powers.Raw - powers.CalibratedNoise) / powers.CalibratedNoise
	if snr <= 0 || 10.0*math.Log10(snr) < params.MinSnrDb {
		return 1.0
	}

	if params.DbForDb {
		if powers.Raw <= 0 {
			return 1.0
		}

		totalDb := 10.0 * math.Log10(powers.Raw)
		leftDb := 10.0 * math.Log10(max(powers.Raw-powers.Removed, minPowerLeft))
		diffDb := totalDb - leftDb

		correctionDb := diffDb * params.DbForDbRatio
		if diffDb > params.DbForDbThreshold {
			correctionDb += diffDb - params.DbForDbThreshold
		}

		return 1.0 / math.Pow(10.0, correctionDb/10.0)
	}

	if powers.Filtered <= 0 || powers.SpectralSnr <= 0 {
		return 1.0
	}

	clutToWx := (powers.Raw - powers.Filtered) / powers.Filtered
	if clutToWx <= 0 {
		return 1.0
	}

	clutToWxDb := 10.0 * math.Log10(clutToWx)
	residueDb := 10.0 * math.Log10(1.0/powers.SpectralSnr)

	var fraction float64

	switch {
	case clutToWxDb < lowerBoundDb:
		fraction = 0
	case clutToWxDb > upperBoundDb:
		fraction = 1
	default:
		fraction = (clutToWxDb - lowerBoundDb) / (upperBoundDb - lowerBoundDb)
	}

	return math.Pow(10.0, residueDb*fraction/10.0)
}
