package types

// Thresholds holds the empirically tuned ratios of the adaptive filter.
type Thresholds struct {
	ClutterRatio float64 // block0 mean / strongest other block mean above which clutter is declared
	MatchRatio   float64 // raw power below this multiple of the fit may end the notch when falling
	ValleyRatio  float64 // peak-to-valley block ratio required on both sides to call a spectrum bimodal
}

// DefaultThresholds returns the tuned values used operationally.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ClutterRatio: 0.5,
		MatchRatio:   10.0,
		ValleyRatio:  5.0,
	}
}

/*
Locator Interpretation

| ClutterFound | Bimodal | Meaning                                                     |
|--------------|---------|-------------------------------------------------------------|
| false        | false   | DC block well below the rest. No clutter to remove.         |
| true         | false   | Clutter at DC, weather (if any) merged or single-lobed.     |
| true         | true    | Clutter and weather separated by a valley on both sides.    |

When ClutterFound is false the locator stops early: ClutterPos and WeatherPos
stay at 0, SpectralNoise and NotchWidth are still valid.
*/

// Location contains the results returned by the weather/clutter locator.
type Location struct {
	NotchWidth    int     // initial notch half-width, bins
	ClutterFound  bool    // DC block within the clutter ratio of the strongest other block
	Bimodal       bool    // clutter and weather separated by valleys
	ClutterPos    int     // bin of the clutter peak, in [0, n)
	ClutterPeak   float64 // power at ClutterPos
	WeatherPos    int     // bin of the weather peak, in [0, n)
	WeatherPeak   float64 // power at WeatherPos
	SpectralNoise float64 // min of the 7 non-DC block means
}

// GaussianFit contains the moments behind a fitted Gaussian.
type GaussianFit struct {
	Offset     int     // rotation applied: rotated index i maps to bin Wrap(i+Offset)
	MeanK      float64 // power weighted mean, rotated index space
	VarK       float64 // power weighted variance, floored
	SdevK      float64
	TotalPower float64 // sum of power over the spectrum
	Amplitude  float64 // c1, peak value of the curve
}

// MeanBin returns the fitted mean in the original bin space.
func (g GaussianFit) MeanBin(n int) float64 {
	mean := g.MeanK + float64(g.Offset)
	for mean < 0 {
		mean += float64(n)
	}

	for mean >= float64(n) {
		mean -= float64(n)
	}

	return mean
}

/*
Adaptive Filter Interpretation

PowerRemoved is expressed as a mean over bins, like RawPower and FilteredPower.
Multiply by the spectrum length to get the total removed power.

| RawPower / FilteredPower | Interpretation                         |
|--------------------------|----------------------------------------|
| < 1.26 (1 dB)            | Negligible clutter.                    |
| 1.26 - 10 (1-10 dB)      | Moderate clutter, weather dominant.    |
| > 10 (10 dB)             | Clutter dominated gate.                |

SpectralNoise comes from the section-partition estimator on the raw
spectrum; it is a cross-check, not the floor used inside the notch loop.
*/

// AdaptiveResult contains the results returned by the adaptive filter.
type AdaptiveResult struct {
	ClutterFound  bool
	NotchStart    int // first notched bin, in [0, n)
	NotchEnd      int // last notched bin, in [0, n); may be < NotchStart when the notch wraps DC
	RawPower      float64
	FilteredPower float64
	PowerRemoved  float64
	SpectralNoise float64
	ClutterPos    int
	WeatherPos    int
	Location      Location
}

// NotchWidth returns the number of bins in the notch.
func (r *AdaptiveResult) NotchWidth(n int) int {
	return ((r.NotchEnd-r.NotchStart)%n+n)%n + 1
}

// NotchResult contains the results returned by the fixed-width notch filter.
type NotchResult struct {
	HalfWidth     int
	NotchStart    int
	NotchEnd      int
	RawPower      float64
	FilteredPower float64
	PowerRemoved  float64
}

// FillResult contains the results returned by the phase-preserving notch filler.
type FillResult struct {
	NoiseMean      float64 // region-partition noise estimate of the input power
	NoiseSdev      float64
	WeatherPos     int // strongest bin of the input power
	NotchHalfWidth int
	Fit            GaussianFit // fit from the final iteration
	BinsRaised     int         // bins whose power was lifted to the fit
}

// NoiseEstimates gathers the independent noise estimators side by side.
type NoiseEstimates struct {
	Block       float64 // min of the 7 non-DC block means
	BlockMax    float64 // max of the 7 non-DC block means
	RegionMean  float64 // peak-centered region partition
	RegionSdev  float64
	Section     float64 // section partition, no re-centering
	MeanPower   float64
	SampleCount int
}
