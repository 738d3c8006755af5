package locator

import (
	"math"

	"github.com/farcloser/clutfilt/internal/kernel/shared"
	"github.com/farcloser/clutfilt/internal/kernel/spectral"
	"github.com/farcloser/clutfilt/internal/types"
)

// Params configures the locator. Velocities are in m/s.
type Params struct {
	MaxClutterVel  float64
	InitNotchWidth float64
	Nyquist        float64
	Thresholds     types.Thresholds
}

// Locate finds the clutter peak near DC and the weather peak elsewhere in the spectrum.
//
// The spectrum is split into 8 blocks with block 0 centered on DC. Clutter is present
// when block 0 is within ClutterRatio of the strongest other block. The weather peak is
// searched either in the dominant block (bimodal spectrum) or anywhere outside twice the
// notch width around the clutter peak. Without clutter the peak is still searched outside
// the guard band around DC, so a later fit is centred on the real weather lobe.
func Locate(power []float64, params Params) *types.Location {
	n := len(power)

	loc := &types.Location{
		NotchWidth: shared.VelocityToBins(params.InitNotchWidth, params.Nyquist, n),
	}

	if n == 0 {
		return loc
	}

	clutterBins := shared.VelocityToBins(params.MaxClutterVel, params.Nyquist, n)

	stats := spectral.Stats(power)
	loc.SpectralNoise = stats.MinOther

	loc.ClutterFound = ratioAbove(stats.Means[0], stats.MaxOther, params.Thresholds.ClutterRatio)
	if !loc.ClutterFound {
		guard := 2*loc.NotchWidth + 1
		findWeather(power, guard, n-guard, loc)

		return loc
	}

	// Ties keep DC.
	loc.ClutterPeak = power[0]
	for i := -clutterBins; i <= clutterBins; i++ {
		if p := power[shared.Wrap(i, n)]; p > loc.ClutterPeak {
			loc.ClutterPeak = p
			loc.ClutterPos = shared.Wrap(i, n)
		}
	}

	candidate := 2
	for b := 3; b <= 6; b++ {
		if stats.Means[b] > stats.Means[candidate] {
			candidate = b
		}
	}

	loc.Bimodal = hasValley(stats, 1, candidate-1, candidate, params.Thresholds.ValleyRatio) &&
		hasValley(stats, candidate+1, shared.NumBlocks-1, candidate, params.Thresholds.ValleyRatio)

	var lo, hi int

	if loc.Bimodal {
		block := stats.Blocks[candidate]
		lo, hi = block.Start, block.Start+block.Len-1
	} else {
		guard := 2*loc.NotchWidth + 1
		lo, hi = loc.ClutterPos+guard, loc.ClutterPos+n-guard
	}

	findWeather(power, lo, hi, loc)

	return loc
}

// findWeather sets the weather peak to the strongest bin in [lo, hi], indices taken modulo
// len(power). When the range is empty the bin opposite the clutter is taken.
func findWeather(power []float64, lo, hi int, loc *types.Location) {
	n := len(power)

	if lo > hi {
		lo = loc.ClutterPos + n/2
		hi = lo
	}

	loc.WeatherPos = shared.Wrap(lo, n)
	loc.WeatherPeak = power[loc.WeatherPos]

	for i := lo + 1; i <= hi; i++ {
		if p := power[shared.Wrap(i, n)]; p > loc.WeatherPeak {
			loc.WeatherPeak = p
			loc.WeatherPos = shared.Wrap(i, n)
		}
	}
}

// hasValley reports whether some block in [from, to] sits more than ratio below both
// block 0 and the candidate weather block.
func hasValley(stats spectral.BlockStats, from, to, candidate int, ratio float64) bool {
	if from > to {
		return false
	}

	valley := math.Inf(1)
	for b := from; b <= to; b++ {
		valley = min(valley, stats.Means[b])
	}

	peak := min(stats.Means[0], stats.Means[candidate])

	return ratioAbove(peak, valley, ratio)
}

// ratioAbove reports num/den > threshold, treating a zero denominator as an infinite ratio
// for any positive numerator.
func ratioAbove(num, den, threshold float64) bool {
	if den <= 0 {
		return num > 0
	}

	return num/den > threshold
}
