package notch

import (
	"github.com/farcloser/clutfilt/internal/kernel/shared"
	"github.com/farcloser/clutfilt/internal/kernel/spectral"
	"github.com/farcloser/clutfilt/internal/types"
)

// Perform replaces a fixed band around DC with a flat power value.
//
// The half-width in bins is round(notchWidthMps * n / (4 * nyquist)), at least 1 and at most
// n/2 - 1. Out must hold len(power) bins.
func Perform(power []float64, notchWidthMps, nyquist, replacement float64, out []float64) *types.NotchResult {
	n := len(power)
	result := &types.NotchResult{}

	if n == 0 {
		return result
	}

	half := 1
	if nyquist > 0 {
		half = int(notchWidthMps*float64(n)/(4.0*nyquist) + 0.5)
	}

	half = min(max(half, 1), max(n/2-1, 1))

	result.HalfWidth = half
	result.NotchStart = shared.Wrap(n-half, n)
	result.NotchEnd = shared.Wrap(half, n)

	copy(out, power)

	for i := -half; i <= half; i++ {
		out[shared.Wrap(i, n)] = replacement
	}

	result.RawPower = spectral.MeanPower(power)
	result.FilteredPower = spectral.MeanPower(out)
	result.PowerRemoved = result.RawPower - result.FilteredPower

	return result
}
