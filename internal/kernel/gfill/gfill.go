package gfill

import (
	"math"

	"github.com/farcloser/clutfilt/internal/kernel/gaussian"
	"github.com/farcloser/clutfilt/internal/kernel/shared"
	"github.com/farcloser/clutfilt/internal/kernel/spectral"
	"github.com/farcloser/clutfilt/internal/types"
)

// Fill restores power removed by a fixed-width notch around DC, keeping the phase of every bin.
//
// A Gaussian is fitted to the spectrum power and, within maxNotchWidth/2 bins of DC, bins that
// sit below the fit are lifted to it. The fit is repeated three times on the lifted power.
// Each output bin is the input bin scaled by sqrt(filled/original), a real factor.
// Out must hold len(spec) bins.
func Fill(spec []complex128, maxNotchWidth int, out []complex128) *types.FillResult {
	n := len(spec)
	result := &types.FillResult{}

	if n == 0 {
		return result
	}

	power := spectral.Power(spec)

	result.NoiseMean, result.NoiseSdev = spectral.NoiseByRegionPartition(power)

	for i, p := range power {
		if p > power[result.WeatherPos] {
			result.WeatherPos = i
		}
	}

	half := min(max(maxNotchWidth/2, 0), max(n/2-1, 0))
	result.NotchHalfWidth = half

	filled := make([]float64, n)
	copy(filled, power)

	gauss := make([]float64, n)

	raise := func(i int) {
		if gauss[i] > filled[i] {
			filled[i] = gauss[i]
		}
	}

	for range shared.FitIterations {
		result.Fit = gaussian.Fit(filled, result.WeatherPos, result.NoiseMean, gauss)

		for i := 0; i <= half; i++ {
			raise(i)
		}

		for i := n - half - 1; i < n; i++ {
			raise(i)
		}
	}

	for i, c := range spec {
		if filled[i] != power[i] {
			result.BinsRaised++
		}

		switch {
		case power[i] > 0:
			ratio := math.Sqrt(filled[i] / power[i])
			out[i] = complex(real(c)*ratio, imag(c)*ratio)
		default:
			// No phase to keep: put the power on the real axis.
			out[i] = complex(math.Sqrt(filled[i]), 0)
		}
	}

	return result
}
