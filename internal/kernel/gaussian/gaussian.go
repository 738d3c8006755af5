package gaussian

import (
	"math"

	"github.com/farcloser/clutfilt/internal/kernel/shared"
	"github.com/farcloser/clutfilt/internal/types"
)

// Fit fits a single Gaussian to the spectrum and writes it into out, which must hold len(power) bins.
//
// The spectrum is viewed rotated so that weatherPos sits at n/2, keeping the lobe away from the
// wrap point. Mean and variance are the power-weighted first and second moments of the rotated
// index. Out is set to noise everywhere, then the curve is laid down from the rounded mean
// outwards on each side until it falls below noise.
func Fit(power []float64, weatherPos int, noise float64, out []float64) types.GaussianFit {
	n := len(power)
	fit := types.GaussianFit{Offset: weatherPos - n/2}

	if n == 0 {
		return fit
	}

	at := func(k int) float64 {
		return power[shared.Wrap(k+fit.Offset, n)]
	}

	var sumPower, sumK, sumK2 float64

	for k := range n {
		kk := float64(k)
		p := at(k)
		sumPower += p
		sumK += p * kk
		sumK2 += p * kk * kk
	}

	fit.TotalPower = sumPower
	fit.MeanK = float64(n / 2)

	if sumPower > 0 {
		fit.MeanK = sumK / sumPower
		fit.VarK = sumK2/sumPower - fit.MeanK*fit.MeanK
	}

	if fit.VarK <= 0 {
		fit.VarK = shared.VarianceFloor
	}

	fit.SdevK = math.Sqrt(fit.VarK)
	fit.Amplitude = sumPower / (math.Sqrt(2*math.Pi) * fit.SdevK)
	c2 := -1.0 / (2.0 * fit.VarK)

	for i := range out {
		out[i] = noise
	}

	center := int(fit.MeanK + 0.5)

	for k := center; k < n; k++ {
		xx := float64(k) - fit.MeanK

		gg := fit.Amplitude * math.Exp(c2*xx*xx)
		if gg < noise {
			break
		}

		out[shared.Wrap(k+fit.Offset, n)] = gg
	}

	for k := center - 1; k >= 0; k-- {
		xx := float64(k) - fit.MeanK

		gg := fit.Amplitude * math.Exp(c2*xx*xx)
		if gg < noise {
			break
		}

		out[shared.Wrap(k+fit.Offset, n)] = gg
	}

	return fit
}
