package adaptive

import (
	"github.com/farcloser/clutfilt/internal/kernel/gaussian"
	"github.com/farcloser/clutfilt/internal/kernel/locator"
	"github.com/farcloser/clutfilt/internal/kernel/shared"
	"github.com/farcloser/clutfilt/internal/kernel/spectral"
	"github.com/farcloser/clutfilt/internal/types"
)

// Params configures the adaptive filter. Velocities are in m/s.
type Params struct {
	MaxClutterVel   float64
	InitNotchWidth  float64
	Nyquist         float64
	CalibratedNoise float64
	SetNotchToNoise bool // overwrite the final notch with CalibratedNoise instead of the fit
	Thresholds      types.Thresholds
}

// Perform removes the clutter peak from raw and writes the filtered spectrum into out.
//
// Out must hold len(raw) bins and must not alias raw.
func Perform(raw []float64, params Params, out []float64) *types.AdaptiveResult {
	n := len(raw)
	result := &types.AdaptiveResult{}

	if n == 0 {
		return result
	}

	result.RawPower = spectral.MeanPower(raw)

	loc := locator.Locate(raw, locator.Params{
		MaxClutterVel:  params.MaxClutterVel,
		InitNotchWidth: params.InitNotchWidth,
		Nyquist:        params.Nyquist,
		Thresholds:     params.Thresholds,
	})

	result.Location = *loc
	result.ClutterFound = loc.ClutterFound
	result.ClutterPos = loc.ClutterPos
	result.WeatherPos = loc.WeatherPos

	clutterPos := loc.ClutterPos
	notchWidth := loc.NotchWidth

	// Initial notch at the noise floor, widened by one bin per side using the
	// neighbouring value so the fit does not see a step.
	notched := out
	copy(notched, raw)

	for i := clutterPos - notchWidth; i <= clutterPos+notchWidth; i++ {
		notched[shared.Wrap(i, n)] = loc.SpectralNoise
	}

	notched[shared.Wrap(clutterPos-notchWidth-1, n)] = notched[shared.Wrap(clutterPos-notchWidth-2, n)]
	notched[shared.Wrap(clutterPos+notchWidth+1, n)] = notched[shared.Wrap(clutterPos+notchWidth+2, n)]

	searchWidth := min(2*notchWidth, n/4)
	minWidth := min(notchWidth, searchWidth)
	matchRatio := params.Thresholds.MatchRatio

	gauss := make([]float64, n)
	lower, upper := clutterPos, clutterPos

	for range shared.FitIterations {
		gaussian.Fit(notched, loc.WeatherPos, loc.SpectralNoise, gauss)

		lower = clutterPos - searchWidth
		prev := raw[clutterPos]

		for i := clutterPos - 1; i >= clutterPos-searchWidth; i-- {
			if endsNotch(raw[shared.Wrap(i, n)], gauss[shared.Wrap(i, n)], prev, matchRatio) {
				lower = i

				break
			}

			prev = raw[shared.Wrap(i, n)]
		}

		upper = clutterPos + searchWidth
		prev = raw[clutterPos]

		for i := clutterPos + 1; i <= clutterPos+searchWidth; i++ {
			if endsNotch(raw[shared.Wrap(i, n)], gauss[shared.Wrap(i, n)], prev, matchRatio) {
				upper = i

				break
			}

			prev = raw[shared.Wrap(i, n)]
		}

		// Never narrower than the initial notch.
		lower = min(lower, clutterPos-minWidth)
		upper = max(upper, clutterPos+minWidth)

		copy(notched, raw)

		for i := lower; i <= upper; i++ {
			notched[shared.Wrap(i, n)] = gauss[shared.Wrap(i, n)]
		}
	}

	result.NotchStart = shared.Wrap(lower, n)
	result.NotchEnd = shared.Wrap(upper, n)

	if params.SetNotchToNoise {
		for i := lower; i <= upper; i++ {
			out[shared.Wrap(i, n)] = params.CalibratedNoise
		}
	}

	result.FilteredPower = spectral.MeanPower(out)
	result.PowerRemoved = result.RawPower - result.FilteredPower
	result.SpectralNoise = spectral.NoiseBySectionPartition(raw)

	return result
}

// endsNotch reports whether a bin belongs to the weather/noise side of the clutter peak:
// at or below the fit, or within matchRatio of it while still falling.
func endsNotch(power, fit, prev, matchRatio float64) bool {
	if power <= fit {
		return true
	}

	return power < fit*matchRatio && power < prev
}
