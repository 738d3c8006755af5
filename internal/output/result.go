// Package output provides shared result serialization for clutfilt JSON output.
package output

import (
	"math"

	"github.com/farcloser/clutfilt"
	"github.com/farcloser/clutfilt/internal/types"
)

// ResultToMap converts a filter result into the canonical map structure
// used for JSON and JSONL serialization. Spectra are included when withSpectra is set.
func ResultToMap(result *clutfilt.Result, withSpectra bool) map[string]any {
	n := len(result.Power)

	meta := map[string]any{
		"summary": map[string]any{
			"method":           result.Method.String(),
			"clutter_found":    result.ClutterFound,
			"notch_width":      notchWidth(result.NotchStart, result.NotchEnd, n),
			"power_removed_db": PowerRemovedDb(result),
		},
		"bins":             n,
		"notch_start":      result.NotchStart,
		"notch_end":        result.NotchEnd,
		"clutter_pos":      result.ClutterPos,
		"weather_pos":      result.WeatherPos,
		"raw_power":        result.RawPower,
		"filtered_power":   result.FilteredPower,
		"power_removed":    result.PowerRemoved,
		"spectral_noise":   result.SpectralNoise,
		"spectral_snr":     result.SpectralSnr,
		"filter_ratio":     result.FilterRatio,
		"correction_ratio": result.CorrectionRatio,
	}

	if r := result.Adaptive; r != nil {
		meta["location"] = LocationToMap(&r.Location)
	}

	if r := result.Notch; r != nil {
		meta["notch"] = map[string]any{
			"half_width": r.HalfWidth,
		}
	}

	if withSpectra {
		meta["power"] = result.Power
		meta["spec_ratio"] = result.SpecRatio
	}

	return meta
}

// LocationToMap converts the clutter/weather location diagnostics.
func LocationToMap(loc *types.Location) map[string]any {
	return map[string]any{
		"notch_width":    loc.NotchWidth,
		"clutter_found":  loc.ClutterFound,
		"bimodal":        loc.Bimodal,
		"clutter_pos":    loc.ClutterPos,
		"clutter_peak":   loc.ClutterPeak,
		"weather_pos":    loc.WeatherPos,
		"weather_peak":   loc.WeatherPeak,
		"spectral_noise": loc.SpectralNoise,
	}
}

// FillToMap converts a notch fill result.
func FillToMap(result *clutfilt.FillResult) map[string]any {
	details := result.Details

	return map[string]any{
		"bins":             len(result.Spectrum),
		"noise_mean":       details.NoiseMean,
		"noise_sdev":       details.NoiseSdev,
		"weather_pos":      details.WeatherPos,
		"notch_half_width": details.NotchHalfWidth,
		"bins_raised":      details.BinsRaised,
		"fit": map[string]any{
			"mean_bin":    details.Fit.MeanBin(len(result.Spectrum)),
			"sdev_bins":   details.Fit.SdevK,
			"amplitude":   details.Fit.Amplitude,
			"total_power": details.Fit.TotalPower,
		},
	}
}

// NoiseToMap converts the noise estimates.
func NoiseToMap(noise clutfilt.NoiseEstimates) map[string]any {
	return map[string]any{
		"bins":        noise.SampleCount,
		"mean_power":  noise.MeanPower,
		"block":       noise.Block,
		"block_max":   noise.BlockMax,
		"region_mean": noise.RegionMean,
		"region_sdev": noise.RegionSdev,
		"section":     noise.Section,
	}
}

// PowerRemovedDb is 10*log10(raw/filtered), 0 when nothing was removed.
func PowerRemovedDb(result *clutfilt.Result) float64 {
	if result.FilterRatio <= 1 {
		return 0
	}

	return math.Round(10*math.Log10(result.FilterRatio)*100) / 100
}

// notchWidth is the inclusive circular width of [start, end].
func notchWidth(start, end, n int) int {
	if n == 0 {
		return 0
	}

	return ((end-start)%n+n)%n + 1
}
