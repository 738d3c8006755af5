package clutfilt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/farcloser/clutfilt/internal/kernel/adaptive"
	"github.com/farcloser/clutfilt/internal/kernel/gfill"
	"github.com/farcloser/clutfilt/internal/kernel/notch"
	"github.com/farcloser/clutfilt/internal/kernel/residue"
	"github.com/farcloser/clutfilt/internal/kernel/spectral"
	"github.com/farcloser/clutfilt/internal/types"
)

var (
	ErrEmptySpectrum  = errors.New("empty spectrum")
	ErrInvalidNyquist = errors.New("nyquist velocity must be positive")
	ErrInvalidStagger = errors.New("staggered PRT ratio must be positive")
)

/*
Usage:

opts := clutfilt.DefaultOptions()
opts.Nyquist = 25.6
opts.CalibratedNoise = noise
result, err := clutfilt.Filter(spectrum, opts)
if result.ClutterFound {
    fmt.Printf("removed %.1f dB\n", 10*math.Log10(result.FilterRatio))
}

// Fixed notch instead of the adaptive filter
opts.Method = clutfilt.MethodNotch
result, err := clutfilt.Filter(spectrum, opts)

// Per-gate tracing
opts.Logger = slog.Default().With("gate", gate, "az", az)

*/

// Filter removes clutter from a complex Doppler spectrum (bin 0 = zero velocity).
//
// The power spectrum is filtered, then every input bin is scaled by sqrt(filtered/raw),
// capped at 1, so phases are untouched and no bin gains power.
func Filter(spectrum []complex128, opts Options) (*Result, error) {
	if len(spectrum) == 0 {
		return nil, ErrEmptySpectrum
	}

	result, err := FilterPower(spectral.Power(spectrum), opts)
	if err != nil {
		return nil, err
	}

	result.Spectrum = make([]complex128, len(spectrum))
	for i, c := range spectrum {
		ratio := result.SpecRatio[i]
		result.Spectrum[i] = complex(real(c)*ratio, imag(c)*ratio)
	}

	return result, nil
}

// FilterPower removes clutter from a power spectrum (bin 0 = zero velocity).
func FilterPower(power []float64, opts Options) (*Result, error) {
	if len(power) == 0 {
		return nil, ErrEmptySpectrum
	}

	if !(opts.Nyquist > 0) {
		return nil, ErrInvalidNyquist
	}

	applyDefaults(&opts)

	n := len(power)
	out := make([]float64, n)
	result := &Result{Method: opts.Method}

	switch opts.Method {
	case MethodNotch:
		res := notch.Perform(power, opts.NotchWidth, opts.Nyquist, opts.CalibratedNoise, out)

		result.Notch = res
		result.NotchStart = res.NotchStart
		result.NotchEnd = res.NotchEnd
		result.RawPower = res.RawPower
		result.FilteredPower = res.FilteredPower
		result.PowerRemoved = res.PowerRemoved
		result.SpectralNoise = opts.CalibratedNoise
		result.SpectralSnr = 1.0
	default:
		res := adaptive.Perform(power, adaptive.Params{
			MaxClutterVel:   opts.MaxClutterVel,
			InitNotchWidth:  opts.InitNotchWidth,
			Nyquist:         opts.Nyquist,
			CalibratedNoise: opts.CalibratedNoise,
			SetNotchToNoise: opts.SetNotchToNoise,
			Thresholds:      opts.Thresholds,
		}, out)

		result.Adaptive = res
		result.ClutterFound = res.ClutterFound
		result.NotchStart = res.NotchStart
		result.NotchEnd = res.NotchEnd
		result.RawPower = res.RawPower
		result.FilteredPower = res.FilteredPower
		result.PowerRemoved = res.PowerRemoved
		result.SpectralNoise = res.SpectralNoise
		result.ClutterPos = res.ClutterPos
		result.WeatherPos = res.WeatherPos

		if opts.CalibratedNoise > 0 {
			result.SpectralSnr = res.SpectralNoise / opts.CalibratedNoise
		}
	}

	// Undefined for an all-zero filtered spectrum.
	result.FilterRatio = 1.0
	if result.FilteredPower > 0 {
		result.FilterRatio = result.RawPower / result.FilteredPower
	}

	result.CorrectionRatio = 1.0
	if result.PowerRemoved > 0 {
		result.CorrectionRatio = residue.CorrectionRatio(residue.Params{
			Enabled:          opts.Residue.Enabled,
			MinSnrDb:         opts.Residue.MinSnrDb,
			DbForDb:          opts.Residue.DbForDb,
			DbForDbRatio:     opts.Residue.DbForDbRatio,
			DbForDbThreshold: opts.Residue.DbForDbThreshold,
		}, residue.Powers{
			Raw:             result.RawPower,
			Filtered:        result.FilteredPower,
			Removed:         result.PowerRemoved,
			CalibratedNoise: opts.CalibratedNoise,
			SpectralSnr:     result.SpectralSnr,
		})

		for i := range out {
			out[i] *= result.CorrectionRatio
		}
	}

	result.Power = out
	result.SpecRatio = make([]float64, n)

	for i := range out {
		ratio := 1.0
		if power[i] > 0 {
			ratio = min(math.Sqrt(out[i]/power[i]), 1.0)
		}

		result.SpecRatio[i] = ratio
	}

	if opts.Logger != nil {
		opts.Logger.LogAttrs(context.Background(), slog.LevelDebug, "clutfilt.Filter",
			slog.String("method", opts.Method.String()),
			slog.Int("bins", n),
			slog.Bool("clutter found", result.ClutterFound),
			slog.Int("clutter pos", result.ClutterPos),
			slog.Int("weather pos", result.WeatherPos),
			slog.Int("notch start", result.NotchStart),
			slog.Int("notch end", result.NotchEnd),
			slog.Float64("filter ratio", result.FilterRatio),
		)
	}

	return result, nil
}

// FilterStaggered filters the short-PRT and long-PRT half spectra of a staggered PRT dwell
// separately. Each half is filtered at nyquist/(m+n), where m/n is the short/long PRT ratio
// and opts.Nyquist is the unambiguous velocity of the combined sequence. The adaptive notch
// is replaced by the calibrated noise. Diagnostics are averaged over the two halves.
func FilterStaggered(short, long []complex128, opts Options, m, n int) (*StaggeredResult, error) {
	if len(short) == 0 || len(long) == 0 {
		return nil, ErrEmptySpectrum
	}

	if m <= 0 || n <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidStagger, m, n)
	}

	half := opts
	half.Nyquist = opts.Nyquist / float64(m+n)
	half.SetNotchToNoise = true

	shortResult, err := Filter(short, half)
	if err != nil {
		return nil, fmt.Errorf("short prt: %w", err)
	}

	longResult, err := Filter(long, half)
	if err != nil {
		return nil, fmt.Errorf("long prt: %w", err)
	}

	return &StaggeredResult{
		Short:         shortResult,
		Long:          longResult,
		FilterNyquist: half.Nyquist,
		FilterRatio:   (shortResult.FilterRatio + longResult.FilterRatio) / 2,
		SpectralNoise: (shortResult.SpectralNoise + longResult.SpectralNoise) / 2,
		SpectralSnr:   (shortResult.SpectralSnr + longResult.SpectralSnr) / 2,
	}, nil
}

// FillNotch fills a fixed-width notch around DC in a complex spectrum from a Gaussian fit,
// keeping every bin's phase. maxNotchWidth is the total notch width in bins.
func FillNotch(spectrum []complex128, maxNotchWidth int) (*FillResult, error) {
	if len(spectrum) == 0 {
		return nil, ErrEmptySpectrum
	}

	out := make([]complex128, len(spectrum))
	details := gfill.Fill(spectrum, maxNotchWidth, out)

	return &FillResult{Spectrum: out, Details: details}, nil
}

// EstimateNoise runs every noise estimator on a power spectrum.
func EstimateNoise(power []float64) (NoiseEstimates, error) {
	if len(power) == 0 {
		return NoiseEstimates{}, ErrEmptySpectrum
	}

	stats := spectral.Stats(power)
	regionMean, regionSdev := spectral.NoiseByRegionPartition(power)

	return types.NoiseEstimates{
		Block:       stats.MinOther,
		BlockMax:    stats.MaxOther,
		RegionMean:  regionMean,
		RegionSdev:  regionSdev,
		Section:     spectral.NoiseBySectionPartition(power),
		MeanPower:   spectral.MeanPower(power),
		SampleCount: len(power),
	}, nil
}
