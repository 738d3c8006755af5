package clutfilt

import (
	"fmt"
	"log/slog"

	"github.com/farcloser/clutfilt/internal/types"
)

// Method selects the clutter filter.
type Method int

const (
	MethodAdaptive Method = iota // Gaussian-interpolated adaptive notch (default).
	MethodNotch                  // Fixed-width notch replaced by a flat power.
)

func (m Method) String() string {
	switch m {
	case MethodAdaptive:
		return "adaptive"
	case MethodNotch:
		return "notch"
	}

	return "unknown"
}

// ParseMethod converts a string to a Method value.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "adaptive", "":
		return MethodAdaptive, nil
	case "notch":
		return MethodNotch, nil
	default:
		return 0, fmt.Errorf("unknown method %q (valid: adaptive, notch)", s)
	}
}

// Thresholds are the tuned ratios of the adaptive filter. See DefaultOptions.
type Thresholds = types.Thresholds

// ResidueCorrection configures the clutter residue correction applied to the filtered spectrum.
type ResidueCorrection struct {
	Enabled  bool
	MinSnrDb float64 // raw SNR below which no correction is made (default: 80)

	// Legacy NEXRAD dB-for-dB correction.
	DbForDb          bool
	DbForDbRatio     float64
	DbForDbThreshold float64
}

// Options configures the filter. Velocities are in m/s.
type Options struct {
	Method Method

	Nyquist         float64 // required
	CalibratedNoise float64 // noise power at the digitizer, from calibration

	// Adaptive filter.
	MaxClutterVel   float64 // clutter peak search half-width (default: 1.0)
	InitNotchWidth  float64 // initial notch half-width (default: 1.5)
	SetNotchToNoise bool    // replace the final notch with CalibratedNoise instead of the fit
	Thresholds      Thresholds

	// Fixed notch filter.
	NotchWidth float64 // total notch width (default: 3.0)

	Residue ResidueCorrection

	// Logger receives debug records for each filtered spectrum. Nil disables tracing.
	// Attach gate/azimuth/elevation with Logger.With.
	Logger *slog.Logger
}

// DefaultOptions returns the operational defaults. Nyquist must still be set.
func DefaultOptions() Options {
	return Options{
		Method:         MethodAdaptive,
		MaxClutterVel:  1.0,
		InitNotchWidth: 1.5,
		NotchWidth:     3.0,
		Thresholds:     types.DefaultThresholds(),
		Residue: ResidueCorrection{
			MinSnrDb: 80,
		},
	}
}

func applyDefaults(opts *Options) {
	defaults := DefaultOptions()

	if opts.MaxClutterVel == 0 {
		opts.MaxClutterVel = defaults.MaxClutterVel
	}

	if opts.InitNotchWidth == 0 {
		opts.InitNotchWidth = defaults.InitNotchWidth
	}

	if opts.NotchWidth == 0 {
		opts.NotchWidth = defaults.NotchWidth
	}

	if opts.Thresholds.ClutterRatio == 0 {
		opts.Thresholds.ClutterRatio = defaults.Thresholds.ClutterRatio
	}

	if opts.Thresholds.MatchRatio == 0 {
		opts.Thresholds.MatchRatio = defaults.Thresholds.MatchRatio
	}

	if opts.Thresholds.ValleyRatio == 0 {
		opts.Thresholds.ValleyRatio = defaults.Thresholds.ValleyRatio
	}
}

// Result contains the filtered spectrum and its diagnostics.
type Result struct {
	Method       Method
	ClutterFound bool // always false for MethodNotch

	// Notch bounds, in [0, n). NotchEnd < NotchStart when the notch wraps DC.
	NotchStart int
	NotchEnd   int

	// Mean powers over the spectrum, before any residue correction.
	RawPower      float64
	FilteredPower float64
	PowerRemoved  float64

	SpectralNoise   float64 // section-partition noise (adaptive) or calibrated noise (notch)
	SpectralSnr     float64 // SpectralNoise / CalibratedNoise
	FilterRatio     float64 // RawPower / FilteredPower
	CorrectionRatio float64 // residue correction applied to the filtered power, 1 if none

	ClutterPos int
	WeatherPos int

	// Filtered power spectrum, residue correction applied.
	Power []float64
	// Filtered complex spectrum (Filter only): input scaled by SpecRatio.
	Spectrum []complex128
	// Per-bin magnitude ratio filtered/raw, at most 1.
	SpecRatio []float64

	// Raw kernel results (nil if the other method ran).
	Adaptive *types.AdaptiveResult
	Notch    *types.NotchResult
}

// StaggeredResult contains both halves of a staggered PRT dwell and their averaged diagnostics.
type StaggeredResult struct {
	Short *Result
	Long  *Result

	FilterNyquist float64 // nyquist used for each half

	// Means of the two halves.
	FilterRatio   float64
	SpectralNoise float64
	SpectralSnr   float64
}

// FillResult contains a notch-filled complex spectrum.
type FillResult struct {
	Spectrum []complex128
	Details  *types.FillResult
}

// NoiseEstimates gathers every noise estimator for one spectrum.
type NoiseEstimates = types.NoiseEstimates
