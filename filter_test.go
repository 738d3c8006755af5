package clutfilt_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"math/cmplx"
	"strings"
	"testing"

	"github.com/farcloser/clutfilt"
	"github.com/farcloser/clutfilt/internal/synth"
)

func scenario() []float64 {
	power := make([]float64, 64)
	for i := range power {
		power[i] = 1
	}

	power[0] = 100
	power[20] = 10

	return power
}

func scenarioOptions() clutfilt.Options {
	opts := clutfilt.DefaultOptions()
	opts.Nyquist = 10
	opts.MaxClutterVel = 2
	opts.InitNotchWidth = 1
	opts.CalibratedNoise = 1

	return opts
}

func TestFilterPowerAdaptive(t *testing.T) {
	result, err := clutfilt.FilterPower(scenario(), scenarioOptions())
	if err != nil {
		t.Fatal(err)
	}

	if result.Method != clutfilt.MethodAdaptive {
		t.Errorf("method = %v, want adaptive", result.Method)
	}

	if !result.ClutterFound || result.ClutterPos != 0 || result.WeatherPos != 20 {
		t.Fatalf("clutter found %v at %d, weather at %d", result.ClutterFound, result.ClutterPos, result.WeatherPos)
	}

	if math.Abs(result.Power[0]-1) > 0.1 {
		t.Errorf("filtered DC = %v, want ~1", result.Power[0])
	}

	if result.Power[20] != 10 {
		t.Errorf("weather bin = %v, want 10", result.Power[20])
	}

	if removed := result.PowerRemoved * 64; math.Abs(removed-99) > 1 {
		t.Errorf("total power removed = %v, want ~99", removed)
	}

	if result.CorrectionRatio != 1 {
		t.Errorf("correction ratio = %v with residue correction disabled", result.CorrectionRatio)
	}

	if result.SpectralSnr != 1 {
		t.Errorf("spectral snr = %v, want 1", result.SpectralSnr)
	}

	if result.FilterRatio <= 1 {
		t.Errorf("filter ratio = %v, want > 1", result.FilterRatio)
	}

	for i, ratio := range result.SpecRatio {
		if ratio > 1 || ratio < 0 {
			t.Fatalf("spec ratio[%d] = %v, outside [0, 1]", i, ratio)
		}
	}
}

func TestFilterPowerNotch(t *testing.T) {
	opts := scenarioOptions()
	opts.Method = clutfilt.MethodNotch

	result, err := clutfilt.FilterPower(scenario(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if result.Notch == nil || result.Adaptive != nil {
		t.Fatal("notch kernel result not reported")
	}

	// 3 m/s over 64 bins at 10 m/s nyquist: 5 bins each side.
	if result.NotchStart != 59 || result.NotchEnd != 5 {
		t.Errorf("notch = [%d, %d], want [59, 5]", result.NotchStart, result.NotchEnd)
	}

	if result.ClutterFound {
		t.Error("notch filter reported clutter detection")
	}

	if result.SpectralNoise != 1 || result.SpectralSnr != 1 {
		t.Errorf("spectral noise %v snr %v, want calibrated noise and 1", result.SpectralNoise, result.SpectralSnr)
	}

	if removed := result.PowerRemoved * 64; math.Abs(removed-99) > 1e-9 {
		t.Errorf("total power removed = %v, want 99", removed)
	}
}

func TestFilterPreservesPhase(t *testing.T) {
	power := scenario()
	spectrum := make([]complex128, len(power))

	for i, p := range power {
		spectrum[i] = cmplx.Rect(math.Sqrt(p), 0.1*float64(i))
	}

	result, err := clutfilt.Filter(spectrum, scenarioOptions())
	if err != nil {
		t.Fatal(err)
	}

	for i := range spectrum {
		in, out := spectrum[i], result.Spectrum[i]

		if cmplx.Abs(out) > cmplx.Abs(in)*(1+1e-12) {
			t.Fatalf("bin %d gained power: %v -> %v", i, in, out)
		}

		if cmplx.Abs(out) > 0 && math.Abs(cmplx.Phase(out*cmplx.Conj(in))) > 1e-9 {
			t.Fatalf("bin %d phase changed: %v -> %v", i, in, out)
		}
	}

	if cmplx.Abs(result.Spectrum[0]) > 1.1 {
		t.Errorf("clutter bin magnitude = %v, want ~1", cmplx.Abs(result.Spectrum[0]))
	}
}

func TestFilterSyntheticDwell(t *testing.T) {
	params := synth.DefaultParams()
	spectrum := synth.Spectrum(params)

	opts := clutfilt.DefaultOptions()
	opts.Nyquist = params.Nyquist
	opts.CalibratedNoise = params.NoisePower

	result, err := clutfilt.Filter(spectrum, opts)
	if err != nil {
		t.Fatal(err)
	}

	if !result.ClutterFound {
		t.Fatal("clutter not found in synthetic dwell")
	}

	if result.FilterRatio < 5 {
		t.Errorf("filter ratio = %v, want most of the clutter removed", result.FilterRatio)
	}

	want := synth.BinForVelocity(params.Weather.Velocity, params.Nyquist, params.Samples)
	if result.WeatherPos < want-7 || result.WeatherPos > want+7 {
		t.Errorf("weather pos = %d, want near %d", result.WeatherPos, want)
	}
}

func TestFilterErrors(t *testing.T) {
	if _, err := clutfilt.Filter(nil, scenarioOptions()); !errors.Is(err, clutfilt.ErrEmptySpectrum) {
		t.Errorf("empty spectrum: got %v", err)
	}

	opts := scenarioOptions()
	opts.Nyquist = 0

	if _, err := clutfilt.FilterPower(scenario(), opts); !errors.Is(err, clutfilt.ErrInvalidNyquist) {
		t.Errorf("zero nyquist: got %v", err)
	}

	opts.Nyquist = math.NaN()

	if _, err := clutfilt.FilterPower(scenario(), opts); !errors.Is(err, clutfilt.ErrInvalidNyquist) {
		t.Errorf("NaN nyquist: got %v", err)
	}

	if _, err := clutfilt.FillNotch(nil, 7); !errors.Is(err, clutfilt.ErrEmptySpectrum) {
		t.Errorf("fill empty: got %v", err)
	}

	if _, err := clutfilt.EstimateNoise(nil); !errors.Is(err, clutfilt.ErrEmptySpectrum) {
		t.Errorf("noise empty: got %v", err)
	}
}

func TestFilterLogger(t *testing.T) {
	var buf bytes.Buffer

	opts := scenarioOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With("gate", 12)

	if _, err := clutfilt.FilterPower(scenario(), opts); err != nil {
		t.Fatal(err)
	}

	line := buf.String()
	for _, want := range []string{"clutfilt.Filter", "gate=12", "method=adaptive"} {
		if !strings.Contains(line, want) {
			t.Errorf("trace %q missing %q", line, want)
		}
	}
}

func TestEstimateNoiseFlat(t *testing.T) {
	power := make([]float64, 32)
	for i := range power {
		power[i] = 5
	}

	noise, err := clutfilt.EstimateNoise(power)
	if err != nil {
		t.Fatal(err)
	}

	if noise.Block != 5 || noise.Section != 5 || noise.RegionMean != 5 || noise.MeanPower != 5 {
		t.Errorf("estimates = %+v, want 5 everywhere", noise)
	}

	if noise.RegionSdev != 0 || noise.SampleCount != 32 {
		t.Errorf("estimates = %+v", noise)
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    clutfilt.Method
		wantErr bool
	}{
		{"", clutfilt.MethodAdaptive, false},
		{"adaptive", clutfilt.MethodAdaptive, false},
		{"notch", clutfilt.MethodNotch, false},
		{"regression", 0, true},
	}

	for _, tt := range tests {
		got, err := clutfilt.ParseMethod(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMethod(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func toSpectrum(power []float64) []complex128 {
	spectrum := make([]complex128, len(power))
	for i, p := range power {
		spectrum[i] = cmplx.Rect(math.Sqrt(p), 0.3*float64(i))
	}

	return spectrum
}

func TestFilterStaggered(t *testing.T) {
	short := scenario()
	long := scenario()
	long[0] = 400

	opts := scenarioOptions()
	opts.Nyquist = 50

	result, err := clutfilt.FilterStaggered(toSpectrum(short), toSpectrum(long), opts, 2, 3)
	if err != nil {
		t.Fatal(err)
	}

	if result.FilterNyquist != 10 {
		t.Errorf("half nyquist = %v, want 10", result.FilterNyquist)
	}

	for name, half := range map[string]*clutfilt.Result{"short": result.Short, "long": result.Long} {
		if !half.ClutterFound || half.WeatherPos != 20 {
			t.Errorf("%s: clutter found %v, weather at %d", name, half.ClutterFound, half.WeatherPos)
		}

		// Notch replaced by the calibrated noise.
		if math.Abs(half.Power[0]-1) > 1e-12 || math.Abs(cmplx.Abs(half.Spectrum[0])-1) > 1e-9 {
			t.Errorf("%s: clutter bin power %v, magnitude %v, want 1", name, half.Power[0], cmplx.Abs(half.Spectrum[0]))
		}

		if half.Power[20] != 10 {
			t.Errorf("%s: weather bin = %v, want 10", name, half.Power[20])
		}
	}

	// 172 and 472 raw against 73 filtered, over 64 bins.
	if want := (172.0/73 + 472.0/73) / 2; math.Abs(result.FilterRatio-want) > 1e-9 {
		t.Errorf("filter ratio = %v, want %v", result.FilterRatio, want)
	}

	if want := (result.Short.SpectralNoise + result.Long.SpectralNoise) / 2; result.SpectralNoise != want {
		t.Errorf("spectral noise = %v, want mean %v", result.SpectralNoise, want)
	}

	if want := (result.Short.SpectralSnr + result.Long.SpectralSnr) / 2; result.SpectralSnr != want {
		t.Errorf("spectral snr = %v, want mean %v", result.SpectralSnr, want)
	}
}

func TestFilterStaggeredErrors(t *testing.T) {
	spectrum := toSpectrum(scenario())

	opts := scenarioOptions()

	if _, err := clutfilt.FilterStaggered(spectrum, spectrum, opts, 0, 3); !errors.Is(err, clutfilt.ErrInvalidStagger) {
		t.Errorf("zero m: got %v", err)
	}

	if _, err := clutfilt.FilterStaggered(nil, spectrum, opts, 2, 3); !errors.Is(err, clutfilt.ErrEmptySpectrum) {
		t.Errorf("empty short: got %v", err)
	}

	opts.Nyquist = 0

	if _, err := clutfilt.FilterStaggered(spectrum, spectrum, opts, 2, 3); !errors.Is(err, clutfilt.ErrInvalidNyquist) {
		t.Errorf("zero nyquist: got %v", err)
	}
}
