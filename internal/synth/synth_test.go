package synth_test

import (
	"math/cmplx"
	"testing"

	"github.com/farcloser/clutfilt/internal/synth"
)

func peak(spec []complex128, from, to int) int {
	best := from
	for i := from; i < to; i++ {
		if cmplx.Abs(spec[i]) > cmplx.Abs(spec[best]) {
			best = i
		}
	}

	return best
}

func TestSpectrumNoiseLevel(t *testing.T) {
	params := synth.Params{Samples: 1024, Nyquist: 10, NoisePower: 2, Seed: 7}

	spec := synth.Spectrum(params)

	var sum float64
	for _, c := range spec {
		sum += real(c)*real(c) + imag(c)*imag(c)
	}

	mean := sum / float64(len(spec))
	if mean < 1.7 || mean > 2.3 {
		t.Fatalf("mean noise power = %v, want about 2", mean)
	}
}

func TestSpectrumEchoPositions(t *testing.T) {
	params := synth.DefaultParams()
	spec := synth.Spectrum(params)

	if len(spec) != params.Samples {
		t.Fatalf("spectrum has %d bins, want %d", len(spec), params.Samples)
	}

	if got := peak(spec, 0, len(spec)); got != 0 {
		t.Errorf("strongest bin = %d, want clutter at DC", got)
	}

	want := synth.BinForVelocity(params.Weather.Velocity, params.Nyquist, params.Samples)
	got := peak(spec, 6, len(spec)-6)

	if got < want-7 || got > want+7 {
		t.Errorf("weather peak at bin %d, want near %d", got, want)
	}
}

func TestSpectrumDeterministic(t *testing.T) {
	a := synth.Spectrum(synth.DefaultParams())
	b := synth.Spectrum(synth.DefaultParams())

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("bin %d differs between runs with the same seed", i)
		}
	}
}

func TestBinForVelocity(t *testing.T) {
	tests := []struct {
		velocity float64
		want     int
	}{
		{0, 0},
		{5, 16},
		{-5, 48},
		{10, 32},
	}

	for _, tt := range tests {
		if got := synth.BinForVelocity(tt.velocity, 10, 64); got != tt.want {
			t.Errorf("BinForVelocity(%v) = %d, want %d", tt.velocity, got, tt.want)
		}
	}
}
