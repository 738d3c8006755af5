// Package synth builds synthetic radar time series and Doppler spectra for the simulate command and tests.
package synth

import (
	"math"
	"math/cmplx"
	"math/rand/v2"

	"gonum.org/v1/gonum/dsp/fourier"
)

// componentsPerEcho is the number of scatterers summed to give an echo its spectral width.
const componentsPerEcho = 48

// Echo is a Gaussian-shaped target in velocity space.
type Echo struct {
	Power    float64 // mean power, same units as Params.NoisePower
	Velocity float64 // m/s
	Width    float64 // spectrum width (standard deviation), m/s
}

// Params describes one synthetic dwell.
type Params struct {
	Samples    int
	Nyquist    float64 // m/s
	NoisePower float64
	Clutter    Echo // Velocity is normally 0
	Weather    Echo
	Window     bool // apply a Hann window before the FFT
	Seed       uint64
}

// DefaultParams returns a 64-pulse dwell with strong clutter and a moderate weather echo.
func DefaultParams() Params {
	return Params{
		Samples:    64,
		Nyquist:    10,
		NoisePower: 1,
		Clutter:    Echo{Power: 1000, Velocity: 0, Width: 0.1},
		Weather:    Echo{Power: 50, Velocity: 5, Width: 1},
		Window:     true,
		Seed:       1,
	}
}

// TimeSeries returns the IQ samples of clutter + weather + receiver noise.
func TimeSeries(params Params) []complex128 {
	rng := rand.New(rand.NewPCG(params.Seed, params.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // simulation, not crypto

	iq := make([]complex128, params.Samples)

	for _, echo := range []Echo{params.Clutter, params.Weather} {
		addEcho(iq, echo, params.Nyquist, rng)
	}

	sigma := math.Sqrt(params.NoisePower / 2)
	for i := range iq {
		iq[i] += complex(rng.NormFloat64()*sigma, rng.NormFloat64()*sigma)
	}

	return iq
}

// Spectrum returns the Doppler spectrum of the time series, bin 0 at zero velocity.
// It is scaled so that the mean bin power equals the mean time series power.
func Spectrum(params Params) []complex128 {
	iq := TimeSeries(params)
	n := len(iq)

	if n == 0 {
		return nil
	}

	if params.Window {
		window := hannWindow(n)
		for i := range iq {
			iq[i] *= complex(window[i], 0)
		}
	}

	spec := fourier.NewCmplxFFT(n).Coefficients(nil, iq)

	scale := complex(1/math.Sqrt(float64(n)), 0)
	for i := range spec {
		spec[i] *= scale
	}

	return spec
}

// BinForVelocity returns the spectrum bin holding the given velocity.
func BinForVelocity(velocity, nyquist float64, n int) int {
	bin := int(math.Round(velocity / nyquist * float64(n) / 2))

	return ((bin % n) + n) % n
}

func addEcho(iq []complex128, echo Echo, nyquist float64, rng *rand.Rand) {
	if echo.Power <= 0 || nyquist <= 0 {
		return
	}

	amplitude := math.Sqrt(echo.Power / componentsPerEcho)

	for range componentsPerEcho {
		velocity := echo.Velocity + rng.NormFloat64()*echo.Width
		// One bin is nyquist/(n/2) m/s, i.e. pi*v/nyquist radians per pulse.
		step := math.Pi * velocity / nyquist
		phase := rng.Float64() * 2 * math.Pi

		for i := range iq {
			iq[i] += cmplx.Rect(amplitude, phase+step*float64(i))
		}
	}
}

// hannWindow returns a Hann window normalized to unit mean power.
func hannWindow(size int) []float64 {
	window := make([]float64, size)
	if size == 1 {
		window[0] = 1

		return window
	}

	var sumSq float64

	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
		sumSq += window[i] * window[i]
	}

	norm := math.Sqrt(float64(size) / sumSq)
	for i := range window {
		window[i] *= norm
	}

	return window
}
