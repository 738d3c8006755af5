package spectral_test

import (
	"math"
	"testing"

	"github.com/farcloser/clutfilt/internal/kernel/shared"
	"github.com/farcloser/clutfilt/internal/kernel/spectral"
)

func flat(n int, value float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}

	return out
}

func TestMeanPower(t *testing.T) {
	if got := spectral.MeanPower(nil); got != 0 {
		t.Fatalf("MeanPower(nil) = %v, want 0", got)
	}

	if got := spectral.MeanPower([]float64{1, 2, 3, 6}); got != 3 {
		t.Fatalf("MeanPower = %v, want 3", got)
	}
}

func TestPartitionCoversEveryBinOnce(t *testing.T) {
	for n := 1; n <= 257; n++ {
		blocks := spectral.Partition(n)
		seen := make([]int, n)
		total := 0

		for _, block := range blocks {
			total += block.Len
			for i := block.Start; i < block.Start+block.Len; i++ {
				seen[shared.Wrap(i, n)]++
			}
		}

		if total != n {
			t.Fatalf("n=%d: block lengths sum to %d", n, total)
		}

		for i, count := range seen {
			if count != 1 {
				t.Fatalf("n=%d: bin %d touched %d times", n, i, count)
			}
		}
	}
}

func TestPartitionBlockZeroStraddlesDC(t *testing.T) {
	blocks := spectral.Partition(64)
	if blocks[0].Start != -4 || blocks[0].Len != 8 {
		t.Fatalf("block 0 = %+v, want start -4 len 8", blocks[0])
	}

	if blocks[7].Start != 52 || blocks[7].Len != 8 {
		t.Fatalf("block 7 = %+v, want start 52 len 8", blocks[7])
	}
}

func TestEstimateSpectralNoiseFlat(t *testing.T) {
	if got := spectral.EstimateSpectralNoise(flat(32, 5.0)); got != 5.0 {
		t.Fatalf("EstimateSpectralNoise(flat 5) = %v, want exactly 5", got)
	}
}

func TestStatsTracksMinAndMaxOther(t *testing.T) {
	power := flat(64, 1.0)
	power[0] = 100
	power[20] = 10

	stats := spectral.Stats(power)

	if stats.MinOther != 1.0 {
		t.Errorf("MinOther = %v, want 1", stats.MinOther)
	}

	if want := 17.0 / 8.0; stats.MaxOther != want {
		t.Errorf("MaxOther = %v, want %v", stats.MaxOther, want)
	}

	if want := 107.0 / 8.0; stats.Means[0] != want {
		t.Errorf("block 0 mean = %v, want %v", stats.Means[0], want)
	}
}

func TestNoiseByRegionPartition(t *testing.T) {
	power := flat(32, 1.0)
	power[5] = 50
	power[6] = 20
	power[4] = 20

	mean, sdev := spectral.NoiseByRegionPartition(power)
	if mean != 1.0 {
		t.Errorf("mean = %v, want 1", mean)
	}

	if sdev != 0 {
		t.Errorf("sdev = %v, want 0", sdev)
	}
}

func TestNoiseByRegionPartitionPicksQuietestRegion(t *testing.T) {
	// Peak at 16 is already centered; the upper quarter carries a second echo.
	power := flat(32, 2.0)
	power[16] = 40
	for i := 25; i < 32; i++ {
		power[i] = 8
	}

	mean, _ := spectral.NoiseByRegionPartition(power)
	if mean != 2.0 {
		t.Fatalf("mean = %v, want the lower quarter mean 2", mean)
	}
}

func TestNoiseByRegionPartitionSmallSpectrum(t *testing.T) {
	mean, sdev := spectral.NoiseByRegionPartition([]float64{1, 3})
	if mean != 2 || sdev != 1 {
		t.Fatalf("got mean %v sdev %v, want 2 and 1", mean, sdev)
	}
}

func TestNoiseBySectionPartition(t *testing.T) {
	power := flat(64, 1.0)
	for i := 10; i < 18; i++ {
		power[i] = 9
	}

	if got := spectral.NoiseBySectionPartition(power); got != 1.0 {
		t.Fatalf("NoiseBySectionPartition = %v, want 1", got)
	}

	if got := spectral.NoiseBySectionPartition(flat(100, 3.0)); got != 3.0 {
		t.Fatalf("NoiseBySectionPartition(flat 3) = %v, want 3", got)
	}
}

func TestNoiseEstimatorsBoundedByMean(t *testing.T) {
	spectra := map[string][]float64{
		"single echo": func() []float64 {
			p := flat(64, 1.0)
			for i := 18; i < 23; i++ {
				p[i] = 30
			}

			return p
		}(),
		"clutter and echo": func() []float64 {
			p := flat(128, 0.5)
			p[0], p[1], p[127] = 400, 50, 50
			for i := 40; i < 50; i++ {
				p[i] = 12
			}

			return p
		}(),
		"ramp": func() []float64 {
			p := make([]float64, 48)
			for i := range p {
				p[i] = float64(i + 1)
			}

			return p
		}(),
	}

	for name, power := range spectra {
		t.Run(name, func(t *testing.T) {
			mean := spectral.MeanPower(power)

			if region, _ := spectral.NoiseByRegionPartition(power); region > mean {
				t.Errorf("region noise %v > mean %v", region, mean)
			}

			if section := spectral.NoiseBySectionPartition(power); section > mean {
				t.Errorf("section noise %v > mean %v", section, mean)
			}

			if block := spectral.EstimateSpectralNoise(power); block > mean || math.IsNaN(block) {
				t.Errorf("block noise %v > mean %v", block, mean)
			}
		})
	}
}

func TestPower(t *testing.T) {
	got := spectral.Power([]complex128{complex(3, 4), complex(0, -2), 0})
	want := []float64{25, 4, 0}

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("Power[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if spectral.Power(nil) != nil {
		t.Fatal("Power(nil) should be nil")
	}
}
