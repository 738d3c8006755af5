package spectral

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/farcloser/clutfilt/internal/kernel/shared"
)

// Block is a contiguous run of bins. Start may be negative; bins are read through shared.Wrap.
type Block struct {
	Start int
	Len   int
}

// BlockStats holds the per-block mean power of the DC-straddling partition.
type BlockStats struct {
	Blocks   [shared.NumBlocks]Block
	Means    [shared.NumBlocks]float64
	MinOther float64 // min over blocks 1..7
	MaxOther float64 // max over blocks 1..7
}

// Power returns |X[k]|^2 for each bin of a complex spectrum.
func Power(spectrum []complex128) []float64 {
	if len(spectrum) == 0 {
		return nil
	}

	re := make([]float64, len(spectrum))
	im := make([]float64, len(spectrum))

	for i, c := range spectrum {
		re[i] = real(c)
		im[i] = imag(c)
	}

	out := make([]float64, len(spectrum))
	vecmath.Power(out, re, im)

	return out
}

// MeanPower returns the arithmetic mean of the spectrum.
func MeanPower(power []float64) float64 {
	if len(power) == 0 {
		return 0
	}

	return floats.Sum(power) / float64(len(power))
}

// Partition splits n bins into 8 contiguous blocks, shifted by half a block so that
// block 0 straddles DC. Boundaries are b*n/8, so the block lengths always sum to n.
func Partition(n int) [shared.NumBlocks]Block {
	var blocks [shared.NumBlocks]Block

	half := (n / shared.NumBlocks) / 2

	for b := range shared.NumBlocks {
		lo := b*n/shared.NumBlocks - half
		hi := (b+1)*n/shared.NumBlocks - half
		blocks[b] = Block{Start: lo, Len: hi - lo}
	}

	return blocks
}

// Mean returns the mean power of the block, 0 when the block is empty.
func (b Block) Mean(power []float64) float64 {
	if b.Len == 0 {
		return 0
	}

	n := len(power)

	var sum float64
	for i := b.Start; i < b.Start+b.Len; i++ {
		sum += power[shared.Wrap(i, n)]
	}

	return sum / float64(b.Len)
}

// Stats computes block means over the DC-straddling partition.
// Empty blocks (n < 8) are left out of MinOther/MaxOther.
func Stats(power []float64) BlockStats {
	stats := BlockStats{
		Blocks:   Partition(len(power)),
		MinOther: math.Inf(1),
		MaxOther: math.Inf(-1),
	}

	for b, block := range stats.Blocks {
		stats.Means[b] = block.Mean(power)

		if b == 0 || block.Len == 0 {
			continue
		}

		stats.MinOther = min(stats.MinOther, stats.Means[b])
		stats.MaxOther = max(stats.MaxOther, stats.Means[b])
	}

	if math.IsInf(stats.MinOther, 1) {
		mean := MeanPower(power)
		stats.MinOther = mean
		stats.MaxOther = mean
	}

	return stats
}

// EstimateSpectralNoise returns the lowest mean of the 7 blocks that do not contain DC.
func EstimateSpectralNoise(power []float64) float64 {
	if len(power) == 0 {
		return 0
	}

	return Stats(power).MinOther
}

// NoiseByRegionPartition estimates noise on the spectrum re-centered on its strongest bin.
//
// Three regions are compared: 1/8 at each end combined, the lower 1/4 and the upper 1/4.
// Weather centered on the peak cannot cover both ends unless it is very wide, so the
// quietest region is taken as noise. Returns its mean and standard deviation.
func NoiseByRegionPartition(power []float64) (float64, float64) {
	n := len(power)
	if n == 0 {
		return 0, 0
	}

	offset := floats.MaxIdx(power) - n/2
	at := func(i int) float64 {
		return power[shared.Wrap(i+offset, n)]
	}

	nby4 := n / 4
	nby8 := n / 8

	if nby8 == 0 {
		var sum, sumSq float64
		for i := range n {
			sum += at(i)
			sumSq += at(i) * at(i)
		}

		return moments(sum, sumSq, n)
	}

	var sumBoth, sumSqBoth float64
	for i := range nby8 {
		lo, hi := at(i), at(n-nby8+i)
		sumBoth += lo + hi
		sumSqBoth += lo*lo + hi*hi
	}

	var sumLower, sumSqLower, sumUpper, sumSqUpper float64
	for i := range nby4 {
		lo, hi := at(i), at(n-nby4+i)
		sumLower += lo
		sumSqLower += lo * lo
		sumUpper += hi
		sumSqUpper += hi * hi
	}

	meanBoth := sumBoth / float64(2*nby8)
	meanLower := sumLower / float64(nby4)
	meanUpper := sumUpper / float64(nby4)

	switch {
	case meanBoth < meanLower && meanBoth < meanUpper:
		return moments(sumBoth, sumSqBoth, 2*nby8)
	case meanLower < meanUpper:
		return moments(sumLower, sumSqLower, nby4)
	default:
		return moments(sumUpper, sumSqUpper, nby4)
	}
}

// NoiseBySectionPartition splits the spectrum into max(n/8, 8) contiguous sections,
// without re-centering, and returns the lowest section mean.
func NoiseBySectionPartition(power []float64) float64 {
	n := len(power)
	if n == 0 {
		return 0
	}

	sections := min(max(n/8, 8), n)
	noise := math.Inf(1)

	for s := range sections {
		lo := s * n / sections
		hi := (s + 1) * n / sections
		noise = min(noise, floats.Sum(power[lo:hi])/float64(hi-lo))
	}

	return noise
}

func moments(sum, sumSq float64, count int) (float64, float64) {
	mean := sum / float64(count)

	sdev := 0.0
	if diff := sumSq/float64(count) - mean*mean; diff > 0 {
		sdev = math.Sqrt(diff)
	}

	return mean, sdev
}
