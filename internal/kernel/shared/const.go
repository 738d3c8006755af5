package shared

const (
	NumBlocks     = 8      // DC-straddling blocks used by the locator and the block noise estimator
	FitIterations = 3      // refinement passes for the adaptive notch and the notch filler
	VarianceFloor = 0.0001 // lower bound on the Gaussian fit variance, in bins^2
)

// Wrap maps any bin index onto [0, n).
func Wrap(index, n int) int {
	return ((index % n) + n) % n
}

// VelocityToBins converts a velocity (m/s) to a bin count for a spectrum of n bins
// spanning +/- nyquist, clamped to [1, n/2 - 1].
func VelocityToBins(velocity, nyquist float64, n int) int {
	upper := max(n/2-1, 1)

	if nyquist <= 0 {
		return 1
	}

	bins := int(velocity/nyquist*float64(n)/2.0 + 0.5)

	return min(max(bins, 1), upper)
}
