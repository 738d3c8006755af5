package tests_test

import (
	"fmt"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// scenarioSpectrum is a 64-bin power spectrum with clutter at DC (100), weather at bin 20 (10)
// and a noise floor of 1.
func scenarioSpectrum() string {
	bins := make([]string, 64)
	for i := range bins {
		bins[i] = "1"
	}

	bins[0] = "100"
	bins[20] = "10"

	return fmt.Sprintf(`{"gate": 7, "nyquist": 10, "calibrated_noise": 1, "power": [%s]}`, strings.Join(bins, ", "))
}

// expectClutter returns a comparator verifying whether clutter was reported.
func expectClutter(found bool) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		expected := fmt.Sprintf("clutter_found: %v", found)

		if !strings.Contains(stdout, expected) {
			testing.Log(fmt.Sprintf("expected %q not found in output:\n%s", expected, stdout))
			testing.Fail()
		}
	}
}

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectNotContains returns a comparator verifying the output does not contain a substring.
func expectNotContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("unexpected substring %q found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}
