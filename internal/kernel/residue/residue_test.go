package residue_test

import (
	"math"
	"testing"

	"github.com/farcloser/clutfilt/internal/kernel/residue"
)

func TestCorrectionRatio(t *testing.T) {
	enabled := residue.Params{Enabled: true, MinSnrDb: 0}

	tests := []struct {
		name   string
		params residue.Params
		powers residue.Powers
		want   float64
	}{
		{
			name:   "disabled",
			params: residue.Params{},
			powers: residue.Powers{Raw: 1000, Filtered: 10, CalibratedNoise: 1, SpectralSnr: 2},
			want:   1,
		},
		{
			name:   "below minimum snr",
			params: residue.Params{Enabled: true, MinSnrDb: 80},
			powers: residue.Powers{Raw: 1000, Filtered: 10, CalibratedNoise: 1, SpectralSnr: 2},
			want:   1,
		},
		{
			name:   "weak clutter applies nothing",
			params: enabled,
			powers: residue.Powers{Raw: 12, Filtered: 10, CalibratedNoise: 1, SpectralSnr: 2},
			want:   1,
		},
		{
			name:   "strong clutter applies the full residue",
			params: enabled,
			powers: residue.Powers{Raw: 1000, Filtered: 10, CalibratedNoise: 1, SpectralSnr: 2},
			want:   0.5,
		},
		{
			name:   "midway interpolates in dB",
			params: enabled,
			// clutter-to-weather ratio of 9 dB applies half of the -3.01 dB residue.
			powers: residue.Powers{
				Raw:             10 + 10*math.Pow(10, 0.9),
				Filtered:        10,
				CalibratedNoise: 1,
				SpectralSnr:     2,
			},
			want: math.Pow(10, -0.5*10*math.Log10(2)/10),
		},
		{
			name:   "db for db",
			params: residue.Params{Enabled: true, DbForDb: true, DbForDbRatio: 0.5, DbForDbThreshold: 5},
			// 10 dB removed: 5 dB from the ratio plus 5 dB over the threshold.
			powers: residue.Powers{Raw: 100, Removed: 90, CalibratedNoise: 1},
			want:   0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := residue.CorrectionRatio(tt.params, tt.powers)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("CorrectionRatio = %v, want %v", got, tt.want)
			}
		})
	}
}
