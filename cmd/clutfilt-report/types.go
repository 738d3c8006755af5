//nolint:tagliatelle
package main

// Record is a single line in the JSONL report file.
type Record struct {
	Line      int            `json:"line"`
	Gate      int            `json:"gate"`
	Azimuth   float64        `json:"azimuth,omitempty"`
	Elevation float64        `json:"elevation,omitempty"`
	Bins      int            `json:"bins,omitempty"`
	Analysis  map[string]any `json:"analysis,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timing    *RecordTiming  `json:"timing,omitempty"`
}

// RecordTiming captures per-gate processing durations in milliseconds.
type RecordTiming struct {
	FilterMs float64 `json:"filter_ms"`
}

// digestRecord holds the typed fields needed by the digest command.
type digestRecord struct {
	Line     int             `json:"line"`
	Gate     int             `json:"gate"`
	Bins     int             `json:"bins,omitempty"`
	Analysis *digestAnalysis `json:"analysis,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type digestAnalysis struct {
	Summary      digestSummary `json:"summary"`
	PowerRemoved float64       `json:"power_removed"`
	SpectralSnr  float64       `json:"spectral_snr"`
	FilterRatio  float64       `json:"filter_ratio"`
	WeatherPos   int           `json:"weather_pos"`
	ClutterPos   int           `json:"clutter_pos"`
}

type digestSummary struct {
	Method         string  `json:"method"`
	ClutterFound   bool    `json:"clutter_found"`
	NotchWidth     int     `json:"notch_width"`
	PowerRemovedDb float64 `json:"power_removed_db"`
}
