// Package config loads filter parameter files.
package config

import (
	"fmt"
	"os"

	"github.com/farcloser/primordium/fault"
	"gopkg.in/yaml.v3"

	"github.com/farcloser/clutfilt"
)

// Config is the YAML parameter file. Zero values leave the corresponding option untouched.
//
//	method: adaptive
//	nyquist: 25.6
//	calibrated_noise: 1.0e-9
//	adaptive:
//	  max_clutter_vel: 1.0
//	  init_notch_width: 1.5
//	  set_notch_to_noise: false
//	  thresholds: {clutter_ratio: 0.5, match_ratio: 10, valley_ratio: 5}
//	notch:
//	  width: 3.0
//	residue:
//	  enabled: true
//	  min_snr_db: 80
type Config struct {
	Method          string   `yaml:"method"`
	Nyquist         float64  `yaml:"nyquist"`
	CalibratedNoise float64  `yaml:"calibrated_noise"`
	Adaptive        Adaptive `yaml:"adaptive"`
	Notch           Notch    `yaml:"notch"`
	Residue         Residue  `yaml:"residue"`
}

type Adaptive struct {
	MaxClutterVel   float64    `yaml:"max_clutter_vel"`
	InitNotchWidth  float64    `yaml:"init_notch_width"`
	SetNotchToNoise bool       `yaml:"set_notch_to_noise"`
	Thresholds      Thresholds `yaml:"thresholds"`
}

type Thresholds struct {
	ClutterRatio float64 `yaml:"clutter_ratio"`
	MatchRatio   float64 `yaml:"match_ratio"`
	ValleyRatio  float64 `yaml:"valley_ratio"`
}

type Notch struct {
	Width float64 `yaml:"width"`
}

type Residue struct {
	Enabled          bool    `yaml:"enabled"`
	MinSnrDb         float64 `yaml:"min_snr_db"`
	DbForDb          bool    `yaml:"db_for_db"`
	DbForDbRatio     float64 `yaml:"db_for_db_ratio"`
	DbForDbThreshold float64 `yaml:"db_for_db_threshold"`
}

// Load reads and parses a parameter file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified parameter files
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Apply overlays the non-zero settings of the file onto opts.
func (c *Config) Apply(opts *clutfilt.Options) error {
	if c.Method != "" {
		method, err := clutfilt.ParseMethod(c.Method)
		if err != nil {
			return err
		}

		opts.Method = method
	}

	setFloat(&opts.Nyquist, c.Nyquist)
	setFloat(&opts.CalibratedNoise, c.CalibratedNoise)

	setFloat(&opts.MaxClutterVel, c.Adaptive.MaxClutterVel)
	setFloat(&opts.InitNotchWidth, c.Adaptive.InitNotchWidth)
	opts.SetNotchToNoise = opts.SetNotchToNoise || c.Adaptive.SetNotchToNoise

	setFloat(&opts.Thresholds.ClutterRatio, c.Adaptive.Thresholds.ClutterRatio)
	setFloat(&opts.Thresholds.MatchRatio, c.Adaptive.Thresholds.MatchRatio)
	setFloat(&opts.Thresholds.ValleyRatio, c.Adaptive.Thresholds.ValleyRatio)

	setFloat(&opts.NotchWidth, c.Notch.Width)

	opts.Residue.Enabled = opts.Residue.Enabled || c.Residue.Enabled
	opts.Residue.DbForDb = opts.Residue.DbForDb || c.Residue.DbForDb
	setFloat(&opts.Residue.MinSnrDb, c.Residue.MinSnrDb)
	setFloat(&opts.Residue.DbForDbRatio, c.Residue.DbForDbRatio)
	setFloat(&opts.Residue.DbForDbThreshold, c.Residue.DbForDbThreshold)

	return nil
}

func setFloat(dst *float64, value float64) {
	if value != 0 {
		*dst = value
	}
}
