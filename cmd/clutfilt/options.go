//nolint:wrapcheck
package main

import (
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/clutfilt"
	"github.com/farcloser/clutfilt/internal/config"
	"github.com/farcloser/clutfilt/internal/spectrumio"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: console, json, markdown",
		Value:   "console",
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "method",
			Aliases: []string{"m"},
			Usage:   "Clutter filter: adaptive, notch",
			Value:   "adaptive",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML parameter file; flags override its values",
		},
		&cli.FloatFlag{
			Name:  "nyquist",
			Usage: "Nyquist velocity in m/s (default: from the spectrum document)",
		},
		&cli.FloatFlag{
			Name:  "calibrated-noise",
			Usage: "Calibrated receiver noise power (default: from the spectrum document)",
		},
		&cli.FloatFlag{
			Name:  "max-clutter-vel",
			Usage: "Clutter peak search half-width, m/s",
			Value: 1.0,
		},
		&cli.FloatFlag{
			Name:  "init-notch-width",
			Usage: "Initial notch half-width, m/s",
			Value: 1.5,
		},
		&cli.FloatFlag{
			Name:  "notch-width",
			Usage: "Total width of the fixed notch, m/s",
			Value: 3.0,
		},
		&cli.BoolFlag{
			Name:  "set-notch-to-noise",
			Usage: "Replace the adaptive notch with the calibrated noise instead of the Gaussian fit",
		},
		&cli.FloatFlag{
			Name:  "clutter-ratio",
			Usage: "Clutter detection threshold",
			Value: 0.5,
		},
		&cli.FloatFlag{
			Name:  "match-ratio",
			Usage: "Notch edge match threshold",
			Value: 10.0,
		},
		&cli.FloatFlag{
			Name:  "valley-ratio",
			Usage: "Bimodal valley threshold",
			Value: 5.0,
		},
		&cli.BoolFlag{
			Name:  "residue",
			Usage: "Apply the clutter residue correction",
		},
		&cli.FloatFlag{
			Name:  "residue-min-snr",
			Usage: "Raw SNR (dB) below which no residue correction is made",
			Value: 80,
		},
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "Log filter diagnostics for every spectrum to stderr",
		},
	}
}

// buildOptions layers defaults, the parameter file, the spectrum document header and the
// explicitly set flags, in that order.
func buildOptions(cmd *cli.Command, doc *spectrumio.Document) (clutfilt.Options, error) {
	opts := clutfilt.DefaultOptions()

	if path := cmd.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return opts, err
		}

		if err := cfg.Apply(&opts); err != nil {
			return opts, err
		}
	}

	if doc != nil {
		if doc.Nyquist > 0 {
			opts.Nyquist = doc.Nyquist
		}

		if doc.CalibratedNoise > 0 {
			opts.CalibratedNoise = doc.CalibratedNoise
		}
	}

	if cmd.IsSet("method") {
		method, err := clutfilt.ParseMethod(cmd.String("method"))
		if err != nil {
			return opts, err
		}

		opts.Method = method
	}

	floats := map[string]*float64{
		"nyquist":          &opts.Nyquist,
		"calibrated-noise": &opts.CalibratedNoise,
		"max-clutter-vel":  &opts.MaxClutterVel,
		"init-notch-width": &opts.InitNotchWidth,
		"notch-width":      &opts.NotchWidth,
		"clutter-ratio":    &opts.Thresholds.ClutterRatio,
		"match-ratio":      &opts.Thresholds.MatchRatio,
		"valley-ratio":     &opts.Thresholds.ValleyRatio,
		"residue-min-snr":  &opts.Residue.MinSnrDb,
	}

	for name, dst := range floats {
		if cmd.IsSet(name) {
			*dst = cmd.Float(name)
		}
	}

	if cmd.IsSet("set-notch-to-noise") {
		opts.SetNotchToNoise = cmd.Bool("set-notch-to-noise")
	}

	if cmd.IsSet("residue") {
		opts.Residue.Enabled = cmd.Bool("residue")
	}

	if cmd.Bool("trace") {
		slog.SetLogLoggerLevel(slog.LevelDebug)

		logger := slog.Default()
		if doc != nil {
			logger = logger.With("gate", doc.Gate, "az", doc.Azimuth, "el", doc.Elevation)
		}

		opts.Logger = logger
	}

	return opts, nil
}
