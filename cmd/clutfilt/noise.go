//nolint:wrapcheck
package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/clutfilt"
	"github.com/farcloser/clutfilt/internal/spectrumio"
)

func noiseCommand() *cli.Command {
	return &cli.Command{
		Name:      "noise",
		Usage:     "Estimate the noise floor of a Doppler spectrum with every estimator",
		ArgsUsage: "<file|->",
		Flags: []cli.Flag{
			formatFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errSpectrumArgs, cmd.NArg())
			}

			path := cmd.Args().First()

			doc, err := spectrumio.ReadFile(path)
			if err != nil {
				return err
			}

			noise, err := clutfilt.EstimateNoise(doc.PowerSpectrum())
			if err != nil {
				return fmt.Errorf("estimating noise for %s: %w", path, err)
			}

			return outputNoise(path, noise, doc.CalibratedNoise, cmd.String("format"))
		},
	}
}
