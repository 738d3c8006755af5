//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/clutfilt"
	"github.com/farcloser/clutfilt/internal/spectrumio"
)

var errNotComplex = errors.New("notch fill needs a complex spectrum (re/im)")

func fillCommand() *cli.Command {
	return &cli.Command{
		Name:      "fill",
		Usage:     "Fill a fixed notch around zero velocity from a Gaussian fit, keeping phases",
		ArgsUsage: "<file|->",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "max-notch-width",
				Aliases: []string{"w"},
				Usage:   "Total notch width in bins",
				Value:   7,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the filled spectrum document to this path (- for stdout)",
			},
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

			if !doc.IsComplex() {
				return fmt.Errorf("%s: %w", path, errNotComplex)
			}

			result, err := clutfilt.FillNotch(doc.Spectrum(), cmd.Int("max-notch-width"))
			if err != nil {
				return fmt.Errorf("filling %s: %w", path, err)
			}

			if out := cmd.String("output"); out != "" {
				filled := *doc
				filled.SetSpectrum(result.Spectrum)

				if err := spectrumio.WriteFile(out, &filled); err != nil {
					return fmt.Errorf("writing %s: %w", out, err)
				}

				if out == "-" {
					return nil
				}
			}

			return outputFill(path, result, cmd.String("format"))
		},
	}
}
