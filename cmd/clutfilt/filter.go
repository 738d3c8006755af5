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

var errSpectrumArgs = errors.New("expected exactly one argument: spectrum file path (or - for stdin)")

func filterCommand() *cli.Command {
	return &cli.Command{
		Name:      "filter",
		Usage:     "Remove ground clutter from a Doppler spectrum",
		ArgsUsage: "<file|->",
		Flags: append(filterFlags(),
			formatFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the filtered spectrum document to this path (- for stdout)",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"D"},
				Usage:   "Include the filtered power spectrum and per-bin ratios in output",
			},
		),
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errSpectrumArgs, cmd.NArg())
			}

			path := cmd.Args().First()

			doc, err := spectrumio.ReadFile(path)
			if err != nil {
				return err
			}

			opts, err := buildOptions(cmd, doc)
			if err != nil {
				return err
			}

			result, err := filterDocument(doc, opts)
			if err != nil {
				return fmt.Errorf("filtering %s: %w", path, err)
			}

			if out := cmd.String("output"); out != "" {
				filtered := *doc
				if doc.IsComplex() {
					filtered.SetSpectrum(result.Spectrum)
				} else {
					filtered.Power = result.Power
				}

				if err := spectrumio.WriteFile(out, &filtered); err != nil {
					return fmt.Errorf("writing %s: %w", out, err)
				}

				// Keep stdout for the document.
				if out == "-" {
					return nil
				}
			}

			return outputFilter(path, result, cmd.String("format"), cmd.Bool("debug"))
		},
	}
}

// filterDocument filters the complex spectrum when the document carries one, its power otherwise.
func filterDocument(doc *spectrumio.Document, opts clutfilt.Options) (*clutfilt.Result, error) {
	if doc.IsComplex() {
		return clutfilt.Filter(doc.Spectrum(), opts)
	}

	return clutfilt.FilterPower(doc.Power, opts)
}
