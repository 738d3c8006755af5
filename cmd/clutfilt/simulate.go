//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/clutfilt/internal/spectrumio"
	"github.com/farcloser/clutfilt/internal/synth"
)

var errSimulateArgs = errors.New("samples, gates and nyquist must be positive")

func simulateCommand() *cli.Command {
	defaults := synth.DefaultParams()

	return &cli.Command{
		Name:  "simulate",
		Usage: "Synthesize Doppler spectra with clutter, weather and receiver noise",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "samples", Aliases: []string{"n"}, Usage: "Pulses per dwell", Value: defaults.Samples},
			&cli.IntFlag{Name: "gates", Usage: "Number of gates; more than one writes JSONL", Value: 1},
			&cli.FloatFlag{Name: "nyquist", Usage: "Nyquist velocity, m/s", Value: defaults.Nyquist},
			&cli.FloatFlag{Name: "noise", Usage: "Receiver noise power", Value: defaults.NoisePower},
			&cli.FloatFlag{Name: "clutter-power", Usage: "Clutter power", Value: defaults.Clutter.Power},
			&cli.FloatFlag{Name: "clutter-vel", Usage: "Clutter velocity, m/s", Value: defaults.Clutter.Velocity},
			&cli.FloatFlag{Name: "clutter-width", Usage: "Clutter spectrum width, m/s", Value: defaults.Clutter.Width},
			&cli.FloatFlag{Name: "weather-power", Usage: "Weather power", Value: defaults.Weather.Power},
			&cli.FloatFlag{Name: "weather-vel", Usage: "Weather velocity, m/s", Value: defaults.Weather.Velocity},
			&cli.FloatFlag{Name: "weather-width", Usage: "Weather spectrum width, m/s", Value: defaults.Weather.Width},
			&cli.BoolFlag{Name: "no-window", Usage: "Skip the Hann window"},
			&cli.IntFlag{Name: "seed", Usage: "Random seed; gate i uses seed+i", Value: int(defaults.Seed)},
			&cli.BoolFlag{Name: "power", Usage: "Write power spectra instead of complex spectra"},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path (- for stdout)",
				Value:   "-",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			params := synth.Params{
				Samples:    cmd.Int("samples"),
				Nyquist:    cmd.Float("nyquist"),
				NoisePower: cmd.Float("noise"),
				Clutter: synth.Echo{
					Power:    cmd.Float("clutter-power"),
					Velocity: cmd.Float("clutter-vel"),
					Width:    cmd.Float("clutter-width"),
				},
				Weather: synth.Echo{
					Power:    cmd.Float("weather-power"),
					Velocity: cmd.Float("weather-vel"),
					Width:    cmd.Float("weather-width"),
				},
				Window: !cmd.Bool("no-window"),
			}

			gates := cmd.Int("gates")

			if params.Samples <= 0 || gates <= 0 || params.Nyquist <= 0 {
				return errSimulateArgs
			}

			docs := make([]*spectrumio.Document, gates)

			for gate := range gates {
				params.Seed = uint64(cmd.Int("seed") + gate) //nolint:gosec // seeds are small user values

				doc := &spectrumio.Document{
					Gate:            gate,
					Nyquist:         params.Nyquist,
					CalibratedNoise: params.NoisePower,
				}

				spec := synth.Spectrum(params)
				doc.SetSpectrum(spec)

				if cmd.Bool("power") {
					doc.Power = doc.PowerSpectrum()
					doc.Re, doc.Im = nil, nil
				}

				docs[gate] = doc
			}

			out := cmd.String("output")
			if gates == 1 {
				if err := spectrumio.WriteFile(out, docs[0]); err != nil {
					return fmt.Errorf("writing %s: %w", out, err)
				}

				return nil
			}

			if err := spectrumio.WriteLines(out, docs); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}

			return nil
		},
	}
}
