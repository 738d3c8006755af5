package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/clutfilt/version"
)

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:    version.Name(),
		Usage:   "Adaptive ground clutter filter for Doppler weather radar spectra",
		Version: version.Version() + " " + version.Commit(),
		Commands: []*cli.Command{
			filterCommand(),
			fillCommand(),
			noiseCommand(),
			simulateCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
