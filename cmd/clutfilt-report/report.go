//nolint:wrapcheck
package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/clutfilt"
	"github.com/farcloser/clutfilt/internal/config"
	"github.com/farcloser/clutfilt/internal/output"
	"github.com/farcloser/clutfilt/internal/spectrumio"
)

const defaultOutputFile = "clutfilt-report.jsonl"

var (
	errReportArgs = errors.New("expected exactly one argument: gates JSONL file")
	errNoGates    = errors.New("no gate spectra found")
)

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Filter every gate spectrum of a JSONL file and write a clutter report",
		ArgsUsage: "<gates.jsonl>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML parameter file",
			},
			&cli.StringFlag{
				Name:    "method",
				Aliases: []string{"m"},
				Usage:   "Clutter filter for all gates: adaptive, notch (default: from the parameter file, else adaptive)",
			},
			&cli.BoolFlag{
				Name:  "residue",
				Usage: "Apply the clutter residue correction",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Report path; a gzip copy is written next to it",
				Value:   defaultOutputFile,
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Number of concurrent workers",
				Value:   runtime.NumCPU(),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errReportArgs
			}

			opts := clutfilt.DefaultOptions()

			if path := cmd.String("config"); path != "" {
				cfg, err := config.Load(path)
				if err != nil {
					return err
				}

				if err := cfg.Apply(&opts); err != nil {
					return err
				}
			}

			if cmd.IsSet("method") {
				method, err := clutfilt.ParseMethod(cmd.String("method"))
				if err != nil {
					return err
				}

				opts.Method = method
			}

			if cmd.IsSet("residue") {
				opts.Residue.Enabled = cmd.Bool("residue")
			}

			workers := max(cmd.Int("workers"), 1)

			return runReport(ctx, cmd.Args().First(), cmd.String("output"), opts, workers)
		},
	}
}

func runReport(ctx context.Context, gatesPath, outputFile string, opts clutfilt.Options, workers int) error {
	lines, err := spectrumio.ReadLines(gatesPath)
	if err != nil {
		return err
	}

	if len(lines) == 0 {
		return fmt.Errorf("%q: %w", gatesPath, errNoGates)
	}

	fmt.Fprintf(os.Stderr, "Found %d gates to filter (%d workers)\n", len(lines), workers)

	// Process gates concurrently.
	startTime := time.Now()
	results := make([]Record, len(lines))

	var progress atomic.Int64

	sem := make(chan struct{}, workers)

	var waitGroup sync.WaitGroup

	for idx, line := range lines {
		waitGroup.Add(1)

		go func(idx int, line spectrumio.Line) {
			defer waitGroup.Done()

			sem <- struct{}{}

			defer func() { <-sem }()

			if ctx.Err() != nil {
				results[idx] = Record{Line: line.Number, Error: ctx.Err().Error()}

				return
			}

			results[idx] = processGate(line, opts)

			done := progress.Add(1)
			if done%1000 == 0 || int(done) == len(lines) {
				fmt.Fprintf(os.Stderr, "[%d/%d]\n", done, len(lines))
			}
		}(idx, line)
	}

	waitGroup.Wait()

	// Write results in input order.
	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	failed := 0

	var totalFilter time.Duration

	for idx := range results {
		record := &results[idx]

		if record.Error != "" {
			failed++
		}

		if record.Timing != nil {
			totalFilter += millisToDuration(record.Timing.FilterMs)
		}

		if err := enc.Encode(record); err != nil {
			slog.Error("writing record", "line", record.Line, "error", err)
		}
	}

	out.Close()

	// Compress.
	if err := compressFile(outputFile); err != nil {
		slog.Error("compressing report", "error", err)
	}

	elapsed := time.Since(startTime)

	fmt.Fprintf(os.Stderr, "\nDone: %d gates in %s (%d failed)\n", len(lines), elapsed.Truncate(time.Millisecond), failed)
	fmt.Fprintf(os.Stderr, "Report written to %s (and %s.gz)\n", outputFile, outputFile)

	if filtered := len(lines) - failed; filtered > 0 {
		fmt.Fprintf(os.Stderr, "  filter:      %s (cumulative)\n", totalFilter.Truncate(time.Microsecond))
		fmt.Fprintf(os.Stderr, "  avg/gate:    %s\n", totalFilter/time.Duration(filtered))
	}

	// Print digest summary.
	fmt.Fprintln(os.Stderr)

	return runDigest(outputFile)
}

func processGate(line spectrumio.Line, defaults clutfilt.Options) Record {
	if line.Err != nil {
		return Record{Line: line.Number, Error: fmt.Sprintf("decode failed: %v", line.Err)}
	}

	doc := line.Document
	record := Record{
		Line:      line.Number,
		Gate:      doc.Gate,
		Azimuth:   doc.Azimuth,
		Elevation: doc.Elevation,
	}

	opts := defaults
	if doc.Nyquist > 0 {
		opts.Nyquist = doc.Nyquist
	}

	if doc.CalibratedNoise > 0 {
		opts.CalibratedNoise = doc.CalibratedNoise
	}

	filterStart := time.Now()

	var (
		result *clutfilt.Result
		err    error
	)

	if doc.IsComplex() {
		record.Bins = len(doc.Re)
		result, err = clutfilt.Filter(doc.Spectrum(), opts)
	} else {
		record.Bins = len(doc.Power)
		result, err = clutfilt.FilterPower(doc.Power, opts)
	}

	record.Timing = &RecordTiming{FilterMs: durationMs(time.Since(filterStart))}

	if err != nil {
		record.Error = fmt.Sprintf("filter failed: %v", err)

		return record
	}

	record.Analysis = output.ResultToMap(result, false)

	return record
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

func millisToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func compressFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // reading our own output file
	if err != nil {
		return err
	}

	gzFile, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer gzFile.Close()

	gzWriter := gzip.NewWriter(gzFile)

	if _, err := gzWriter.Write(data); err != nil {
		return err
	}

	return gzWriter.Close()
}
