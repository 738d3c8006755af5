package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v3"
)

func digestCommand() *cli.Command {
	return &cli.Command{
		Name:      "digest",
		Usage:     "Produce a summary digest from a clutfilt JSONL report",
		ArgsUsage: "<report.jsonl>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "top",
				Usage: "List the gates with the most power removed",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errors.New("expected exactly one argument: path to report.jsonl")
			}

			if err := runDigest(cmd.Args().First()); err != nil {
				return err
			}

			if top := cmd.Int("top"); top > 0 {
				records, err := readRecords(cmd.Args().First())
				if err != nil {
					return err
				}

				printTopGates(records, top)
			}

			return nil
		},
	}
}

func runDigest(reportPath string) error {
	records, err := readRecords(reportPath)
	if err != nil {
		return err
	}

	printDigest(records)

	return nil
}

func readRecords(path string) ([]digestRecord, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified report files
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer file.Close()

	var records []digestRecord

	scanner := bufio.NewScanner(file)

	const maxLineSize = 1024 * 1024 // 1MB
	scanner.Buffer(make([]byte, 0, maxLineSize), maxLineSize)

	for scanner.Scan() {
		var rec digestRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			records = append(records, digestRecord{Error: "parse error"})

			continue
		}

		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	return records, nil
}

// digestStats aggregates a report.
type digestStats struct {
	Total    int
	Failed   int
	Filtered int
	Clutter  int
	Methods  map[string]int
	Widths   map[int]int // notch width in bins -> gates

	MeanRemovedDb float64
	MaxRemovedDb  float64
}

func summarize(records []digestRecord) digestStats {
	stats := digestStats{
		Total:   len(records),
		Methods: map[string]int{},
		Widths:  map[int]int{},
	}

	var removedDb float64

	for _, rec := range records {
		if rec.Error != "" || rec.Analysis == nil {
			stats.Failed++

			continue
		}

		summary := rec.Analysis.Summary
		stats.Methods[summary.Method]++

		if summary.ClutterFound || summary.Method == "notch" {
			stats.Widths[summary.NotchWidth]++
		}

		if summary.ClutterFound {
			stats.Clutter++
		}

		removedDb += summary.PowerRemovedDb
		stats.MaxRemovedDb = max(stats.MaxRemovedDb, summary.PowerRemovedDb)
	}

	stats.Filtered = stats.Total - stats.Failed
	if stats.Filtered > 0 {
		stats.MeanRemovedDb = removedDb / float64(stats.Filtered)
	}

	return stats
}

func printDigest(records []digestRecord) {
	stats := summarize(records)

	fmt.Println("=== Clutfilt Report Digest ===")
	fmt.Println()
	fmt.Printf("Total gates:   %d\n", stats.Total)
	fmt.Printf("Failed:        %d\n", stats.Failed)
	fmt.Printf("Filtered:      %d\n", stats.Filtered)
	fmt.Printf("Clutter found: %d\n", stats.Clutter)
	fmt.Println()

	fmt.Println("--- Methods ---")

	names := make([]string, 0, len(stats.Methods))
	for name := range stats.Methods {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		fmt.Printf("  %-10s %d\n", name+":", stats.Methods[name])
	}

	fmt.Println()

	fmt.Println("--- Notch Width (bins) ---")

	sizes := make([]int, 0, len(stats.Widths))
	for width := range stats.Widths {
		sizes = append(sizes, width)
	}

	slices.Sort(sizes)

	for _, width := range sizes {
		fmt.Printf("  %3d:  %d gates\n", width, stats.Widths[width])
	}

	fmt.Println()

	fmt.Println("--- Power Removed ---")

	if stats.Filtered > 0 {
		fmt.Printf("  mean:  %.2f dB\n", stats.MeanRemovedDb)
		fmt.Printf("  max:   %.2f dB\n", stats.MaxRemovedDb)
	}
}

// topGates returns at most top successful records, most power removed first.
func topGates(records []digestRecord, top int) []digestRecord {
	var hits []digestRecord

	for _, rec := range records {
		if rec.Error == "" && rec.Analysis != nil {
			hits = append(hits, rec)
		}
	}

	slices.SortStableFunc(hits, func(a, b digestRecord) int {
		switch {
		case a.Analysis.Summary.PowerRemovedDb > b.Analysis.Summary.PowerRemovedDb:
			return -1
		case a.Analysis.Summary.PowerRemovedDb < b.Analysis.Summary.PowerRemovedDb:
			return 1
		default:
			return 0
		}
	})

	return hits[:min(max(top, 0), len(hits))]
}

func printTopGates(records []digestRecord, top int) {
	hits := topGates(records, top)

	fmt.Println()
	fmt.Printf("=== Top %d gates by power removed ===\n\n", len(hits))

	for _, rec := range hits {
		analysis := rec.Analysis
		fmt.Printf("  gate %d (line %d, %d bins)\n", rec.Gate, rec.Line, rec.Bins)
		fmt.Printf("    removed: %.2f dB  notch: %d bins  clutter: %v\n",
			analysis.Summary.PowerRemovedDb, analysis.Summary.NotchWidth, analysis.Summary.ClutterFound)
		fmt.Printf("    clutter bin: %d  weather bin: %d  spectral snr: %.3g\n",
			analysis.ClutterPos, analysis.WeatherPos, analysis.SpectralSnr)
		fmt.Println()
	}
}
