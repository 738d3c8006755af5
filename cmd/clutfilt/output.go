//nolint:wrapcheck
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/farcloser/primordium/format"

	"github.com/farcloser/clutfilt"
	"github.com/farcloser/clutfilt/internal/output"
)

func printData(object string, meta map[string]any, formatName string) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	data := &format.Data{
		Object: object,
		Meta:   meta,
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}

func outputFilter(path string, result *clutfilt.Result, formatName string, debug bool) error {
	meta := output.ResultToMap(result, debug)
	meta["verdict"] = verdict(result)

	return printData(path, meta, formatName)
}

func verdict(result *clutfilt.Result) string {
	switch {
	case result.Method == clutfilt.MethodNotch:
		return fmt.Sprintf("fixed notch [%d, %d], %.1f dB removed",
			result.NotchStart, result.NotchEnd, output.PowerRemovedDb(result))
	case !result.ClutterFound:
		return "no clutter"
	default:
		return fmt.Sprintf("clutter at bin %d, weather at bin %d, notch [%d, %d], %.1f dB removed",
			result.ClutterPos, result.WeatherPos, result.NotchStart, result.NotchEnd, output.PowerRemovedDb(result))
	}
}

func outputFill(path string, result *clutfilt.FillResult, formatName string) error {
	return printData(path, output.FillToMap(result), formatName)
}

func outputNoise(path string, noise clutfilt.NoiseEstimates, calibrated float64, formatName string) error {
	meta := output.NoiseToMap(noise)

	if calibrated > 0 && noise.Section > 0 {
		meta["calibrated_noise"] = calibrated
		meta["section_to_calibrated_db"] = math.Round(10*math.Log10(noise.Section/calibrated)*100) / 100
	}

	return printData(path, meta, formatName)
}
