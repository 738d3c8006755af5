//nolint:tagliatelle
package spectrumio

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-vecmath"
	"github.com/farcloser/primordium/fault"
)

var (
	ErrNoSamples      = errors.New("document carries neither power nor re/im samples")
	ErrLengthMismatch = errors.New("re and im lengths differ")
)

// Document is one gate spectrum, bin 0 at zero velocity.
// Either Power, or Re and Im, are set.
type Document struct {
	Gate            int       `json:"gate"`
	Azimuth         float64   `json:"azimuth,omitempty"`
	Elevation       float64   `json:"elevation,omitempty"`
	Nyquist         float64   `json:"nyquist"`
	CalibratedNoise float64   `json:"calibrated_noise,omitempty"`
	Power           []float64 `json:"power,omitempty"`
	Re              []float64 `json:"re,omitempty"`
	Im              []float64 `json:"im,omitempty"`
}

// IsComplex reports whether the document carries a complex spectrum.
func (d *Document) IsComplex() bool {
	return len(d.Re) > 0
}

// Validate checks that the document holds a usable spectrum.
func (d *Document) Validate() error {
	if len(d.Re) != len(d.Im) {
		return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(d.Re), len(d.Im))
	}

	if len(d.Power) == 0 && len(d.Re) == 0 {
		return ErrNoSamples
	}

	return nil
}

// Spectrum returns the complex spectrum, or nil for a power-only document.
func (d *Document) Spectrum() []complex128 {
	if !d.IsComplex() {
		return nil
	}

	spec := make([]complex128, len(d.Re))
	for i := range spec {
		spec[i] = complex(d.Re[i], d.Im[i])
	}

	return spec
}

// SetSpectrum stores a complex spectrum, dropping any power samples.
func (d *Document) SetSpectrum(spec []complex128) {
	d.Power = nil
	d.Re = make([]float64, len(spec))
	d.Im = make([]float64, len(spec))

	for i, c := range spec {
		d.Re[i] = real(c)
		d.Im[i] = imag(c)
	}
}

// PowerSpectrum returns the power spectrum, computed from Re/Im when the document is complex.
func (d *Document) PowerSpectrum() []float64 {
	if !d.IsComplex() {
		return d.Power
	}

	n := min(len(d.Re), len(d.Im))
	power := make([]float64, n)
	vecmath.Power(power, d.Re[:n], d.Im[:n])

	return power
}

// Decode reads a single document.
func Decode(reader io.Reader) (*Document, error) {
	var doc Document

	if err := json.NewDecoder(reader).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &doc, nil
}

// ReadFile reads a single document from path, or from stdin if path is "-".
func ReadFile(path string) (*Document, error) {
	if path == "-" {
		return Decode(os.Stdin)
	}

	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified spectrum files
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	return Decode(file)
}

// WriteFile writes a single document to path, or to stdout if path is "-".
func WriteFile(path string, doc *Document) error {
	if path == "-" {
		return json.NewEncoder(os.Stdout).Encode(doc)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0o600)
}

// Line is one entry of a JSONL gate file. Err is set when the line could not be decoded.
type Line struct {
	Number   int
	Document *Document
	Err      error
}

const maxLineSize = 16 * 1024 * 1024

// ReadLines reads a JSONL file of documents. Lines that fail to decode are returned with Err
// set, so a batch can report them without aborting.
func ReadLines(path string) ([]Line, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified gate files
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	var lines []Line

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	number := 0

	for scanner.Scan() {
		number++

		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		line := Line{Number: number}

		var doc Document

		err := json.Unmarshal(raw, &doc)
		if err == nil {
			err = doc.Validate()
		}

		if err != nil {
			line.Err = fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
		} else {
			line.Document = &doc
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	return lines, nil
}

// WriteLines writes documents as JSONL to path, or to stdout if path is "-".
func WriteLines(path string, docs []*Document) error {
	out := os.Stdout

	if path != "-" {
		file, err := os.Create(path) //nolint:gosec // CLI tool writes user-specified files
		if err != nil {
			return err
		}
		defer file.Close()

		out = file
	}

	enc := json.NewEncoder(out)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}

	if out != os.Stdout {
		return out.Close()
	}

	return nil
}
