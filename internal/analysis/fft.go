// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math/cmplx"
	"strings"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	"glitch/internal/log"
	"glitch/pkg/bitint"
)

// WindowFunc selects the window applied before the FFT. The zero value is
// Hann.
type WindowFunc int

const (
	Hann WindowFunc = iota
	BartlettHann
	Blackman
	BlackmanNuttall
	Hamming
	Lanczos
	Nuttall
)

var windowNames = map[WindowFunc]string{
	BartlettHann:    "BartlettHann",
	Blackman:        "Blackman",
	BlackmanNuttall: "BlackmanNuttall",
	Hann:            "Hann",
	Hamming:         "Hamming",
	Lanczos:         "Lanczos",
	Nuttall:         "Nuttall",
}

func (w WindowFunc) String() string {
	if name, ok := windowNames[w]; ok {
		return name
	}
	return fmt.Sprintf("WindowFunc(%d)", int(w))
}

// Spectrum computes windowed magnitude spectra of a fixed size. The
// workspace is reused between calls, so a Spectrum must not be shared
// between goroutines.
type Spectrum struct {
	fft        *fourier.FFT
	size       int
	sampleRate float64
	window     []float64
	input      []float64
	output     []complex128
	magnitude  []float64
}

// NewSpectrum prepares an FFT of size points, which must be a power of two
// no smaller than 2.
func NewSpectrum(size int, sampleRate float64, windowType WindowFunc) (*Spectrum, error) {
	if size < 2 || !bitint.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("fft size must be a power of 2 of at least 2, got %d", size)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %f", sampleRate)
	}

	coeffs := make([]float64, size)
	applyWindow(coeffs, windowType)
	bins := size/2 + 1

	log.Debugf("analysis: fft size %d, %.0f Hz, %v window", size, sampleRate, windowType)

	return &Spectrum{
		fft:        fourier.NewFFT(size),
		size:       size,
		sampleRate: sampleRate,
		window:     coeffs,
		input:      make([]float64, size),
		output:     make([]complex128, bins),
		magnitude:  make([]float64, bins),
	}, nil
}

// Magnitudes windows the first Size() samples of x, zero-padding a short
// input, and returns the size/2+1 bin magnitudes. The result is overwritten
// by the next call.
func (s *Spectrum) Magnitudes(x []float64) []float64 {
	for i := range s.size {
		if i < len(x) {
			s.input[i] = x[i] * s.window[i]
		} else {
			s.input[i] = 0
		}
	}

	s.fft.Coefficients(s.output, s.input)

	for i, c := range s.output {
		s.magnitude[i] = cmplx.Abs(c)
	}
	return s.magnitude
}

// FrequencyForBin returns the center frequency of bin in Hz.
func (s *Spectrum) FrequencyForBin(bin int) float64 {
	if bin < 0 || bin >= len(s.output) {
		return 0
	}
	return float64(bin) * s.sampleRate / float64(s.size)
}

// Size returns the number of FFT points.
func (s *Spectrum) Size() int {
	return s.size
}

// ParseWindowFunc converts a case-insensitive name to a WindowFunc. Unknown
// names return Hann and an error.
func ParseWindowFunc(name string) (WindowFunc, error) {
	switch strings.ToLower(name) {
	case "bartletthann":
		return BartlettHann, nil
	case "blackman":
		return Blackman, nil
	case "blackmannuttall":
		return BlackmanNuttall, nil
	case "hann", "hanning":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "lanczos":
		return Lanczos, nil
	case "nuttall":
		return Nuttall, nil
	default:
		return Hann, fmt.Errorf("unknown FFT window function name: '%s'", name)
	}
}

// applyWindow fills coeffs with the window. gonum windows multiply in
// place, so the slice starts at 1.
func applyWindow(coeffs []float64, windowType WindowFunc) {
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	switch windowType {
	case BartlettHann:
		window.BartlettHann(coeffs)
	case Blackman:
		window.Blackman(coeffs)
	case BlackmanNuttall:
		window.BlackmanNuttall(coeffs)
	case Hann:
		window.Hann(coeffs)
	case Hamming:
		window.Hamming(coeffs)
	case Lanczos:
		window.Lanczos(coeffs)
	case Nuttall:
		window.Nuttall(coeffs)
	default:
		log.Warnf("analysis: unknown window function %d, defaulting to Hann", windowType)
		window.Hann(coeffs)
	}
}
