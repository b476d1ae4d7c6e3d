// SPDX-License-Identifier: MIT
/*
Package analysis summarizes a buffer for the info command: level
statistics, pseudo-cycle counts, a coarse spectrum and onset count per
channel.

The spectrum covers only the first FFTSize frames of each channel. It is
meant as a quick look at what a chain did, not a measurement tool.
*/
package analysis

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"glitch/internal/cycle"
	"glitch/internal/pcm"
	"glitch/pkg/utils"
)

const DefaultFFTSize = 4096

// Options configures Analyze.
type Options struct {
	FFTSize int
	Window  WindowFunc
	Bands   []FrequencyBand // nil uses DefaultBands
	Onsets  *OnsetDetector  // nil uses DefaultOnsetDetector
}

// ChannelReport holds the figures for one channel.
type ChannelReport struct {
	Peak         float64
	RMS          float64
	DC           float64
	NonFinite    int
	Cycles       int
	MeanCycleLen float64 // frames
	DominantHz   float64
	Bands        []BandEnergy
	Onsets       int
}

// Report summarizes a buffer.
type Report struct {
	Channels   int
	SampleRate uint32
	Frames     int
	Duration   time.Duration
	FFTSize    int
	Window     WindowFunc
	PerChannel []ChannelReport
}

// Analyze builds a report for b.
func Analyze(b *pcm.Buffer, opts Options) (*Report, error) {
	if opts.FFTSize == 0 {
		opts.FFTSize = DefaultFFTSize
	}
	if opts.Bands == nil {
		opts.Bands = DefaultBands
	}
	onsets := DefaultOnsetDetector
	if opts.Onsets != nil {
		onsets = *opts.Onsets
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	spectrum, err := NewSpectrum(opts.FFTSize, float64(b.SampleRate), opts.Window)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Channels:   int(b.Channels),
		SampleRate: b.SampleRate,
		Frames:     b.Frames(),
		Duration:   b.Duration(),
		FFTSize:    opts.FFTSize,
		Window:     opts.Window,
		PerChannel: make([]ChannelReport, b.Channels),
	}

	x := make([]float64, b.Frames())
	for ch := range int(b.Channels) {
		cr := &report.PerChannel[ch]

		finite := x[:0]
		for i := range b.Frames() {
			s := float64(b.Samples[ch+i*int(b.Channels)])
			if math.IsNaN(s) || math.IsInf(s, 0) {
				cr.NonFinite++
				continue
			}
			finite = append(finite, s)
		}

		if n := len(finite); n > 0 {
			cr.Peak = floats.Norm(finite, math.Inf(1))
			cr.RMS = floats.Norm(finite, 2) / math.Sqrt(float64(n))
			cr.DC = stat.Mean(finite, nil)

			mags := spectrum.Magnitudes(finite)
			cr.DominantHz = spectrum.FrequencyForBin(utils.FindPeakBin(mags, 1, len(mags)-1))
			cr.Bands = BandEnergies(spectrum, mags, opts.Bands)
			cr.Onsets = onsets.Count(finite)
		}

		var total int
		for c := range cycle.NewSegmenter(b.Samples, ch, int(b.Channels)).All() {
			cr.Cycles++
			total += c.Len()
		}
		if cr.Cycles > 0 {
			cr.MeanCycleLen = float64(total) / float64(cr.Cycles)
		}
	}

	return report, nil
}

// CycleHz converts a mean cycle length into the frequency a periodic signal
// with that period would have. Zero when there are no cycles.
func (r *Report) CycleHz(ch int) float64 {
	l := r.PerChannel[ch].MeanCycleLen
	if l == 0 {
		return 0
	}
	return float64(r.SampleRate) / l
}
