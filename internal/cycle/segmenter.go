// SPDX-License-Identifier: MIT
/*
Package cycle implements the pseudo-cycle transforms.

A pseudo-cycle is one maximal run of non-negative samples immediately
followed by one maximal run of non-positive samples. It is a cheap stand-in
for a waveform period that needs no pitch detection. A zero sample satisfies
both conditions and belongs to whichever run the scan is in when it reaches
it; every transform in this package relies on that tie-break.

All transforms work one channel at a time on interleaved buffers, each
channel with its own Segmenter pass.
*/
package cycle

import (
	"iter"
	"math"
)

// Cycle is one pseudo-cycle of a single channel. Start and End are frame
// indices, End is exclusive.
type Cycle struct {
	Channel int
	Start   int
	End     int
	Peak    float32 // max |sample| over [Start, End)
}

// Len returns the number of frames in the cycle.
func (c Cycle) Len() int {
	return c.End - c.Start
}

// Segmenter walks one channel of an interleaved slice and yields its
// pseudo-cycles in order. It is finite and forward-only; Reset restarts it.
type Segmenter struct {
	samples  []float32
	channel  int
	channels int
	frames   int
	cursor   int
}

// NewSegmenter returns a segmenter over channel of samples interleaved with
// the given channel count.
func NewSegmenter(samples []float32, channel, channels int) *Segmenter {
	return &Segmenter{
		samples:  samples,
		channel:  channel,
		channels: channels,
		frames:   len(samples) / channels,
	}
}

// Reset rewinds the segmenter to the first frame.
func (s *Segmenter) Reset() {
	s.cursor = 0
}

func (s *Segmenter) at(i int) float32 {
	return s.samples[s.channel+i*s.channels]
}

// Next returns the next cycle, or false once the channel is exhausted. The
// cycle peak is gathered during the same scan that finds the boundary.
func (s *Segmenter) Next() (Cycle, bool) {
	if s.cursor >= s.frames {
		return Cycle{}, false
	}

	start := s.cursor
	var peak float32

	for s.cursor < s.frames {
		v := s.at(s.cursor)
		if !(v >= 0) {
			break
		}
		peak = max(peak, v)
		s.cursor++
	}
	for s.cursor < s.frames {
		v := s.at(s.cursor)
		if !(v <= 0) {
			break
		}
		peak = max(peak, -v)
		s.cursor++
	}

	// NaN satisfies neither run. Emit it as a cycle of its own so the scan
	// always advances.
	if s.cursor == start {
		peak = float32(math.Abs(float64(s.at(s.cursor))))
		s.cursor++
	}

	return Cycle{Channel: s.channel, Start: start, End: s.cursor, Peak: peak}, true
}

// All returns an iterator over the remaining cycles.
func (s *Segmenter) All() iter.Seq[Cycle] {
	return func(yield func(Cycle) bool) {
		for {
			c, ok := s.Next()
			if !ok || !yield(c) {
				return
			}
		}
	}
}

// Segment returns every cycle of one channel.
func Segment(samples []float32, channel, channels int) []Cycle {
	var cycles []Cycle
	for c := range NewSegmenter(samples, channel, channels).All() {
		cycles = append(cycles, c)
	}
	return cycles
}
