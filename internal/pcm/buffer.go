// SPDX-License-Identifier: MIT
/*
Package pcm defines the in-memory sample buffer every transform works on.

Samples are float32 and interleaved by channel (L,R,L,R,...). The buffer is
created by the codec, owned by the pipeline, and either mutated in place by
a transform or replaced wholesale by one that changes its length.
*/
package pcm

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidLayout is returned by Validate when the channel invariant does not hold.
var ErrInvalidLayout = errors.New("invalid sample layout")

// Buffer is an interleaved multi-channel float32 sample sequence.
type Buffer struct {
	Channels   uint16    // Number of interleaved channels (1=mono, 2=stereo)
	SampleRate uint32    // Sample rate in Hz
	Samples    []float32 // Interleaved samples, len(Samples) % Channels == 0
}

// New allocates a zeroed buffer holding frames frames.
func New(channels uint16, sampleRate uint32, frames int) *Buffer {
	return &Buffer{
		Channels:   channels,
		SampleRate: sampleRate,
		Samples:    make([]float32, frames*int(channels)),
	}
}

// Validate checks the channel count and the interleaving invariant.
func (b *Buffer) Validate() error {
	if b.Channels == 0 {
		return fmt.Errorf("%w: zero channels", ErrInvalidLayout)
	}
	if len(b.Samples)%int(b.Channels) != 0 {
		return fmt.Errorf("%w: %d samples do not divide into %d channels",
			ErrInvalidLayout, len(b.Samples), b.Channels)
	}
	return nil
}

// Frames returns the number of samples per channel.
func (b *Buffer) Frames() int {
	if b.Channels == 0 {
		return 0
	}
	return len(b.Samples) / int(b.Channels)
}

// Duration returns the playing time of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	samples := make([]float32, len(b.Samples))
	copy(samples, b.Samples)
	return &Buffer{Channels: b.Channels, SampleRate: b.SampleRate, Samples: samples}
}

// Channel returns a de-interleaved copy of channel c.
func (b *Buffer) Channel(c int) []float32 {
	chs := int(b.Channels)
	frames := b.Frames()
	out := make([]float32, frames)
	for i := range frames {
		out[i] = b.Samples[c+i*chs]
	}
	return out
}

// SplitChannels de-interleaves every channel.
func (b *Buffer) SplitChannels() [][]float32 {
	channels := make([][]float32, b.Channels)
	for c := range channels {
		channels[c] = b.Channel(c)
	}
	return channels
}

// FromChannels interleaves per-channel slices into a new buffer. Channels of
// unequal length are truncated to the shortest one.
func FromChannels(channels [][]float32, sampleRate uint32) *Buffer {
	if len(channels) == 0 {
		return &Buffer{SampleRate: sampleRate}
	}

	frames := len(channels[0])
	for _, ch := range channels[1:] {
		frames = min(frames, len(ch))
	}

	chs := len(channels)
	samples := make([]float32, frames*chs)
	for c, ch := range channels {
		for i := range frames {
			samples[c+i*chs] = ch[i]
		}
	}

	return &Buffer{
		Channels:   uint16(chs),
		SampleRate: sampleRate,
		Samples:    samples,
	}
}

// Equal reports whether two buffers have identical layout and samples. Two
// NaN samples at the same position compare equal.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.Channels != o.Channels || b.SampleRate != o.SampleRate || len(b.Samples) != len(o.Samples) {
		return false
	}
	for i, s := range b.Samples {
		if s != o.Samples[i] && !(isNaN(s) && isNaN(o.Samples[i])) {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (b *Buffer) String() string {
	return fmt.Sprintf("%d ch @ %d Hz, %d frames (%s)", b.Channels, b.SampleRate, b.Frames(), b.Duration())
}

func isNaN(s float32) bool {
	return math.IsNaN(float64(s))
}
