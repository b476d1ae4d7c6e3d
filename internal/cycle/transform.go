// SPDX-License-Identifier: MIT
package cycle

import (
	"math"

	"glitch/internal/pcm"
)

// Fractalize overlays every cycle with depth self-similar copies of itself.
// For sub-depth d the cycle is read at d times the rate, the resulting
// len/d samples are tiled d times across the cycle, and each copy is
// weighted 1/depth. Samples left over by the integer division are dropped
// from that sub-depth. The result is accumulated into a new zeroed buffer of
// the same length; depth 1 reproduces the input and depth 0 yields silence.
func Fractalize(b *pcm.Buffer, depth uint32) *pcm.Buffer {
	chs := int(b.Channels)
	src := b.Samples
	dst := make([]float32, len(src))
	weight := float32(depth)

	for ch := range chs {
		for c := range NewSegmenter(src, ch, chs).All() {
			for d := 1; d <= int(depth); d++ {
				fractalLen := c.Len() / d
				for j := range fractalLen {
					v := src[ch+chs*(c.Start+d*j)] / weight
					for k := range d {
						dst[ch+chs*(c.Start+j+k*fractalLen)] += v
					}
				}
			}
		}
	}

	return &pcm.Buffer{Channels: b.Channels, SampleRate: b.SampleRate, Samples: dst}
}

// Interpolate crossfades every cycle with a time-scaled echo of the cycle
// before it. The first cycle is kept as is; each later cycle becomes the
// average of its own samples and the previous input cycle resampled
// (nearest index) to its length. Channels are rebuilt separately and
// truncated to the shortest before re-interleaving.
func Interpolate(b *pcm.Buffer) *pcm.Buffer {
	channels := b.SplitChannels()
	for i, ch := range channels {
		channels[i] = interpolateChannel(ch)
	}
	return pcm.FromChannels(channels, b.SampleRate)
}

func interpolateChannel(ch []float32) []float32 {
	out := make([]float32, 0, len(ch))

	seg := NewSegmenter(ch, 0, 1)
	prev, ok := seg.Next()
	if !ok {
		return out
	}
	out = append(out, ch[prev.Start:prev.End]...)

	for curr := range seg.All() {
		ratio := float32(prev.Len()) / float32(curr.Len())
		for j := range curr.Len() {
			echo := ch[prev.Start+int(ratio*float32(j))]
			out = append(out, (echo+ch[curr.Start+j])/2)
		}
		prev = curr
	}

	return out
}

// Expand normalizes every cycle to a peak of 1. A silent cycle divides by
// zero and produces NaN.
func Expand(b *pcm.Buffer) {
	chs := int(b.Channels)
	for ch := range chs {
		for c := range NewSegmenter(b.Samples, ch, chs).All() {
			for i := c.Start; i < c.End; i++ {
				b.Samples[ch+i*chs] /= c.Peak
			}
		}
	}
}

// Reverse reverses the sample order inside every cycle. Cycle order, length
// and channel count are unchanged.
func Reverse(b *pcm.Buffer) {
	chs := int(b.Channels)
	for ch := range chs {
		for c := range NewSegmenter(b.Samples, ch, chs).All() {
			for i, j := c.Start, c.End-1; i < j; i, j = i+1, j-1 {
				a, z := ch+i*chs, ch+j*chs
				b.Samples[a], b.Samples[z] = b.Samples[z], b.Samples[a]
			}
		}
	}
}

// Tense waveshapes every cycle relative to its own peak:
//
//	s -> sign(s) * peak * (1 - (1 - |s|/peak)^tension)
//
// Tension above 1 pushes samples out towards the peak, below 1 pulls them
// in towards zero. A silent cycle produces NaN.
func Tense(b *pcm.Buffer, tension float32) {
	chs := int(b.Channels)
	t := float64(tension)
	for ch := range chs {
		for c := range NewSegmenter(b.Samples, ch, chs).All() {
			for i := c.Start; i < c.End; i++ {
				s := b.Samples[ch+i*chs]
				base := 1 - float32(math.Abs(float64(s)))/c.Peak
				shaped := c.Peak * (1 - float32(math.Pow(float64(base), t)))
				b.Samples[ch+i*chs] = float32(math.Copysign(1, float64(s))) * shaped
			}
		}
	}
}
