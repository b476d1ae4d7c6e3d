// SPDX-License-Identifier: MIT
//
// Package effects holds the elementwise sample maps offered alongside the
// cycle transforms. Every function works in place and ignores channel
// layout. Numeric edge cases are not guarded: a silent buffer normalizes to
// NaN and a zero decimation depth produces NaN.
package effects

import (
	"math"

	"glitch/internal/pcm"
)

// Gain multiplies every sample by g.
func Gain(b *pcm.Buffer, g float32) {
	for i := range b.Samples {
		b.Samples[i] *= g
	}
}

// DC adds a constant offset.
func DC(b *pcm.Buffer, offset float32) {
	for i := range b.Samples {
		b.Samples[i] += offset
	}
}

// RemoveDC subtracts the mean of the whole buffer.
func RemoveDC(b *pcm.Buffer) {
	if len(b.Samples) == 0 {
		return
	}
	var sum float64
	for _, s := range b.Samples {
		sum += float64(s)
	}
	DC(b, -float32(sum/float64(len(b.Samples))))
}

// Normalize scales the buffer so its largest absolute sample is 1.
func Normalize(b *pcm.Buffer) {
	var peak float32
	for _, s := range b.Samples {
		peak = max(peak, float32(math.Abs(float64(s))))
	}
	Gain(b, 1/peak)
}

// HardClip replaces every sample whose magnitude exceeds threshold with
// threshold times the sample's sign. With a negative threshold every sample
// is replaced and its sign flipped. NaN passes through.
func HardClip(b *pcm.Buffer, threshold float32) {
	for i, s := range b.Samples {
		if float32(math.Abs(float64(s))) > threshold {
			b.Samples[i] = threshold * float32(math.Copysign(1, float64(s)))
		}
	}
}

// SoftClip applies the cubic s - amount*s^3/3.
func SoftClip(b *pcm.Buffer, amount float32) {
	for i, s := range b.Samples {
		b.Samples[i] = s - amount*s*s*s/3
	}
}

// Fold wraps samples back into range through sin.
func Fold(b *pcm.Buffer) {
	for i, s := range b.Samples {
		b.Samples[i] = float32(math.Sin(float64(s)))
	}
}

// Decimate quantizes samples to steps of 1/depth.
func Decimate(b *pcm.Buffer, depth float32) {
	d := float64(depth)
	for i, s := range b.Samples {
		b.Samples[i] = float32(math.Round(float64(s)*d) / d)
	}
}

// Waveshape maps s to 1 - (1-s)^tension over the whole buffer, without
// regard to cycles. Negative bases with a fractional tension give NaN.
func Waveshape(b *pcm.Buffer, tension float32) {
	t := float64(tension)
	for i, s := range b.Samples {
		b.Samples[i] = float32(1 - math.Pow(1-float64(s), t))
	}
}
