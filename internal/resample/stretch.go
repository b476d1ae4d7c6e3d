// SPDX-License-Identifier: MIT
package resample

import (
	"fmt"
	"math"

	"glitch/internal/pcm"
)

// Stretch changes the duration of the buffer by reading every channel at
// speed frames per output frame. Each channel ends up floor(frames/speed)
// frames long. Faster speeds compress in place, slower ones allocate a larger
// sample slice.
func Stretch(b *pcm.Buffer, speed float32) error {
	if !(speed > 0) || math.IsInf(float64(speed), 0) {
		return fmt.Errorf("%w: stretch speed %v", ErrInvalidRate, speed)
	}
	if speed == 1 {
		return nil
	}

	frames := b.Frames()
	outFrames := int(float64(frames) / float64(speed))

	if speed > 1 {
		compress(b.Samples, int(b.Channels), frames, outFrames, float64(speed))
		b.Samples = b.Samples[:outFrames*int(b.Channels)]
		return nil
	}

	dst := make([]float32, outFrames*int(b.Channels))
	expand(dst, b.Samples, int(b.Channels), frames, outFrames, float64(speed))
	b.Samples = dst
	return nil
}

// compress reads ahead of the write cursor. floor(i*speed) >= i for speed > 1,
// so a frame is always read before it is overwritten.
func compress(samples []float32, chs, frames, outFrames int, speed float64) {
	for ch := range chs {
		read, write := 0.0, 0
		for write < outFrames {
			samples[ch+write*chs] = lerp(samples, ch, chs, frames, read)
			write++
			read = float64(write) * speed
		}
	}
}

func expand(dst, src []float32, chs, frames, outFrames int, speed float64) {
	for ch := range chs {
		for i := range outFrames {
			dst[ch+i*chs] = lerp(src, ch, chs, frames, float64(i)*speed)
		}
	}
}

// lerp interpolates channel ch at fractional frame pos, holding the last
// frame past the end.
func lerp(samples []float32, ch, chs, frames int, pos float64) float32 {
	lo := min(int(pos), frames-1)
	hi := min(lo+1, frames-1)
	frac := float32(pos - float64(lo))
	a := samples[ch+lo*chs]
	b := samples[ch+hi*chs]
	return a + (b-a)*frac
}
