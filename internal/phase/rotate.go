// SPDX-License-Identifier: MIT
/*
Package phase implements a complex feedback delay whose feedback path is
rotated in phase by a low-frequency oscillator.

Each channel runs through its own delay line of complex cells. On every
sample the delayed cell is rotated by an angle that swings between 0 and 2
radians, scaled by the feedback amount, mixed with the dry input and written
back into the line. Only the real part of the result is audible. The LFO of
channel c is offset by c*pi, so stereo channels rotate in opposition.
*/
package phase

import (
	"errors"
	"fmt"
	"math"

	"glitch/internal/pcm"
)

// ErrInvalidDelay is returned for a delay line shorter than one cell.
var ErrInvalidDelay = errors.New("invalid delay length")

// Params configures Rotate.
type Params struct {
	Delay     uint32  // delay line length in samples
	Feedback  float32 // weight of the rotated delayed signal, dry gets 1-Feedback
	Frequency float32 // LFO rate in Hz
}

// Rotate applies the rotating feedback delay to every channel in place.
func Rotate(b *pcm.Buffer, p Params) error {
	if p.Delay < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidDelay, p.Delay)
	}

	chs := int(b.Channels)
	frames := b.Frames()
	fb := complex(p.Feedback, 0)
	dry := complex(1-p.Feedback, 0)
	lfoStep := 2 * math.Pi * p.Frequency / float32(b.SampleRate)

	line := make([]complex64, p.Delay)
	for ch := range chs {
		clear(line)
		k := 0
		offset := math.Pi * float32(ch)

		for t := range frames {
			idx := ch + t*chs
			lfo := 1 + cos32(float32(t)*lfoStep+offset)
			rot := complex(cos32(lfo), sin32(lfo))
			out := fb*rot*line[k] + dry*complex(b.Samples[idx], 0)
			line[k] = out
			k++
			if k == len(line) {
				k = 0
			}
			b.Samples[idx] = real(out)
		}
	}

	return nil
}

func cos32(x float32) float32 { return float32(math.Cos(float64(x))) }

func sin32(x float32) float32 { return float32(math.Sin(float64(x))) }
