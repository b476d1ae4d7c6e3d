// SPDX-License-Identifier: MIT
/*
Package resample implements fractional-rate reads over a channel: a pitch
shift that reads a bounded circular history faster or slower than it is
written, and a time stretch that reads the whole channel at a fixed speed.

Both modes walk each channel of the interleaved buffer independently using
the index channel + i*channels and interpolate linearly between the two
neighbouring samples of the fractional read position.
*/
package resample

import (
	"errors"
	"fmt"
	"math"

	"glitch/internal/pcm"
	"glitch/pkg/bitint"
)

// ErrInvalidRate is returned for a rate that cannot drive a read cursor.
var ErrInvalidRate = errors.New("invalid resampling rate")

// MaxLogSize bounds the history exponent accepted by PitchShift.
const MaxLogSize = 30

// history is a power-of-2 ring of recent samples for one channel.
type history struct {
	storage []float32
	mask    int
	write   int
}

func newHistory(capacity int) *history {
	return &history{
		storage: make([]float32, capacity),
		mask:    bitint.Mask(capacity),
	}
}

func (h *history) push(s float32) {
	h.storage[h.write] = s
	h.write = (h.write + 1) & h.mask
}

// at linearly interpolates between floor(pos) and ceil(pos), wrapping both.
func (h *history) at(pos float64) float32 {
	lo := math.Floor(pos)
	frac := float32(pos - lo)
	a := h.storage[int(lo)&h.mask]
	b := h.storage[int(math.Ceil(pos))&h.mask]
	return a + (b-a)*frac
}

func (h *history) reset() {
	clear(h.storage)
	h.write = 0
}

// historyCapacity sizes the per-channel window: the smaller of 2^logSize and
// the largest power of 2 that fits in the buffer, split across channels and
// rounded down to a power of 2 so the mask stays valid.
func historyCapacity(total, channels int, logSize uint8) int {
	window := bitint.PrevPowerOfTwo(total)
	if logSize < MaxLogSize {
		window = min(window, 1<<logSize)
	}
	return max(1, bitint.PrevPowerOfTwo(window/channels))
}

// PitchShift resamples every channel through a circular history of recent
// input. The writer advances one slot per sample while the reader advances by
// factor, so the output is the input transposed by factor and periodically
// wrapped around the window. With factor > 1 the reader would overtake
// unwritten history, so the window starts out filled with the first samples
// of the channel instead of silence. A factor of exactly 1 leaves the buffer
// untouched. Zero holds the read cursor in place and a negative factor reads
// the history backwards; both wrap like any other cursor.
func PitchShift(b *pcm.Buffer, factor float32, logSize uint8) error {
	if math.IsNaN(float64(factor)) || math.IsInf(float64(factor), 0) {
		return fmt.Errorf("%w: pitch factor %v", ErrInvalidRate, factor)
	}
	if factor == 1 || len(b.Samples) == 0 {
		return nil
	}

	chs := int(b.Channels)
	frames := b.Frames()
	capacity := historyCapacity(len(b.Samples), chs, logSize)
	step := float64(factor)
	h := newHistory(capacity)

	for ch := range chs {
		h.reset()
		if factor > 1 {
			for i := range min(capacity, frames) {
				h.storage[i] = b.Samples[ch+i*chs]
			}
		}

		read := 0.0
		for i := range frames {
			idx := ch + i*chs
			h.push(b.Samples[idx])
			b.Samples[idx] = h.at(read)

			read += step
			if read < 0 || read >= float64(capacity) {
				read = math.Mod(read, float64(capacity))
				if read < 0 {
					read += float64(capacity)
				}
			}
		}
	}

	return nil
}
