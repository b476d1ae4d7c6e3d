// SPDX-License-Identifier: MIT
/*
Package wavfile reads and writes RIFF/WAVE files as pcm.Buffer values.

Decoding accepts 16-bit and 24-bit integer PCM and 32-bit IEEE float.
Integers are scaled into [-1, 1], float samples are taken bit for bit.
Encoding always writes 32-bit IEEE float, so a decode of an encoded buffer
returns the same samples.

The RIFF parsing and chunk writing are done by github.com/go-audio/wav;
this package only maps formats and sample values.
*/
package wavfile

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/wav"

	"glitch/internal/pcm"
)

// WAVE format tags.
const (
	formatPCM   = 1
	formatFloat = 3
)

var (
	// ErrIO wraps a failure to open, create, read or write a file.
	ErrIO = errors.New("i/o error")

	// ErrFormat reports a missing or malformed RIFF, fmt or data chunk.
	ErrFormat = errors.New("malformed wav file")

	// ErrUnsupportedEncoding reports a well-formed file with a sample
	// encoding other than 16/24-bit PCM or 32-bit float.
	ErrUnsupportedEncoding = errors.New("unsupported wav encoding")
)

type sampleFunc func(v int) float32

func pcm16(v int) float32 {
	return float32(v) / math.MaxInt16
}

func pcm24(v int) float32 {
	return float32(int32(v)<<8) / math.MaxInt32
}

func float32Bits(v int) float32 {
	return math.Float32frombits(uint32(int32(v)))
}

func converter(format, bitDepth uint16) (sampleFunc, error) {
	switch {
	case format == formatPCM && bitDepth == 16:
		return pcm16, nil
	case format == formatPCM && bitDepth == 24:
		return pcm24, nil
	case format == formatFloat && bitDepth == 32:
		return float32Bits, nil
	}
	return nil, fmt.Errorf("%w: format %d, %d bits", ErrUnsupportedEncoding, format, bitDepth)
}

// Decode reads a whole WAV stream into a buffer. A trailing partial frame
// is dropped.
func Decode(r io.ReadSeeker) (*pcm.Buffer, error) {
	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if dec.NumChans == 0 {
		return nil, fmt.Errorf("%w: no fmt chunk", ErrFormat)
	}

	convert, err := converter(dec.WavAudioFormat, dec.BitDepth)
	if err != nil {
		return nil, err
	}

	data, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	chs := int(dec.NumChans)
	n := len(data.Data) - len(data.Data)%chs
	buf := &pcm.Buffer{
		Channels:   dec.NumChans,
		SampleRate: dec.SampleRate,
		Samples:    make([]float32, n),
	}
	for i, v := range data.Data[:n] {
		buf.Samples[i] = convert(v)
	}

	return buf, nil
}
