// SPDX-License-Identifier: MIT
package wavfile

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"glitch/internal/pcm"
)

// Encode writes b as a 32-bit IEEE float WAV stream. The encoder seeks back
// to patch the chunk sizes, so w must be seekable.
func Encode(w io.WriteSeeker, b *pcm.Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}

	enc := wav.NewEncoder(w, int(b.SampleRate), 32, int(b.Channels), formatFloat)

	// The encoder writes Data as int32 at 32 bits, so passing the float bit
	// patterns through gives a float file.
	data := make([]int, len(b.Samples))
	for i, s := range b.Samples {
		data[i] = int(int32(math.Float32bits(s)))
	}

	out := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: int(b.Channels),
			SampleRate:  int(b.SampleRate),
		},
		Data:           data,
		SourceBitDepth: 32,
	}

	if err := enc.Write(out); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}
