// SPDX-License-Identifier: MIT
/*
Package audio auditions processed buffers through PortAudio.

Thread Safety:
- The buffer is read-only once playback starts
- The play cursor is the only state shared with the callback and is atomic
- The callback locks its OS thread and never allocates
*/
package audio

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gordonklaus/portaudio"

	"glitch/internal/config"
	"glitch/internal/log"
	"glitch/internal/pcm"
)

// Options configures playback.
type Options struct {
	DeviceID        int  // PortAudio output device, config.MinDeviceID for the default
	FramesPerBuffer int  // Callback buffer size in frames
	LowLatency      bool // Use the device's low output latency
}

// DefaultOptions plays on the default device.
func DefaultOptions() Options {
	return Options{
		DeviceID:        config.DefaultDevice,
		FramesPerBuffer: config.DefaultFramesPerBuffer,
	}
}

// Player streams one buffer to an output device.
type Player struct {
	opts   Options
	buffer *pcm.Buffer

	// Noise gate applied to the start of playback.
	gateEnabled   bool
	gateThreshold float32

	cursor   atomic.Int64 // next sample index
	done     chan struct{}
	doneOnce sync.Once
}

// NewPlayer prepares b for playback. The buffer must not be modified while
// it plays.
func NewPlayer(b *pcm.Buffer, opts Options) *Player {
	return &Player{
		opts:   opts,
		buffer: b,
		done:   make(chan struct{}),
	}
}

// Play streams the buffer and blocks until it has been played or ctx is
// cancelled. It owns the PortAudio lifecycle for the duration of the call.
func (p *Player) Play(ctx context.Context) error {
	if err := p.buffer.Validate(); err != nil {
		return err
	}

	p.cursor.Store(int64(p.startFrame() * int(p.buffer.Channels)))
	if p.finished() {
		return nil
	}

	if err := Initialize(); err != nil {
		return err
	}
	defer Terminate()

	device, err := OutputDevice(p.opts.DeviceID)
	if err != nil {
		return err
	}

	latency := device.DefaultHighOutputLatency
	if p.opts.LowLatency {
		latency = device.DefaultLowOutputLatency
	}

	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Channels: int(p.buffer.Channels),
			Device:   device,
			Latency:  latency,
		},
		FramesPerBuffer: p.opts.FramesPerBuffer,
		SampleRate:      float64(p.buffer.SampleRate),
	}

	stream, err := portaudio.OpenStream(params, p.processOutputStream)
	if err != nil {
		return err
	}
	defer stream.Close()

	log.Infof("audio: playing %s on %s (latency %v)", p.buffer, device.Name, latency)

	if err := stream.Start(); err != nil {
		return err
	}

	select {
	case <-p.done:
	case <-ctx.Done():
	}

	// Stop drains the buffers already queued.
	if err := stream.Stop(); err != nil {
		return err
	}
	return ctx.Err()
}

// Position returns how much of the buffer has been handed to the device.
func (p *Player) Position() time.Duration {
	if p.buffer.Channels == 0 || p.buffer.SampleRate == 0 {
		return 0
	}
	frames := p.cursor.Load() / int64(p.buffer.Channels)
	return time.Duration(frames) * time.Second / time.Duration(p.buffer.SampleRate)
}

// Done is closed once the last sample has been handed to the device.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

func (p *Player) finished() bool {
	if p.cursor.Load() >= int64(len(p.buffer.Samples)) {
		p.doneOnce.Do(func() { close(p.done) })
		return true
	}
	return false
}

// processOutputStream is the PortAudio callback. It copies the next block
// of interleaved samples and pads the tail with silence.
func (p *Player) processOutputStream(out []float32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	pos := p.cursor.Load()
	n := copy(out, p.buffer.Samples[min(pos, int64(len(p.buffer.Samples))):])
	clear(out[n:])
	p.cursor.Store(pos + int64(n))
	p.finished()
}
