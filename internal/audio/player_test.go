// SPDX-License-Identifier: MIT
package audio

import (
	"context"
	"testing"
	"time"

	"glitch/internal/pcm"
	"glitch/pkg/utils"
)

func TestProcessOutputStream(t *testing.T) {
	b := utils.StereoBuffer([]float32{1, 2, 3}, []float32{-1, -2, -3})
	p := NewPlayer(b, DefaultOptions())

	out := make([]float32, 4)
	p.processOutputStream(out)
	want := []float32{1, -1, 2, -2}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("first block = %v, want %v", out, want)
		}
	}
	select {
	case <-p.Done():
		t.Fatal("Done closed before the buffer was exhausted")
	default:
	}

	// The tail is padded with silence and playback completes.
	for i := range out {
		out[i] = 9
	}
	p.processOutputStream(out)
	want = []float32{3, -3, 0, 0}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("last block = %v, want %v", out, want)
		}
	}
	select {
	case <-p.Done():
	default:
		t.Fatal("Done not closed after the last sample")
	}

	// Further callbacks only produce silence.
	p.processOutputStream(out)
	for i, s := range out {
		if s != 0 {
			t.Errorf("sample %d after end = %v, want 0", i, s)
		}
	}
}

func TestProcessOutputStreamAllocations(t *testing.T) {
	b := utils.MonoBuffer(utils.GenerateSineWave(1<<20, 44100, 440))
	p := NewPlayer(b, DefaultOptions())
	out := make([]float32, 512)

	allocs := testing.AllocsPerRun(100, func() {
		p.processOutputStream(out)
	})
	if allocs > 0 {
		t.Errorf("Expected zero allocations in the output callback, got %.1f", allocs)
	}
}

func TestPosition(t *testing.T) {
	b := utils.StereoBuffer(make([]float32, 44100), make([]float32, 44100))
	p := NewPlayer(b, DefaultOptions())

	p.processOutputStream(make([]float32, 2*22050))
	if got := p.Position(); got != 500*time.Millisecond {
		t.Errorf("Position() = %v, want 500ms", got)
	}

	empty := NewPlayer(&pcm.Buffer{}, DefaultOptions())
	if got := empty.Position(); got != 0 {
		t.Errorf("Position() of an empty player = %v, want 0", got)
	}
}

func TestPlayNothingAudible(t *testing.T) {
	// A gated silent buffer finishes without touching PortAudio.
	p := NewPlayer(utils.MonoBuffer(make([]float32, 100)), DefaultOptions())
	p.EnableGate()

	if err := p.Play(context.Background()); err != nil {
		t.Fatalf("Play() = %v", err)
	}
	select {
	case <-p.Done():
	default:
		t.Error("Done not closed")
	}
}

func TestPlayRejectsBadLayout(t *testing.T) {
	p := NewPlayer(&pcm.Buffer{Channels: 2, SampleRate: 44100, Samples: []float32{1}}, DefaultOptions())
	if err := p.Play(context.Background()); err == nil {
		t.Error("Play() accepted a partial frame")
	}
}
