// SPDX-License-Identifier: MIT
package pcm

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		desc    string
		buf     *Buffer
		wantErr bool
	}{
		{"Stereo even", &Buffer{Channels: 2, SampleRate: 44100, Samples: make([]float32, 8)}, false},
		{"Mono empty", &Buffer{Channels: 1, SampleRate: 44100}, false},
		{"Stereo odd", &Buffer{Channels: 2, SampleRate: 44100, Samples: make([]float32, 7)}, true},
		{"Zero channels", &Buffer{Channels: 0, SampleRate: 44100}, true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			err := tt.buf.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLayout) {
					t.Errorf("Validate() = %v, want ErrInvalidLayout", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestChannelRoundTrip(t *testing.T) {
	buf := &Buffer{
		Channels:   2,
		SampleRate: 48000,
		Samples:    []float32{1, -1, 2, -2, 3, -3},
	}

	left := buf.Channel(0)
	right := buf.Channel(1)
	if len(left) != 3 || left[2] != 3 {
		t.Errorf("Channel(0) = %v", left)
	}
	if len(right) != 3 || right[1] != -2 {
		t.Errorf("Channel(1) = %v", right)
	}

	rebuilt := FromChannels(buf.SplitChannels(), buf.SampleRate)
	if !rebuilt.Equal(buf) {
		t.Errorf("FromChannels(SplitChannels()) = %+v, want %+v", rebuilt, buf)
	}
}

func TestFromChannelsTruncatesToShortest(t *testing.T) {
	got := FromChannels([][]float32{{1, 2, 3, 4}, {5, 6, 7}}, 44100)

	if got.Channels != 2 {
		t.Fatalf("Channels = %d, want 2", got.Channels)
	}
	if got.Frames() != 3 {
		t.Fatalf("Frames() = %d, want 3", got.Frames())
	}
	want := []float32{1, 5, 2, 6, 3, 7}
	for i, s := range want {
		if got.Samples[i] != s {
			t.Errorf("Samples[%d] = %v, want %v", i, got.Samples[i], s)
		}
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestDuration(t *testing.T) {
	buf := New(2, 44100, 44100)
	if got := buf.Duration(); got != time.Second {
		t.Errorf("Duration() = %v, want 1s", got)
	}
	if got := (&Buffer{Channels: 1}).Duration(); got != 0 {
		t.Errorf("Duration() with zero rate = %v, want 0", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	buf := &Buffer{Channels: 1, SampleRate: 8000, Samples: []float32{0.5, -0.5}}
	clone := buf.Clone()
	clone.Samples[0] = 0

	if buf.Samples[0] != 0.5 {
		t.Error("Clone shares its sample slice with the original")
	}
}

func TestEqualTreatsNaNAsEqual(t *testing.T) {
	nan := float32(math.NaN())
	a := &Buffer{Channels: 1, SampleRate: 8000, Samples: []float32{nan, 1}}
	b := &Buffer{Channels: 1, SampleRate: 8000, Samples: []float32{nan, 1}}
	c := &Buffer{Channels: 1, SampleRate: 8000, Samples: []float32{0, 1}}

	if !a.Equal(b) {
		t.Error("buffers with NaN at the same position should be equal")
	}
	if a.Equal(c) {
		t.Error("NaN should not equal a finite sample")
	}
}
