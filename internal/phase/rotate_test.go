// SPDX-License-Identifier: MIT
package phase

import (
	"errors"
	"math"
	"testing"

	"glitch/pkg/utils"
)

const tolerance = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestRotateRejectsEmptyDelay(t *testing.T) {
	b := utils.MonoBuffer([]float32{1, 2, 3})
	err := Rotate(b, Params{Delay: 0, Feedback: 0.5, Frequency: 1})
	if !errors.Is(err, ErrInvalidDelay) {
		t.Errorf("Rotate(delay=0) = %v, want ErrInvalidDelay", err)
	}
}

func TestRotateZeroFeedbackIsDry(t *testing.T) {
	b := utils.StereoBuffer(utils.GenerateComplexWave(512, 44100), utils.GenerateRamp(512))
	want := b.Clone()
	if err := Rotate(b, Params{Delay: 7, Feedback: 0, Frequency: 3}); err != nil {
		t.Fatal(err)
	}
	for i := range want.Samples {
		if !near(float64(b.Samples[i]), float64(want.Samples[i])) {
			t.Fatalf("sample %d = %v, want %v", i, b.Samples[i], want.Samples[i])
		}
	}
}

func TestRotateFullFeedbackIsSilent(t *testing.T) {
	// With no dry path, an initially empty line never fills.
	b := utils.MonoBuffer(utils.GenerateSineWave(256, 44100, 440))
	if err := Rotate(b, Params{Delay: 16, Feedback: 1, Frequency: 2}); err != nil {
		t.Fatal(err)
	}
	for i, s := range b.Samples {
		if s != 0 {
			t.Fatalf("sample %d = %v, want 0", i, s)
		}
	}
}

func TestRotateConcrete(t *testing.T) {
	// Frequency 0 freezes the LFO: channel 0 rotates by 2 radians, channel 1
	// (offset by pi) by 0.
	b := utils.StereoBuffer([]float32{1, 0}, []float32{1, 0})
	if err := Rotate(b, Params{Delay: 1, Feedback: 0.5, Frequency: 0}); err != nil {
		t.Fatal(err)
	}

	want := []float64{0.5, 0.5, 0.25 * math.Cos(2), 0.25}
	for i, w := range want {
		if !near(float64(b.Samples[i]), w) {
			t.Errorf("sample %d = %v, want %v", i, b.Samples[i], w)
		}
	}
}

func TestRotateSinglePrecisionFeedback(t *testing.T) {
	// The delay line holds complex64 cells, so rounding to float32 happens
	// on every pass through the feedback path.
	in := utils.GenerateComplexWave(64, 44100)
	feedback := float32(0.8)
	b := utils.MonoBuffer(append([]float32(nil), in...))
	if err := Rotate(b, Params{Delay: 3, Feedback: feedback, Frequency: 0}); err != nil {
		t.Fatal(err)
	}

	fb, dry := complex(feedback, 0), complex(1-feedback, 0)
	rot := complex(float32(math.Cos(2)), float32(math.Sin(2)))
	line := make([]complex64, 3)
	for i, x := range in {
		out := fb*rot*line[i%3] + dry*complex(x, 0)
		line[i%3] = out
		if b.Samples[i] != real(out) {
			t.Fatalf("sample %d = %v, want %v", i, b.Samples[i], real(out))
		}
	}
}

func TestRotateDelayLength(t *testing.T) {
	// An impulse returns after exactly Delay samples.
	samples := make([]float32, 12)
	samples[0] = 1
	b := utils.MonoBuffer(samples)
	if err := Rotate(b, Params{Delay: 5, Feedback: 0.5, Frequency: 0}); err != nil {
		t.Fatal(err)
	}

	for i, s := range b.Samples {
		switch i {
		case 0:
			if !near(float64(s), 0.5) {
				t.Errorf("sample 0 = %v, want 0.5", s)
			}
		case 5:
			if !near(float64(s), 0.25*math.Cos(2)) {
				t.Errorf("sample 5 = %v, want %v", s, 0.25*math.Cos(2))
			}
		case 10:
			if !near(float64(s), 0.125*math.Cos(4)) {
				t.Errorf("sample 10 = %v, want %v", s, 0.125*math.Cos(4))
			}
		default:
			if s != 0 {
				t.Errorf("sample %d = %v, want 0", i, s)
			}
		}
	}
}

func TestRotateFreshLinePerChannel(t *testing.T) {
	// An impulse on the left must not leak into the right channel.
	left := make([]float32, 8)
	left[0] = 1
	b := utils.StereoBuffer(left, make([]float32, 8))
	if err := Rotate(b, Params{Delay: 3, Feedback: 0.9, Frequency: 5}); err != nil {
		t.Fatal(err)
	}
	for i, s := range b.Channel(1) {
		if s != 0 {
			t.Errorf("right sample %d = %v, want 0", i, s)
		}
	}
}

func TestRotatePreservesLayout(t *testing.T) {
	b := utils.StereoBuffer(utils.GenerateSineWave(1000, 44100, 100), utils.GenerateSineWave(1000, 44100, 200))
	if err := Rotate(b, Params{Delay: 441, Feedback: 0.7, Frequency: 0.5}); err != nil {
		t.Fatal(err)
	}
	if len(b.Samples) != 2000 || b.Channels != 2 || b.SampleRate != 44100 {
		t.Errorf("layout changed: %v", b)
	}
}

func BenchmarkRotate(b *testing.B) {
	buf := utils.StereoBuffer(utils.GenerateComplexWave(44100, 44100), utils.GenerateComplexWave(44100, 44100))
	for b.Loop() {
		_ = Rotate(buf, Params{Delay: 256, Feedback: 0.5, Frequency: 1})
	}
}
