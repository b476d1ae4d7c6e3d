// SPDX-License-Identifier: MIT
//
// Package utils holds deterministic signal generators shared by the package
// tests and benchmarks, and the spectral peak search used by analysis.
package utils

import (
	"math"

	"glitch/internal/pcm"
)

// GenerateComplexWave returns a 440Hz tone with its second and third
// harmonics, peaking below 1.
func GenerateComplexWave(size int, sampleRate float64) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		tm := float64(i) / sampleRate
		signal := math.Sin(2*math.Pi*440*tm)*0.5 +
			math.Sin(2*math.Pi*880*tm)*0.3 +
			math.Sin(2*math.Pi*1320*tm)*0.2
		buffer[i] = float32(signal * 0.9)
	}
	return buffer
}

// GenerateSineWave returns a sine at frequency with amplitude 0.9.
func GenerateSineWave(size int, sampleRate, frequency float64) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = float32(math.Sin(2*math.Pi*frequency*t) * 0.9)
	}
	return buffer
}

// GenerateRamp returns size samples rising linearly from -1 towards 1.
func GenerateRamp(size int) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		buffer[i] = -1 + 2*float32(i)/float32(size)
	}
	return buffer
}

// MonoBuffer wraps samples in a 44.1kHz mono buffer.
func MonoBuffer(samples []float32) *pcm.Buffer {
	return &pcm.Buffer{Channels: 1, SampleRate: 44100, Samples: samples}
}

// StereoBuffer interleaves two channels into a 44.1kHz buffer.
func StereoBuffer(left, right []float32) *pcm.Buffer {
	return pcm.FromChannels([][]float32{left, right}, 44100)
}

// FindPeakBin returns the index of the largest magnitude within
// [startBin, endBin], clamped to the slice.
func FindPeakBin(magnitudes []float64, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}

	if startBin < 0 {
		startBin = 0
	}

	if endBin >= len(magnitudes) {
		endBin = len(magnitudes) - 1
	}

	peakBin := startBin
	peakValue := magnitudes[startBin]

	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}

	return peakBin
}
