// SPDX-License-Identifier: MIT
package analysis

import "math"

// FrequencyBand is a named frequency range.
type FrequencyBand struct {
	Name   string
	LowHz  float64
	HighHz float64 // exclusive, 0 means up to Nyquist
}

// DefaultBands splits the audible range the way a mixing engineer would.
var DefaultBands = []FrequencyBand{
	{Name: "sub", LowHz: 20, HighHz: 60},
	{Name: "bass", LowHz: 60, HighHz: 250},
	{Name: "lowMid", LowHz: 250, HighHz: 500},
	{Name: "mid", LowHz: 500, HighHz: 2000},
	{Name: "highMid", LowHz: 2000, HighHz: 4000},
	{Name: "treble", LowHz: 4000},
}

// BandEnergy is the RMS bin magnitude inside one band.
type BandEnergy struct {
	Band  FrequencyBand
	Level float64
}

// BandEnergies averages squared magnitudes per band. Bands with no bins at
// the current resolution report zero.
func BandEnergies(s *Spectrum, magnitudes []float64, bands []FrequencyBand) []BandEnergy {
	sums := make([]float64, len(bands))
	counts := make([]int, len(bands))

	for i, m := range magnitudes {
		freq := s.FrequencyForBin(i)
		for b, band := range bands {
			if freq >= band.LowHz && (band.HighHz == 0 || freq < band.HighHz) {
				sums[b] += m * m
				counts[b]++
				break
			}
		}
	}

	out := make([]BandEnergy, len(bands))
	for b, band := range bands {
		out[b].Band = band
		if counts[b] > 0 {
			out[b].Level = math.Sqrt(sums[b] / float64(counts[b]))
		}
	}
	return out
}
