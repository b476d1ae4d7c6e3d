// SPDX-License-Identifier: MIT
package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// OnsetDetector counts sudden energy rises between consecutive blocks.
type OnsetDetector struct {
	Block          int     // frames per block
	Threshold      float64 // minimum block RMS to count
	MinEnergyRatio float64 // required rise over the previous block
}

// DefaultOnsetDetector uses 1024-frame blocks.
var DefaultOnsetDetector = OnsetDetector{Block: 1024, Threshold: 0.05, MinEnergyRatio: 1.5}

// Count returns the number of blocks of x that qualify as onsets. A trailing
// partial block is ignored.
func (d OnsetDetector) Count(x []float64) int {
	if d.Block <= 0 {
		return 0
	}

	count := 0
	last := 0.0
	for start := 0; start+d.Block <= len(x); start += d.Block {
		energy := rms(x[start : start+d.Block])
		if energy > d.Threshold && (last == 0 || energy/last > d.MinEnergyRatio) {
			count++
		}
		last = energy
	}
	return count
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Norm(x, 2) / math.Sqrt(float64(len(x)))
}
