// SPDX-License-Identifier: MIT
package audio

import "math"

// EnableGate skips leading frames whose peak is at or below the gate
// threshold when playback starts.
func (p *Player) EnableGate() {
	p.gateEnabled = true
}

func (p *Player) DisableGate() {
	p.gateEnabled = false
}

// SetGateThreshold adjusts the noise gate threshold.
// The value is in the range of 0.0-1.0 where 0=only digital silence is skipped.
func (p *Player) SetGateThreshold(threshold float64) {
	if threshold < 0.0 {
		threshold = 0.0
	}
	if threshold > 1.0 {
		threshold = 1.0
	}

	p.gateThreshold = float32(threshold)
}

// GetGateThreshold returns the current noise gate threshold.
func (p *Player) GetGateThreshold() float64 {
	return float64(p.gateThreshold)
}

// startFrame returns the first frame that opens the gate, or 0 when the gate
// is disabled. A buffer that never opens the gate starts at its end.
func (p *Player) startFrame() int {
	if !p.gateEnabled {
		return 0
	}

	chs := int(p.buffer.Channels)
	for i, s := range p.buffer.Samples {
		if float32(math.Abs(float64(s))) > p.gateThreshold {
			return i / chs
		}
	}
	return p.buffer.Frames()
}
