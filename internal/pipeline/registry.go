// SPDX-License-Identifier: MIT
package pipeline

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"glitch/internal/cycle"
	"glitch/internal/effects"
	"glitch/internal/pcm"
	"glitch/internal/phase"
	"glitch/internal/resample"
)

// Kind is the numeric type of an operation parameter.
type Kind int

const (
	KindUint Kind = iota
	KindUint8
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindUint8:
		return "uint8"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Param describes one positional argument of an operation.
type Param struct {
	Name string
	Kind Kind
}

// Args holds parsed parameter values in declaration order. Every accepted
// integer fits a float64 exactly.
type Args []float64

func (a Args) Float(i int) float32 { return float32(a[i]) }
func (a Args) Uint(i int) uint32   { return uint32(a[i]) }
func (a Args) Uint8(i int) uint8   { return uint8(a[i]) }

// Op is a named transform the command line can chain.
type Op struct {
	Name    string
	Summary string
	Params  []Param
	Apply   func(b *pcm.Buffer, args Args) (*pcm.Buffer, error)
}

// Usage returns the name followed by its parameters in angle brackets.
func (o *Op) Usage() string {
	var sb strings.Builder
	sb.WriteString(o.Name)
	for _, p := range o.Params {
		fmt.Fprintf(&sb, " <%s>", p.Name)
	}
	return sb.String()
}

// Parse converts raw tokens into Args. len(raw) must equal len(o.Params).
func (o *Op) Parse(raw []string) (Args, error) {
	args := make(Args, len(o.Params))
	for i, p := range o.Params {
		var err error
		switch p.Kind {
		case KindUint:
			var v uint64
			v, err = strconv.ParseUint(raw[i], 10, 32)
			args[i] = float64(v)
		case KindUint8:
			var v uint64
			v, err = strconv.ParseUint(raw[i], 10, 8)
			args[i] = float64(v)
		case KindFloat:
			args[i], err = strconv.ParseFloat(raw[i], 32)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s: %q is not a valid %s", ErrParse, o.Name, p.Name, raw[i], p.Kind)
		}
	}
	return args, nil
}

// inPlace adapts a transform that mutates the buffer.
func inPlace(fn func(*pcm.Buffer, Args)) func(*pcm.Buffer, Args) (*pcm.Buffer, error) {
	return func(b *pcm.Buffer, a Args) (*pcm.Buffer, error) {
		fn(b, a)
		return b, nil
	}
}

// inPlaceErr adapts a mutating transform that can fail.
func inPlaceErr(fn func(*pcm.Buffer, Args) error) func(*pcm.Buffer, Args) (*pcm.Buffer, error) {
	return func(b *pcm.Buffer, a Args) (*pcm.Buffer, error) {
		return b, fn(b, a)
	}
}

func float(name string) Param { return Param{Name: name, Kind: KindFloat} }

// registry is ordered: a token selects the first operation it prefixes.
var registry = []*Op{
	{
		Name:    "interpolate",
		Summary: "blend every pseudo-cycle with the one before it",
		Apply: func(b *pcm.Buffer, _ Args) (*pcm.Buffer, error) {
			return cycle.Interpolate(b), nil
		},
	},
	{
		Name:    "fractalize",
		Summary: "overlay every pseudo-cycle with sped-up copies of itself",
		Params:  []Param{{Name: "depth", Kind: KindUint}},
		Apply: func(b *pcm.Buffer, a Args) (*pcm.Buffer, error) {
			return cycle.Fractalize(b, a.Uint(0)), nil
		},
	},
	{
		Name:    "expand",
		Summary: "normalize every pseudo-cycle to full scale",
		Apply:   inPlace(func(b *pcm.Buffer, _ Args) { cycle.Expand(b) }),
	},
	{
		Name:    "reverse",
		Summary: "reverse the samples inside every pseudo-cycle",
		Apply:   inPlace(func(b *pcm.Buffer, _ Args) { cycle.Reverse(b) }),
	},
	{
		Name:    "fold",
		Summary: "wrap samples through sin",
		Apply:   inPlace(func(b *pcm.Buffer, _ Args) { effects.Fold(b) }),
	},
	{
		Name:    "hardclip",
		Summary: "clip samples to +-threshold",
		Params:  []Param{float("threshold")},
		Apply:   inPlace(func(b *pcm.Buffer, a Args) { effects.HardClip(b, a.Float(0)) }),
	},
	{
		Name:    "softclip",
		Summary: "cubic soft clipper",
		Params:  []Param{float("amount")},
		Apply:   inPlace(func(b *pcm.Buffer, a Args) { effects.SoftClip(b, a.Float(0)) }),
	},
	{
		Name:    "waveshape",
		Summary: "power-curve shaper over the whole buffer",
		Params:  []Param{float("tension")},
		Apply:   inPlace(func(b *pcm.Buffer, a Args) { effects.Waveshape(b, a.Float(0)) }),
	},
	{
		Name:    "tense",
		Summary: "power-curve shaper relative to each pseudo-cycle peak",
		Params:  []Param{float("tension")},
		Apply:   inPlace(func(b *pcm.Buffer, a Args) { cycle.Tense(b, a.Float(0)) }),
	},
	{
		Name:    "decimate",
		Summary: "quantize samples to steps of 1/depth",
		Params:  []Param{float("depth")},
		Apply:   inPlace(func(b *pcm.Buffer, a Args) { effects.Decimate(b, a.Float(0)) }),
	},
	{
		Name:    "pitch",
		Summary: "transpose through a 2^logsize circular history",
		Params:  []Param{float("factor"), {Name: "logsize", Kind: KindUint8}},
		Apply: inPlaceErr(func(b *pcm.Buffer, a Args) error {
			return resample.PitchShift(b, a.Float(0), a.Uint8(1))
		}),
	},
	{
		Name:    "rotate",
		Summary: "feedback delay with an LFO phase rotation",
		Params:  []Param{{Name: "delay", Kind: KindUint}, float("feedback"), float("frequency")},
		Apply: inPlaceErr(func(b *pcm.Buffer, a Args) error {
			return phase.Rotate(b, phase.Params{
				Delay:     a.Uint(0),
				Feedback:  a.Float(1),
				Frequency: a.Float(2),
			})
		}),
	},
	{
		Name:    "stretch",
		Summary: "change duration by reading at speed",
		Params:  []Param{float("speed")},
		Apply: inPlaceErr(func(b *pcm.Buffer, a Args) error {
			return resample.Stretch(b, a.Float(0))
		}),
	},
	{
		Name:    "gain",
		Summary: "multiply by gain",
		Params:  []Param{float("gain")},
		Apply:   inPlace(func(b *pcm.Buffer, a Args) { effects.Gain(b, a.Float(0)) }),
	},
	{
		Name:    "dc",
		Summary: "add a constant offset",
		Params:  []Param{float("offset")},
		Apply:   inPlace(func(b *pcm.Buffer, a Args) { effects.DC(b, a.Float(0)) }),
	},
	{
		Name:    "removedc",
		Summary: "subtract the mean",
		Apply:   inPlace(func(b *pcm.Buffer, _ Args) { effects.RemoveDC(b) }),
	},
	{
		Name:    "normalize",
		Summary: "scale to a peak of 1",
		Apply:   inPlace(func(b *pcm.Buffer, _ Args) { effects.Normalize(b) }),
	},
}

// Ops returns every operation in dispatch order.
func Ops() []*Op {
	return slices.Clone(registry)
}

// Lookup returns the first operation whose name starts with token.
func Lookup(token string) (*Op, bool) {
	for _, op := range registry {
		if strings.HasPrefix(op.Name, token) {
			return op, true
		}
	}
	return nil, false
}
