// SPDX-License-Identifier: MIT
/*
Package pipeline parses and runs a chain of operations over one buffer.

A chain is a flat token list:

	[[count] <operation> [args...]]...

Operations are matched by prefix against the registry in its fixed order,
so "re" selects reverse and "d" selects decimate. An optional leading
unsigned integer repeats the operation that follows. Steps execute as soon
as they are parsed: when a later token is malformed the steps before it
have already been applied and Run returns that partial result alongside the
error.
*/
package pipeline

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"glitch/internal/log"
	"glitch/internal/pcm"
)

var (
	// ErrArgument reports an unknown operation or missing arguments.
	ErrArgument = errors.New("argument error")

	// ErrParse reports an argument that is not a valid number.
	ErrParse = errors.New("parse error")

	// ErrNonFinite reports a NaN or infinite sample left behind by a step
	// in strict mode.
	ErrNonFinite = errors.New("non-finite sample")
)

// Step is one parsed element of a chain.
type Step struct {
	Op    *Op
	Count uint64
	Args  Args
	Raw   []string
}

func (s Step) String() string {
	parts := append([]string{s.Op.Name}, s.Raw...)
	if s.Count != 1 {
		parts = append([]string{strconv.FormatUint(s.Count, 10)}, parts...)
	}
	return strings.Join(parts, " ")
}

// Apply runs the step Count times.
func (s Step) Apply(b *pcm.Buffer) (*pcm.Buffer, error) {
	for range s.Count {
		var err error
		if b, err = s.Op.Apply(b, s.Args); err != nil {
			return b, fmt.Errorf("%s: %w", s.Op.Name, err)
		}
	}
	return b, nil
}

// Next parses one step from the head of tokens and returns the remainder.
func Next(tokens []string) (Step, []string, error) {
	step := Step{Count: 1}

	if n, err := strconv.ParseUint(tokens[0], 10, 32); err == nil {
		step.Count = n
		tokens = tokens[1:]
		if len(tokens) == 0 {
			return step, nil, fmt.Errorf("%w: repeat count %d has no operation", ErrArgument, n)
		}
	}

	op, ok := Lookup(tokens[0])
	if !ok {
		return step, nil, fmt.Errorf("%w: unknown operation %q", ErrArgument, tokens[0])
	}
	step.Op = op
	tokens = tokens[1:]

	if len(tokens) < len(op.Params) {
		return step, nil, fmt.Errorf("%w: usage: %s", ErrArgument, op.Usage())
	}
	step.Raw = tokens[:len(op.Params)]

	args, err := op.Parse(step.Raw)
	if err != nil {
		return step, nil, err
	}
	step.Args = args

	return step, tokens[len(op.Params):], nil
}

// Runner executes chains.
type Runner struct {
	// Strict fails a step that leaves a NaN or infinite sample.
	Strict bool
}

// Run parses and applies tokens step by step. The returned buffer is always
// the latest state, including when an error stops the chain.
func (r Runner) Run(b *pcm.Buffer, tokens []string) (*pcm.Buffer, error) {
	for len(tokens) > 0 {
		step, rest, err := Next(tokens)
		if err != nil {
			return b, err
		}

		start := time.Now()
		b, err = step.Apply(b)
		if err != nil {
			return b, err
		}
		log.Debugf("pipeline: %s (%d frames, %s)", step, b.Frames(), time.Since(start))

		if r.Strict {
			if i, ok := firstNonFinite(b.Samples); ok {
				return b, fmt.Errorf("%w: %s left %v at sample %d", ErrNonFinite, step.Op.Name, b.Samples[i], i)
			}
		}

		tokens = rest
	}
	return b, nil
}

func firstNonFinite(samples []float32) (int, bool) {
	for i, s := range samples {
		if math.IsNaN(float64(s)) || math.IsInf(float64(s), 0) {
			return i, true
		}
	}
	return 0, false
}

// OutputName derives an output path from an input path and a single
// operation, e.g. "drums.wav", reverse -> "drums_reversed.wav" and
// "drums.wav", gain 2 -> "drums_gained_2.wav".
func OutputName(input string, op *Op, raw []string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	suffix := "ed"
	if strings.HasSuffix(op.Name, "e") {
		suffix = "d"
	}
	name := base + "_" + op.Name + suffix
	if len(raw) > 0 {
		name += "_" + strings.Join(raw, "_")
	}
	return name + ".wav"
}
