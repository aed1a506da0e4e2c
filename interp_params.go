// go.colorcore.dev/cms - a numerical core for ICC-style color management
// Copyright (C) 2026  The colorcore Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package cms

// Sample is the set of element types a CLUT table may hold.
type Sample interface {
	uint16 | float32
}

// InterpParams is the precomputed metadata attached to every CLUT:
// grid shape, per-axis strides, and the interpolation kernel chosen
// for this (n_inputs, n_outputs, flags) combination. It is immutable
// after construction.
type InterpParams[T Sample] struct {
	NInputs       int
	NOutputs      int
	NSamples      [MaxInputDimensions]int
	Domain        [MaxInputDimensions]int
	Opta          [MaxInputDimensions]int
	Table         []T
	Interpolation InterpFunction
	Flags         uint32
}

// Compute builds an InterpParams from possibly non-uniform per-axis
// grid sizes, as described in spec §4.2.
func Compute[T Sample](ctx *Context, nSamples []int, nInputs, nOutputs int, table []T, flags uint32) (*InterpParams[T], error) {
	if nInputs > MaxInputDimensions || nInputs <= 0 {
		return nil, errf(Range, "too many input channels", "Too many input channels (%d channels, max=%d)", nInputs, MaxInputDimensions)
	}
	if nOutputs > MaxStageChannels || nOutputs <= 0 {
		return nil, ErrTooManyOutputChannels
	}

	p := &InterpParams[T]{
		NInputs:  nInputs,
		NOutputs: nOutputs,
		Table:    table,
		Flags:    flags,
	}

	for i := 0; i < nInputs; i++ {
		p.NSamples[i] = nSamples[i]
		p.Domain[i] = nSamples[i] - 1
	}

	// opta[0] = n_outputs, opta[i] = opta[i-1] * n_samples[n_inputs-i],
	// so that the fastest-varying input is the last one.
	p.Opta[0] = nOutputs
	for i := 1; i < nInputs; i++ {
		p.Opta[i] = p.Opta[i-1] * nSamples[nInputs-i]
	}

	kernel, err := ctx.interpFactoryResolve(nInputs, nOutputs, flags)
	if err != nil {
		return nil, err
	}
	p.Interpolation = kernel

	return p, nil
}

// ComputeUniform is Compute with all NSamples[i] = grid.
func ComputeUniform[T Sample](ctx *Context, grid, nInputs, nOutputs int, table []T, flags uint32) (*InterpParams[T], error) {
	samples := make([]int, nInputs)
	for i := range samples {
		samples[i] = grid
	}
	return Compute(ctx, samples, nInputs, nOutputs, table, flags)
}

// cubeSize returns the product of dims[0:n], or 0 if any dimension is
// <= 1 or the product overflows — the error convention used by the
// CLUT sampler.
func cubeSize(dims []int) int {
	rv := 1
	for _, d := range dims {
		if d <= 1 {
			return 0
		}
		next := rv * d
		if next/d != rv {
			return 0
		}
		rv = next
	}
	return rv
}

// quantizeVal maps a zero-based grid index into the [0, 0xFFFF] u16
// domain for a given number of grid points along that axis.
func quantizeVal(colorant float64, nSamples int) uint16 {
	if nSamples <= 1 {
		return 0
	}
	v := colorant * 65535.0 / float64(nSamples-1)
	return quickSaturateWord(v)
}
