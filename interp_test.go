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

import "testing"

// identityTableU16 builds a grid-point-count^nInputs identity CLUT
// table (outputs equal the corresponding quantized inputs), used to
// check that the interpolation kernels reproduce the identity inside
// the grid's resolution.
func identityTableU16(nInputs, gridPoints int) []uint16 {
	total := 1
	for i := 0; i < nInputs; i++ {
		total *= gridPoints
	}
	table := make([]uint16, total*nInputs)
	idx := make([]int, nInputs)
	for n := 0; n < total; n++ {
		rest := n
		for t := nInputs - 1; t >= 0; t-- {
			idx[t] = rest % gridPoints
			rest /= gridPoints
		}
		for c := 0; c < nInputs; c++ {
			table[n*nInputs+c] = quantizeVal(float64(idx[c]), gridPoints)
		}
	}
	return table
}

func TestTetrahedralInterpU16Identity(t *testing.T) {
	ctx := NewContext()
	table := identityTableU16(3, 9)
	p, err := ComputeUniform(ctx, 9, 3, 3, table, 0)
	if err != nil {
		t.Fatalf("ComputeUniform: %v", err)
	}

	in := []uint16{0x1234, 0x8000, 0xABCD}
	out := make([]uint16, 3)
	p.Interpolation.U16(in, out, p)

	for c := 0; c < 3; c++ {
		diff := int(out[c]) - int(in[c])
		if diff < -2 || diff > 2 {
			t.Errorf("channel %d: tetrahedral(%v)[%d] = %d, want close to %d", c, in, c, out[c], in[c])
		}
	}
}

func TestTrilinearInterpU16Identity(t *testing.T) {
	ctx := NewContext()
	table := identityTableU16(3, 9)
	p, err := ComputeUniform(ctx, 9, 3, 3, table, FlagTrilinear)
	if err != nil {
		t.Fatalf("ComputeUniform: %v", err)
	}

	in := []uint16{0x4000, 0x9000, 0x2000}
	out := make([]uint16, 3)
	p.Interpolation.U16(in, out, p)

	for c := 0; c < 3; c++ {
		diff := int(out[c]) - int(in[c])
		if diff < -2 || diff > 2 {
			t.Errorf("channel %d: trilinear(%v)[%d] = %d, want close to %d", c, in, c, out[c], in[c])
		}
	}
}

func TestLinLerp1DU16Endpoints(t *testing.T) {
	ctx := NewContext()
	table := []uint16{0, 0x7FFF, 0xFFFF}
	p, err := ComputeUniform(ctx, 3, 1, 1, table, 0)
	if err != nil {
		t.Fatalf("ComputeUniform: %v", err)
	}

	out := make([]uint16, 1)
	p.Interpolation.U16([]uint16{0}, out, p)
	if out[0] != 0 {
		t.Errorf("at x=0: got %d, want 0", out[0])
	}
	p.Interpolation.U16([]uint16{0xFFFF}, out, p)
	if out[0] != 0xFFFF {
		t.Errorf("at x=0xFFFF: got %d, want 0xFFFF", out[0])
	}
}

func TestEvalNInputsU16FourChannelIdentity(t *testing.T) {
	ctx := NewContext()
	table := identityTableU16(4, 5)
	p, err := ComputeUniform(ctx, 5, 4, 4, table, 0)
	if err != nil {
		t.Fatalf("ComputeUniform: %v", err)
	}

	in := []uint16{0x3000, 0x6000, 0x9000, 0xC000}
	out := make([]uint16, 4)
	p.Interpolation.U16(in, out, p)

	for c := 0; c < 4; c++ {
		diff := int(out[c]) - int(in[c])
		if diff < -4 || diff > 4 {
			t.Errorf("channel %d: eval4Inputs(%v)[%d] = %d, want close to %d", c, in, c, out[c], in[c])
		}
	}
}

func TestBilinearInterpF32Identity(t *testing.T) {
	ctx := NewContext()
	gridPoints := 5
	table := make([]float32, gridPoints*gridPoints*2)
	for i := 0; i < gridPoints; i++ {
		for j := 0; j < gridPoints; j++ {
			idx := (i*gridPoints + j) * 2
			table[idx] = float32(i) / float32(gridPoints-1)
			table[idx+1] = float32(j) / float32(gridPoints-1)
		}
	}
	p, err := ComputeUniform(ctx, gridPoints, 2, 2, table, FlagFloat)
	if err != nil {
		t.Fatalf("ComputeUniform: %v", err)
	}

	in := []float32{0.37, 0.81}
	out := make([]float32, 2)
	p.Interpolation.F32(in, out, p)

	if abs32(out[0]-in[0]) > 0.01 || abs32(out[1]-in[1]) > 0.01 {
		t.Errorf("bilinear identity: got %v, want close to %v", out, in)
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// identityTableF32 is identityTableU16 for a float32-sampled CLUT:
// outputs equal the corresponding grid-fraction inputs.
func identityTableF32(nInputs, gridPoints int) []float32 {
	total := 1
	for i := 0; i < nInputs; i++ {
		total *= gridPoints
	}
	table := make([]float32, total*nInputs)
	idx := make([]int, nInputs)
	for n := 0; n < total; n++ {
		rest := n
		for t := nInputs - 1; t >= 0; t-- {
			idx[t] = rest % gridPoints
			rest /= gridPoints
		}
		for c := 0; c < nInputs; c++ {
			table[n*nInputs+c] = float32(idx[c]) / float32(gridPoints-1)
		}
	}
	return table
}

// TestTetrahedralInterpF32Identity exercises the f32 tetrahedral kernel
// end-to-end (not just quickFloor in isolation): a regression for the
// missing >>16 shift in quickFloor, which corrupted every f32 table
// address computed from quickFloor's result.
func TestTetrahedralInterpF32Identity(t *testing.T) {
	ctx := NewContext()
	table := identityTableF32(3, 9)
	p, err := ComputeUniform(ctx, 9, 3, 3, table, FlagFloat)
	if err != nil {
		t.Fatalf("ComputeUniform: %v", err)
	}

	in := []float32{0.14, 0.52, 0.83}
	out := make([]float32, 3)
	p.Interpolation.F32(in, out, p)

	for c := 0; c < 3; c++ {
		if abs32(out[c]-in[c]) > 0.02 {
			t.Errorf("channel %d: tetrahedral f32(%v)[%d] = %v, want close to %v", c, in, c, out[c], in[c])
		}
	}
}

// TestTrilinearInterpF32Identity is TestTetrahedralInterpF32Identity for
// the trilinear f32 kernel.
func TestTrilinearInterpF32Identity(t *testing.T) {
	ctx := NewContext()
	table := identityTableF32(3, 9)
	p, err := ComputeUniform(ctx, 9, 3, 3, table, FlagFloat|FlagTrilinear)
	if err != nil {
		t.Fatalf("ComputeUniform: %v", err)
	}

	in := []float32{0.66, 0.23, 0.47}
	out := make([]float32, 3)
	p.Interpolation.F32(in, out, p)

	for c := 0; c < 3; c++ {
		if abs32(out[c]-in[c]) > 0.02 {
			t.Errorf("channel %d: trilinear f32(%v)[%d] = %v, want close to %v", c, in, c, out[c], in[c])
		}
	}
}

// TestEvalNInputsF32FourChannelIdentity exercises the recursive n-D f32
// reduction end-to-end, the other quickFloor call site the missing
// shift silently corrupted.
func TestEvalNInputsF32FourChannelIdentity(t *testing.T) {
	ctx := NewContext()
	table := identityTableF32(4, 5)
	p, err := ComputeUniform(ctx, 5, 4, 4, table, FlagFloat)
	if err != nil {
		t.Fatalf("ComputeUniform: %v", err)
	}

	in := []float32{0.19, 0.38, 0.57, 0.76}
	out := make([]float32, 4)
	p.Interpolation.F32(in, out, p)

	for c := 0; c < 4; c++ {
		if abs32(out[c]-in[c]) > 0.03 {
			t.Errorf("channel %d: eval4Inputs f32(%v)[%d] = %v, want close to %v", c, in, c, out[c], in[c])
		}
	}
}

func TestDefaultInterpFactoryRejectsTooManyChannels(t *testing.T) {
	if _, err := defaultInterpFactory(16, 3, 0); err == nil {
		t.Error("expected error for 16 input channels")
	}
	if _, err := defaultInterpFactory(3, MaxStageChannels, 0); err == nil {
		t.Error("expected error for too many output channels")
	}
}
