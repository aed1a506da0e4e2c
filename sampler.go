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

// SamplerU16 and SamplerF32 are called once per grid node of a CLUT
// being sampled. in holds the quantized input colorant for this node,
// out holds the node's current value (to be read or overwritten), and
// flags carries SamplerInspect when the sample call is read-only.
type SamplerU16 func(in []uint16, out []uint16, flags uint32) error
type SamplerF32 func(in []float32, out []float32, flags uint32) error

// IdentitySamplerU16 writes its quantized input straight through to
// out, the trivial sampler used to seed a freshly allocated CLUT.
func IdentitySamplerU16(in []uint16, out []uint16, _ uint32) error {
	n := len(in)
	if n > len(out) {
		n = len(out)
	}
	copy(out, in[:n])
	return nil
}

// IdentitySamplerF32 is IdentitySamplerU16 for the float32 domain.
func IdentitySamplerF32(in []float32, out []float32, _ uint32) error {
	n := len(in)
	if n > len(out) {
		n = len(out)
	}
	copy(out, in[:n])
	return nil
}

// SampleCLUTU16 visits every grid node of an nInputs-dimensional CLUT
// laid out with nSamples points per axis, invoking fn with the
// quantized colorant for that node and the node's current output
// slice. Unless flags carries SamplerInspect, fn's writes to out are
// stored back into the table.
func SampleCLUTU16(p *InterpParams[uint16], nSamples []int, fn SamplerU16, flags uint32) error {
	total := cubeSize(nSamples[:p.NInputs])
	if total == 0 {
		return errf(Range, "degenerate clut grid", "CLUT grid is degenerate")
	}

	in := make([]uint16, p.NInputs)
	colorant := make([]int, p.NInputs)
	out := make([]uint16, p.NOutputs)

	for idx := 0; idx < total; idx++ {
		rest := idx
		for t := p.NInputs - 1; t >= 0; t-- {
			colorant[t] = rest % nSamples[t]
			rest /= nSamples[t]
			in[t] = quantizeVal(float64(colorant[t]), nSamples[t])
		}

		// Opta[0] is the stride of the last (fastest) input axis.
		offset := 0
		for t := 0; t < p.NInputs; t++ {
			offset += colorant[t] * p.Opta[p.NInputs-1-t]
		}
		copy(out, p.Table[offset:offset+p.NOutputs])

		if err := fn(in, out, flags); err != nil {
			return err
		}
		if flags&SamplerInspect == 0 {
			copy(p.Table[offset:offset+p.NOutputs], out)
		}
	}
	return nil
}

// SampleCLUTF32 is SampleCLUTU16 for a float32-sampled CLUT; colorant
// quantization still runs through the 16-bit grid convention so a
// u16 and f32 CLUT built from the same nSamples land on the same
// nodes.
func SampleCLUTF32(p *InterpParams[float32], nSamples []int, fn SamplerF32, flags uint32) error {
	total := cubeSize(nSamples[:p.NInputs])
	if total == 0 {
		return errf(Range, "degenerate clut grid", "CLUT grid is degenerate")
	}

	in := make([]float32, p.NInputs)
	colorant := make([]int, p.NInputs)
	out := make([]float32, p.NOutputs)

	for idx := 0; idx < total; idx++ {
		rest := idx
		for t := p.NInputs - 1; t >= 0; t-- {
			colorant[t] = rest % nSamples[t]
			rest /= nSamples[t]
			in[t] = fromU16ToF32(quantizeVal(float64(colorant[t]), nSamples[t]))
		}

		offset := 0
		for t := 0; t < p.NInputs; t++ {
			offset += colorant[t] * p.Opta[p.NInputs-1-t]
		}
		copy(out, p.Table[offset:offset+p.NOutputs])

		if err := fn(in, out, flags); err != nil {
			return err
		}
		if flags&SamplerInspect == 0 {
			copy(p.Table[offset:offset+p.NOutputs], out)
		}
	}
	return nil
}
