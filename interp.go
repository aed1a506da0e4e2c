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

// defaultInterpFactory implements the kernel selection matrix from
// spec §4.3: 1-D linear, 1->N, 2-D bilinear, 3-D tetrahedral or
// trilinear, and the 4..15 channel recursive family, each in both
// u16 and f32 variants.
func defaultInterpFactory(inChans, outChans int, flags uint32) (InterpFunction, error) {
	isFloat := flags&FlagFloat != 0
	isTrilinear := flags&FlagTrilinear != 0

	if inChans >= 16 {
		return InterpFunction{}, errf(NotSuitable, "invalid channel combination", "Invalid number of input channels")
	}
	if outChans >= MaxStageChannels {
		return InterpFunction{}, errf(NotSuitable, "invalid channel combination", "Invalid number of output channels")
	}

	switch {
	case inChans == 1 && outChans == 1:
		if isFloat {
			return InterpFunction{F32: linLerp1DF32}, nil
		}
		return InterpFunction{U16: linLerp1DU16}, nil
	case inChans == 1:
		if isFloat {
			return InterpFunction{F32: eval1InputF32}, nil
		}
		return InterpFunction{U16: eval1InputU16}, nil
	case inChans == 2:
		if isFloat {
			return InterpFunction{F32: bilinearInterpF32}, nil
		}
		return InterpFunction{U16: bilinearInterpU16}, nil
	case inChans == 3 && isTrilinear:
		if isFloat {
			return InterpFunction{F32: trilinearInterpF32}, nil
		}
		return InterpFunction{U16: trilinearInterpU16}, nil
	case inChans == 3:
		if isFloat {
			return InterpFunction{F32: tetrahedralInterpF32}, nil
		}
		return InterpFunction{U16: tetrahedralInterpU16}, nil
	case inChans >= 4 && inChans <= 15:
		if isFloat {
			return InterpFunction{F32: func(in []float32, out []float32, p *InterpParams[float32]) {
				evalNInputsF32(inChans, in, out, p)
			}}, nil
		}
		return InterpFunction{U16: func(in []uint16, out []uint16, p *InterpParams[uint16]) {
			evalNInputsU16(inChans, in, out, p)
		}}, nil
	default:
		return InterpFunction{}, ErrInvalidChannelCombo
	}
}

// --- shared numeric helpers -------------------------------------------------

func fixedToInt(x int32) int32     { return x >> 16 }
func fixedRestToInt(x int32) int32 { return x & 0xFFFF }
func roundFixedToInt(x int32) int32 {
	return (x + 0x8000) >> 16
}

func fclamp(v float32) float32 {
	if v < 1.0e-9 || v != v { // v != v detects NaN without importing math
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func linearInterpU16(a, l, h int32) uint16 {
	diff := uint32(h-l)*uint32(a) + 0x8000
	diff = (diff >> 16) + uint32(l)
	return uint16(diff)
}

func linearInterpF32(a, l, h float32) float32 {
	return l + (h-l)*a
}

// tetraFastRoundU16 is the fast rounding trick used by the tetrahedral
// kernel to divide by 0xFFFF (not 0x10000) with round-to-nearest,
// avoiding an explicit division. Applied uniformly across the 3-D
// tetrahedral kernel and the 4..15 channel recursive family's base
// case, rather than porting the reference's two slightly different
// formulations of the same rounding (see DESIGN.md).
func tetraFastRoundU16(rest int32) int32 {
	rest += 0x8001
	return (rest + (rest >> 16)) >> 16
}

// --- 1-D --------------------------------------------------------------------

func linLerp1DU16(input []uint16, output []uint16, p *InterpParams[uint16]) {
	table := p.Table
	if input[0] == 0xffff || p.Domain[0] == 0 {
		output[0] = table[p.Domain[0]]
		return
	}
	val := int32(p.Domain[0]) * int32(input[0])
	val = toFixedDomain(val)
	cell0 := fixedToInt(val)
	rest := fixedRestToInt(val)

	y0 := table[cell0]
	y1 := table[cell0+1]
	output[0] = linearInterpU16(rest, int32(y0), int32(y1))
}

func linLerp1DF32(input []float32, output []float32, p *InterpParams[float32]) {
	table := p.Table
	v := fclamp(input[0])
	if v == 1 || p.Domain[0] == 0 {
		output[0] = table[p.Domain[0]]
		return
	}
	v *= float32(p.Domain[0])
	cell0 := int32(v)
	cell1 := cell0
	if v > float32(cell0) {
		cell1 = cell0 + 1
	}
	rest := v - float32(cell0)

	y0 := table[cell0]
	y1 := table[cell1]
	output[0] = linearInterpF32(rest, y0, y1)
}

// --- 1 -> N -------------------------------------------------------------------

func eval1InputU16(input []uint16, output []uint16, p *InterpParams[uint16]) {
	table := p.Table
	if input[0] == 0xffff || p.Domain[0] == 0 {
		y0 := p.Domain[0] * p.Opta[0]
		for c := 0; c < p.NOutputs; c++ {
			output[c] = table[y0+c]
		}
		return
	}
	v := int32(input[0]) * int32(p.Domain[0])
	fk := toFixedDomain(v)
	k0 := fixedToInt(fk)
	rk := fixedRestToInt(fk)

	k1 := k0
	if input[0] != 0xffff {
		k1++
	}

	k0 *= int32(p.Opta[0])
	k1 *= int32(p.Opta[0])

	for c := 0; c < p.NOutputs; c++ {
		output[c] = linearInterpU16(rk, int32(table[int(k0)+c]), int32(table[int(k1)+c]))
	}
}

func eval1InputF32(input []float32, output []float32, p *InterpParams[float32]) {
	table := p.Table
	v := fclamp(input[0])
	if v == 1 || p.Domain[0] == 0 {
		start := p.Domain[0] * p.Opta[0]
		for c := 0; c < p.NOutputs; c++ {
			output[c] = table[start+c]
		}
		return
	}
	v *= float32(p.Domain[0])
	cell0 := int(v)
	cell1 := cell0
	if v > float32(cell0) {
		cell1 = cell0 + 1
	}
	rest := v - float32(cell0)

	cell0 *= p.Opta[0]
	cell1 *= p.Opta[0]

	for c := 0; c < p.NOutputs; c++ {
		y0 := table[cell0+c]
		y1 := table[cell1+c]
		output[c] = linearInterpF32(rest, y0, y1)
	}
}

// --- 2-D bilinear -------------------------------------------------------------

func bilinearInterpU16(input []uint16, output []uint16, p *InterpParams[uint16]) {
	table := p.Table

	fx := toFixedDomain(int32(p.Domain[0]) * int32(input[0]))
	x0 := fixedToInt(fx)
	rx := fixedRestToInt(fx)

	fy := toFixedDomain(int32(p.Domain[1]) * int32(input[1]))
	y0 := fixedToInt(fy)
	ry := fixedRestToInt(fy)

	x0 *= int32(p.Opta[1])
	x1 := x0
	if input[0] != 0xffff {
		x1 += int32(p.Opta[1])
	}

	y0 *= int32(p.Opta[0])
	y1 := y0
	if input[1] != 0xffff {
		y1 += int32(p.Opta[0])
	}

	for c := 0; c < p.NOutputs; c++ {
		d00 := int32(table[int(x0)+int(y0)+c])
		d01 := int32(table[int(x0)+int(y1)+c])
		d10 := int32(table[int(x1)+int(y0)+c])
		d11 := int32(table[int(x1)+int(y1)+c])

		dx0 := d00 + roundFixedToInt((d10-d00)*rx)
		dx1 := d01 + roundFixedToInt((d11-d01)*rx)
		dxy := dx0 + roundFixedToInt((dx1-dx0)*ry)

		output[c] = uint16(dxy)
	}
}

func bilinearInterpF32(input []float32, output []float32, p *InterpParams[float32]) {
	table := p.Table

	px := fclamp(input[0]) * float32(p.Domain[0])
	py := fclamp(input[1]) * float32(p.Domain[1])

	x0 := quickFloor(float64(px))
	y0 := quickFloor(float64(py))

	fx := px - float32(x0)
	fy := py - float32(y0)

	x0 *= int32(p.Opta[1])
	x1 := x0
	if input[0] < 1 {
		x1 += int32(p.Opta[1])
	}

	y0 *= int32(p.Opta[0])
	y1 := y0
	if input[1] < 1 {
		y1 += int32(p.Opta[0])
	}

	for c := 0; c < p.NOutputs; c++ {
		d00 := table[int(x0)+int(y0)+c]
		d01 := table[int(x0)+int(y1)+c]
		d10 := table[int(x1)+int(y0)+c]
		d11 := table[int(x1)+int(y1)+c]

		dx0 := linearInterpF32(fx, d00, d10)
		dx1 := linearInterpF32(fx, d01, d11)
		output[c] = linearInterpF32(fy, dx0, dx1)
	}
}

// --- 3-D trilinear -------------------------------------------------------------

func trilinearInterpU16(input []uint16, output []uint16, p *InterpParams[uint16]) {
	table := p.Table

	fx := toFixedDomain(int32(p.Domain[0]) * int32(input[0]))
	x0 := fixedToInt(fx)
	rx := fixedRestToInt(fx)

	fy := toFixedDomain(int32(p.Domain[1]) * int32(input[1]))
	y0 := fixedToInt(fy)
	ry := fixedRestToInt(fy)

	fz := toFixedDomain(int32(p.Domain[2]) * int32(input[2]))
	z0 := fixedToInt(fz)
	rz := fixedRestToInt(fz)

	x0 *= int32(p.Opta[2])
	x1 := x0
	if input[0] != 0xffff {
		x1 += int32(p.Opta[2])
	}

	y0 *= int32(p.Opta[1])
	y1 := y0
	if input[1] != 0xffff {
		y1 += int32(p.Opta[1])
	}

	z0 *= int32(p.Opta[0])
	z1 := z0
	if input[2] != 0xffff {
		z1 += int32(p.Opta[0])
	}

	for c := 0; c < p.NOutputs; c++ {
		d000 := int32(table[int(x0+y0+z0)+c])
		d001 := int32(table[int(x0+y0+z1)+c])
		d010 := int32(table[int(x0+y1+z0)+c])
		d011 := int32(table[int(x0+y1+z1)+c])
		d100 := int32(table[int(x1+y0+z0)+c])
		d101 := int32(table[int(x1+y0+z1)+c])
		d110 := int32(table[int(x1+y1+z0)+c])
		d111 := int32(table[int(x1+y1+z1)+c])

		dx00 := d000 + roundFixedToInt((d100-d000)*rx)
		dx01 := d001 + roundFixedToInt((d101-d001)*rx)
		dx10 := d010 + roundFixedToInt((d110-d010)*rx)
		dx11 := d011 + roundFixedToInt((d111-d011)*rx)

		dxy0 := dx00 + roundFixedToInt((dx10-dx00)*ry)
		dxy1 := dx01 + roundFixedToInt((dx11-dx01)*ry)

		dxyz := dxy0 + roundFixedToInt((dxy1-dxy0)*rz)

		output[c] = uint16(dxyz)
	}
}

func trilinearInterpF32(input []float32, output []float32, p *InterpParams[float32]) {
	table := p.Table

	px := fclamp(input[0]) * float32(p.Domain[0])
	py := fclamp(input[1]) * float32(p.Domain[1])
	pz := fclamp(input[2]) * float32(p.Domain[2])

	x0 := quickFloor(float64(px))
	y0 := quickFloor(float64(py))
	z0 := quickFloor(float64(pz))

	fx := px - float32(x0)
	fy := py - float32(y0)
	fz := pz - float32(z0)

	x0 *= int32(p.Opta[2])
	x1 := x0
	if fclamp(input[0]) < 1 {
		x1 += int32(p.Opta[2])
	}

	y0 *= int32(p.Opta[1])
	y1 := y0
	if fclamp(input[1]) < 1 {
		y1 += int32(p.Opta[1])
	}

	z0 *= int32(p.Opta[0])
	z1 := z0
	if fclamp(input[2]) < 1 {
		z1 += int32(p.Opta[0])
	}

	for c := 0; c < p.NOutputs; c++ {
		d000 := table[int(x0+y0+z0)+c]
		d001 := table[int(x0+y0+z1)+c]
		d010 := table[int(x0+y1+z0)+c]
		d011 := table[int(x0+y1+z1)+c]
		d100 := table[int(x1+y0+z0)+c]
		d101 := table[int(x1+y0+z1)+c]
		d110 := table[int(x1+y1+z0)+c]
		d111 := table[int(x1+y1+z1)+c]

		dx00 := linearInterpF32(fx, d000, d100)
		dx01 := linearInterpF32(fx, d001, d101)
		dx10 := linearInterpF32(fx, d010, d110)
		dx11 := linearInterpF32(fx, d011, d111)

		dxy0 := linearInterpF32(fy, dx00, dx10)
		dxy1 := linearInterpF32(fy, dx01, dx11)

		output[c] = linearInterpF32(fz, dxy0, dxy1)
	}
}

// --- 3-D tetrahedral, the critical kernel -------------------------------------

// tetrahedralInterpU16 decomposes the unit cube into six tetrahedra
// and interpolates within the one containing (rx, ry, rz), selected
// by comparing the three remainders; ties break with >=, in the order
// rx, ry, rz.
func tetrahedralInterpU16(input []uint16, output []uint16, p *InterpParams[uint16]) {
	table := p.Table

	fx := toFixedDomain(int32(p.Domain[0]) * int32(input[0]))
	fy := toFixedDomain(int32(p.Domain[1]) * int32(input[1]))
	fz := toFixedDomain(int32(p.Domain[2]) * int32(input[2]))

	x0 := fixedToInt(fx)
	y0 := fixedToInt(fy)
	z0 := fixedToInt(fz)

	rx := fixedRestToInt(fx)
	ry := fixedRestToInt(fy)
	rz := fixedRestToInt(fz)

	// x1, y1, z1 are offsets relative to base, which already starts at
	// the (x0, y0, z0) cell.
	x0 *= int32(p.Opta[2])
	var x1 int32
	if input[0] != 0xffff {
		x1 += int32(p.Opta[2])
	}

	y0 *= int32(p.Opta[1])
	var y1 int32
	if input[1] != 0xffff {
		y1 += int32(p.Opta[1])
	}

	z0 *= int32(p.Opta[0])
	var z1 int32
	if input[2] != 0xffff {
		z1 += int32(p.Opta[0])
	}

	base := table[int(x0+y0+z0):]

	for c := 0; c < p.NOutputs; c++ {
		c0 := int32(base[c])

		var c1, c2, c3 int32
		switch {
		case rx >= ry && ry >= rz: // rx >= ry >= rz
			c1 = int32(base[int(x1)+c]) - c0
			c2 = int32(base[int(x1+y1)+c]) - int32(base[int(x1)+c])
			c3 = int32(base[int(x1+y1+z1)+c]) - int32(base[int(x1+y1)+c])
		case rx >= ry && rz >= rx: // rz >= rx >= ry
			c1 = int32(base[int(x1+z1)+c]) - int32(base[int(z1)+c])
			c2 = int32(base[int(x1+y1+z1)+c]) - int32(base[int(x1+z1)+c])
			c3 = int32(base[int(z1)+c]) - c0
		case rx >= ry: // rx >= rz >= ry
			c1 = int32(base[int(x1)+c]) - c0
			c2 = int32(base[int(x1+y1+z1)+c]) - int32(base[int(x1+z1)+c])
			c3 = int32(base[int(x1+z1)+c]) - int32(base[int(x1)+c])
		case rx >= rz: // ry >= rx >= rz
			c1 = int32(base[int(x1+y1)+c]) - int32(base[int(y1)+c])
			c2 = int32(base[int(y1)+c]) - c0
			c3 = int32(base[int(x1+y1+z1)+c]) - int32(base[int(x1+y1)+c])
		case ry >= rz: // ry >= rz >= rx
			c1 = int32(base[int(x1+y1+z1)+c]) - int32(base[int(y1+z1)+c])
			c2 = int32(base[int(y1)+c]) - c0
			c3 = int32(base[int(y1+z1)+c]) - int32(base[int(y1)+c])
		default: // rz >= ry >= rx
			c1 = int32(base[int(x1+y1+z1)+c]) - int32(base[int(y1+z1)+c])
			c2 = int32(base[int(y1+z1)+c]) - int32(base[int(z1)+c])
			c3 = int32(base[int(z1)+c]) - c0
		}

		rest := c1*rx + c2*ry + c3*rz
		output[c] = uint16(c0 + tetraFastRoundU16(rest))
	}
}

// tetrahedralInterpF32 mirrors tetrahedralInterpU16 but accumulates in
// plain floating point with no fixed-point rounding bias.
func tetrahedralInterpF32(input []float32, output []float32, p *InterpParams[float32]) {
	table := p.Table

	px := fclamp(input[0]) * float32(p.Domain[0])
	py := fclamp(input[1]) * float32(p.Domain[1])
	pz := fclamp(input[2]) * float32(p.Domain[2])

	x0 := quickFloor(float64(px))
	y0 := quickFloor(float64(py))
	z0 := quickFloor(float64(pz))

	rx := px - float32(x0)
	ry := py - float32(y0)
	rz := pz - float32(z0)

	x0 *= int32(p.Opta[2])
	y0 *= int32(p.Opta[1])
	z0 *= int32(p.Opta[0])

	// x1, y1, z1 are offsets relative to base, as in tetrahedralInterpU16.
	var x1 int32
	if fclamp(input[0]) < 1 {
		x1 += int32(p.Opta[2])
	}
	var y1 int32
	if fclamp(input[1]) < 1 {
		y1 += int32(p.Opta[1])
	}
	var z1 int32
	if fclamp(input[2]) < 1 {
		z1 += int32(p.Opta[0])
	}

	base := table[int(x0+y0+z0):]

	for c := 0; c < p.NOutputs; c++ {
		c0 := base[c]

		var c1, c2, c3 float32
		switch {
		case rx >= ry && ry >= rz:
			c1 = base[int(x1)+c] - c0
			c2 = base[int(x1+y1)+c] - base[int(x1)+c]
			c3 = base[int(x1+y1+z1)+c] - base[int(x1+y1)+c]
		case rx >= ry && rz >= rx:
			c1 = base[int(x1+z1)+c] - base[int(z1)+c]
			c2 = base[int(x1+y1+z1)+c] - base[int(x1+z1)+c]
			c3 = base[int(z1)+c] - c0
		case rx >= ry:
			c1 = base[int(x1)+c] - c0
			c2 = base[int(x1+y1+z1)+c] - base[int(x1+z1)+c]
			c3 = base[int(x1+z1)+c] - base[int(x1)+c]
		case rx >= rz:
			c1 = base[int(x1+y1)+c] - base[int(y1)+c]
			c2 = base[int(y1)+c] - c0
			c3 = base[int(x1+y1+z1)+c] - base[int(x1+y1)+c]
		case ry >= rz:
			c1 = base[int(x1+y1+z1)+c] - base[int(y1+z1)+c]
			c2 = base[int(y1)+c] - c0
			c3 = base[int(y1+z1)+c] - base[int(y1)+c]
		default:
			c1 = base[int(x1+y1+z1)+c] - base[int(y1+z1)+c]
			c2 = base[int(y1+z1)+c] - base[int(z1)+c]
			c3 = base[int(z1)+c] - c0
		}

		output[c] = c0 + c1*rx + c2*ry + c3*rz
	}
}

// --- n-D (4..15) recursive reduction ------------------------------------------

// subParamsU16 builds the (n-1)-input view used when peeling the first
// axis off an n-input CLUT: Domain/NSamples are shifted down by one
// slot, Opta is shared unchanged (its low indices already describe
// the strides of the trailing n-1 axes), and Table is left for the
// caller to reslice to the chosen half-cube.
func subParamsU16(p *InterpParams[uint16], nSub int) *InterpParams[uint16] {
	sub := &InterpParams[uint16]{
		NInputs:       nSub,
		NOutputs:      p.NOutputs,
		Opta:          p.Opta,
		Flags:         p.Flags,
		Interpolation: p.Interpolation,
	}
	for i := 0; i < nSub; i++ {
		sub.Domain[i] = p.Domain[i+1]
		sub.NSamples[i] = p.NSamples[i+1]
	}
	return sub
}

func subParamsF32(p *InterpParams[float32], nSub int) *InterpParams[float32] {
	sub := &InterpParams[float32]{
		NInputs:       nSub,
		NOutputs:      p.NOutputs,
		Opta:          p.Opta,
		Flags:         p.Flags,
		Interpolation: p.Interpolation,
	}
	for i := 0; i < nSub; i++ {
		sub.Domain[i] = p.Domain[i+1]
		sub.NSamples[i] = p.NSamples[i+1]
	}
	return sub
}

// evalNInputsU16 implements the recursive n-D reduction for n in
// 4..15: split the first axis, recurse into the (n-1)-input kernel
// (bottoming out at the 3-D tetrahedral kernel) on each half-cube
// slab, then linearly interpolate between the two results using the
// first axis's remainder.
func evalNInputsU16(n int, input []uint16, output []uint16, p *InterpParams[uint16]) {
	if n == 3 {
		tetrahedralInterpU16(input, output, p)
		return
	}

	var tmp1, tmp2 [MaxStageChannels]uint16

	fk := toFixedDomain(int32(p.Domain[0]) * int32(input[0]))
	k0 := fixedToInt(fk)
	rk := fixedRestToInt(fk)

	stride := int32(p.Opta[n-1])
	k0s := stride * k0
	k1s := k0s
	if input[0] != 0xffff {
		k1s = stride * (k0 + 1)
	}

	sub := subParamsU16(p, n-1)

	sub.Table = p.Table[k0s:]
	evalNInputsU16(n-1, input[1:], tmp1[:p.NOutputs], sub)

	sub.Table = p.Table[k1s:]
	evalNInputsU16(n-1, input[1:], tmp2[:p.NOutputs], sub)

	for i := 0; i < p.NOutputs; i++ {
		output[i] = linearInterpU16(rk, int32(tmp1[i]), int32(tmp2[i]))
	}
}

func evalNInputsF32(n int, input []float32, output []float32, p *InterpParams[float32]) {
	if n == 3 {
		tetrahedralInterpF32(input, output, p)
		return
	}

	var tmp1, tmp2 [MaxStageChannels]float32

	pk := fclamp(input[0]) * float32(p.Domain[0])
	k0 := quickFloor(float64(pk))
	rest := pk - float32(k0)

	stride := int32(p.Opta[n-1])
	k0s := stride * k0
	k1s := k0s
	if fclamp(input[0]) < 1 {
		k1s = stride * (k0 + 1)
	}

	sub := subParamsF32(p, n-1)

	sub.Table = p.Table[k0s:]
	evalNInputsF32(n-1, input[1:], tmp1[:p.NOutputs], sub)

	sub.Table = p.Table[k1s:]
	evalNInputsF32(n-1, input[1:], tmp2[:p.NOutputs], sub)

	for i := 0; i < p.NOutputs; i++ {
		output[i] = tmp1[i] + (tmp2[i]-tmp1[i])*rest
	}
}
