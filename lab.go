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

import "math"

// XYZ is a CIE 1931 tristimulus value, relative to a D50 illuminant
// unless stated otherwise.
type XYZ struct {
	X, Y, Z float64
}

// Lab is a CIE L*a*b* color, L in [0, 100], a and b nominally in
// [-128, 127].
type Lab struct {
	L, A, B float64
}

const (
	labThreshold    = 6.0 / 29.0
	labThresholdCube = 216.0 / 24389.0
	labLinearScale  = 108.0 / 841.0
	labInverseScale = 841.0 / 108.0
	labOffset       = 16.0 / 116.0
)

// AsXYZ converts lab to XYZ relative to white, the CIE Lab->XYZ
// inverse f function.
func (lab Lab) AsXYZ(white XYZ) XYZ {
	fy := (lab.L + 16) / 116
	fx := lab.A/500 + fy
	fz := fy - lab.B/200

	finv := func(t float64) float64 {
		if t > labThreshold {
			return t * t * t
		}
		return (t - labOffset) * labLinearScale
	}

	return XYZ{
		X: finv(fx) * white.X,
		Y: finv(fy) * white.Y,
		Z: finv(fz) * white.Z,
	}
}

// AsXYZD50 is AsXYZ relative to the standard D50 illuminant.
func (lab Lab) AsXYZD50() XYZ {
	return lab.AsXYZ(D50)
}

// AsLab converts xyz to Lab relative to white, the CIE Lab forward f
// function.
func (xyz XYZ) AsLab(white XYZ) Lab {
	wx, wy, wz := white.X, white.Y, white.Z
	if wx == 0 {
		wx = D50.X
	}
	if wy == 0 {
		wy = D50.Y
	}
	if wz == 0 {
		wz = D50.Z
	}

	f := func(t float64) float64 {
		if t > labThresholdCube {
			return math.Cbrt(t)
		}
		return t*labInverseScale + labOffset
	}

	fx := f(xyz.X / wx)
	fy := f(xyz.Y / wy)
	fz := f(xyz.Z / wz)

	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// AsLabD50 is AsLab relative to the standard D50 illuminant.
func (xyz XYZ) AsLabD50() Lab {
	return xyz.AsLab(D50)
}

// NormalizeLab maps a Lab value into the [0, 1] float-PCS encoding
// used inside a pipeline (L: [0,100]->[0,1], a/b: [-128,127]->[0,1]).
func NormalizeLab(lab Lab) [3]float64 {
	return [3]float64{
		lab.L / 100.0,
		(lab.A + 128.0) / 255.0,
		(lab.B + 128.0) / 255.0,
	}
}

// DenormalizeLab is the inverse of NormalizeLab.
func DenormalizeLab(v [3]float64) Lab {
	return Lab{
		L: v[0] * 100.0,
		A: v[1]*255.0 - 128.0,
		B: v[2]*255.0 - 128.0,
	}
}

// NormalizeXYZ maps an XYZ value into the [0, 1] float-PCS encoding
// used inside a pipeline, scaling by XYZMax so that the brightest
// representable tristimulus value (1+32767/32768) maps to 1.0.
func NormalizeXYZ(xyz XYZ) [3]float64 {
	return [3]float64{xyz.X / XYZMax, xyz.Y / XYZMax, xyz.Z / XYZMax}
}

// DenormalizeXYZ is the inverse of NormalizeXYZ.
func DenormalizeXYZ(v [3]float64) XYZ {
	return XYZ{X: v[0] * XYZMax, Y: v[1] * XYZMax, Z: v[2] * XYZMax}
}

// labV2Scale is 65535/65280, the ratio ICC v4 uses to rescale the
// legacy v2 16-bit Lab encoding (which reserved the top byte pattern)
// onto the full v4 range.
const labV2Scale = 65535.0 / 65280.0

// EncodeLabV2Curve returns the 258-entry curve table used by the
// LabV2-to-V4 CurveSet stage: entry i is (i*0xffff+0x80)>>8, a ramp
// rising by about 0x100 per entry that reaches 0xffff at entry 256.
// The final entry, whose formula value would exceed 16 bits, is set
// to 0xffff.
func EncodeLabV2Curve() []uint16 {
	const n = 258
	table := make([]uint16, n)
	for i := 0; i < n; i++ {
		table[i] = uint16((i*0xffff + 0x80) >> 8)
	}
	table[n-1] = 0xffff
	return table
}
