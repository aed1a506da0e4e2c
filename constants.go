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

// Limits and tolerances shared by the interpolation, curve, and
// pipeline subsystems.
const (
	MaxChannels         = 16
	MaxInputDimensions  = 15
	MaxStageChannels    = 128
	MaxNodesInCurve     = 4097
	MatrixDetTolerance  = 1e-4
	PlusInf             = 1e22
	MinusInf            = -1e22
	XYZMax              = 1 + 32767.0/32768.0
	defaultCurveEntries = 4096
)

// D50 is the CIE standard illuminant D50 white point, the reference
// illuminant for the Profile Connection Space.
var D50 = XYZ{X: 0.9642, Y: 1.0, Z: 0.8249}

// Interpolation flag bits, passed to InterpParams construction and
// the interpolation factory.
const (
	FlagFloat     uint32 = 1 << 0
	FlagTrilinear uint32 = 1 << 8
)

// SamplerInspect tells SampleCLUT* not to write the sampler's modified
// output back into the table; it only observes. This belongs to a
// separate flag namespace from FlagFloat/FlagTrilinear above.
const SamplerInspect uint32 = 1 << 0
