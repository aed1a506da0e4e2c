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

//go:build !no_fast_floor

package cms

import "math"

// quickFloor is a fast floor valid for |x| < 2^15, using the classic
// magic-constant trick: adding 1.5*2^36 leaves a ULP of 2^-16 in the
// mantissa, so the low 32 bits of the resulting bit pattern hold
// x*65536 rounded to the nearest integer, not floor(x) — the >>16
// recovers the integer part. That rounding lifts x lying within 2^-17
// below an integer up to the integer itself, so the final comparison
// steps such results back down to floor(x).
// Build with -tags no_fast_floor to use the portable fallback instead.
func quickFloor(x float64) int32 {
	const magic = 68719476736.0 * 1.5 // 1.5 * 2^36
	u := x + magic
	bits := math.Float64bits(u)
	i := int32(uint32(bits)) >> 16
	if float64(i) > x {
		i--
	}
	return i
}
