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

// defaultParametricRegistry returns the 10 built-in parametric curve
// types (1-8, 108, 109). A negative type code requests the analytic
// inverse of the same curve family rather than a distinct function,
// matching build_parametric(-type, ...) in the reference port.
//
// Each entry's eval closure receives the signed type so it can branch
// on direction; parametricCurveByType strips the sign only to pick the
// entry out of the map, not to decide which branch runs.
func defaultParametricRegistry() map[int]parametricEntry {
	return map[int]parametricEntry{
		1:   {paramCount: 1, eval: evalParam1},
		2:   {paramCount: 3, eval: evalParam2},
		3:   {paramCount: 4, eval: evalParam3},
		4:   {paramCount: 5, eval: evalParam4},
		5:   {paramCount: 7, eval: evalParam5},
		6:   {paramCount: 4, eval: evalParam6},
		7:   {paramCount: 5, eval: evalParam7},
		8:   {paramCount: 5, eval: evalParam8},
		108: {paramCount: 1, eval: evalParam108},
		109: {paramCount: 1, eval: evalParam109},
	}
}

func powSafe(base, exp float64) float64 {
	if base <= 0 {
		return 0
	}
	return math.Pow(base, exp)
}

// singularParam reports whether a parameter is too close to zero to
// divide by or invert safely. Per the singular-parameter guard that
// applies to every ±T type, callers return 0 in this case instead of
// letting the division produce NaN or +/-Inf.
func singularParam(v float64) bool {
	return math.Abs(v) < 1e-4
}

// evalParam1: Y = X^g (forward), Y = X^(1/g) (inverse).
//
// For X < 0, the curve returns X unchanged when g is approximately 1
// (treating the curve as the identity there) and 0 otherwise. For the
// inverse with g approximately 0, 1/g is undefined; rather than the
// general singular-parameter guard's "return 0", this case is
// explicitly normalized to PlusInf (clamped downstream by the caller),
// matching the documented behavior for this specific type.
func evalParam1(typ int, params []float64, x float64) float64 {
	g := params[0]
	if x < 0 {
		if singularParam(g - 1) {
			return x
		}
		return 0
	}
	if typ < 0 {
		if singularParam(g) {
			return PlusInf
		}
		return powSafe(x, 1/g)
	}
	return powSafe(x, g)
}

// evalParam2: CIE 122-1966
// Y = (aX+b)^g | X >= -b/a
// Y = 0        | X <  -b/a
func evalParam2(typ int, params []float64, x float64) float64 {
	g, a, b := params[0], params[1], params[2]
	if typ < 0 {
		if singularParam(g) || singularParam(a) {
			return 0
		}
		if x < 0 {
			return -b / a
		}
		return (powSafe(x, 1/g) - b) / a
	}
	if singularParam(a) {
		return 0
	}
	if x >= -b/a {
		return powSafe(a*x+b, g)
	}
	return 0
}

// evalParam3: IEC 61966-3
// Y = (aX+b)^g + c | X >= -b/a
// Y = c            | X <  -b/a
func evalParam3(typ int, params []float64, x float64) float64 {
	g, a, b, c := params[0], params[1], params[2], params[3]
	if typ < 0 {
		if singularParam(g) || singularParam(a) {
			return 0
		}
		if x < c {
			return -b / a
		}
		return (powSafe(x-c, 1/g) - b) / a
	}
	if singularParam(a) {
		return 0
	}
	if x >= -b/a {
		return powSafe(a*x+b, g) + c
	}
	return c
}

// evalParam4: IEC 61966-2.1 (sRGB)
// Y = (aX+b)^g | X >= d
// Y = cX       | X <  d
func evalParam4(typ int, params []float64, x float64) float64 {
	g, a, b, c, d := params[0], params[1], params[2], params[3], params[4]
	breakY := a*d + b
	if breakY < 0 {
		breakY = 0
	} else {
		breakY = powSafe(breakY, g)
	}
	if typ < 0 {
		if x >= breakY {
			if singularParam(g) || singularParam(a) {
				return 0
			}
			return (powSafe(x, 1/g) - b) / a
		}
		if singularParam(c) {
			return 0
		}
		return x / c
	}
	if x >= d {
		if singularParam(a) {
			return 0
		}
		return powSafe(a*x+b, g)
	}
	return c * x
}

// evalParam5:
// Y = (aX+b)^g + e | X >= d
// Y = cX + f       | X <  d
func evalParam5(typ int, params []float64, x float64) float64 {
	g, a, b, c, d, e, f := params[0], params[1], params[2], params[3], params[4], params[5], params[6]
	breakY := powSafe(a*d+b, g) + e
	if typ < 0 {
		if x >= breakY {
			if singularParam(g) || singularParam(a) {
				return 0
			}
			return (powSafe(x-e, 1/g) - b) / a
		}
		if singularParam(c) {
			return 0
		}
		return (x - f) / c
	}
	if x >= d {
		if singularParam(a) {
			return 0
		}
		return powSafe(a*x+b, g) + e
	}
	return c*x + f
}

// evalParam6: Y = (aX+b)^g + c
func evalParam6(typ int, params []float64, x float64) float64 {
	g, a, b, c := params[0], params[1], params[2], params[3]
	if typ < 0 {
		if singularParam(g) || singularParam(a) {
			return 0
		}
		return (powSafe(x-c, 1/g) - b) / a
	}
	return powSafe(a*x+b, g) + c
}

// evalParam7: Y = a*ln(b*X^g + c) + d
func evalParam7(typ int, params []float64, x float64) float64 {
	a, b, g, c, d := params[0], params[1], params[2], params[3], params[4]
	if typ < 0 {
		if singularParam(a) || singularParam(b) || singularParam(g) {
			return 0
		}
		inner := (math.Exp((x-d)/a) - c) / b
		return powSafe(inner, 1/g)
	}
	inner := b*powSafe(x, g) + c
	if inner <= 0 {
		return d
	}
	return a*math.Log(inner) + d
}

// evalParam8: Y = a*b^(cX+d) + e
func evalParam8(typ int, params []float64, x float64) float64 {
	a, b, c, d, e := params[0], params[1], params[2], params[3], params[4]
	if typ < 0 {
		if singularParam(a) || singularParam(c) {
			return 0
		}
		ratio := (x - e) / a
		if ratio <= 0 || b <= 0 || b == 1 {
			return -d / c
		}
		return (math.Log(ratio)/math.Log(b) - d) / c
	}
	return a*powSafe(b, c*x+d) + e
}

// evalParam108 is the S-shaped curve Y = (1 - (1-X)^(1/g))^g (forward)
// and its analytic inverse X = 1 - (1 - Y^(1/g))^g.
func evalParam108(typ int, params []float64, x float64) float64 {
	g := params[0]
	if singularParam(g) {
		return 0
	}
	if typ < 0 {
		return 1 - powSafe(1-powSafe(x, 1/g), g)
	}
	base := 1 - powSafe(1-x, 1/g)
	return powSafe(base, g)
}

// evalParam109 is Y = 1 - (1 - (1-X)^g)^g (forward), the complementary
// member of the pair, and its analytic inverse
// X = 1 - (1 - (1-Y)^(1/g))^(1/g).
func evalParam109(typ int, params []float64, x float64) float64 {
	g := params[0]
	if singularParam(g) {
		return 0
	}
	if typ < 0 {
		inner := 1 - powSafe(1-x, 1/g)
		return 1 - powSafe(inner, 1/g)
	}
	inner := powSafe(1-x, g)
	return 1 - powSafe(1-inner, g)
}
