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

import (
	"math"
	"testing"
)

func TestEvalParam1GammaInverse(t *testing.T) {
	params := []float64{2.2}
	x := 0.42
	y := evalParam1(1, params, x)
	back := evalParam1(-1, params, y)
	if math.Abs(back-x) > 1e-9 {
		t.Errorf("type 1 round trip: got %v, want %v", back, x)
	}
}

func TestEvalParam4SRGBShape(t *testing.T) {
	// IEC 61966-2.1-style coefficients.
	params := []float64{2.4, 1 / 1.055, 0.055 / 1.055, 1 / 12.92, 0.04045}
	y0 := evalParam4(4, params, 0)
	if y0 != 0 {
		t.Errorf("evalParam4(0) = %v, want 0", y0)
	}
	y1 := evalParam4(4, params, 1)
	if math.Abs(y1-1) > 1e-6 {
		t.Errorf("evalParam4(1) = %v, want close to 1", y1)
	}
}

func TestEvalParam108InverseRoundTrip(t *testing.T) {
	params := []float64{2.0}
	x := 0.3
	y := evalParam108(108, params, x)
	back := evalParam108(-108, params, y)
	if math.Abs(back-x) > 1e-9 {
		t.Errorf("type 108 round trip: inverse(eval(%v)) = %v", x, back)
	}
}

func TestEvalParam109InverseRoundTrip(t *testing.T) {
	params := []float64{1.7}
	x := 0.6
	y := evalParam109(109, params, x)
	back := evalParam109(-109, params, y)
	if math.Abs(back-x) > 1e-9 {
		t.Errorf("type 109 round trip: inverse(eval(%v)) = %v", x, back)
	}
}

func TestDefaultParametricRegistryParamCounts(t *testing.T) {
	reg := defaultParametricRegistry()
	want := map[int]int{1: 1, 2: 3, 3: 4, 4: 5, 5: 7, 6: 4, 7: 5, 8: 5, 108: 1, 109: 1}
	for typ, n := range want {
		entry, ok := reg[typ]
		if !ok {
			t.Errorf("type %d missing from registry", typ)
			continue
		}
		if entry.paramCount != n {
			t.Errorf("type %d paramCount = %d, want %d", typ, entry.paramCount, n)
		}
	}
}

func TestContextRegisterParametricCurveClonesNotMutates(t *testing.T) {
	ctx := NewContext()
	custom := ctx.RegisterParametricCurve(999, 1, func(_ int, params []float64, x float64) float64 {
		return x * params[0]
	})

	if _, ok := ctx.parametricCurveByType(999); ok {
		t.Error("RegisterParametricCurve mutated the original context")
	}
	entry, ok := custom.parametricCurveByType(999)
	if !ok {
		t.Fatal("custom context missing registered type 999")
	}
	if got := entry.eval(999, []float64{2}, 3); got != 6 {
		t.Errorf("custom eval(3) = %v, want 6", got)
	}
}
