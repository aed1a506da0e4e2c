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

func TestGammaCurveEval(t *testing.T) {
	ctx := NewContext()
	c := NewGammaCurve(ctx, 2.0)
	if got := c.Eval(0.5); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("gamma(2).Eval(0.5) = %v, want 0.25", got)
	}
	if !c.IsMonotonic() {
		t.Error("gamma(2) should be monotonic")
	}
	if c.IsDescending() {
		t.Error("gamma(2) should be ascending")
	}
}

func TestGammaOneIsLinear(t *testing.T) {
	ctx := NewContext()
	c := NewGammaCurve(ctx, 1.0)
	if !c.IsLinear() {
		t.Error("gamma(1) should report IsLinear")
	}
}

func TestTabulatedCurveIdentityIsLinear(t *testing.T) {
	ctx := NewContext()
	table := make([]float64, 5)
	for i := range table {
		table[i] = float64(i) / 4
	}
	c := NewTabulatedCurve(ctx, table)
	if !c.IsLinear() {
		t.Error("evenly spaced identity table should report IsLinear")
	}
}

func TestCurveReverseAnalyticRoundTrip(t *testing.T) {
	ctx := NewContext()
	c := NewGammaCurve(ctx, 2.4)
	inv := c.Reverse()

	for _, x := range []float64{0.1, 0.3, 0.5, 0.9} {
		y := c.Eval(x)
		back := inv.Eval(y)
		if math.Abs(back-x) > 1e-6 {
			t.Errorf("gamma(2.4) analytic reverse: Eval(%v)=%v, Reverse.Eval(%v)=%v, want %v", x, y, y, back, x)
		}
	}
}

func TestCurveReverseTabulatedRoundTrip(t *testing.T) {
	ctx := NewContext()
	table := make([]float64, 64)
	for i := range table {
		x := float64(i) / float64(len(table)-1)
		table[i] = x * x
	}
	c := NewTabulatedCurve(ctx, table)
	inv := c.ReverseEx(256)

	for _, x := range []float64{0.2, 0.4, 0.6, 0.8} {
		y := c.Eval(x)
		back := inv.Eval(y)
		if math.Abs(back-x) > 0.02 {
			t.Errorf("tabulated reverse round trip at x=%v: got %v, want close to %v", x, back, x)
		}
	}
}

func TestCurveEvalU16MatchesEvalWithinQuantization(t *testing.T) {
	ctx := NewContext()
	c := NewGammaCurve(ctx, 2.2)
	for _, x := range []uint16{0, 0x1000, 0x8000, 0xF000, 0xFFFF} {
		want := c.Eval(float64(x) / 65535.0)
		got := float64(c.EvalU16(x)) / 65535.0
		if math.Abs(got-want) > 1.0/4096 {
			t.Errorf("EvalU16(%d)/65535 = %v, want close to Eval = %v", x, got, want)
		}
	}
}

func TestCurveJoinComposesFunctions(t *testing.T) {
	ctx := NewContext()
	square := NewParametricCurve(ctx, 1, []float64{2})
	sqrt := NewParametricCurve(ctx, 1, []float64{0.5})

	joined := square.Join(sqrt, 256)
	for _, x := range []float64{0.1, 0.5, 0.9} {
		want := square.Eval(sqrt.Eval(x))
		got := joined.Eval(x)
		if math.Abs(got-want) > 0.01 {
			t.Errorf("Join at x=%v: got %v, want %v", x, got, want)
		}
	}
}

func TestCurveSmoothReducesNoiseVariance(t *testing.T) {
	ctx := NewContext()
	n := 64
	table := make([]float64, n)
	for i := range table {
		x := float64(i) / float64(n-1)
		noise := 0.0
		if i%2 == 0 {
			noise = 0.02
		}
		table[i] = x + noise
	}
	c := NewTabulatedCurve(ctx, table)
	c.ensureTable16()
	before := append([]uint16(nil), c.table16...)

	c.Smooth(50)

	var beforeRough, afterRough float64
	for i := 1; i < len(before)-1; i++ {
		bd := float64(before[i-1]) - 2*float64(before[i]) + float64(before[i+1])
		ad := float64(c.table16[i-1]) - 2*float64(c.table16[i]) + float64(c.table16[i+1])
		beforeRough += bd * bd
		afterRough += ad * ad
	}
	if afterRough >= beforeRough {
		t.Errorf("Smooth should reduce second-difference roughness: before=%v after=%v", beforeRough, afterRough)
	}
}

func TestCurveDupIsIndependent(t *testing.T) {
	ctx := NewContext()
	c := NewTabulatedCurve(ctx, []float64{0, 0.5, 1})
	dup := c.Dup()
	dup.Segments[0].Table[1] = 0.75
	if c.Segments[0].Table[1] == 0.75 {
		t.Error("Dup should not alias the original curve's table")
	}
}

func TestEstimateGammaRecoversKnownExponent(t *testing.T) {
	ctx := NewContext()
	c := NewGammaCurve(ctx, 1.8)
	g, ok := c.EstimateGamma(0.05)
	if !ok {
		t.Fatal("EstimateGamma should report confidence for a pure power curve")
	}
	if math.Abs(g-1.8) > 0.05 {
		t.Errorf("EstimateGamma = %v, want close to 1.8", g)
	}
}
