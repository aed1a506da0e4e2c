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
	"sort"
)

// CurveSegment is one piece of a segmented tone curve, active over
// [X0, X1]. A Type of 0 means the segment is sampled: Table holds
// len(Table) values evenly spaced across the interval. Any other
// Type selects a parametric formula from the owning Context's
// registry, with Params feeding it directly (a negative Type asks the
// registry for the analytic inverse of that formula).
type CurveSegment struct {
	X0, X1 float64
	Type   int
	Params [10]float64
	Table  []float64
}

// Curve is a segmented 1-D transfer function. Segments are evaluated
// by scanning from the last one backward, so later segments take
// precedence where domains overlap; callers normally supply disjoint
// covering intervals with the outermost bounded by PlusInf/MinusInf.
type Curve struct {
	ctx      *Context
	Segments []CurveSegment

	table16 []uint16
	inverse []float64
}

// NewGammaCurve builds a single-segment power curve y = x^gamma
// covering the whole real line (parametric type 1).
func NewGammaCurve(ctx *Context, gamma float64) *Curve {
	return NewParametricCurve(ctx, 1, []float64{gamma})
}

// NewParametricCurve builds a single-segment curve driven by a
// registered parametric type, covering the whole real line.
func NewParametricCurve(ctx *Context, typ int, params []float64) *Curve {
	seg := CurveSegment{X0: MinusInf, X1: PlusInf, Type: typ}
	copy(seg.Params[:], params)
	return &Curve{ctx: ctx, Segments: []CurveSegment{seg}}
}

// NewTabulatedCurve builds a single sampled segment over [0, 1] from
// table, mirroring an ICC curveType with n > 1 sample points.
func NewTabulatedCurve(ctx *Context, table []float64) *Curve {
	cp := make([]float64, len(table))
	copy(cp, table)
	return &Curve{
		ctx:      ctx,
		Segments: []CurveSegment{{X0: 0, X1: 1, Type: 0, Table: cp}},
	}
}

// NewTabulatedCurveU16 is NewTabulatedCurve for a u16-encoded table.
func NewTabulatedCurveU16(ctx *Context, table []uint16) *Curve {
	f := make([]float64, len(table))
	for i, v := range table {
		f[i] = float64(v) / 65535.0
	}
	return NewTabulatedCurve(ctx, f)
}

// NewSegmentedCurve builds a curve directly from caller-supplied
// segments.
func NewSegmentedCurve(ctx *Context, segments []CurveSegment) *Curve {
	cp := make([]CurveSegment, len(segments))
	copy(cp, segments)
	return &Curve{ctx: ctx, Segments: cp}
}

// Dup returns an independent copy of c.
func (c *Curve) Dup() *Curve {
	cp := &Curve{ctx: c.ctx, Segments: make([]CurveSegment, len(c.Segments))}
	for i, seg := range c.Segments {
		cp.Segments[i] = seg
		if seg.Table != nil {
			cp.Segments[i].Table = append([]float64(nil), seg.Table...)
		}
	}
	return cp
}

// IsMultisegment reports whether the curve has more than one segment.
func (c *Curve) IsMultisegment() bool {
	return len(c.Segments) > 1
}

// GetParametricType returns the signed parametric type of a
// single-segment curve, or 0 if the curve is sampled or multisegment.
func (c *Curve) GetParametricType() int {
	if len(c.Segments) != 1 || c.Segments[0].Type == 0 {
		return 0
	}
	return c.Segments[0].Type
}

// Eval computes the curve's value at x, clamped to [0, 1].
func (c *Curve) Eval(x float64) float64 {
	for i := len(c.Segments) - 1; i >= 0; i-- {
		seg := &c.Segments[i]
		if x >= seg.X0 && x <= seg.X1 {
			return clamp01(c.evalSegment(seg, x))
		}
	}
	return clamp01(x)
}

func (c *Curve) evalSegment(seg *CurveSegment, x float64) float64 {
	if seg.Type == 0 {
		return evalSampledSegment(seg, x)
	}
	entry, ok := c.ctx.parametricCurveByType(seg.Type)
	if !ok {
		return x
	}
	return entry.eval(seg.Type, seg.Params[:], x)
}

func evalSampledSegment(seg *CurveSegment, x float64) float64 {
	n := len(seg.Table)
	if n == 0 {
		return x
	}
	if n == 1 {
		return seg.Table[0]
	}
	span := seg.X1 - seg.X0
	var t float64
	if span != 0 {
		t = (x - seg.X0) / span
	}
	pos := t * float64(n-1)
	idx := int(pos)
	if idx < 0 {
		return seg.Table[0]
	}
	if idx >= n-1 {
		return seg.Table[n-1]
	}
	frac := pos - float64(idx)
	return seg.Table[idx] + frac*(seg.Table[idx+1]-seg.Table[idx])
}

// EvalU16 evaluates the curve through a cached defaultCurveEntries-point
// lookup table, the path used by pipeline stages operating in the u16
// domain.
func (c *Curve) EvalU16(x uint16) uint16 {
	c.ensureTable16()
	n := len(c.table16)
	if n == 1 || x == 0xFFFF {
		return c.table16[n-1]
	}
	fx := toFixedDomain(int32(x) * int32(n-1))
	cell := fixedToInt(fx)
	rest := fixedRestToInt(fx)
	return linearInterpU16(rest, int32(c.table16[cell]), int32(c.table16[cell+1]))
}

// EvalF32 evaluates the curve at a float32 value in [0, 1].
func (c *Curve) EvalF32(x float32) float32 {
	return float32(c.Eval(float64(x)))
}

func (c *Curve) ensureTable16() {
	if c.table16 != nil {
		return
	}
	c.table16 = c.sample16(defaultCurveEntries)
}

func (c *Curve) sample16(n int) []uint16 {
	if n < 2 {
		n = 2
	}
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		out[i] = quickSaturateWord(c.Eval(x) * 65535.0)
	}
	return out
}

// IsLinear reports whether the curve is the identity y = x: every
// entry of the cached 16-bit table lies within 0x0F of its quantized
// index.
func (c *Curve) IsLinear() bool {
	c.ensureTable16()
	n := len(c.table16)
	for i, v := range c.table16 {
		want := int(quickSaturateWord(float64(i) * 65535.0 / float64(n-1)))
		if d := int(v) - want; d > 0x0F || d < -0x0F {
			return false
		}
	}
	return true
}

// IsMonotonic reports whether the curve's cached 16-bit table is
// non-decreasing or non-increasing throughout.
func (c *Curve) IsMonotonic() bool {
	c.ensureTable16()
	if len(c.table16) < 2 {
		return true
	}
	asc := c.table16[1] >= c.table16[0]
	for i := 1; i < len(c.table16); i++ {
		if asc && c.table16[i] < c.table16[i-1] {
			return false
		}
		if !asc && c.table16[i] > c.table16[i-1] {
			return false
		}
	}
	return true
}

// IsDescending reports whether the curve's value at 0 is greater than
// its value at 1.
func (c *Curve) IsDescending() bool {
	c.ensureTable16()
	if len(c.table16) < 2 {
		return false
	}
	return c.table16[0] > c.table16[len(c.table16)-1]
}

// EstimateGamma fits a single power exponent to the curve by sampling
// away from the endpoints and averaging log(y)/log(x); points with
// x <= 0.07 are excluded because quantization noise there dominates
// the fit.
func (c *Curve) EstimateGamma(precision float64) (gamma float64, ok bool) {
	const exclusionBand = 0.07
	const samples = 256

	var sum, sumSq float64
	n := 0
	for i := 0; i < samples; i++ {
		x := float64(i+1) / float64(samples+1)
		if x <= exclusionBand || x >= 1 {
			continue
		}
		y := c.Eval(x)
		if y <= 0 || y >= 1 {
			continue
		}
		g := math.Log(y) / math.Log(x)
		sum += g
		sumSq += g * g
		n++
	}
	if n == 0 {
		return 0, false
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	if math.Sqrt(variance) > precision {
		return mean, false
	}
	return mean, true
}

// Reverse is ReverseEx with the table size set to defaultCurveEntries,
// the resolution of the curve's own cached 16-bit table.
func (c *Curve) Reverse() *Curve {
	return c.ReverseEx(defaultCurveEntries)
}

// ReverseEx builds the inverse curve. A single-segment parametric
// curve inverts analytically by asking the registry for the formula's
// negative type. Anything else — sampled, multisegment, or a
// parametric type the registry can't invert — inverts by tabulating
// nResultSamples points and reading them back in swapped order.
//
// Out-of-domain queries fall back to a single linear extrapolation
// computed once, from the two table points at whichever end is probed
// first; that pair is not recomputed per probed region, so a curve
// with distinct slopes near each end extrapolates the other end using
// stale a,b from the end that was evaluated first. This reproduces the reference
// implementation's behavior rather than fixing it.
func (c *Curve) ReverseEx(nResultSamples int) *Curve {
	if len(c.Segments) == 1 && c.Segments[0].Type != 0 {
		seg := c.Segments[0]
		if _, ok := c.ctx.parametricCurveByType(seg.Type); ok {
			inv := CurveSegment{X0: seg.X0, X1: seg.X1, Type: -seg.Type, Params: seg.Params}
			return &Curve{ctx: c.ctx, Segments: []CurveSegment{inv}}
		}
	}

	if nResultSamples < 2 {
		nResultSamples = defaultCurveEntries
	}
	fwd := c.sample16(nResultSamples)
	inv := invertTable(fwd, nResultSamples)

	return &Curve{
		ctx:      c.ctx,
		Segments: []CurveSegment{{X0: 0, X1: 1, Type: 0, Table: inv}},
		inverse:  inv,
	}
}

// invertTable builds a monotonic inverse lookup by binary search over
// fwd, then linearly extrapolates past either end using the slope of
// the end pair of fwd at whichever end it reaches first — the single
// a,b pair that ReverseEx's doc comment calls out as deliberately stale.
func invertTable(fwd []uint16, outN int) []float64 {
	n := len(fwd)
	inv := make([]float64, outN)

	var a, b float64
	haveSlope := false

	for i := 0; i < outN; i++ {
		target := uint16(float64(i) / float64(outN-1) * 65535.0)

		idx := sort.Search(n, func(j int) bool { return fwd[j] >= target })

		switch {
		case idx <= 0:
			if !haveSlope && n >= 2 {
				a, b = extrapolationCoeffs(fwd, 0)
				haveSlope = true
			}
			if haveSlope {
				inv[i] = a*float64(target) + b
			} else {
				inv[i] = 0
			}
		case idx >= n:
			if !haveSlope && n >= 2 {
				a, b = extrapolationCoeffs(fwd, n-2)
				haveSlope = true
			}
			if haveSlope {
				inv[i] = a*float64(target) + b
			} else {
				inv[i] = 1
			}
		default:
			v0 := float64(fwd[idx-1])
			v1 := float64(fwd[idx])
			if v1 == v0 {
				inv[i] = float64(idx-1) / float64(n-1)
			} else {
				frac := (float64(target) - v0) / (v1 - v0)
				inv[i] = (float64(idx-1) + frac) / float64(n-1)
			}
		}
	}
	return inv
}

func extrapolationCoeffs(fwd []uint16, lowIdx int) (a, b float64) {
	n := len(fwd)
	x0 := float64(lowIdx) / float64(n-1)
	x1 := float64(lowIdx+1) / float64(n-1)
	y0 := float64(fwd[lowIdx])
	y1 := float64(fwd[lowIdx+1])
	if y1 == y0 {
		return 0, x0
	}
	a = (x1 - x0) / (y1 - y0)
	b = x0 - a*y0
	return a, b
}

// Join composes self(other(x)) into a single sampled curve with
// nResultSamples points, the representation used when two consecutive
// tone curves in a pipeline collapse into one.
func (c *Curve) Join(other *Curve, nResultSamples int) *Curve {
	if nResultSamples < 2 {
		nResultSamples = defaultCurveEntries
	}
	table := make([]float64, nResultSamples)
	for i := 0; i < nResultSamples; i++ {
		x := float64(i) / float64(nResultSamples-1)
		table[i] = c.Eval(other.Eval(x))
	}
	return NewTabulatedCurve(c.ctx, table)
}

// Smooth applies Eilers' perfect smoother to the curve's cached
// 16-bit table with roughness penalty lambda, replacing the table
// in place with the smoothed values.
func (c *Curve) Smooth(lambda float64) {
	c.ensureTable16()
	y := make([]float64, len(c.table16))
	for i, v := range c.table16 {
		y[i] = float64(v)
	}
	z := quincunxSmooth(y, lambda)
	for i, v := range z {
		c.table16[i] = quickSaturateWord(v)
	}
}

// quincunxSmooth solves (I + lambda*D2'D2) z = y, the pentadiagonal
// system behind Whittaker/Eilers smoothing, by conjugate gradients.
// The matrix is symmetric positive definite for any lambda >= 0 (I is
// positive definite and D2'D2 is positive semidefinite), so CG
// converges without needing a banded direct elimination.
func quincunxSmooth(y []float64, lambda float64) []float64 {
	n := len(y)
	if n < 3 || lambda == 0 {
		return append([]float64(nil), y...)
	}

	apply := func(v []float64) []float64 {
		// d2[i] is row i of D2*v for i in [1, n-2]; D2^T smears each
		// row back onto the three columns it touches, giving D2^T D2 v.
		d2 := make([]float64, n)
		for i := 1; i < n-1; i++ {
			d2[i] = v[i-1] - 2*v[i] + v[i+1]
		}
		acc := make([]float64, n)
		for i := 1; i < n-1; i++ {
			acc[i-1] += d2[i]
			acc[i] += -2 * d2[i]
			acc[i+1] += d2[i]
		}
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			out[i] = v[i] + lambda*acc[i]
		}
		return out
	}

	z := make([]float64, n)
	copy(z, y)
	r := make([]float64, n)
	Mz := apply(z)
	for i := range r {
		r[i] = y[i] - Mz[i]
	}
	p := append([]float64(nil), r...)
	rsOld := dot(r, r)
	if rsOld == 0 {
		return z
	}

	maxIter := n
	if maxIter > 500 {
		maxIter = 500
	}
	for iter := 0; iter < maxIter; iter++ {
		Ap := apply(p)
		alpha := rsOld / dot(p, Ap)
		for i := range z {
			z[i] += alpha * p[i]
			r[i] -= alpha * Ap[i]
		}
		rsNew := dot(r, r)
		if rsNew < 1e-18 {
			break
		}
		beta := rsNew / rsOld
		for i := range p {
			p[i] = r[i] + beta*p[i]
		}
		rsOld = rsNew
	}
	return z
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
