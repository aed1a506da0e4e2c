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

// Pipeline is an ordered chain of Stages, each one's output feeding
// the next one's input. A Pipeline is "blessed" (chain-consistent)
// when every adjacent pair of stages agrees on channel count; Cat,
// Push and InsertFirst re-check this on every mutation so a Pipeline
// is never observably inconsistent between calls.
type Pipeline struct {
	ctx      *Context
	elements []*Stage
	inChans  int
	outChans int

	saveAs8Bits bool
}

// NewPipeline returns an empty pipeline declared to run between
// inChans and outChans. The declared counts are only checked once a
// stage is pushed; an empty pipeline accepts any inChans == outChans
// via its Identity-like pass-through.
func NewPipeline(ctx *Context, inChans, outChans int) *Pipeline {
	return &Pipeline{ctx: ctx, inChans: inChans, outChans: outChans}
}

// InChans and OutChans report the pipeline's declared channel counts.
func (p *Pipeline) InChans() int  { return p.inChans }
func (p *Pipeline) OutChans() int { return p.outChans }

// Len returns the number of stages.
func (p *Pipeline) Len() int { return len(p.elements) }

// Stages returns the pipeline's stages in evaluation order. The
// returned slice aliases the pipeline's storage and must not be
// mutated by the caller.
func (p *Pipeline) Stages() []*Stage { return p.elements }

// bless verifies that adjacent stages agree on channel count and that
// the first/last stages match the pipeline's declared in/out chans.
func (p *Pipeline) bless() error {
	if len(p.elements) == 0 {
		return nil
	}
	if p.elements[0].NInputs() != p.inChans {
		return ErrChainInconsistent
	}
	if p.elements[len(p.elements)-1].NOutputs() != p.outChans {
		return ErrChainInconsistent
	}
	for i := 1; i < len(p.elements); i++ {
		if p.elements[i-1].NOutputs() != p.elements[i].NInputs() {
			return ErrChainInconsistent
		}
	}
	return nil
}

// Push appends a stage to the end of the chain.
func (p *Pipeline) Push(s *Stage) error {
	p.elements = append(p.elements, s)
	if err := p.bless(); err != nil {
		p.elements = p.elements[:len(p.elements)-1]
		return err
	}
	return nil
}

// InsertFirst prepends a stage to the chain.
func (p *Pipeline) InsertFirst(s *Stage) error {
	p.elements = append([]*Stage{s}, p.elements...)
	if err := p.bless(); err != nil {
		p.elements = p.elements[1:]
		return err
	}
	return nil
}

// Pop removes and returns the last stage, or nil if the chain is
// empty.
func (p *Pipeline) Pop() *Stage {
	if len(p.elements) == 0 {
		return nil
	}
	last := p.elements[len(p.elements)-1]
	p.elements = p.elements[:len(p.elements)-1]
	return last
}

// RemoveFirst removes and returns the first stage, or nil if the
// chain is empty.
func (p *Pipeline) RemoveFirst() *Stage {
	if len(p.elements) == 0 {
		return nil
	}
	first := p.elements[0]
	p.elements = p.elements[1:]
	return first
}

// Cat appends other's stages to the end of p, requiring the combined
// chain to stay consistent; on failure p is left unchanged.
func (p *Pipeline) Cat(other *Pipeline) error {
	saved := p.elements
	p.elements = append(append([]*Stage(nil), p.elements...), other.elements...)
	if err := p.bless(); err != nil {
		p.elements = saved
		return err
	}
	p.outChans = other.outChans
	return nil
}

// Dup returns an independent copy of the pipeline.
func (p *Pipeline) Dup() *Pipeline {
	cp := &Pipeline{
		ctx: p.ctx, inChans: p.inChans, outChans: p.outChans,
		saveAs8Bits: p.saveAs8Bits,
		elements:    make([]*Stage, len(p.elements)),
	}
	for i, s := range p.elements {
		cp.elements[i] = s.Dup()
	}
	return cp
}

// EvalF32 runs the pipeline forward in the f32 domain. Each stage
// returns a freshly allocated slice, so no stage observes another's
// scratch slice.
func (p *Pipeline) EvalF32(in []float32) ([]float32, error) {
	if err := p.bless(); err != nil {
		return nil, err
	}
	cur := append([]float32(nil), in...)
	for _, s := range p.elements {
		cur = s.EvalF32(cur)
	}
	return cur, nil
}

// EvalU16 runs the pipeline forward in the u16 domain.
func (p *Pipeline) EvalU16(in []uint16) ([]uint16, error) {
	if err := p.bless(); err != nil {
		return nil, err
	}
	cur := append([]uint16(nil), in...)
	for _, s := range p.elements {
		cur = s.EvalU16(cur)
	}
	return cur, nil
}

const (
	reverseMaxIterations = 30
	reverseEpsilon       = 1e-6
	reverseJacobianStep  = 1e-4
)

// EvalReverseF32 inverts the pipeline by Newton-Raphson: starting from
// hint (or the midpoint of the domain if hint is nil), it repeatedly
// solves J*delta = target - f(x) for delta using the closed-form
// adjugate inverse of the numerically estimated 3x3 Jacobian, and
// steps x by delta, until the residual falls under reverseEpsilon or
// the iteration budget is exhausted. Only defined for
// inChans == outChans == 3, the shape every ICC device-to-PCS/PCS-to-
// device inversion in practice requires.
func (p *Pipeline) EvalReverseF32(target []float32, hint []float32) ([]float32, error) {
	if p.inChans != 3 || p.outChans != 3 {
		return nil, ErrNotInvertible
	}
	if len(target) != 3 {
		return nil, errf(Range, "wrong target length", "EvalReverseF32 target must have 3 entries, got %d", len(target))
	}

	x := [3]float64{0.5, 0.5, 0.5}
	if hint != nil && len(hint) == 3 {
		x = [3]float64{float64(hint[0]), float64(hint[1]), float64(hint[2])}
	}
	tgt := [3]float64{float64(target[0]), float64(target[1]), float64(target[2])}

	fx, err := p.evalF64(x)
	if err != nil {
		return nil, err
	}

	for iter := 0; iter < reverseMaxIterations; iter++ {
		resid := [3]float64{tgt[0] - fx[0], tgt[1] - fx[1], tgt[2] - fx[2]}
		if vecNorm(resid) < reverseEpsilon {
			break
		}

		jac, err := p.numericJacobian(x, fx)
		if err != nil {
			return nil, err
		}
		inv, err := invert3x3(jac)
		if err != nil {
			return nil, err
		}

		delta := mulMatVec3(inv, resid)
		for i := 0; i < 3; i++ {
			x[i] = clamp01(x[i] + delta[i])
		}

		fx, err = p.evalF64(x)
		if err != nil {
			return nil, err
		}
	}

	return []float32{float32(x[0]), float32(x[1]), float32(x[2])}, nil
}

func (p *Pipeline) evalF64(x [3]float64) ([3]float64, error) {
	in := []float32{float32(x[0]), float32(x[1]), float32(x[2])}
	out, err := p.EvalF32(in)
	if err != nil || len(out) != 3 {
		return [3]float64{}, err
	}
	return [3]float64{float64(out[0]), float64(out[1]), float64(out[2])}, nil
}

// numericJacobian estimates d(f_i)/d(x_j) via forward differences
// around (x, fx), clamping probe points into [0, 1].
func (p *Pipeline) numericJacobian(x, fx [3]float64) ([9]float64, error) {
	var jac [9]float64
	for j := 0; j < 3; j++ {
		probe := x
		h := reverseJacobianStep
		probe[j] += h
		if probe[j] > 1 {
			probe[j] = x[j] - h
			h = -h
		}
		fProbe, err := p.evalF64(probe)
		if err != nil {
			return jac, err
		}
		for i := 0; i < 3; i++ {
			jac[i*3+j] = (fProbe[i] - fx[i]) / h
		}
	}
	return jac, nil
}

func vecNorm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func mulMatVec3(m [9]float64, v [3]float64) [3]float64 {
	return [3]float64{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// invert3x3 returns the adjugate-based inverse of a row-major 3x3
// matrix.
func invert3x3(m [9]float64) ([9]float64, error) {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if math.Abs(det) < MatrixDetTolerance {
		return [9]float64{}, ErrSingularMatrix
	}
	invDet := 1.0 / det

	return [9]float64{
		(e*i - f*h) * invDet, (c*h - b*i) * invDet, (b*f - c*e) * invDet,
		(f*g - d*i) * invDet, (a*i - c*g) * invDet, (c*d - a*f) * invDet,
		(d*h - e*g) * invDet, (b*g - a*h) * invDet, (a*e - b*d) * invDet,
	}, nil
}
