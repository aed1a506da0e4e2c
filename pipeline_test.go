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

func gammaPipeline(ctx *Context, gamma float64) *Pipeline {
	p := NewPipeline(ctx, 3, 3)
	curves := []*Curve{
		NewGammaCurve(ctx, gamma),
		NewGammaCurve(ctx, gamma),
		NewGammaCurve(ctx, gamma),
	}
	if err := p.Push(NewCurveSetStage(ctx, curves)); err != nil {
		panic(err)
	}
	return p
}

func TestPipelinePushRejectsChannelMismatch(t *testing.T) {
	ctx := NewContext()
	p := NewPipeline(ctx, 3, 3)
	if err := p.Push(NewIdentityStage(ctx, 4)); err == nil {
		t.Error("expected ErrChainInconsistent pushing a 4-channel stage onto a 3-channel pipeline")
	}
	if p.Len() != 0 {
		t.Error("failed Push should not leave a partial stage in the chain")
	}
}

func TestPipelineCatRequiresConsistency(t *testing.T) {
	ctx := NewContext()
	a := NewPipeline(ctx, 3, 3)
	if err := a.Push(NewIdentityStage(ctx, 3)); err != nil {
		t.Fatalf("Push: %v", err)
	}
	b := NewPipeline(ctx, 4, 4)
	if err := b.Push(NewIdentityStage(ctx, 4)); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if err := a.Cat(b); err == nil {
		t.Error("expected Cat to reject a channel-count mismatch")
	}
	if a.Len() != 1 {
		t.Error("failed Cat should leave the original pipeline untouched")
	}
}

func TestPipelineEvalF32ThroughCurveSet(t *testing.T) {
	ctx := NewContext()
	p := gammaPipeline(ctx, 2.0)

	out, err := p.EvalF32([]float32{0.5, 0.25, 1.0})
	if err != nil {
		t.Fatalf("EvalF32: %v", err)
	}
	want := []float32{0.25, 0.0625, 1.0}
	for i := range want {
		if math.Abs(float64(out[i]-want[i])) > 1e-5 {
			t.Errorf("channel %d: got %v, want %v", i, out[i], want[i])
		}
	}
}

func TestPipelineDupIsIndependent(t *testing.T) {
	ctx := NewContext()
	p := gammaPipeline(ctx, 2.0)
	dup := p.Dup()

	dupCurves := dup.elements[0].data.([]*Curve)
	dupCurves[0] = NewGammaCurve(ctx, 4.0)

	out, err := p.EvalF32([]float32{0.5, 0.5, 0.5})
	if err != nil {
		t.Fatalf("EvalF32: %v", err)
	}
	if math.Abs(float64(out[0])-0.25) > 1e-5 {
		t.Error("mutating the duplicate's stage data should not affect the original pipeline")
	}
}

func TestPipelineEvalReverseF32RecoversInput(t *testing.T) {
	ctx := NewContext()
	p := gammaPipeline(ctx, 2.4)

	for _, x := range [][3]float32{{0.2, 0.5, 0.8}, {0.9, 0.1, 0.4}} {
		target, err := p.EvalF32(x[:])
		if err != nil {
			t.Fatalf("EvalF32: %v", err)
		}
		recovered, err := p.EvalReverseF32(target, nil)
		if err != nil {
			t.Fatalf("EvalReverseF32: %v", err)
		}
		for i := range x {
			if math.Abs(float64(recovered[i]-x[i])) > 1e-3 {
				t.Errorf("EvalReverseF32 round trip: input %v, got %v, want close to %v", x, recovered, x)
			}
		}
	}
}

func TestPipelineEvalReverseF32RejectsNonThreeChannelShape(t *testing.T) {
	ctx := NewContext()
	p := NewPipeline(ctx, 4, 4)
	if err := p.Push(NewIdentityStage(ctx, 4)); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if _, err := p.EvalReverseF32([]float32{0, 0, 0, 0}, nil); err == nil {
		t.Error("expected ErrNotInvertible for a 4x4 pipeline")
	}
}

func TestPipelineEvalRejectsBrokenChain(t *testing.T) {
	ctx := NewContext()
	p := &Pipeline{ctx: ctx, inChans: 3, outChans: 3}
	p.elements = []*Stage{NewIdentityStage(ctx, 3), NewIdentityStage(ctx, 4)}
	if _, err := p.EvalF32([]float32{0, 0, 0}); err == nil {
		t.Error("expected EvalF32 to reject a chain with mismatched adjacent channel counts")
	}
}
