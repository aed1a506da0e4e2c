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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrixStageAppliesOffset(t *testing.T) {
	ctx := NewContext()
	m := []float64{
		2, 0, 0,
		0, 2, 0,
		0, 0, 2,
	}
	offset := []float64{0.1, 0.2, 0.3}
	s, err := NewMatrixStage(ctx, 3, 3, m, offset)
	require.NoError(t, err)

	out := s.EvalF32([]float32{0.1, 0.2, 0.3})
	assert.InDelta(t, 0.3, out[0], 1e-6)
	assert.InDelta(t, 0.6, out[1], 1e-6)
	assert.InDelta(t, 0.9, out[2], 1e-6)
}

func TestNewMatrixStageRejectsBadDimensions(t *testing.T) {
	ctx := NewContext()
	_, err := NewMatrixStage(ctx, 0, 3, nil, nil)
	assert.Error(t, err)

	_, err = NewMatrixStage(ctx, 3, 3, []float64{1, 2}, nil)
	assert.Error(t, err)
}

func TestCurveSetStageAllLinearImplementsIdentity(t *testing.T) {
	ctx := NewContext()
	curves := []*Curve{NewGammaCurve(ctx, 1), NewGammaCurve(ctx, 1), NewGammaCurve(ctx, 1)}
	s := NewCurveSetStage(ctx, curves)
	assert.Equal(t, SigIdentity, s.Implements)
}

func TestCurveSetStageNonLinearKeepsCurveSetSignature(t *testing.T) {
	ctx := NewContext()
	curves := []*Curve{NewGammaCurve(ctx, 2.2), NewGammaCurve(ctx, 2.2), NewGammaCurve(ctx, 2.2)}
	s := NewCurveSetStage(ctx, curves)
	assert.Equal(t, SigCurveSet, s.Implements)
}

func TestStageEvalU16FallsBackThroughF32(t *testing.T) {
	ctx := NewContext()
	s := NewClipNegativesStage(ctx, 3)
	out := s.EvalU16([]uint16{0, 0x8000, 0xFFFF})
	require.Len(t, out, 3)
	assert.InDelta(t, 0, int(out[0]), 2)
	assert.InDelta(t, 0x8000, int(out[1]), 2)
	assert.InDelta(t, 0xFFFF, int(out[2]), 2)
}

func TestStageDupDeepCopiesCurveData(t *testing.T) {
	ctx := NewContext()
	curves := []*Curve{NewGammaCurve(ctx, 2.2)}
	s := NewCurveSetStage(ctx, curves)
	dup := s.Dup()

	dupCurves, ok := dup.data.([]*Curve)
	require.True(t, ok)
	origCurves, ok := s.data.([]*Curve)
	require.True(t, ok)
	assert.NotSame(t, origCurves[0], dupCurves[0])
}

func TestLabXYZStagesRoundTrip(t *testing.T) {
	ctx := NewContext()
	toXYZ := NewLabToXYZStage(ctx)
	toLab := NewXYZToLabStage(ctx)

	in := NormalizeLab(Lab{L: 55, A: 12, B: -8})
	f32in := []float32{float32(in[0]), float32(in[1]), float32(in[2])}

	xyz := toXYZ.EvalF32(f32in)
	back := toLab.EvalF32(xyz)

	for i := range back {
		assert.InDelta(t, f32in[i], back[i], 1e-3)
	}
}

func TestLabV2ToV4StageFormsAgree(t *testing.T) {
	ctx := NewContext()
	curveStage := NewLabV2ToV4CurvesStage(ctx)
	matrixStage, err := NewLabV2ToV4MatrixStage(ctx)
	require.NoError(t, err)

	in := []uint16{0x4000, 0x8000, 0xC000}
	curveOut := curveStage.EvalU16(in)
	matrixOut := matrixStage.EvalU16(in)

	for i := range curveOut {
		diff := int(curveOut[i]) - int(matrixOut[i])
		assert.LessOrEqual(t, abs(diff), 64, "channel %d: curve form %d vs matrix form %d", i, curveOut[i], matrixOut[i])
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
