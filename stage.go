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

import "log/slog"

// Stage is one element of a Pipeline. Its behavior is carried entirely
// by the eval closures; Type and data are retained for introspection,
// duplication and serialization, not for dispatch.
type Stage struct {
	Type     Signature
	Implements Signature
	InChans  int
	OutChans int

	evalU16 func(in []uint16) []uint16
	evalF32 func(in []float32) []float32

	data any
}

// NInputs and NOutputs report the stage's channel counts.
func (s *Stage) NInputs() int  { return s.InChans }
func (s *Stage) NOutputs() int { return s.OutChans }

// EvalU16 runs the stage in the u16 domain.
func (s *Stage) EvalU16(in []uint16) []uint16 {
	if s.evalU16 != nil {
		return s.evalU16(in)
	}
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = fromU16ToF32(v)
	}
	out = s.evalF32(out)
	res := make([]uint16, len(out))
	for i, v := range out {
		res[i] = fromF32ToU16(v)
	}
	return res
}

// EvalF32 runs the stage in the f32 domain.
func (s *Stage) EvalF32(in []float32) []float32 {
	if s.evalF32 != nil {
		return s.evalF32(in)
	}
	u16 := make([]uint16, len(in))
	for i, v := range in {
		u16[i] = fromF32ToU16(v)
	}
	u16 = s.evalU16(u16)
	res := make([]float32, len(u16))
	for i, v := range u16 {
		res[i] = fromU16ToF32(v)
	}
	return res
}

// Dup returns an independent copy of the stage.
func (s *Stage) Dup() *Stage {
	cp := *s
	switch d := s.data.(type) {
	case []float64:
		cp.data = append([]float64(nil), d...)
	case *InterpParams[uint16]:
		sub := *d
		sub.Table = append([]uint16(nil), d.Table...)
		cp.data = &sub
	case *InterpParams[float32]:
		sub := *d
		sub.Table = append([]float32(nil), d.Table...)
		cp.data = &sub
	case []*Curve:
		dupped := make([]*Curve, len(d))
		for i, c := range d {
			dupped[i] = c.Dup()
		}
		cp.data = dupped
	}
	return &cp
}

func logStageBuilt(ctx *Context, kind string, in, out int) {
	if ctx == nil {
		return
	}
	ctx.SignalError(slog.LevelDebug, "stage-built", kind+" stage constructed")
	_ = in
	_ = out
}

// NewIdentityStage returns a stage of n channels that passes its input
// through unchanged.
func NewIdentityStage(ctx *Context, n int) *Stage {
	logStageBuilt(ctx, "identity", n, n)
	return &Stage{
		Type: SigIdentity, Implements: SigIdentity,
		InChans: n, OutChans: n,
		evalF32: func(in []float32) []float32 {
			return append([]float32(nil), in...)
		},
	}
}

// NewCurveSetStage returns a stage applying one Curve per channel. If
// every curve is IsLinear, Implements is reported as SigIdentity, the
// "identity curves" pattern used to collapse a no-op CurveSet.
func NewCurveSetStage(ctx *Context, curves []*Curve) *Stage {
	n := len(curves)
	implements := SigCurveSet
	allLinear := true
	for _, c := range curves {
		if !c.IsLinear() {
			allLinear = false
			break
		}
	}
	if allLinear {
		implements = SigIdentity
	}
	logStageBuilt(ctx, "curve-set", n, n)
	return &Stage{
		Type: SigCurveSet, Implements: implements,
		InChans: n, OutChans: n,
		data: curves,
		evalF32: func(in []float32) []float32 {
			out := make([]float32, n)
			for i := 0; i < n; i++ {
				out[i] = curves[i].EvalF32(in[i])
			}
			return out
		},
		evalU16: func(in []uint16) []uint16 {
			out := make([]uint16, n)
			for i := 0; i < n; i++ {
				out[i] = curves[i].EvalU16(in[i])
			}
			return out
		},
	}
}

// NewIdentityCurvesStage builds a CurveSet of n gamma-1 identity
// curves, reported with Implements = SigIdentity.
func NewIdentityCurvesStage(ctx *Context, n int) *Stage {
	curves := make([]*Curve, n)
	for i := range curves {
		curves[i] = NewGammaCurve(ctx, 1.0)
	}
	s := NewCurveSetStage(ctx, curves)
	s.Implements = SigIdentity
	return s
}

// NewMatrixStage returns a stage computing m*in + offset, m stored
// row-major with rows*cols entries, offset with rows entries (or nil
// for an all-zero offset).
func NewMatrixStage(ctx *Context, rows, cols int, m []float64, offset []float64) (*Stage, error) {
	if cols <= 0 || rows <= 0 {
		return nil, errf(Range, "invalid matrix dimensions", "Invalid matrix dimensions (%d x %d)", rows, cols)
	}
	product := rows * cols
	if product/cols != rows {
		return nil, errf(Range, "matrix dimensions overflow", "Matrix dimensions overflow (%d x %d)", rows, cols)
	}
	if len(m) < product {
		return nil, errf(Range, "matrix data too small", "Matrix data has %d entries, need %d", len(m), product)
	}
	mm := append([]float64(nil), m[:product]...)
	var off []float64
	if offset != nil {
		off = append([]float64(nil), offset[:rows]...)
	}

	logStageBuilt(ctx, "matrix", cols, rows)
	return &Stage{
		Type: SigMatrix, Implements: SigMatrix,
		InChans: cols, OutChans: rows,
		data: mm,
		evalF32: func(in []float32) []float32 {
			out := make([]float32, rows)
			for r := 0; r < rows; r++ {
				var acc float64
				for c := 0; c < cols; c++ {
					acc += mm[r*cols+c] * float64(in[c])
				}
				if off != nil {
					acc += off[r]
				}
				out[r] = float32(acc)
			}
			return out
		},
	}, nil
}

// NewCLUTStageU16 builds a CLUT stage from a precomputed InterpParams.
func NewCLUTStageU16(ctx *Context, p *InterpParams[uint16]) (*Stage, error) {
	if p.NInputs > MaxInputDimensions {
		return nil, ErrTooManyInputChannels
	}
	logStageBuilt(ctx, "clut-u16", p.NInputs, p.NOutputs)
	return &Stage{
		Type: SigCLUT, Implements: SigCLUT,
		InChans: p.NInputs, OutChans: p.NOutputs,
		data: p,
		evalU16: func(in []uint16) []uint16 {
			out := make([]uint16, p.NOutputs)
			p.Interpolation.U16(in, out, p)
			return out
		},
	}, nil
}

// NewCLUTStageF32 is NewCLUTStageU16 for a float32-sampled CLUT.
func NewCLUTStageF32(ctx *Context, p *InterpParams[float32]) (*Stage, error) {
	if p.NInputs > MaxInputDimensions {
		return nil, ErrTooManyInputChannels
	}
	logStageBuilt(ctx, "clut-f32", p.NInputs, p.NOutputs)
	return &Stage{
		Type: SigCLUT, Implements: SigCLUT,
		InChans: p.NInputs, OutChans: p.NOutputs,
		data: p,
		evalF32: func(in []float32) []float32 {
			out := make([]float32, p.NOutputs)
			p.Interpolation.F32(in, out, p)
			return out
		},
	}, nil
}

// NewLabToXYZStage returns the D50 Lab(V4 float-PCS)->XYZ(float-PCS)
// conversion stage.
func NewLabToXYZStage(ctx *Context) *Stage {
	logStageBuilt(ctx, "lab-to-xyz", 3, 3)
	return &Stage{
		Type: SigLabToXYZ, Implements: SigLabToXYZ,
		InChans: 3, OutChans: 3,
		evalF32: func(in []float32) []float32 {
			lab := DenormalizeLab([3]float64{float64(in[0]), float64(in[1]), float64(in[2])})
			xyz := lab.AsXYZD50()
			v := NormalizeXYZ(xyz)
			return []float32{float32(v[0]), float32(v[1]), float32(v[2])}
		},
	}
}

// NewXYZToLabStage is the inverse of NewLabToXYZStage.
func NewXYZToLabStage(ctx *Context) *Stage {
	logStageBuilt(ctx, "xyz-to-lab", 3, 3)
	return &Stage{
		Type: SigXYZToLab, Implements: SigXYZToLab,
		InChans: 3, OutChans: 3,
		evalF32: func(in []float32) []float32 {
			xyz := DenormalizeXYZ([3]float64{float64(in[0]), float64(in[1]), float64(in[2])})
			lab := xyz.AsLabD50()
			v := NormalizeLab(lab)
			return []float32{float32(v[0]), float32(v[1]), float32(v[2])}
		},
	}
}

// NewLabV2ToV4CurvesStage builds the 258-entry-curve form of the
// legacy-encoding fixup, one identical curve per Lab channel.
func NewLabV2ToV4CurvesStage(ctx *Context) *Stage {
	table := EncodeLabV2Curve()
	curves := make([]*Curve, 3)
	for i := range curves {
		curves[i] = NewTabulatedCurveU16(ctx, table)
	}
	s := NewCurveSetStage(ctx, curves)
	s.Type = SigLabV2ToV4
	s.Implements = SigLabV2ToV4
	return s
}

// NewLabV2ToV4MatrixStage builds the 3x3 diagonal-matrix form of the
// same fixup, scaling by 65535/65280.
func NewLabV2ToV4MatrixStage(ctx *Context) (*Stage, error) {
	m := []float64{
		labV2Scale, 0, 0,
		0, labV2Scale, 0,
		0, 0, labV2Scale,
	}
	s, err := NewMatrixStage(ctx, 3, 3, m, nil)
	if err != nil {
		return nil, err
	}
	s.Type = SigLabV2ToV4
	s.Implements = SigLabV2ToV4
	return s, nil
}

// NewLabV4ToV2MatrixStage is the inverse diagonal matrix,
// scaling by 65280/65535.
func NewLabV4ToV2MatrixStage(ctx *Context) (*Stage, error) {
	inv := 1.0 / labV2Scale
	m := []float64{
		inv, 0, 0,
		0, inv, 0,
		0, 0, inv,
	}
	s, err := NewMatrixStage(ctx, 3, 3, m, nil)
	if err != nil {
		return nil, err
	}
	s.Type = SigLabV4ToV2
	s.Implements = SigLabV4ToV2
	return s, nil
}

// NewNormalizeToLabStage converts an unencoded Lab value (L in
// [0,100], a/b in [-128,127]) to the [0,1] float-PCS encoding.
func NewNormalizeToLabStage(ctx *Context) *Stage {
	logStageBuilt(ctx, "normalize-to-lab", 3, 3)
	return &Stage{
		Type: SigLabToFloatPCS, Implements: SigLabToFloatPCS,
		InChans: 3, OutChans: 3,
		evalF32: func(in []float32) []float32 {
			v := NormalizeLab(Lab{L: float64(in[0]), A: float64(in[1]), B: float64(in[2])})
			return []float32{float32(v[0]), float32(v[1]), float32(v[2])}
		},
	}
}

// NewNormalizeFromLabStage is the inverse of NewNormalizeToLabStage.
func NewNormalizeFromLabStage(ctx *Context) *Stage {
	logStageBuilt(ctx, "normalize-from-lab", 3, 3)
	return &Stage{
		Type: SigFloatPCSToLab, Implements: SigFloatPCSToLab,
		InChans: 3, OutChans: 3,
		evalF32: func(in []float32) []float32 {
			lab := DenormalizeLab([3]float64{float64(in[0]), float64(in[1]), float64(in[2])})
			return []float32{float32(lab.L), float32(lab.A), float32(lab.B)}
		},
	}
}

// NewNormalizeToXYZStage converts an unencoded XYZ value to the [0,1]
// float-PCS encoding, scaling by XYZMax.
func NewNormalizeToXYZStage(ctx *Context) *Stage {
	logStageBuilt(ctx, "normalize-to-xyz", 3, 3)
	return &Stage{
		Type: SigXYZToFloatPCS, Implements: SigXYZToFloatPCS,
		InChans: 3, OutChans: 3,
		evalF32: func(in []float32) []float32 {
			v := NormalizeXYZ(XYZ{X: float64(in[0]), Y: float64(in[1]), Z: float64(in[2])})
			return []float32{float32(v[0]), float32(v[1]), float32(v[2])}
		},
	}
}

// NewNormalizeFromXYZStage is the inverse of NewNormalizeToXYZStage.
func NewNormalizeFromXYZStage(ctx *Context) *Stage {
	logStageBuilt(ctx, "normalize-from-xyz", 3, 3)
	return &Stage{
		Type: SigFloatPCSToXYZ, Implements: SigFloatPCSToXYZ,
		InChans: 3, OutChans: 3,
		evalF32: func(in []float32) []float32 {
			xyz := DenormalizeXYZ([3]float64{float64(in[0]), float64(in[1]), float64(in[2])})
			return []float32{float32(xyz.X), float32(xyz.Y), float32(xyz.Z)}
		},
	}
}

// NewClipNegativesStage clamps every channel to >= 0.
func NewClipNegativesStage(ctx *Context, n int) *Stage {
	logStageBuilt(ctx, "clip-negatives", n, n)
	return &Stage{
		Type: SigClipNegatives, Implements: SigClipNegatives,
		InChans: n, OutChans: n,
		evalF32: func(in []float32) []float32 {
			out := make([]float32, n)
			for i, v := range in {
				if v < 0 {
					v = 0
				}
				out[i] = v
			}
			return out
		},
	}
}

// NewLabPrelinStage builds the L-identity, a/b-gamma-2.4 preconditioning
// curves used ahead of a Lab CLUT, mirroring the reference's
// "lab_prelin" stage (parametric type 108 on the a/b channels).
func NewLabPrelinStage(ctx *Context) *Stage {
	curves := []*Curve{
		NewGammaCurve(ctx, 1.0),
		NewParametricCurve(ctx, 108, []float64{2.4}),
		NewParametricCurve(ctx, 108, []float64{2.4}),
	}
	s := NewCurveSetStage(ctx, curves)
	return s
}
