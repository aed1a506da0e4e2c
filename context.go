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

// InterpFunction is the tagged union selecting the u16 or f32
// interpolation kernel for a given InterpParams instance.
type InterpFunction struct {
	U16 func(in []uint16, out []uint16, p *InterpParams[uint16])
	F32 func(in []float32, out []float32, p *InterpParams[float32])
}

func (f InterpFunction) isZero() bool {
	return f.U16 == nil && f.F32 == nil
}

// interpFactoryFunc resolves (n_inputs, n_outputs, flags) to a kernel,
// exactly as described by the kernel selection matrix in §4.3.
type interpFactoryFunc func(nInputs, nOutputs int, flags uint32) (InterpFunction, error)

// parametricEntry pairs a parametric curve evaluator with its
// declared parameter count, as returned by the context's registry.
type parametricEntry struct {
	paramCount int
	eval       func(typ int, params []float64, x float64) float64
}

// Context is an opaque handle providing the interpolation factory and
// parametric curve registry used by InterpParams and Curve
// construction, plus an optional fire-and-forget logger. It is
// initialized once and treated as immutable; registering new plugins
// returns a cloned Context rather than mutating the original, so a
// previously shared Context remains safe to use concurrently.
type Context struct {
	interpFactory interpFactoryFunc
	parametric    map[int]parametricEntry
	logger        *slog.Logger
}

// NewContext returns a Context wired to the built-in interpolation
// kernel family and the 10 built-in parametric curve types, with no
// logger attached.
func NewContext() *Context {
	return &Context{
		interpFactory: defaultInterpFactory,
		parametric:    defaultParametricRegistry(),
		logger:        nil,
	}
}

// WithLogger returns a shallow clone of ctx with logger attached for
// SignalError. The registries are shared (they are immutable once
// built), matching the "clone on registration" pattern used for
// plugin registration below.
func (ctx *Context) WithLogger(logger *slog.Logger) *Context {
	clone := *ctx
	clone.logger = logger
	return &clone
}

// SignalError is best-effort logging; it never returns an error and
// is silently dropped when no logger is attached.
func (ctx *Context) SignalError(level slog.Level, code string, text string) {
	if ctx == nil || ctx.logger == nil {
		return
	}
	ctx.logger.Log(nil, level, text, "code", code)
}

// interpFactoryResolve resolves a kernel for (nInputs, nOutputs, flags),
// consulting the context's registered factory.
func (ctx *Context) interpFactoryResolve(nInputs, nOutputs int, flags uint32) (InterpFunction, error) {
	if ctx == nil || ctx.interpFactory == nil {
		return defaultInterpFactory(nInputs, nOutputs, flags)
	}
	return ctx.interpFactory(nInputs, nOutputs, flags)
}

// parametricCurveByType resolves a parametric type code (its absolute
// value; sign selects forward vs. inverse at the call site) to its
// evaluator and parameter count.
func (ctx *Context) parametricCurveByType(typ int) (parametricEntry, bool) {
	abs := typ
	if abs < 0 {
		abs = -abs
	}
	var reg map[int]parametricEntry
	if ctx == nil || ctx.parametric == nil {
		reg = defaultParametricRegistry()
	} else {
		reg = ctx.parametric
	}
	e, ok := reg[abs]
	return e, ok
}

// RegisterParametricCurve returns a new Context with an additional (or
// replacement) parametric curve type registered. The original Context
// is untouched, matching the plugin-registration contract in §6.
func (ctx *Context) RegisterParametricCurve(typ int, paramCount int, eval func(typ int, params []float64, x float64) float64) *Context {
	clone := &Context{
		interpFactory: ctx.interpFactory,
		logger:        ctx.logger,
		parametric:    make(map[int]parametricEntry, len(ctx.parametric)+1),
	}
	for k, v := range ctx.parametric {
		clone.parametric[k] = v
	}
	clone.parametric[typ] = parametricEntry{paramCount: paramCount, eval: eval}
	return clone
}
