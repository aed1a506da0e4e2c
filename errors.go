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
	"errors"
	"fmt"
)

// Kind classifies an Error by the taxonomy the core reports through.
type Kind int

const (
	// Range means a parameter exceeded a documented bound.
	Range Kind = iota
	// Internal means an invariant was violated, e.g. a downcast failed.
	Internal
	// NotSuitable means the operation is valid but not applicable to
	// this instance.
	NotSuitable
	// UnknownExtension means a plugin or type code was not recognized.
	UnknownExtension
	// CorruptionDetected means chain inconsistency or a singular matrix.
	CorruptionDetected
)

func (k Kind) String() string {
	switch k {
	case Range:
		return "Range"
	case Internal:
		return "Internal"
	case NotSuitable:
		return "NotSuitable"
	case UnknownExtension:
		return "UnknownExtension"
	case CorruptionDetected:
		return "CorruptionDetected"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the uniform fallible-result carrier used throughout the
// core. Code is a short static string suitable for programmatic
// matching; Detail is an optional formatted message intended for a
// human or a logger.
type Error struct {
	Kind   Kind
	Code   string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Code
}

func newError(kind Kind, code string, detail string) *Error {
	return &Error{Kind: kind, Code: code, Detail: detail}
}

// Sentinel errors for errors.Is matching against a specific failure
// site, mirroring the way the teacher package exposes ErrInvalidVersion.
var (
	ErrTooManyInputChannels  = newError(Range, "too many input channels", "")
	ErrTooManyOutputChannels = newError(Range, "too many output channels", "")
	ErrInvalidChannelCombo   = newError(NotSuitable, "invalid channel combination", "Invalid channel combination")
	ErrChainInconsistent     = newError(CorruptionDetected, "chain inconsistent", "Chain inconsistent")
	ErrSingularMatrix        = newError(CorruptionDetected, "singular matrix", "Singular matrix; can't invert")
	ErrNotInvertible         = newError(NotSuitable, "reverse evaluation unsupported for this shape", "")
	ErrUnknownParametricType = newError(UnknownExtension, "unknown parametric curve type", "")
	ErrWrongStageData      = newError(Internal, "stage data has unexpected type", "")
	ErrTooManyCurveEntries = newError(Range, "too many entries", "Too many entries")
	ErrNoSegmentsOrTable   = newError(Range, "no segments and no table", "No segments and no table")
)

// errf builds a new *Error of the given kind, formatting detail like
// fmt.Errorf, and keeps code as the short matchable string.
func errf(kind Kind, code string, format string, args ...any) *Error {
	return newError(kind, code, fmt.Sprintf(format, args...))
}

// Is lets errors.Is match on the static Code, so two *Error values
// constructed independently (e.g. from errf) but carrying the same
// code compare equal via errors.Is even though they are distinct
// pointers.
func (e *Error) Is(target error) bool {
	var te *Error
	if errors.As(target, &te) {
		return te.Code == e.Code
	}
	return false
}
