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

import "fmt"

// Signature is a 4-byte identifier, byte-order preserved, used to tag
// stage types. Equality is bitwise.
type Signature uint32

// sig builds a Signature from its 4-character ASCII form, matching
// the on-disk encoding byte for byte.
func sig(s string) Signature {
	if len(s) != 4 {
		panic("signature must be exactly 4 bytes: " + s)
	}
	return Signature(s[0])<<24 | Signature(s[1])<<16 | Signature(s[2])<<8 | Signature(s[3])
}

func (s Signature) String() string {
	b := [4]byte{byte(s >> 24), byte(s >> 16), byte(s >> 8), byte(s)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("Signature(0x%08X)", uint32(s))
		}
	}
	return string(b[:])
}

// Stage type signatures, preserved byte-for-byte as defined by the
// on-disk ICC multi-processing-element encoding. The four float-PCS
// signatures in the second group have no registered ICC code; they
// are module-specific codes in the same 4-character form.
var (
	SigIdentity      = sig("idn ")
	SigCurveSet      = sig("cvst")
	SigMatrix        = sig("matf")
	SigCLUT          = sig("clut")
	SigLabToXYZ      = sig("l2x ")
	SigXYZToLab      = sig("x2l ")
	SigLabV2ToV4     = sig("2 4 ")
	SigLabV4ToV2     = sig("4 2 ")
	SigClipNegatives = sig("clp ")

	SigLabToFloatPCS = sig("l2p ")
	SigFloatPCSToLab = sig("p2l ")
	SigXYZToFloatPCS = sig("x2p ")
	SigFloatPCSToXYZ = sig("p2x ")
)
