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

//go:build no_fast_floor

package cms

// quickFloor is the portable fallback for quickFloor, selected by the
// no_fast_floor build tag. It defines correctness for the fast path.
func quickFloor(x float64) int32 {
	i := int32(x)
	if float64(i) > x {
		i--
	}
	return i
}
