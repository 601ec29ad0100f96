/*
Copyright (C) 2024-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package breakpoint

import "errors"

// ErrNoExecutableTokenOnLine is returned when a breakpoint's line has no
// executable token at all (only whitespace/comments, or past EOF).
var ErrNoExecutableTokenOnLine = errors.New("breakpoint: no executable token on that line")

// ErrNoExecutableTokenAtColumn is returned when a breakpoint names a
// specific column that doesn't land exactly on a token start.
var ErrNoExecutableTokenAtColumn = errors.New("breakpoint: no executable token at that column")
