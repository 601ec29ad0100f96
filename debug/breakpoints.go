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
package debug

import (
	"sync"

	"github.com/bflang/bfdbg/token"
)

// breakpointSet is the worker's fast, lock-protected lookup of "is there
// an enabled breakpoint at this position" — validation itself (resolving
// a requested line/column against real token positions) lives in package
// breakpoint; this is just the hot-path membership test the scheduling
// step performs before every token.
type breakpointSet struct {
	mu  sync.Mutex
	set map[token.Position]bool
}

func newBreakpointSet() *breakpointSet {
	return &breakpointSet{set: make(map[token.Position]bool)}
}

func (b *breakpointSet) add(pos token.Position) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.set[pos] = true
}

func (b *breakpointSet) clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.set = make(map[token.Position]bool)
}

func (b *breakpointSet) hit(pos token.Position) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.set[pos]
}
