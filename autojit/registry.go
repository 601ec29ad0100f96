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
package autojit

import (
	"github.com/bflang/bfdbg/jit"
	NonLockingReadMap "github.com/launix-de/NonLockingReadMap"
)

// compiledEntry is one row of the compiled-loop registry: the interpreter
// checks this map on every loop entry (read-heavy), while the compile
// worker goroutine writes to it exactly once per loop (write-rare) — the
// access pattern third_party/NonLockingReadMap is built for.
type compiledEntry struct {
	key   string
	cache *jit.Cache
}

func (e *compiledEntry) GetKey() string    { return e.key }
func (e *compiledEntry) ComputeSize() uint { return 32 }

// registry is the NonLockingReadMap-backed compiled-loop table, keyed by
// the loop's token.Range.Key().
type registry struct {
	m NonLockingReadMap.NonLockingReadMap[compiledEntry, string]
}

func newRegistry() *registry {
	return &registry{m: NonLockingReadMap.New[compiledEntry, string]()}
}

func (r *registry) lookup(key string) *jit.Cache {
	e := r.m.Get(key)
	if e == nil {
		return nil
	}
	return e.cache
}

func (r *registry) store(key string, c *jit.Cache) {
	r.m.Set(&compiledEntry{key: key, cache: c})
}

// closeAll releases every compiled routine's executable mapping, used by
// Dispatcher.Close.
func (r *registry) closeAll() {
	for _, e := range r.m.GetAll() {
		e.cache.Close()
	}
}
