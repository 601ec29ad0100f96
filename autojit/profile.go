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

// Package autojit is the tiered dispatcher (component A): it runs loops
// through the tree-walking interpreter by default, counts the iterations
// of each loop activation, and once an activation crosses a hit threshold
// hands the loop off to a background goroutine that compiles it with
// package jit and swaps the compiled routine in at the next iteration or
// entry that finds it published. Grounded on
// scm/scheduler.go's persistent worker-goroutine-plus-channel shape and
// third_party/NonLockingReadMap for the read-mostly compiled-loop
// registry.
package autojit

import (
	"sync"
	"sync/atomic"

	"github.com/bflang/bfdbg/token"
)

// HotThreshold is the number of iterations a single activation of a loop
// must complete before the loop is submitted for compilation (spec.md
// §4.A).
const HotThreshold = 3

// loopActivation is one live entry of a loop: dispatcher.runLoop pushes a
// fresh activation every time it is called for that source range and
// pops it on return, so hit counts never bleed between separate entries
// of the same loop — grounded on the ground-truth original's
// sub_group_cache_stack (_examples/original_source/brainfuck-interpreter
// /src/autojit.rs:100-110,126-128), which pushes a fresh hit_count: 1
// whenever the stack top's range differs and truncates it away on loop
// exit.
type loopActivation struct {
	key   string
	rang  token.Range
	count int64
}

func (a *loopActivation) hit() int64 {
	return atomic.AddInt64(&a.count, 1)
}

// profileTable is a stack of live activations per loop source range. A
// plain mutex-guarded map of stacks is enough here — push/pop/hit all
// happen on whichever single goroutine is currently interpreting (the
// dispatcher goroutine, or a debug worker calling through it), per
// spec.md §5's "a Tape is owned exclusively by whichever execution
// engine is active" — so contention is not the concern
// NonLockingReadMap solves; that type backs the compiled-routine
// registry instead (registry.go), which genuinely is read far more often
// than written. The mutex only needs to protect the stack's shape, since
// Profiles() may be called concurrently for introspection while the
// dispatcher goroutine keeps running.
type profileTable struct {
	mu    sync.Mutex
	stack map[string][]*loopActivation
}

func newProfileTable() *profileTable {
	return &profileTable{stack: make(map[string][]*loopActivation)}
}

// push starts a new activation for key/r, returning a handle whose hit
// count starts at zero and is private to this activation.
func (p *profileTable) push(key string, r token.Range) *loopActivation {
	p.mu.Lock()
	defer p.mu.Unlock()
	a := &loopActivation{key: key, rang: r}
	p.stack[key] = append(p.stack[key], a)
	return a
}

// pop discards a once the loop it belongs to exits. A late compile
// result that arrives after the owning activation has already been
// popped simply has nothing left to update here — the registry store in
// dispatcher.go's compileWorker is independent of the profile stack, so
// this is never a race, only a no-op.
func (p *profileTable) pop(key string, a *loopActivation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stack[key]
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == a {
			p.stack[key] = append(s[:i:i], s[i+1:]...)
			break
		}
	}
	if len(p.stack[key]) == 0 {
		delete(p.stack, key)
	}
}

// snapshot reports the innermost (most recently pushed) activation per
// loop key currently on the stack.
func (p *profileTable) snapshot() []LoopProfile {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]LoopProfile, 0, len(p.stack))
	for key, s := range p.stack {
		if len(s) == 0 {
			continue
		}
		top := s[len(s)-1]
		out = append(out, LoopProfile{Key: key, Range: top.rang, HitCount: atomic.LoadInt64(&top.count)})
	}
	return out
}

// LoopProfile is the spec's external-facing view of one loop's profiling
// state, returned by Dispatcher.Profiles for introspection/tracing.
type LoopProfile struct {
	Key      string
	Range    token.Range
	HitCount int64
	Compiled bool
}
