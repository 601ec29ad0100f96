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
	"io"
	"sync"

	"github.com/bflang/bfdbg/interp"
	"github.com/bflang/bfdbg/internal/trace"
	"github.com/bflang/bfdbg/jit"
	"github.com/bflang/bfdbg/tape"
	"github.com/bflang/bfdbg/token"
)

// compileRequest is one loop handed to the background compile worker.
type compileRequest struct {
	key  string
	body token.TokenTree
}

// Dispatcher runs a program by interpreting it, transparently swapping
// hot loops for JIT-compiled routines once they have been seen
// HotThreshold times. The worker goroutine and its request channel are
// modelled on scm/scheduler.go's persistent
// goroutine-plus-channel-plus-WaitGroup worker. The request channel is
// buffered to 64 entries and is not unbounded: submit drops a request
// when the buffer is full.
type Dispatcher struct {
	Tape   *tape.Tape
	Input  interp.Input
	Output interp.Output

	// Trace, if non-nil, records every hot-loop/compile decision as a
	// chrome-trace event (internal/trace), so --trace can render the
	// auto-JIT's behaviour on a timeline.
	Trace *trace.File

	profiles *profileTable
	reg      *registry

	reqCh  chan compileRequest
	wg     sync.WaitGroup
	closed bool
}

// New creates a Dispatcher ready to run programs against t.
func New(t *tape.Tape, in interp.Input, out interp.Output) *Dispatcher {
	d := &Dispatcher{
		Tape:     t,
		Input:    in,
		Output:   out,
		profiles: newProfileTable(),
		reg:      newRegistry(),
		reqCh:    make(chan compileRequest, 64),
	}
	d.wg.Add(1)
	go d.compileWorker()
	return d
}

// compileWorker drains reqCh until it is closed, compiling each loop body
// and publishing the result into the registry. submit does not dedupe, so
// the same loop key can be enqueued more than once before its first
// compile lands; a request whose key already has a compiled routine is
// skipped, so the worker never compiles the same loop twice.
func (d *Dispatcher) compileWorker() {
	defer d.wg.Done()
	for req := range d.reqCh {
		if d.reg.lookup(req.key) != nil {
			continue
		}
		var c *jit.Cache
		var err error
		compile := func() { c, err = jit.Compile(req.body) }
		if d.Trace != nil {
			d.Trace.Duration("compile:"+req.key, "autojit", compile)
		} else {
			compile()
		}
		if err != nil {
			// compilation failed (e.g. unsupported GOARCH): leave the
			// loop interpreted forever, same as if it never got hot.
			continue
		}
		d.reg.store(req.key, c)
		if d.Trace != nil {
			d.Trace.Event("installed:"+req.key, "autojit")
		}
	}
}

// submit enqueues a loop for background compilation, dropping the
// request instead of blocking if the worker has fallen behind — a stale
// profile just means the loop stays interpreted a little longer.
func (d *Dispatcher) submit(key string, body token.TokenTree) {
	select {
	case d.reqCh <- compileRequest{key: key, body: body}:
	default:
	}
}

// Close stops the compile worker and releases every compiled routine's
// executable memory. Run must not be called again afterwards.
func (d *Dispatcher) Close() {
	if d.closed {
		return
	}
	d.closed = true
	close(d.reqCh)
	d.wg.Wait()
	d.reg.closeAll()
}

// Profiles returns a snapshot of every loop's currently-active
// profiling state, for introspection. A loop with no activation currently on the
// stack (never entered, or entered and already exited) is absent.
func (d *Dispatcher) Profiles() []LoopProfile {
	out := d.profiles.snapshot()
	for i := range out {
		out[i].Compiled = d.reg.lookup(out[i].Key) != nil
	}
	return out
}

// Run executes tree to completion, dispatching hot loops to compiled
// code as they warm up.
func (d *Dispatcher) Run(tree token.TokenTree) error {
	for _, tok := range tree {
		if err := d.exec(tok); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) exec(tok token.Token) error {
	switch tok.Kind {
	case token.Right:
		return d.Tape.ShiftRight()
	case token.Left:
		return d.Tape.ShiftLeft()
	case token.Inc:
		d.Tape.Inc()
	case token.Dec:
		d.Tape.Dec()
	case token.Output:
		return d.Output.WriteByte(d.Tape.ReadHead())
	case token.Input:
		b, err := d.Input.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		d.Tape.Write(d.Tape.Head(), b)
	case token.LoopTok:
		return d.runLoop(tok)
	case token.Comment:
		// no-op
	}
	return nil
}

// runLoop is the dispatch point spec.md §4.A describes: check the
// registry first: if a compiled routine exists, run it to completion
// (the compiled loop already implements the whole "repeat while nonzero"
// test internally, see jit/lower.go's lowerLoop) instead of interpreting
// one iteration at a time. Otherwise interpret iterations one at a time
// under a fresh, activation-scoped hit counter (pushed on entry, popped
// on exit — see profile.go's loopActivation), bumping it once per
// iteration and submitting the loop for compilation once this single
// activation crosses HotThreshold. A loop nested inside an outer loop
// that re-enters it many times but never iterates it past HotThreshold
// in any one entry never goes hot, matching the ground-truth original's
// per-activation (not cumulative) hit counting.
func (d *Dispatcher) runLoop(tok token.Token) error {
	key := tok.Range.Key()
	if c := d.reg.lookup(key); c != nil {
		return c.Invoke(d.Tape, d.Output, d.Input)
	}

	activation := d.profiles.push(key, tok.Range)
	defer d.profiles.pop(key, activation)

	for d.Tape.ReadHead() != 0 {
		if c := d.reg.lookup(key); c != nil {
			return c.Invoke(d.Tape, d.Output, d.Input)
		}
		if err := d.Run(tok.Children); err != nil {
			return err
		}
		if activation.hit() == HotThreshold {
			// wrap in a single-element tree so jit.Compile sees the
			// token.LoopTok case and lowers the whole "repeat while
			// nonzero" loop, not just one pass through the body.
			if d.Trace != nil {
				d.Trace.Event("hot:"+key, "autojit")
			}
			d.submit(key, token.TokenTree{tok})
		}
	}
	return nil
}
