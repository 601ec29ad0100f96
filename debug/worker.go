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
	"time"

	"github.com/bflang/bfdbg/tape"
	"github.com/bflang/bfdbg/token"
)

// cmdKind identifies a command sent to the worker over cmdCh.
type cmdKind int

const (
	cmdRun cmdKind = iota
	cmdNext
	cmdPause
	cmdTerminate
)

type command struct {
	kind cmdKind
}

// Worker walks a program one token at a time on its own goroutine,
// honouring breakpoints and single-stepping, and reporting through the
// two callbacks supplied at construction.
type Worker struct {
	tree  token.TokenTree
	tape  *tape.Tape
	stops *breakpointSet

	onStopped StoppedFunc
	onOutput  OutputFunc

	cmdCh chan command

	inputMu    sync.Mutex
	inputQueue []byte

	mu       sync.Mutex
	state    RunState
	position token.Position

	doneCh chan struct{}
}

// newWorker prepares a Worker; it does not start running until Start is
// called.
func newWorker(tree token.TokenTree, tp *tape.Tape, stops *breakpointSet, onStopped StoppedFunc, onOutput OutputFunc) *Worker {
	return &Worker{
		tree:      tree,
		tape:      tp,
		stops:     stops,
		onStopped: onStopped,
		onOutput:  onOutput,
		cmdCh:     make(chan command, 8),
		state:     RunRunning,
		doneCh:    make(chan struct{}),
	}
}

// Start runs the worker's exec loop to completion (or until terminated)
// on the calling goroutine. Callers spawn it via gls.Go so the session id
// tag set by Session.Launch propagates into it (see session.go).
func (w *Worker) Start() {
	defer close(w.doneCh)
	err := w.run(w.tree)
	reason := StopComplete
	if err == errTerminated {
		reason = StopTerminated
	}
	w.setState(RunTerminated)
	w.onStopped(StoppedEvent{Reason: reason, Pos: w.position})
}

var errTerminated error = &terminatedError{}

type terminatedError struct{}

func (*terminatedError) Error() string { return "debug: session terminated" }

// run recursively walks tree, performing the five-step scheduling
// sequence in front of every token (spec.md §4.D.2): drain commands,
// check breakpoints, check single-step, suspend while paused, then
// execute.
func (w *Worker) run(tree token.TokenTree) error {
	for _, tok := range tree {
		if err := w.step(tok); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) step(tok token.Token) error {
	// 1. drain pending commands without blocking.
	w.drainCommands()

	// 2. breakpoint check.
	if tok.Kind != token.Comment && w.stops.hit(tok.Range.Start) {
		w.pauseAndWait(StopBreakpoint, tok.Range.Start)
	}

	// 3. single-step check: a prior Next() arms RunStep for exactly one
	// token.
	w.mu.Lock()
	stepArmed := w.state == RunStep
	w.mu.Unlock()
	if stepArmed {
		w.pauseAndWait(StopStep, tok.Range.Start)
	}

	// 4. suspend while paused (covers both of the above, plus an
	// out-of-band Pause() command).
	for {
		w.mu.Lock()
		st := w.state
		w.mu.Unlock()
		if st != RunPaused {
			break
		}
		w.drainCommands()
		if w.terminated() {
			return errTerminated
		}
		time.Sleep(pollInterval)
	}
	if w.terminated() {
		return errTerminated
	}

	// 5. execute.
	w.mu.Lock()
	w.position = tok.Range.Start
	w.mu.Unlock()
	return w.exec(tok)
}

func (w *Worker) pauseAndWait(reason StopReason, pos token.Position) {
	w.mu.Lock()
	w.state = RunPaused
	w.position = pos
	w.mu.Unlock()
	w.onStopped(StoppedEvent{Reason: reason, Pos: pos})
}

func (w *Worker) drainCommands() {
	for {
		select {
		case c := <-w.cmdCh:
			w.apply(c)
		default:
			return
		}
	}
}

func (w *Worker) apply(c command) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch c.kind {
	case cmdRun:
		if w.state != RunTerminated {
			w.state = RunRunning
		}
	case cmdNext:
		if w.state != RunTerminated {
			w.state = RunStep
		}
	case cmdPause:
		if w.state == RunRunning {
			w.state = RunPaused
		}
	case cmdTerminate:
		w.state = RunTerminated
	}
}

func (w *Worker) terminated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == RunTerminated
}

func (w *Worker) setState(s RunState) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// State reports the worker's current RunState.
func (w *Worker) State() RunState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Position reports the token position the worker is stopped at or about
// to execute.
func (w *Worker) Position() token.Position {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.position
}

// send enqueues a command, never blocking the caller.
func (w *Worker) send(kind cmdKind) {
	select {
	case w.cmdCh <- command{kind: kind}:
	default:
		// buffer full: a Terminate always wins, everything else can be
		// coalesced away since the worker re-checks state every token.
		if kind == cmdTerminate {
			w.cmdCh <- command{kind: kind}
		}
	}
}

// Join blocks until the worker has stopped for good.
func (w *Worker) Join() {
	<-w.doneCh
}

// EnqueueInput appends data to the tail of the pending-input queue,
// consumed one byte per ',' instruction — the mechanism behind
// Session.Evaluate(text) (spec.md §6.2's "evaluate(text) (enqueue
// user-input bytes)"). Unlike cmdCh this never drops: a queued program
// may need arbitrarily many bytes ahead of when each ',' actually runs.
func (w *Worker) EnqueueInput(data []byte) {
	w.inputMu.Lock()
	w.inputQueue = append(w.inputQueue, data...)
	w.inputMu.Unlock()
}

// popInput removes and returns the head of the pending-input queue, if
// any.
func (w *Worker) popInput() (byte, bool) {
	w.inputMu.Lock()
	defer w.inputMu.Unlock()
	if len(w.inputQueue) == 0 {
		return 0, false
	}
	b := w.inputQueue[0]
	w.inputQueue = w.inputQueue[1:]
	return b, true
}

func (w *Worker) exec(tok token.Token) error {
	switch tok.Kind {
	case token.Right:
		return w.tape.ShiftRight()
	case token.Left:
		return w.tape.ShiftLeft()
	case token.Inc:
		w.tape.Inc()
		w.onOutput(OutputEvent{Category: OutputMemoryChanged, Byte: w.tape.ReadHead()})
	case token.Dec:
		w.tape.Dec()
		w.onOutput(OutputEvent{Category: OutputMemoryChanged, Byte: w.tape.ReadHead()})
	case token.Output:
		b := w.tape.ReadHead()
		w.onOutput(OutputEvent{Category: OutputStdOut, Byte: b})
	case token.Input:
		return w.execInput()
	case token.LoopTok:
		for w.tape.ReadHead() != 0 {
			if err := w.run(tok.Children); err != nil {
				return err
			}
		}
	case token.Comment:
		// no-op
	}
	return nil
}

// execInput blocks (polling, so Pause/Terminate still work) until a byte
// arrives via EnqueueInput, emitting a one-shot Console notice the first
// time the queue is found empty (spec.md §4.D.3).
func (w *Worker) execInput() error {
	notified := false
	for {
		if b, ok := w.popInput(); ok {
			w.tape.Write(w.tape.Head(), b)
			w.onOutput(OutputEvent{Category: OutputMemoryChanged, Byte: b})
			return nil
		}
		if !notified {
			w.onOutput(OutputEvent{Category: OutputConsole, Message: "Waiting for user input"})
			notified = true
		}
		if w.terminated() {
			return errTerminated
		}
		time.Sleep(pollInterval)
	}
}

