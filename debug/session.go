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
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jtolds/gls"

	"github.com/bflang/bfdbg/breakpoint"
	"github.com/bflang/bfdbg/tape"
	"github.com/bflang/bfdbg/token"
)

var ctxMgr = gls.NewContextManager()

// sessionIDKey is the gls.Values key every worker goroutine carries, set
// to the id of the session that spawned it. Nothing in this module reads
// it back; internal/logging does not add it to log lines.
const sessionIDKey = "bfdbg.session"

// Session is the external interface the DAP transport/LSP shim/CLI REPL
// drive (spec.md §6.2) — the only thing outside this package that needs
// to know a debug session exists.
type Session struct {
	mu       sync.Mutex
	state    SessionState
	filename string
	source   string
	tree     token.TokenTree

	validator   *breakpoint.Validator
	breakpoints *breakpointSet
	nextBpID    int
	bpByID      map[int]token.Position

	worker *Worker
	tape   *tape.Tape

	id string
}

// New creates an idle session for filename/source. The source is parsed
// immediately (so a syntax error surfaces at New rather than at Launch)
// and indexed for breakpoint validation.
func New(filename, source string) (*Session, error) {
	tree, _, err := token.Parse(source)
	if err != nil {
		return nil, err
	}
	v, err := breakpoint.NewValidator(source)
	if err != nil {
		return nil, err
	}
	return &Session{
		state:       SessionIdle,
		filename:    filename,
		source:      source,
		tree:        tree,
		validator:   v,
		breakpoints: newBreakpointSet(),
		bpByID:      make(map[int]token.Position),
		id:          uuid.New().String(),
	}, nil
}

// GetFilename reports the session's source filename.
func (s *Session) GetFilename() string {
	return s.filename
}

// ID returns the session's unique id (minted with google/uuid, per
// storage/fast_uuid.go's precedent for cheap-but-unique identifiers).
func (s *Session) ID() string {
	return s.id
}

// State reports the caller-facing lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

var (
	// ErrAlreadyLaunched is returned by Launch while a previous launch is
	// still LaunchReady or Running.
	ErrAlreadyLaunched = errors.New("debug: session already launched")
	// ErrNotLaunched is returned by Run/Next/Pause/etc. outside the
	// LaunchReady/Running states (i.e. before Launch, or after
	// Terminate).
	ErrNotLaunched = errors.New("debug: session not launched")
)

// AddAndValidateBreakpoint resolves (line, column) against the program's
// actual token positions and, if valid, arms it. column < 0 means
// "unspecified" (spec.md §4.B's line-only fallback).
func (s *Session) AddAndValidateBreakpoint(line, column int) (breakpoint.Breakpoint, error) {
	bp, err := s.validator.Add(line, column)
	if err != nil {
		return breakpoint.Breakpoint{}, err
	}
	s.mu.Lock()
	s.bpByID[bp.ID] = bp.Pos
	s.mu.Unlock()
	s.breakpoints.add(bp.Pos)
	return bp, nil
}

// ClearBreakpoints removes every armed breakpoint.
func (s *Session) ClearBreakpoints() {
	s.breakpoints.clear()
	s.mu.Lock()
	s.bpByID = make(map[int]token.Position)
	s.mu.Unlock()
}

// Launch prepares the tape and worker, transitioning Idle/Terminated ->
// LaunchReady (spec.md §3: "a new launch is accepted from Idle or
// Terminated (re-launch)"), and spawns the worker goroutine via gls.Go
// so sessionIDKey propagates into it for logging (storage/compute.go's
// gls.Go precedent).
func (s *Session) Launch(maxTapeCells int, onStopped StoppedFunc, onOutput OutputFunc) error {
	s.mu.Lock()
	if s.state != SessionIdle && s.state != SessionTerminated {
		s.mu.Unlock()
		return ErrAlreadyLaunched
	}
	if maxTapeCells > 0 {
		s.tape = tape.NewBounded(maxTapeCells)
	} else {
		s.tape = tape.New()
	}
	s.worker = newWorker(s.tree, s.tape, s.breakpoints, onStopped, onOutput)
	s.state = SessionLaunchReady
	s.mu.Unlock()

	gls.Go(func() {
		ctxMgr.SetValues(gls.Values{sessionIDKey: s.id}, func() {
			s.worker.Start()
		})
	})
	return nil
}

// Run resumes execution until the next breakpoint, step completion, or
// program end. The worker already starts running when Launch is called;
// Run does not wait for it to start.
func (s *Session) Run() error {
	if err := s.requireLaunched(); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = SessionRunning
	s.mu.Unlock()
	s.worker.send(cmdRun)
	return nil
}

// Next arms exactly one more token of execution before pausing again.
func (s *Session) Next() error {
	if err := s.requireLaunched(); err != nil {
		return err
	}
	s.worker.send(cmdNext)
	return nil
}

// Pause requests the worker suspend at its next scheduling step.
func (s *Session) Pause() error {
	if err := s.requireLaunched(); err != nil {
		return err
	}
	s.worker.send(cmdPause)
	return nil
}

// Terminate requests the worker stop, joins it, and transitions the
// session to Terminated. Safe to call more than once.
func (s *Session) Terminate() error {
	s.mu.Lock()
	if s.state == SessionIdle || s.state == SessionTerminated {
		s.state = SessionTerminated
		s.mu.Unlock()
		return nil
	}
	w := s.worker
	s.mu.Unlock()
	w.send(cmdTerminate)
	w.Join()
	s.mu.Lock()
	s.state = SessionTerminated
	s.mu.Unlock()
	return nil
}

// Evaluate enqueues text's bytes into the worker's pending-input queue,
// to be consumed one byte per ',' instruction (spec.md §6.2:
// "evaluate(text) (enqueue user-input bytes)").
func (s *Session) Evaluate(text string) error {
	if err := s.requireLaunched(); err != nil {
		return err
	}
	s.worker.EnqueueInput([]byte(text))
	return nil
}

// GetPosition reports the worker's current token position.
func (s *Session) GetPosition() (token.Position, error) {
	if err := s.requireLaunched(); err != nil {
		return token.Position{}, err
	}
	return s.worker.Position(), nil
}

// Variables is the snapshot returned by GetVariables, resolving
// spec.md §9's Open Question (c): report the head index, tape length,
// and every nonzero cell rather than the whole (potentially huge) tape.
type Variables struct {
	Head  int
	Len   int
	Cells map[int]byte
}

// GetVariables reports the current head, tape length, and nonzero cells.
func (s *Session) GetVariables() (Variables, error) {
	if err := s.requireLaunched(); err != nil {
		return Variables{}, err
	}
	idx, vals := s.tape.NonZeroCells()
	cells := make(map[int]byte, len(idx))
	for i, v := range vals {
		cells[idx[i]] = v
	}
	return Variables{Head: s.tape.Head(), Len: s.tape.Len(), Cells: cells}, nil
}

// ReadMemory reads count bytes of tape starting at start, for a memory
// inspection view (spec.md §4.D.6).
func (s *Session) ReadMemory(start, count int) ([]byte, error) {
	if err := s.requireLaunched(); err != nil {
		return nil, err
	}
	return s.tape.ReadRange(start, count), nil
}

// GetStackFrame reports the single synthetic "frame" this engine has:
// Brainfuck has no call stack, so there is exactly one frame, named
// after the source file, positioned at the worker's current token.
func (s *Session) GetStackFrame() (token.Position, string, error) {
	pos, err := s.GetPosition()
	if err != nil {
		return token.Position{}, "", err
	}
	return pos, s.filename, nil
}

// InspectExpr is a spec-additional watch-expression reader — distinct
// from Evaluate (spec.md §6.2's "evaluate(text)", which enqueues input
// bytes, not a query) — supporting the handful of expressions a
// frontend's watch pane is likely to send: "head", "len", or "cell[N]".
func (s *Session) InspectExpr(expr string) (string, error) {
	if err := s.requireLaunched(); err != nil {
		return "", err
	}
	switch {
	case expr == "head":
		return fmt.Sprint(s.tape.Head()), nil
	case expr == "len":
		return fmt.Sprint(s.tape.Len()), nil
	default:
		var n int
		if _, err := fmt.Sscanf(expr, "cell[%d]", &n); err == nil {
			if n < 0 || n >= s.tape.Len() {
				return "", fmt.Errorf("debug: cell %d out of range", n)
			}
			return fmt.Sprint(s.tape.Read(n)), nil
		}
		return "", fmt.Errorf("debug: unrecognised expression %q", expr)
	}
}

func (s *Session) requireLaunched() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionLaunchReady && s.state != SessionRunning {
		return ErrNotLaunched
	}
	return nil
}
