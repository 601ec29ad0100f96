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

// Package interp is the plain tree-walking interpreter (component I):
// pure execution of a token.TokenTree against a tape.Tape, no debug
// features. The debug interpreter (package debug) reimplements this same
// recursive walk with a scheduling step inserted before each token; this
// package is deliberately the version without it, so the two can be
// tested for behavioural equivalence (spec.md §8).
package interp

import (
	"io"

	"github.com/bflang/bfdbg/tape"
	"github.com/bflang/bfdbg/token"
)

// Input provides bytes to ',' instructions. Making this injectable
// (rather than reading os.Stdin directly) is the point: the debug
// interpreter wires a user-input queue here instead (spec.md §9, design
// note "global/static process I/O").
type Input interface {
	ReadByte() (byte, error)
}

// Output receives bytes from '.' instructions.
type Output interface {
	WriteByte(byte) error
}

// Interp runs a TokenTree against a Tape, using the configured Input and
// Output.
type Interp struct {
	Tape   *tape.Tape
	Input  Input
	Output Output
}

// New creates an Interp. Either in or out may be nil if the program under
// test performs no I/O; a nil Input/Output used by ',' or '.' panics,
// matching the teacher's "let it panic, the caller recovers" style for
// programmer errors (scm/scm.go's "Unknown expression type" panics).
func New(t *tape.Tape, in Input, out Output) *Interp {
	return &Interp{Tape: t, Input: in, Output: out}
}

// Run executes tree to completion (or until a runtime error occurs).
func (ip *Interp) Run(tree token.TokenTree) error {
	for _, tok := range tree {
		if err := ip.exec(tok); err != nil {
			return err
		}
	}
	return nil
}

func (ip *Interp) exec(tok token.Token) error {
	switch tok.Kind {
	case token.Right:
		return ip.Tape.ShiftRight()
	case token.Left:
		return ip.Tape.ShiftLeft()
	case token.Inc:
		ip.Tape.Inc()
	case token.Dec:
		ip.Tape.Dec()
	case token.Output:
		return ip.Output.WriteByte(ip.Tape.ReadHead())
	case token.Input:
		b, err := ip.Input.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		ip.Tape.Write(ip.Tape.Head(), b)
	case token.LoopTok:
		for ip.Tape.ReadHead() != 0 {
			if err := ip.Run(tok.Children); err != nil {
				return err
			}
		}
	case token.Comment:
		// no-op
	}
	return nil
}
