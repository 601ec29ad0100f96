//go:build amd64

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
package jit

import (
	"io"
	"reflect"
	"unsafe"

	"github.com/bflang/bfdbg/interp"
	"github.com/bflang/bfdbg/tape"
)

// Host bundles everything the three callback trampolines below need to
// touch: the live tape plus the session's I/O. A *Host is what spec.md
// §4.J calls the "session pointer" carried in RDX through the compiled
// routine's body.
type Host struct {
	Tape *tape.Tape
	Out  interp.Output
	In   interp.Input
	// err records the first error a callback hit (tape capacity, I/O
	// failure); Cache.Invoke checks it after the routine returns, since
	// the raw machine code itself has no channel to propagate one.
	err error
}

// hostGrowIfNeeded is the Go-ABI landing pad for '>': it grows the tape if
// needed and returns the (possibly relocated) base pointer. Addressed from
// compiled code via reflect, exactly as scm/jit.go's OptimizeForValues
// locates myAdd with reflect.ValueOf(fn).Pointer().
func hostGrowIfNeeded(h *Host, head uint64) unsafe.Pointer {
	ptr, err := h.Tape.GrowIfNeeded(int(head))
	if err != nil {
		h.err = err
		return h.Tape.DataPtr()
	}
	return ptr
}

// hostOutputByte is the landing pad for '.'.
func hostOutputByte(h *Host, b uint64) uint64 {
	if h.err == nil {
		h.err = h.Out.WriteByte(byte(b))
	}
	return 0
}

// hostInputByte is the landing pad for ','. It writes straight into the
// tape itself (rather than returning a value for the emitted code to
// store), so a failed read can simply leave the cell alone without
// requiring the compiled routine to branch on a sentinel. EOF is a no-op
// and any other read error is recorded in h.err, matching
// interp.Interp.exec.
func hostInputByte(h *Host, head uint64) uint64 {
	if h.err != nil {
		return 0
	}
	b, err := h.In.ReadByte()
	if err != nil {
		if err != io.EOF {
			h.err = err
		}
		return 0
	}
	h.Tape.Write(int(head), b)
	return 0
}

func funcAddr(fn any) uint64 {
	return uint64(reflect.ValueOf(fn).Pointer())
}
