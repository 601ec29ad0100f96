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

// Package jit lowers a token.TokenTree to native x86-64 machine code
// (spec.md §4.J). The body keeps the tape pointer, head and host in RDI,
// RSI and RDX, but the routine is entered, and calls its host callbacks,
// through Go's internal register ABI (RAX/RBX/RCX), not System V AMD64
// argument passing (see jit.go's compiledFn). It is a
// direct adaptation of scm/jit_writer.go's label/fixup code-emitter
// scaffold and scm/jit_amd64.go + scm/jit_emit_amd64.go's hand-written
// instruction encoders, repointed at Brainfuck's eight-case token kind
// instead of memcp's Scheme declaration set.
package jit

import "encoding/binary"

// Writer is the platform-independent code emitter: it accumulates
// machine code into an in-memory buffer with label/fixup bookkeeping,
// mirroring scm.JITWriter. Unlike the teacher, which writes directly
// into the final mmap'd page via an unsafe.Pointer cursor, this Writer
// accumulates into a plain []byte (the same role scm/jit_amd64.go's
// scratch "codeBuf" plays before its bytes are copied into executable
// memory by allocExec/makeRX in alloc.go) — one less unsafe pointer to
// keep alive during emission, same external label/fixup contract.
type Writer struct {
	buf    []byte
	labels []int32 // position of each label; -1 until resolved
	fixups []fixup
}

type fixup struct {
	codePos  int
	labelID  int
	size     int
	relative bool
}

// NewWriter creates an empty Writer with room for a modestly sized
// compiled routine.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 256)}
}

// Bytes returns the accumulated machine code. Valid only after
// ResolveFixups.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Pos returns the current write offset, used as a label's definition
// point.
func (w *Writer) Pos() int {
	return len(w.buf)
}

func (w *Writer) emitByte(b byte) {
	w.buf = append(w.buf, b)
}

func (w *Writer) emitBytes(bs ...byte) {
	w.buf = append(w.buf, bs...)
}

func (w *Writer) emitU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) emitU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// DefineLabel allocates a new label bound to the current write
// position.
func (w *Writer) DefineLabel() int {
	id := len(w.labels)
	w.labels = append(w.labels, int32(w.Pos()))
	return id
}

// ReserveLabel allocates a label id for a position to be filled in
// later via MarkLabel (used for forward references, e.g. a loop's
// L_end before the loop body has been emitted).
func (w *Writer) ReserveLabel() int {
	id := len(w.labels)
	w.labels = append(w.labels, -1)
	return id
}

// MarkLabel binds a previously reserved label to the current position.
func (w *Writer) MarkLabel(id int) {
	w.labels[id] = int32(w.Pos())
}

// addFixup records a forward/backward reference to be patched once all
// labels are known.
func (w *Writer) addFixup(labelID, size int, relative bool) {
	w.fixups = append(w.fixups, fixup{codePos: w.Pos(), labelID: labelID, size: size, relative: relative})
}

// ResolveFixups patches every recorded reference. Must be called
// exactly once, after the whole routine has been emitted.
func (w *Writer) ResolveFixups() {
	for _, f := range w.fixups {
		target := w.labels[f.labelID]
		if target < 0 {
			panic("jit: undefined label")
		}
		if f.relative {
			offset := target - int32(f.codePos+f.size)
			binary.LittleEndian.PutUint32(w.buf[f.codePos:], uint32(offset))
		} else {
			binary.LittleEndian.PutUint32(w.buf[f.codePos:], uint32(target))
		}
	}
}
