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

// Package jit compiles a token.TokenTree straight to x86-64 machine code
// (component J). It is grounded on scm/jit.go + scm/jit_writer.go +
// scm/jit_emit_amd64.go: the same label/fixup Writer, the same
// mmap/mprotect W^X allocator, and the same unsafe-function-cast trick to
// hand the compiled bytes back as an ordinary Go func value.
package jit

import (
	"unsafe"

	"github.com/bflang/bfdbg/interp"
	"github.com/bflang/bfdbg/tape"
	"github.com/bflang/bfdbg/token"
)

// compiledFn is the Go-level shape of a compiled routine: tape base
// pointer, head index, host pointer in, new head index out. The hardware
// registers these actually land in at entry are not RDI/RSI/RDX — that
// naming in spec.md §4.J describes the register *roles* inside the
// routine's body, which Compile's prologue establishes by copying out of
// wherever the Go register ABI places a 3-argument/1-return call's
// operands (RAX/RBX/RCX in, RAX out, for amd64 regabi — see the comment
// on lower.go's register constants).
type compiledFn func(tapePtr unsafe.Pointer, head uint64, host *Host) uint64

// Cache owns one compiled routine's executable memory (spec's JITCache).
type Cache struct {
	buf  *execBuf
	call compiledFn
}

// Compile lowers tree to native code and maps it executable. The caller
// owns the returned Cache and must call Close when done with it.
func Compile(tree token.TokenTree) (*Cache, error) {
	w := NewWriter()
	emitPrologue(w)
	lower(w, tree)
	emitEpilogue(w)
	w.ResolveFixups()

	code := w.Bytes()
	buf, err := allocExec(len(code))
	if err != nil {
		return nil, err
	}
	copy(buf.bytes(), code)
	if err := buf.makeRX(); err != nil {
		buf.release()
		return nil, err
	}

	fn2 := unsafe.Pointer(&struct{ *byte }{&buf.bytes()[0]})
	call := *(*compiledFn)(unsafe.Pointer(&fn2))
	return &Cache{buf: buf, call: call}, nil
}

// emitPrologue copies the Go-ABI incoming arguments into the body's
// working registers (RDI, RSI, RDX), per lower.go's regTape/regHead/
// regHost constants.
func emitPrologue(w *Writer) {
	w.emitMovRegReg(regTape, regAX)
	w.emitMovRegReg(regHead, regBX)
	w.emitMovRegReg(regHost, regCX)
}

// emitEpilogue implements spec.md §4.J's "RAX <- RSI; ret".
func emitEpilogue(w *Writer) {
	w.emitMovRegReg(regAX, regHead)
	w.emitRet()
}

// Invoke runs the compiled routine against t, updating t's head and
// returning the first I/O or capacity error a callback recorded, if any.
func (c *Cache) Invoke(t *tape.Tape, out interp.Output, in interp.Input) error {
	host := &Host{Tape: t, Out: out, In: in}
	newHead := c.call(t.DataPtr(), uint64(t.Head()), host)
	t.SetHead(int(newHead))
	return host.err
}

// Close releases the executable mapping. A Cache must not be invoked
// again afterwards.
func (c *Cache) Close() error {
	return c.buf.release()
}

// Run is the convenience entry point: compile tree and execute it once
// against t. Equivalent in observable behaviour to interp.Interp.Run,
// modulo performance (spec.md §8's JIT/interpreter equivalence property).
func Run(t *tape.Tape, out interp.Output, in interp.Input, tree token.TokenTree) error {
	c, err := Compile(tree)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.Invoke(t, out, in)
}
