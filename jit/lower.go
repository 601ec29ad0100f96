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

import "github.com/bflang/bfdbg/token"

// lowering register convention, fixed for the body of every compiled
// routine (spec.md §4.J): RDI = tape base pointer, RSI = head index,
// RDX = *Host. The routine is entered and left through the Go register
// ABI's own argument/return slots (RAX/RBX/RCX in, RAX out) — see
// Compile's prologue/epilogue — so that Cache.Invoke can call it as an
// ordinary Go func value, the same unsafe-function-cast trick
// scm/jit.go's OptimizeForValues uses to hand back "*(*func(...)...)".
const (
	regTape = regDI
	regHead = regSI
	regHost = regDX
)

// lower emits the routine body for tree, assuming the register
// convention above already holds. It recurses into loop bodies exactly
// as spec.md §4.J describes: test, jz, body, jmp, label.
func lower(w *Writer, tree token.TokenTree) {
	for _, tok := range tree {
		lowerToken(w, tok)
	}
}

func lowerToken(w *Writer, tok token.Token) {
	switch tok.Kind {
	case token.Right:
		lowerShiftRight(w)
	case token.Left:
		w.emitDecReg(regHead)
	case token.Inc:
		w.emitAddByteMemImm8(regTape, regHead, 1)
	case token.Dec:
		w.emitSubByteMemImm8(regTape, regHead, 1)
	case token.Output:
		lowerOutput(w)
	case token.Input:
		lowerInput(w)
	case token.LoopTok:
		lowerLoop(w, tok.Children)
	case token.Comment:
		// no-op, same as interp.Interp.exec
	}
}

// lowerShiftRight emits the '>' sequence from spec.md §4.J: save the
// live locals across the call, invoke grow_if_needed(host, head), adopt
// the (possibly relocated) tape pointer it returns, restore, advance.
func lowerShiftRight(w *Writer) {
	w.emitPush(regHead)
	w.emitPush(regHost)
	w.emitMovRegReg(regAX, regHost) // arg0 = host
	w.emitMovRegReg(regBX, regHead) // arg1 = head
	w.emitMovRegImm64(regR11, funcAddr(hostGrowIfNeeded))
	w.emitCallReg(regR11)
	w.emitPop(regHost)
	w.emitPop(regHead)
	w.emitMovRegReg(regTape, regAX) // RDI <- new tape pointer
	w.emitIncReg(regHead)
}

// lowerOutput emits '.': read the cell, hand it to output_byte.
func lowerOutput(w *Writer) {
	w.emitLoadByteSIB(regR8, regTape, regHead) // scratch <- cell byte
	w.emitPush(regTape)
	w.emitPush(regHead)
	w.emitPush(regHost)
	w.emitMovRegReg(regAX, regHost) // arg0 = host
	w.emitMovRegReg(regBX, regR8)   // arg1 = byte
	w.emitMovRegImm64(regR11, funcAddr(hostOutputByte))
	w.emitCallReg(regR11)
	w.emitPop(regHost)
	w.emitPop(regHead)
	w.emitPop(regTape)
}

// lowerInput emits ',': input_byte writes straight into the tape (see
// host.go), so no store instruction is needed on return.
func lowerInput(w *Writer) {
	w.emitPush(regTape)
	w.emitPush(regHead)
	w.emitPush(regHost)
	w.emitMovRegReg(regAX, regHost) // arg0 = host
	w.emitMovRegReg(regBX, regHead) // arg1 = head
	w.emitMovRegImm64(regR11, funcAddr(hostInputByte))
	w.emitCallReg(regR11)
	w.emitPop(regHost)
	w.emitPop(regHead)
	w.emitPop(regTape)
}

// lowerLoop emits: L_start: test cell; jz L_end; body; jmp L_start;
// L_end:, exactly spec.md §4.J's description.
func lowerLoop(w *Writer, body token.TokenTree) {
	lStart := w.DefineLabel()
	lEnd := w.ReserveLabel()
	w.emitLoadALSIB(regTape, regHead)
	w.emitCmpALImm8(0)
	w.emitJccLabel(ccZ, lEnd)
	lower(w, body)
	w.emitJmpLabel(lStart)
	w.MarkLabel(lEnd)
}
