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

// Reg is a hardware GPR index, using the standard Intel encoding (the
// same numbering scm/jit_emit_amd64.go uses for RegRAX..RegR15).
type Reg byte

const (
	regAX Reg = 0
	regCX Reg = 1
	regDX Reg = 2
	regBX Reg = 3
	regSP Reg = 4
	regBP Reg = 5
	regSI Reg = 6
	regDI Reg = 7
	regR8 Reg = 8
	regR9 Reg = 9
	regR11 Reg = 11
)

// condition codes for Jcc, matching scm/jit_emit_amd64.go's CcE/CcNE set.
const ccZ byte = 0x04 // JZ / JE (ZF=1)

// emitPush emits PUSH reg (64-bit).
func (w *Writer) emitPush(r Reg) {
	if r >= 8 {
		w.emitBytes(0x41, 0x50+byte(r&7))
	} else {
		w.emitByte(0x50 + byte(r))
	}
}

// emitPop emits POP reg (64-bit).
func (w *Writer) emitPop(r Reg) {
	if r >= 8 {
		w.emitBytes(0x41, 0x58+byte(r&7))
	} else {
		w.emitByte(0x58 + byte(r))
	}
}

// emitMovRegReg emits MOV dst, src (64-bit GPR to GPR), the same encoding
// scm/jit_emit_amd64.go's emitMovRegReg uses.
func (w *Writer) emitMovRegReg(dst, src Reg) {
	rex := byte(0x48)
	if src >= 8 {
		rex |= 0x04
	}
	if dst >= 8 {
		rex |= 0x01
	}
	modrm := byte(0xC0) | (byte(src&7) << 3) | byte(dst&7)
	w.emitBytes(rex, 0x89, modrm)
}

// emitMovRegImm64 emits MOV reg, imm64 (used to materialize absolute
// callback addresses obtained via reflect, mirroring scm/jit_amd64.go's
// jitReturnLiteral pattern of splicing an 8-byte immediate into the
// instruction stream).
func (w *Writer) emitMovRegImm64(dst Reg, imm uint64) {
	rex := byte(0x48)
	if dst >= 8 {
		rex |= 0x01
	}
	w.emitBytes(rex, 0xB8|byte(dst&7))
	w.emitU64(imm)
}

// emitLoadByteSIB emits MOVZX dst32, BYTE [base+index] with scale 1 — the
// [RDI+RSI] addressing mode every tape-cell read in this package uses.
func (w *Writer) emitLoadByteSIB(dst, base, index Reg) {
	rex := byte(0x40)
	if dst >= 8 {
		rex |= 0x04
	}
	if index >= 8 {
		rex |= 0x02
	}
	if base >= 8 {
		rex |= 0x01
	}
	modrm := byte(0x00) | (byte(dst&7) << 3) | 0x04 // mod=00, rm=100 (SIB follows)
	sib := byte(0x00) | (byte(index&7) << 3) | byte(base&7)
	w.emitBytes(rex, 0x0F, 0xB6, modrm, sib)
}

// emitLoadALSIB emits MOV AL, [base+index] (8-bit, no zero-extend) — used
// for the loop test, matching spec.md §4.J's "load byte at [RDI+RSI] into
// AL" exactly.
func (w *Writer) emitLoadALSIB(base, index Reg) {
	modrm := byte(0x00) | 0x04 // reg=000 (AL), rm=100 (SIB)
	sib := byte(0x00) | (byte(index&7) << 3) | byte(base&7)
	w.emitBytes(0x8A, modrm, sib)
}

// emitStoreByteSIB emits MOV [base+index], src8 (store the low byte of
// src).
func (w *Writer) emitStoreByteSIB(base, index, src Reg) {
	if src >= 4 {
		// need REX (even a no-op REX prefix) to address SIL/DIL/etc
		// instead of AH/CH/DH/BH; our sources are always AL/R8B here so
		// this branch is for completeness.
		rex := byte(0x40)
		if src >= 8 {
			rex |= 0x04
		}
		if index >= 8 {
			rex |= 0x02
		}
		if base >= 8 {
			rex |= 0x01
		}
		modrm := byte(0x00) | (byte(src&7) << 3) | 0x04
		sib := byte(0x00) | (byte(index&7) << 3) | byte(base&7)
		w.emitBytes(rex, 0x88, modrm, sib)
		return
	}
	modrm := byte(0x00) | (byte(src&7) << 3) | 0x04
	sib := byte(0x00) | (byte(index&7) << 3) | byte(base&7)
	w.emitBytes(0x88, modrm, sib)
}

// emitAddByteMemImm8 emits ADD BYTE [base+index], imm8 — relies on 8-bit
// wraparound semantics of the ADD instruction itself to satisfy the
// tape's mod-256 contract.
func (w *Writer) emitAddByteMemImm8(base, index Reg, imm byte) {
	modrm := byte(0x00) | 0x04 // /0 = ADD, rm=100 (SIB)
	sib := byte(0x00) | (byte(index&7) << 3) | byte(base&7)
	w.emitBytes(0x80, modrm, sib, imm)
}

// emitSubByteMemImm8 emits SUB BYTE [base+index], imm8.
func (w *Writer) emitSubByteMemImm8(base, index Reg, imm byte) {
	modrm := byte(0x28) | 0x04 // /5 = SUB (101 << 3 = 0x28), rm=100 (SIB)
	sib := byte(0x00) | (byte(index&7) << 3) | byte(base&7)
	w.emitBytes(0x80, modrm, sib, imm)
}

// emitIncReg emits INC reg64.
func (w *Writer) emitIncReg(r Reg) {
	rex := byte(0x48)
	if r >= 8 {
		rex |= 0x01
	}
	modrm := byte(0xC0) | byte(r&7) // /0 = INC
	w.emitBytes(rex, 0xFF, modrm)
}

// emitDecReg emits DEC reg64.
func (w *Writer) emitDecReg(r Reg) {
	rex := byte(0x48)
	if r >= 8 {
		rex |= 0x01
	}
	modrm := byte(0xC8) | byte(r&7) // /1 = DEC
	w.emitBytes(rex, 0xFF, modrm)
}

// emitCmpALImm8 emits CMP AL, imm8.
func (w *Writer) emitCmpALImm8(imm byte) {
	w.emitBytes(0x3C, imm)
}

// emitCallReg emits CALL reg (indirect call through a register holding an
// absolute address).
func (w *Writer) emitCallReg(r Reg) {
	if r >= 8 {
		w.emitBytes(0x41, 0xFF, 0xD0|byte(r&7))
	} else {
		w.emitBytes(0xFF, 0xD0|byte(r))
	}
}

// emitJccLabel emits a conditional jump (rel32) to a label, resolved by
// Writer.ResolveFixups.
func (w *Writer) emitJccLabel(cc byte, label int) {
	w.emitBytes(0x0F, 0x80|cc)
	w.addFixup(label, 4, true)
	w.emitU32(0)
}

// emitJmpLabel emits an unconditional jump (rel32) to a label.
func (w *Writer) emitJmpLabel(label int) {
	w.emitByte(0xE9)
	w.addFixup(label, 4, true)
	w.emitU32(0)
}

// emitRet emits RET.
func (w *Writer) emitRet() {
	w.emitByte(0xC3)
}
