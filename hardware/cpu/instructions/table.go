// This file is part of Mach65.
//
// Mach65 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Mach65 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Mach65.  If not, see <https://www.gnu.org/licenses/>.

package instructions

// GetDefinitions returns the table of instruction definitions for the
// 6502/65C02, indexed by opcode. Every cell is valid; opcodes with no
// documented meaning decode to a one byte NOP.
//
// The bit manipulation family (BBR, BBS, RMB, SMB) and the STP and WAI
// instructions are present in the table but are executed as NOP by the CPU.
func GetDefinitions() []*Definition {
	defs := make([]*Definition, 256)

	add := func(opcode uint8, operator Operator, mode AddressingMode, effect Effect) {
		defs[opcode] = &Definition{
			OpCode:         opcode,
			Operator:       operator,
			AddressingMode: mode,
			Effect:         effect,
		}
	}

	// ADC
	add(0x69, Adc, Immediate, Read)
	add(0x65, Adc, ZeroPage, Read)
	add(0x75, Adc, ZeroPageIndexedX, Read)
	add(0x6d, Adc, Absolute, Read)
	add(0x7d, Adc, AbsoluteIndexedX, Read)
	add(0x79, Adc, AbsoluteIndexedY, Read)
	add(0x61, Adc, IndexedIndirect, Read)
	add(0x71, Adc, IndirectIndexed, Read)
	add(0x72, Adc, ZeroPageIndirect, Read)

	// AND
	add(0x29, And, Immediate, Read)
	add(0x25, And, ZeroPage, Read)
	add(0x35, And, ZeroPageIndexedX, Read)
	add(0x2d, And, Absolute, Read)
	add(0x3d, And, AbsoluteIndexedX, Read)
	add(0x39, And, AbsoluteIndexedY, Read)
	add(0x21, And, IndexedIndirect, Read)
	add(0x31, And, IndirectIndexed, Read)
	add(0x32, And, ZeroPageIndirect, Read)

	// ASL
	add(0x0a, Asl, Accumulator, Read)
	add(0x06, Asl, ZeroPage, RMW)
	add(0x16, Asl, ZeroPageIndexedX, RMW)
	add(0x0e, Asl, Absolute, RMW)
	add(0x1e, Asl, AbsoluteIndexedX, RMW)

	// branches
	add(0x90, Bcc, Relative, Flow)
	add(0xb0, Bcs, Relative, Flow)
	add(0xf0, Beq, Relative, Flow)
	add(0x30, Bmi, Relative, Flow)
	add(0xd0, Bne, Relative, Flow)
	add(0x10, Bpl, Relative, Flow)
	add(0x50, Bvc, Relative, Flow)
	add(0x70, Bvs, Relative, Flow)
	add(0x80, Bra, Relative, Flow)

	// BIT
	add(0x24, Bit, ZeroPage, Read)
	add(0x2c, Bit, Absolute, Read)
	add(0x34, Bit, ZeroPageIndexedX, Read)
	add(0x3c, Bit, AbsoluteIndexedX, Read)
	add(0x89, Bit, Immediate, Read)

	// BRK / RTI
	add(0x00, Brk, Implied, Interrupt)
	add(0x40, Rti, Implied, Interrupt)

	// flag instructions
	add(0x18, Clc, Implied, Read)
	add(0xd8, Cld, Implied, Read)
	add(0x58, Cli, Implied, Read)
	add(0xb8, Clv, Implied, Read)
	add(0x38, Sec, Implied, Read)
	add(0xf8, Sed, Implied, Read)
	add(0x78, Sei, Implied, Read)

	// CMP
	add(0xc9, Cmp, Immediate, Read)
	add(0xc5, Cmp, ZeroPage, Read)
	add(0xd5, Cmp, ZeroPageIndexedX, Read)
	add(0xcd, Cmp, Absolute, Read)
	add(0xdd, Cmp, AbsoluteIndexedX, Read)
	add(0xd9, Cmp, AbsoluteIndexedY, Read)
	add(0xc1, Cmp, IndexedIndirect, Read)
	add(0xd1, Cmp, IndirectIndexed, Read)
	add(0xd2, Cmp, ZeroPageIndirect, Read)

	// CPX / CPY
	add(0xe0, Cpx, Immediate, Read)
	add(0xe4, Cpx, ZeroPage, Read)
	add(0xec, Cpx, Absolute, Read)
	add(0xc0, Cpy, Immediate, Read)
	add(0xc4, Cpy, ZeroPage, Read)
	add(0xcc, Cpy, Absolute, Read)

	// DEC / INC
	add(0xc6, Dec, ZeroPage, RMW)
	add(0xd6, Dec, ZeroPageIndexedX, RMW)
	add(0xce, Dec, Absolute, RMW)
	add(0xde, Dec, AbsoluteIndexedX, RMW)
	add(0x3a, Dec, Accumulator, Read)
	add(0xe6, Inc, ZeroPage, RMW)
	add(0xf6, Inc, ZeroPageIndexedX, RMW)
	add(0xee, Inc, Absolute, RMW)
	add(0xfe, Inc, AbsoluteIndexedX, RMW)
	add(0x1a, Inc, Accumulator, Read)

	// register increment/decrement
	add(0xca, Dex, Implied, Read)
	add(0x88, Dey, Implied, Read)
	add(0xe8, Inx, Implied, Read)
	add(0xc8, Iny, Implied, Read)

	// EOR
	add(0x49, Eor, Immediate, Read)
	add(0x45, Eor, ZeroPage, Read)
	add(0x55, Eor, ZeroPageIndexedX, Read)
	add(0x4d, Eor, Absolute, Read)
	add(0x5d, Eor, AbsoluteIndexedX, Read)
	add(0x59, Eor, AbsoluteIndexedY, Read)
	add(0x41, Eor, IndexedIndirect, Read)
	add(0x51, Eor, IndirectIndexed, Read)
	add(0x52, Eor, ZeroPageIndirect, Read)

	// JMP / JSR / RTS
	add(0x4c, Jmp, Absolute, Flow)
	add(0x6c, Jmp, Indirect, Flow)
	add(0x7c, Jmp, AbsoluteIndexedIndirect, Flow)
	add(0x20, Jsr, Absolute, Subroutine)
	add(0x60, Rts, Implied, Subroutine)

	// LDA
	add(0xa9, Lda, Immediate, Read)
	add(0xa5, Lda, ZeroPage, Read)
	add(0xb5, Lda, ZeroPageIndexedX, Read)
	add(0xad, Lda, Absolute, Read)
	add(0xbd, Lda, AbsoluteIndexedX, Read)
	add(0xb9, Lda, AbsoluteIndexedY, Read)
	add(0xa1, Lda, IndexedIndirect, Read)
	add(0xb1, Lda, IndirectIndexed, Read)
	add(0xb2, Lda, ZeroPageIndirect, Read)

	// LDX / LDY
	add(0xa2, Ldx, Immediate, Read)
	add(0xa6, Ldx, ZeroPage, Read)
	add(0xb6, Ldx, ZeroPageIndexedY, Read)
	add(0xae, Ldx, Absolute, Read)
	add(0xbe, Ldx, AbsoluteIndexedY, Read)
	add(0xa0, Ldy, Immediate, Read)
	add(0xa4, Ldy, ZeroPage, Read)
	add(0xb4, Ldy, ZeroPageIndexedX, Read)
	add(0xac, Ldy, Absolute, Read)
	add(0xbc, Ldy, AbsoluteIndexedX, Read)

	// LSR
	add(0x4a, Lsr, Accumulator, Read)
	add(0x46, Lsr, ZeroPage, RMW)
	add(0x56, Lsr, ZeroPageIndexedX, RMW)
	add(0x4e, Lsr, Absolute, RMW)
	add(0x5e, Lsr, AbsoluteIndexedX, RMW)

	// NOP
	add(0xea, Nop, Implied, Read)

	// ORA
	add(0x09, Ora, Immediate, Read)
	add(0x05, Ora, ZeroPage, Read)
	add(0x15, Ora, ZeroPageIndexedX, Read)
	add(0x0d, Ora, Absolute, Read)
	add(0x1d, Ora, AbsoluteIndexedX, Read)
	add(0x19, Ora, AbsoluteIndexedY, Read)
	add(0x01, Ora, IndexedIndirect, Read)
	add(0x11, Ora, IndirectIndexed, Read)
	add(0x12, Ora, ZeroPageIndirect, Read)

	// stack instructions
	add(0x48, Pha, Implied, Read)
	add(0x08, Php, Implied, Read)
	add(0x68, Pla, Implied, Read)
	add(0x28, Plp, Implied, Read)
	add(0xda, Phx, Implied, Read)
	add(0x5a, Phy, Implied, Read)
	add(0xfa, Plx, Implied, Read)
	add(0x7a, Ply, Implied, Read)

	// ROL / ROR
	add(0x2a, Rol, Accumulator, Read)
	add(0x26, Rol, ZeroPage, RMW)
	add(0x36, Rol, ZeroPageIndexedX, RMW)
	add(0x2e, Rol, Absolute, RMW)
	add(0x3e, Rol, AbsoluteIndexedX, RMW)
	add(0x6a, Ror, Accumulator, Read)
	add(0x66, Ror, ZeroPage, RMW)
	add(0x76, Ror, ZeroPageIndexedX, RMW)
	add(0x6e, Ror, Absolute, RMW)
	add(0x7e, Ror, AbsoluteIndexedX, RMW)

	// SBC
	add(0xe9, Sbc, Immediate, Read)
	add(0xe5, Sbc, ZeroPage, Read)
	add(0xf5, Sbc, ZeroPageIndexedX, Read)
	add(0xed, Sbc, Absolute, Read)
	add(0xfd, Sbc, AbsoluteIndexedX, Read)
	add(0xf9, Sbc, AbsoluteIndexedY, Read)
	add(0xe1, Sbc, IndexedIndirect, Read)
	add(0xf1, Sbc, IndirectIndexed, Read)
	add(0xf2, Sbc, ZeroPageIndirect, Read)

	// STA
	add(0x85, Sta, ZeroPage, Write)
	add(0x95, Sta, ZeroPageIndexedX, Write)
	add(0x8d, Sta, Absolute, Write)
	add(0x9d, Sta, AbsoluteIndexedX, Write)
	add(0x99, Sta, AbsoluteIndexedY, Write)
	add(0x81, Sta, IndexedIndirect, Write)
	add(0x91, Sta, IndirectIndexed, Write)
	add(0x92, Sta, ZeroPageIndirect, Write)

	// STX / STY / STZ
	add(0x86, Stx, ZeroPage, Write)
	add(0x96, Stx, ZeroPageIndexedY, Write)
	add(0x8e, Stx, Absolute, Write)
	add(0x84, Sty, ZeroPage, Write)
	add(0x94, Sty, ZeroPageIndexedX, Write)
	add(0x8c, Sty, Absolute, Write)
	add(0x64, Stz, ZeroPage, Write)
	add(0x74, Stz, ZeroPageIndexedX, Write)
	add(0x9c, Stz, Absolute, Write)
	add(0x9e, Stz, AbsoluteIndexedX, Write)

	// transfers
	add(0xaa, Tax, Implied, Read)
	add(0xa8, Tay, Implied, Read)
	add(0xba, Tsx, Implied, Read)
	add(0x8a, Txa, Implied, Read)
	add(0x9a, Txs, Implied, Read)
	add(0x98, Tya, Implied, Read)

	// TRB / TSB
	add(0x14, Trb, ZeroPage, RMW)
	add(0x1c, Trb, Absolute, RMW)
	add(0x04, Tsb, ZeroPage, RMW)
	add(0x0c, Tsb, Absolute, RMW)

	// STP / WAI occupy their slots but execute as NOP
	add(0xdb, Stp, Implied, Read)
	add(0xcb, Wai, Implied, Read)

	// bit manipulation family. present in the table, executed as NOP. the
	// addressing modes give the expected instruction lengths
	bbr := []Operator{Bbr0, Bbr1, Bbr2, Bbr3, Bbr4, Bbr5, Bbr6, Bbr7}
	bbs := []Operator{Bbs0, Bbs1, Bbs2, Bbs3, Bbs4, Bbs5, Bbs6, Bbs7}
	rmb := []Operator{Rmb0, Rmb1, Rmb2, Rmb3, Rmb4, Rmb5, Rmb6, Rmb7}
	smb := []Operator{Smb0, Smb1, Smb2, Smb3, Smb4, Smb5, Smb6, Smb7}
	for i := 0; i < 8; i++ {
		add(uint8(i)<<4|0x0f, bbr[i], Relative, Flow)
		add(uint8(i+8)<<4|0x0f, bbs[i], Relative, Flow)
		add(uint8(i)<<4|0x07, rmb[i], ZeroPage, Read)
		add(uint8(i+8)<<4|0x07, smb[i], ZeroPage, Read)
	}

	// all remaining cells decode to a one byte NOP
	for i := range defs {
		if defs[i] == nil {
			defs[i] = &Definition{
				OpCode:         uint8(i),
				Operator:       Nop,
				AddressingMode: Implied,
				Effect:         Read,
			}
		}
	}

	return defs
}
