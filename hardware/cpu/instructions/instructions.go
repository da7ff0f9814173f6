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

// Package instructions defines the instruction set of the 6502 and 65C02.
// The table returned by GetDefinitions() is indexed by opcode; undefined
// opcodes decode to a one byte NOP.
package instructions

import "fmt"

// Operator describes what an instruction does, independent of how its
// operand is addressed.
type Operator int

// List of valid Operator values. The documented 6502 set first, followed by
// the 65C02 additions.
const (
	Adc Operator = iota
	And
	Asl
	Bcc
	Bcs
	Beq
	Bit
	Bmi
	Bne
	Bpl
	Brk
	Bvc
	Bvs
	Clc
	Cld
	Cli
	Clv
	Cmp
	Cpx
	Cpy
	Dec
	Dex
	Dey
	Eor
	Inc
	Inx
	Iny
	Jmp
	Jsr
	Lda
	Ldx
	Ldy
	Lsr
	Nop
	Ora
	Pha
	Php
	Pla
	Plp
	Rol
	Ror
	Rti
	Rts
	Sbc
	Sec
	Sed
	Sei
	Sta
	Stx
	Sty
	Tax
	Tay
	Tsx
	Txa
	Txs
	Tya

	// 65C02 additions
	Bra
	Phx
	Phy
	Plx
	Ply
	Stz
	Trb
	Tsb
	Stp
	Wai
	Bbr0
	Bbr1
	Bbr2
	Bbr3
	Bbr4
	Bbr5
	Bbr6
	Bbr7
	Bbs0
	Bbs1
	Bbs2
	Bbs3
	Bbs4
	Bbs5
	Bbs6
	Bbs7
	Rmb0
	Rmb1
	Rmb2
	Rmb3
	Rmb4
	Rmb5
	Rmb6
	Rmb7
	Smb0
	Smb1
	Smb2
	Smb3
	Smb4
	Smb5
	Smb6
	Smb7
)

var operatorNames = []string{
	"ADC", "AND", "ASL", "BCC", "BCS", "BEQ", "BIT", "BMI", "BNE", "BPL",
	"BRK", "BVC", "BVS", "CLC", "CLD", "CLI", "CLV", "CMP", "CPX", "CPY",
	"DEC", "DEX", "DEY", "EOR", "INC", "INX", "INY", "JMP", "JSR", "LDA",
	"LDX", "LDY", "LSR", "NOP", "ORA", "PHA", "PHP", "PLA", "PLP", "ROL",
	"ROR", "RTI", "RTS", "SBC", "SEC", "SED", "SEI", "STA", "STX", "STY",
	"TAX", "TAY", "TSX", "TXA", "TXS", "TYA",
	"BRA", "PHX", "PHY", "PLX", "PLY", "STZ", "TRB", "TSB", "STP", "WAI",
	"BBR0", "BBR1", "BBR2", "BBR3", "BBR4", "BBR5", "BBR6", "BBR7",
	"BBS0", "BBS1", "BBS2", "BBS3", "BBS4", "BBS5", "BBS6", "BBS7",
	"RMB0", "RMB1", "RMB2", "RMB3", "RMB4", "RMB5", "RMB6", "RMB7",
	"SMB0", "SMB1", "SMB2", "SMB3", "SMB4", "SMB5", "SMB6", "SMB7",
}

func (op Operator) String() string {
	if int(op) < 0 || int(op) >= len(operatorNames) {
		return "unknown operator"
	}
	return operatorNames[op]
}

// AddressingMode describes the method by which an instruction receives the
// data on which it operates.
type AddressingMode int

// List of supported addressing modes.
const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	Relative // branch instructions only

	Absolute // abs
	ZeroPage // zpg
	Indirect // ind, JMP only

	IndexedIndirect // (ind,X)
	IndirectIndexed // (ind),Y

	AbsoluteIndexedX // abs,X
	AbsoluteIndexedY // abs,Y

	ZeroPageIndexedX // zpg,X
	ZeroPageIndexedY // zpg,Y

	// 65C02 additions
	ZeroPageIndirect        // (zpg)
	AbsoluteIndexedIndirect // (abs,X), JMP only
)

func (m AddressingMode) String() string {
	switch m {
	case Implied:
		return "Implied"
	case Accumulator:
		return "Accumulator"
	case Immediate:
		return "Immediate"
	case Relative:
		return "Relative"
	case Absolute:
		return "Absolute"
	case ZeroPage:
		return "ZeroPage"
	case Indirect:
		return "Indirect"
	case IndexedIndirect:
		return "IndexedIndirect"
	case IndirectIndexed:
		return "IndirectIndexed"
	case AbsoluteIndexedX:
		return "AbsoluteIndexedX"
	case AbsoluteIndexedY:
		return "AbsoluteIndexedY"
	case ZeroPageIndexedX:
		return "ZeroPageIndexedX"
	case ZeroPageIndexedY:
		return "ZeroPageIndexedY"
	case ZeroPageIndirect:
		return "ZeroPageIndirect"
	case AbsoluteIndexedIndirect:
		return "AbsoluteIndexedIndirect"
	}
	return "unknown addressing mode"
}

// Bytes returns the total instruction length, opcode included, implied by
// the addressing mode.
func (m AddressingMode) Bytes() int {
	switch m {
	case Implied, Accumulator:
		return 1
	case Absolute, Indirect, AbsoluteIndexedX, AbsoluteIndexedY, AbsoluteIndexedIndirect:
		return 3
	}
	return 2
}

// Effect categorises an instruction by the effect it has.
type Effect int

// List of effect categories.
const (
	// reads a value from memory (or uses no memory at all)
	Read Effect = iota

	// writes a value to memory without reading the target first
	Write

	// reads a value from memory, modifies it, and writes it back
	RMW

	// changes the program counter (branches and JMP)
	Flow

	// JSR and RTS
	Subroutine

	// BRK and RTI
	Interrupt
)

func (e Effect) String() string {
	switch e {
	case Read:
		return "Read"
	case Write:
		return "Write"
	case RMW:
		return "RMW"
	case Flow:
		return "Flow"
	case Subroutine:
		return "Subroutine"
	case Interrupt:
		return "Interrupt"
	}
	return "unknown effect"
}

// Definition describes one cell of the opcode table.
type Definition struct {
	OpCode         uint8
	Operator       Operator
	AddressingMode AddressingMode
	Effect         Effect
}

// Bytes returns the total length of the instruction, opcode included.
func (defn Definition) Bytes() int {
	return defn.AddressingMode.Bytes()
}

func (defn Definition) String() string {
	return fmt.Sprintf("%02x %s +%dbytes [mode=%s effect=%s]",
		defn.OpCode, defn.Operator, defn.Bytes(), defn.AddressingMode, defn.Effect)
}

// IsBranch returns true if the instruction is a branch instruction.
func (defn Definition) IsBranch() bool {
	return defn.AddressingMode == Relative && defn.Effect == Flow
}
