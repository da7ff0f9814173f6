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

package cpu

import (
	"fmt"

	"github.com/aminglis/mach65/hardware/cpu/instructions"
	"github.com/aminglis/mach65/hardware/cpu/registers"
	"github.com/aminglis/mach65/hardware/memory/addresses"
)

// Variant selects between the NMOS 6502 and the CMOS 65C02. The two chips
// differ, as far as this emulation is concerned, only in how the overflow
// flag behaves during decimal mode arithmetic.
type Variant int

// List of valid Variant values.
const (
	NMOS6502 Variant = iota
	CMOS65C02
)

func (v Variant) String() string {
	switch v {
	case NMOS6502:
		return "6502"
	case CMOS65C02:
		return "65C02"
	}
	return "unknown variant"
}

// Memory defines the CPU's view of the address space. Implementations are
// expected to be infallible: a read that cannot be satisfied should return a
// sensible byte value (0xff by convention) rather than fail.
type Memory interface {
	Read(address uint16) uint8
	Write(address uint16, data uint8)
}

// the status register value established by the reset sequence. based on the
// value observed in Visual6502 after a reset.
const resetStatus = 0x36

// the stack pointer value established by the reset sequence. the real chip
// performs three push operations during reset, leaving the pointer at 0xfd.
const resetStackPointer = 0xfd

// CPU is an instruction-level emulation of the 6502/65C02. It has no concept
// of cycles: one call to Step() performs one whole instruction.
type CPU struct {
	PC     registers.ProgramCounter
	A      registers.Register
	X      registers.Register
	Y      registers.Register
	SP     registers.StackPointer
	Status registers.StatusRegister

	// selects decimal mode overflow behaviour. safe to change at runtime
	Variant Variant

	// Halted terminates a Run() loop at the next instruction boundary. set
	// by the Halt() function
	Halted bool

	// TickFn, if not nil, is called by Run() between instructions. used by
	// the owning machine to advance time-driven peripherals
	TickFn func()

	// scratch register for memory operands
	acc8 registers.Register

	mem          Memory
	instructions []*instructions.Definition

	// interrupt and reset requests are latched and serviced at instruction
	// boundaries
	resetPending bool
	irqPending   bool
	nmiPending   bool
}

// NewCPU is the preferred method of initialisation for the CPU type. The
// reset sequence is latched: the first call to Step() will service it.
func NewCPU(mem Memory) *CPU {
	return &CPU{
		mem:          mem,
		A:            registers.NewRegister(0, "A"),
		X:            registers.NewRegister(0, "X"),
		Y:            registers.NewRegister(0, "Y"),
		acc8:         registers.NewRegister(0, "acc"),
		SP:           registers.NewStackPointer(0),
		Status:       registers.NewStatusRegister(),
		instructions: instructions.GetDefinitions(),
		resetPending: true,
	}
}

func (mc *CPU) String() string {
	return fmt.Sprintf("PC=%s A=%s X=%s Y=%s SR=%s SP=%s",
		mc.PC, mc.A, mc.X, mc.Y, mc.Status, mc.SP)
}

// Reset requests a CPU reset. The request is latched and serviced by the
// next call to Step(), which will perform the reset sequence instead of
// decoding an instruction.
func (mc *CPU) Reset() {
	mc.resetPending = true
}

// IRQ requests a maskable interrupt. The request is latched and serviced at
// the next instruction boundary, provided the interrupt disable flag is
// clear.
func (mc *CPU) IRQ() {
	mc.irqPending = true
}

// NMI requests a non-maskable interrupt. The request is latched and serviced
// at the next instruction boundary, regardless of the interrupt disable
// flag.
func (mc *CPU) NMI() {
	mc.nmiPending = true
}

// Halt stops an active Run() loop at the next instruction boundary. This is
// the only way for embedding code to stop the CPU.
func (mc *CPU) Halt() {
	mc.Halted = true
}

// the reset sequence. loads PC from the reset vector and establishes the
// documented register values.
func (mc *CPU) reset() {
	mc.PC.Load(mc.read16(addresses.Reset))
	mc.A.Load(0)
	mc.X.Load(0)
	mc.Y.Load(0)
	mc.Status.FromValue(resetStatus)
	mc.SP.Load(resetStackPointer)
	mc.Halted = false
	mc.resetPending = false
	mc.irqPending = false
	mc.nmiPending = false
}

func (mc *CPU) read8(address uint16) uint8 {
	return mc.mem.Read(address)
}

func (mc *CPU) write8(address uint16, data uint8) {
	mc.mem.Write(address, data)
}

// read a 16 bit little-endian value starting at the specified address.
func (mc *CPU) read16(address uint16) uint16 {
	lo := mc.mem.Read(address)
	hi := mc.mem.Read(address + 1)
	return (uint16(hi) << 8) | uint16(lo)
}

// read a 16 bit little-endian value from page zero. both pointer bytes are
// fetched within page zero: a pointer at 0xff wraps to 0x00 rather than
// crossing into page one.
func (mc *CPU) read16ZeroPage(address uint8) uint16 {
	lo := mc.mem.Read(uint16(address))
	hi := mc.mem.Read(uint16(address + 1))
	return (uint16(hi) << 8) | uint16(lo)
}

// read the byte at the PC and advance the PC past it.
func (mc *CPU) next8() uint8 {
	v := mc.mem.Read(mc.PC.Address())
	mc.PC.Add(1)
	return v
}

// read the 16 bit little-endian value at the PC and advance the PC past it.
func (mc *CPU) next16() uint16 {
	v := mc.read16(mc.PC.Address())
	mc.PC.Add(2)
	return v
}

// push a value onto the stack: write then decrement.
func (mc *CPU) push(data uint8) {
	mc.write8(mc.SP.Address(), data)
	mc.SP.Add(0xff)
}

// pop a value from the stack: increment then read.
func (mc *CPU) pop() uint8 {
	mc.SP.Add(1)
	return mc.read8(mc.SP.Address())
}

func (mc *CPU) branch(flag bool, target uint16) {
	if flag {
		mc.PC.Load(target)
	}
}

// interrupt performs the service sequence shared by BRK, IRQ and NMI: PC
// high, PC low and the status register are pushed (in that order), the
// interrupt disable flag is set and the PC is loaded from the vector. The
// pushed status byte has the break bit set only when the source is the BRK
// instruction.
func (mc *CPU) interrupt(vector uint16, brk bool) {
	mc.push(uint8(mc.PC.Address() >> 8))
	mc.push(uint8(mc.PC.Address()))
	mc.push(mc.Status.PushValue(brk))
	mc.Status.InterruptDisable = true
	mc.PC.Load(mc.read16(vector))
}

// Run the CPU until halted. The TickFn hook, if set, is called between
// instructions.
func (mc *CPU) Run() {
	for !mc.Halted {
		mc.Step()
		if mc.TickFn != nil {
			mc.TickFn()
		}
	}
}

// Step the CPU forward one instruction: read the opcode, resolve the
// addressing mode, perform the operation and then service any pending
// interrupt. A pending reset short-circuits all of that and performs the
// reset sequence instead.
func (mc *CPU) Step() {
	if mc.resetPending {
		mc.reset()
		return
	}

	opcode := mc.next8()
	defn := mc.instructions[opcode]

	// address is the effective address of the instruction's operand, for
	// those addressing modes that produce one
	var address uint16
	var hasAddress bool

	// value is the instruction's operand. loaded from the program for
	// immediate mode and from the effective address for memory modes. for
	// read-modify-write instructions the value changes during execution and
	// is written back at the end
	var value uint8

	switch defn.AddressingMode {
	case instructions.Implied:
		// no operand

	case instructions.Accumulator:
		value = mc.A.Value()

	case instructions.Immediate:
		value = mc.next8()

	case instructions.Relative:
		// branch offsets are signed. the target is relative to the PC after
		// the operand has been consumed
		offset := mc.next8()
		address = mc.PC.Address() + uint16(int8(offset))
		hasAddress = true

	case instructions.Absolute:
		address = mc.next16()
		hasAddress = true

	case instructions.AbsoluteIndexedX:
		address = mc.next16() + mc.X.Address()
		hasAddress = true

	case instructions.AbsoluteIndexedY:
		address = mc.next16() + mc.Y.Address()
		hasAddress = true

	case instructions.ZeroPage:
		address = uint16(mc.next8())
		hasAddress = true

	case instructions.ZeroPageIndexedX:
		// index addition wraps within page zero
		address = uint16(mc.next8() + mc.X.Value())
		hasAddress = true

	case instructions.ZeroPageIndexedY:
		address = uint16(mc.next8() + mc.Y.Value())
		hasAddress = true

	case instructions.Indirect:
		// JMP only
		address = mc.read16(mc.next16())
		hasAddress = true

	case instructions.IndexedIndirect:
		// pointer location wraps within page zero
		address = mc.read16ZeroPage(mc.next8() + mc.X.Value())
		hasAddress = true

	case instructions.IndirectIndexed:
		address = mc.read16ZeroPage(mc.next8()) + mc.Y.Address()
		hasAddress = true

	case instructions.ZeroPageIndirect:
		address = mc.read16ZeroPage(mc.next8())
		hasAddress = true

	case instructions.AbsoluteIndexedIndirect:
		// JMP only
		address = mc.read16(mc.next16() + mc.X.Address())
		hasAddress = true
	}

	// read the operand once for instructions that consume a memory value.
	// store instructions never read their target; flow and subroutine
	// instructions use the address directly
	if hasAddress && (defn.Effect == instructions.Read || defn.Effect == instructions.RMW) {
		value = mc.read8(address)
	}

	switch defn.Operator {
	case instructions.Nop:
		// does nothing

	case instructions.Lda:
		mc.A.Load(value)
		mc.Status.Zero = mc.A.IsZero()
		mc.Status.Sign = mc.A.IsNegative()

	case instructions.Ldx:
		mc.X.Load(value)
		mc.Status.Zero = mc.X.IsZero()
		mc.Status.Sign = mc.X.IsNegative()

	case instructions.Ldy:
		mc.Y.Load(value)
		mc.Status.Zero = mc.Y.IsZero()
		mc.Status.Sign = mc.Y.IsNegative()

	case instructions.Sta:
		mc.write8(address, mc.A.Value())

	case instructions.Stx:
		mc.write8(address, mc.X.Value())

	case instructions.Sty:
		mc.write8(address, mc.Y.Value())

	case instructions.Stz:
		mc.write8(address, 0)

	case instructions.Tax:
		mc.X.Load(mc.A.Value())
		mc.Status.Zero = mc.X.IsZero()
		mc.Status.Sign = mc.X.IsNegative()

	case instructions.Tay:
		mc.Y.Load(mc.A.Value())
		mc.Status.Zero = mc.Y.IsZero()
		mc.Status.Sign = mc.Y.IsNegative()

	case instructions.Txa:
		mc.A.Load(mc.X.Value())
		mc.Status.Zero = mc.A.IsZero()
		mc.Status.Sign = mc.A.IsNegative()

	case instructions.Tya:
		mc.A.Load(mc.Y.Value())
		mc.Status.Zero = mc.A.IsZero()
		mc.Status.Sign = mc.A.IsNegative()

	case instructions.Tsx:
		mc.X.Load(mc.SP.Value())
		mc.Status.Zero = mc.X.IsZero()
		mc.Status.Sign = mc.X.IsNegative()

	case instructions.Txs:
		// does not affect the status register
		mc.SP.Load(mc.X.Value())

	case instructions.Eor:
		mc.A.EOR(value)
		mc.Status.Zero = mc.A.IsZero()
		mc.Status.Sign = mc.A.IsNegative()

	case instructions.Ora:
		mc.A.ORA(value)
		mc.Status.Zero = mc.A.IsZero()
		mc.Status.Sign = mc.A.IsNegative()

	case instructions.And:
		mc.A.AND(value)
		mc.Status.Zero = mc.A.IsZero()
		mc.Status.Sign = mc.A.IsNegative()

	case instructions.Adc:
		if mc.Status.DecimalMode {
			var overflow bool
			mc.Status.Carry, mc.Status.Zero, overflow, mc.Status.Sign = mc.A.AddDecimal(value, mc.Status.Carry)
			mc.setDecimalOverflow(overflow)
		} else {
			mc.Status.Carry, mc.Status.Overflow = mc.A.Add(value, mc.Status.Carry)
			mc.Status.Zero = mc.A.IsZero()
			mc.Status.Sign = mc.A.IsNegative()
		}

	case instructions.Sbc:
		if mc.Status.DecimalMode {
			var overflow bool
			mc.Status.Carry, mc.Status.Zero, overflow, mc.Status.Sign = mc.A.SubtractDecimal(value, mc.Status.Carry)
			mc.setDecimalOverflow(overflow)
		} else {
			mc.Status.Carry, mc.Status.Overflow = mc.A.Subtract(value, mc.Status.Carry)
			mc.Status.Zero = mc.A.IsZero()
			mc.Status.Sign = mc.A.IsNegative()
		}

	case instructions.Cmp:
		r := mc.acc8
		r.Load(mc.A.Value())

		// compare can be implemented with binary subtraction even when
		// decimal mode is active
		mc.Status.Carry, _ = r.Subtract(value, true)
		mc.Status.Zero = r.IsZero()
		mc.Status.Sign = r.IsNegative()

	case instructions.Cpx:
		r := mc.acc8
		r.Load(mc.X.Value())
		mc.Status.Carry, _ = r.Subtract(value, true)
		mc.Status.Zero = r.IsZero()
		mc.Status.Sign = r.IsNegative()

	case instructions.Cpy:
		r := mc.acc8
		r.Load(mc.Y.Value())
		mc.Status.Carry, _ = r.Subtract(value, true)
		mc.Status.Zero = r.IsZero()
		mc.Status.Sign = r.IsNegative()

	case instructions.Bit:
		r := mc.acc8
		r.Load(value)
		mc.Status.Sign = r.IsNegative()
		mc.Status.Overflow = r.IsBitV()
		r.AND(mc.A.Value())
		mc.Status.Zero = r.IsZero()

	case instructions.Asl:
		r := mc.rmwTarget(defn, value)
		mc.Status.Carry = r.ASL()
		mc.Status.Zero = r.IsZero()
		mc.Status.Sign = r.IsNegative()
		value = r.Value()

	case instructions.Lsr:
		r := mc.rmwTarget(defn, value)
		mc.Status.Carry = r.LSR()
		mc.Status.Zero = r.IsZero()
		mc.Status.Sign = r.IsNegative()
		value = r.Value()

	case instructions.Rol:
		r := mc.rmwTarget(defn, value)
		mc.Status.Carry = r.ROL(mc.Status.Carry)
		mc.Status.Zero = r.IsZero()
		mc.Status.Sign = r.IsNegative()
		value = r.Value()

	case instructions.Ror:
		r := mc.rmwTarget(defn, value)
		mc.Status.Carry = r.ROR(mc.Status.Carry)
		mc.Status.Zero = r.IsZero()
		mc.Status.Sign = r.IsNegative()
		value = r.Value()

	case instructions.Inc:
		r := mc.rmwTarget(defn, value)
		r.Add(1, false)
		mc.Status.Zero = r.IsZero()
		mc.Status.Sign = r.IsNegative()
		value = r.Value()

	case instructions.Dec:
		r := mc.rmwTarget(defn, value)
		r.Add(0xff, false)
		mc.Status.Zero = r.IsZero()
		mc.Status.Sign = r.IsNegative()
		value = r.Value()

	case instructions.Inx:
		mc.X.Add(1, false)
		mc.Status.Zero = mc.X.IsZero()
		mc.Status.Sign = mc.X.IsNegative()

	case instructions.Iny:
		mc.Y.Add(1, false)
		mc.Status.Zero = mc.Y.IsZero()
		mc.Status.Sign = mc.Y.IsNegative()

	case instructions.Dex:
		mc.X.Add(0xff, false)
		mc.Status.Zero = mc.X.IsZero()
		mc.Status.Sign = mc.X.IsNegative()

	case instructions.Dey:
		mc.Y.Add(0xff, false)
		mc.Status.Zero = mc.Y.IsZero()
		mc.Status.Sign = mc.Y.IsNegative()

	case instructions.Trb:
		// zero flag reflects the bits tested, not the stored result
		mc.Status.Zero = value&mc.A.Value() == 0
		value &^= mc.A.Value()

	case instructions.Tsb:
		mc.Status.Zero = value&mc.A.Value() == 0
		value |= mc.A.Value()

	case instructions.Clc:
		mc.Status.Carry = false

	case instructions.Sec:
		mc.Status.Carry = true

	case instructions.Cli:
		mc.Status.InterruptDisable = false

	case instructions.Sei:
		mc.Status.InterruptDisable = true

	case instructions.Cld:
		mc.Status.DecimalMode = false

	case instructions.Sed:
		mc.Status.DecimalMode = true

	case instructions.Clv:
		mc.Status.Overflow = false

	case instructions.Pha:
		mc.push(mc.A.Value())

	case instructions.Pla:
		mc.A.Load(mc.pop())
		mc.Status.Zero = mc.A.IsZero()
		mc.Status.Sign = mc.A.IsNegative()

	case instructions.Phx:
		mc.push(mc.X.Value())

	case instructions.Plx:
		mc.X.Load(mc.pop())
		mc.Status.Zero = mc.X.IsZero()
		mc.Status.Sign = mc.X.IsNegative()

	case instructions.Phy:
		mc.push(mc.Y.Value())

	case instructions.Ply:
		mc.Y.Load(mc.pop())
		mc.Status.Zero = mc.Y.IsZero()
		mc.Status.Sign = mc.Y.IsNegative()

	case instructions.Php:
		mc.push(mc.Status.PushValue(true))

	case instructions.Plp:
		mc.Status.FromValueIgnoreBreak(mc.pop())

	case instructions.Jmp:
		mc.PC.Load(address)

	case instructions.Bcc:
		mc.branch(!mc.Status.Carry, address)

	case instructions.Bcs:
		mc.branch(mc.Status.Carry, address)

	case instructions.Beq:
		mc.branch(mc.Status.Zero, address)

	case instructions.Bne:
		mc.branch(!mc.Status.Zero, address)

	case instructions.Bmi:
		mc.branch(mc.Status.Sign, address)

	case instructions.Bpl:
		mc.branch(!mc.Status.Sign, address)

	case instructions.Bvc:
		mc.branch(!mc.Status.Overflow, address)

	case instructions.Bvs:
		mc.branch(mc.Status.Overflow, address)

	case instructions.Bra:
		mc.branch(true, address)

	case instructions.Jsr:
		// the pushed return address points at the last byte of the JSR
		// instruction. RTS corrects on the way out
		ret := mc.PC.Address() - 1
		mc.push(uint8(ret >> 8))
		mc.push(uint8(ret))
		mc.PC.Load(address)

	case instructions.Rts:
		lo := mc.pop()
		hi := mc.pop()
		mc.PC.Load((uint16(hi) << 8) | uint16(lo))
		mc.PC.Add(1)

	case instructions.Brk:
		// the byte after a BRK opcode is a padding slot that is skipped
		// over by the service sequence
		mc.PC.Add(1)
		mc.interrupt(addresses.IRQ, true)

	case instructions.Rti:
		mc.Status.FromValueIgnoreBreak(mc.pop())
		lo := mc.pop()
		hi := mc.pop()
		mc.PC.Load((uint16(hi) << 8) | uint16(lo))

	case instructions.Stp, instructions.Wai:
		// advertised in the decode table but not implemented. treated as
		// NOP

	case instructions.Bbr0, instructions.Bbr1, instructions.Bbr2, instructions.Bbr3,
		instructions.Bbr4, instructions.Bbr5, instructions.Bbr6, instructions.Bbr7,
		instructions.Bbs0, instructions.Bbs1, instructions.Bbs2, instructions.Bbs3,
		instructions.Bbs4, instructions.Bbs5, instructions.Bbs6, instructions.Bbs7,
		instructions.Rmb0, instructions.Rmb1, instructions.Rmb2, instructions.Rmb3,
		instructions.Rmb4, instructions.Rmb5, instructions.Rmb6, instructions.Rmb7,
		instructions.Smb0, instructions.Smb1, instructions.Smb2, instructions.Smb3,
		instructions.Smb4, instructions.Smb5, instructions.Smb6, instructions.Smb7:
		// the bit manipulation family is decoded but not executed. treated
		// as NOP
	}

	// write the altered value back to memory for read-modify-write
	// instructions
	if defn.Effect == instructions.RMW && defn.AddressingMode != instructions.Accumulator {
		mc.write8(address, value)
	}

	// service pending interrupts. NMI dominates and is never masked; IRQ is
	// gated by the interrupt disable flag and stays pending while masked
	if mc.nmiPending {
		mc.nmiPending = false
		mc.interrupt(addresses.NMI, false)
	} else if mc.irqPending && !mc.Status.InterruptDisable {
		mc.irqPending = false
		mc.interrupt(addresses.IRQ, false)
	}
}

// rmwTarget returns the register that a shift, rotate, increment or
// decrement should operate on: the accumulator itself for accumulator
// addressing, the scratch register loaded with the memory operand otherwise.
func (mc *CPU) rmwTarget(defn *instructions.Definition, value uint8) *registers.Register {
	if defn.AddressingMode == instructions.Accumulator {
		return &mc.A
	}
	mc.acc8.Load(value)
	return &mc.acc8
}

// setDecimalOverflow applies the variant policy for the V flag in decimal
// mode: the NMOS 6502 forces it clear, the 65C02 computes it from the
// signed overflow of the binary result.
func (mc *CPU) setDecimalOverflow(overflow bool) {
	if mc.Variant == CMOS65C02 {
		mc.Status.Overflow = overflow
	} else {
		mc.Status.Overflow = false
	}
}
