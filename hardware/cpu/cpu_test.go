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

package cpu_test

import (
	"bytes"
	"testing"

	"github.com/aminglis/mach65/hardware/cpu"
	"github.com/aminglis/mach65/hardware/cpu/instructions"
	"github.com/aminglis/mach65/test"
)

// mockMem is a simple flat 64KB memory satisfying the cpu.Memory interface.
type mockMem struct {
	internal [0x10000]uint8
}

func newMockMem() *mockMem {
	return &mockMem{}
}

func (mem *mockMem) Read(address uint16) uint8 {
	return mem.internal[address]
}

func (mem *mockMem) Write(address uint16, data uint8) {
	mem.internal[address] = data
}

// putInstructions places a sequence of bytes into memory, returning the
// address after the last byte.
func (mem *mockMem) putInstructions(origin uint16, bytes ...uint8) uint16 {
	for i, b := range bytes {
		mem.internal[origin+uint16(i)] = b
	}
	return origin + uint16(len(bytes))
}

func (mem *mockMem) assert(t *testing.T, address uint16, value uint8) {
	t.Helper()
	if mem.internal[address] != value {
		t.Errorf("memory assertion failed (%#02x - wanted %#02x at address %#04x)",
			mem.internal[address], value, address)
	}
}

const origin = 0x0200

// newTestCPU returns a CPU that has been through its reset sequence with
// the reset vector pointing at origin.
func newTestCPU(mem *mockMem) *cpu.CPU {
	mem.putInstructions(0xfffc, 0x00, 0x02)
	mc := cpu.NewCPU(mem)
	mc.Step()
	return mc
}

func TestResetSequence(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	test.Equate(t, mc.PC.Address(), origin)
	test.Equate(t, mc.A.Value(), 0)
	test.Equate(t, mc.X.Value(), 0)
	test.Equate(t, mc.Y.Value(), 0)
	test.Equate(t, mc.SP.Value(), 0xfd)
	test.Equate(t, mc.Status.Value(), 0x36)
}

// every opcode must advance the PC by the documented instruction length or
// transfer it exactly.
func TestInstructionLengths(t *testing.T) {
	defs := instructions.GetDefinitions()

	for opcode := 0; opcode <= 255; opcode++ {
		mem := newMockMem()
		mc := newTestCPU(mem)
		mem.putInstructions(origin, uint8(opcode))
		mc.Step()

		defn := defs[opcode]

		var expected uint16
		switch {
		case defn.Operator == instructions.Jmp:
			// operand bytes are zero so every JMP form lands on 0x0000
			expected = 0x0000
		case defn.Operator == instructions.Jsr:
			expected = 0x0000
		case defn.Operator == instructions.Rts:
			// stack holds zeros; RTS adds one to the popped address
			expected = 0x0001
		case defn.Operator == instructions.Rti:
			expected = 0x0000
		case defn.Operator == instructions.Brk:
			// IRQ vector is zero
			expected = 0x0000
		case defn.AddressingMode == instructions.Relative:
			// zero offset: taken or not, the branch lands after the operand
			expected = origin + 2
		default:
			expected = origin + uint16(defn.Bytes())
		}

		if mc.PC.Address() != expected {
			t.Errorf("opcode %02x (%s): PC=%#04x - wanted %#04x",
				opcode, defn, mc.PC.Address(), expected)
		}
	}
}

func TestFlagInstructions(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	// SEC; CLC; SEI; CLI; SED; CLD
	mem.putInstructions(origin, 0x38, 0x18, 0x78, 0x58, 0xf8, 0xd8)
	mc.Step()
	test.Equate(t, mc.Status.Carry, true)
	mc.Step()
	test.Equate(t, mc.Status.Carry, false)
	mc.Step()
	test.Equate(t, mc.Status.InterruptDisable, true)
	mc.Step()
	test.Equate(t, mc.Status.InterruptDisable, false)
	mc.Step()
	test.Equate(t, mc.Status.DecimalMode, true)
	mc.Step()
	test.Equate(t, mc.Status.DecimalMode, false)
}

func TestLoadStoreAndTransfers(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	// LDA #$81; STA $10; LDX $10; TXA; TAY; STY $0300
	mem.putInstructions(origin, 0xa9, 0x81, 0x85, 0x10, 0xa6, 0x10, 0x8a, 0xa8, 0x8c, 0x00, 0x03)
	mc.Step()
	test.Equate(t, mc.A.Value(), 0x81)
	test.Equate(t, mc.Status.Sign, true)
	test.Equate(t, mc.Status.Zero, false)
	mc.Step()
	mem.assert(t, 0x0010, 0x81)
	mc.Step()
	test.Equate(t, mc.X.Value(), 0x81)
	mc.Step()
	mc.Step()
	test.Equate(t, mc.Y.Value(), 0x81)
	mc.Step()
	mem.assert(t, 0x0300, 0x81)
}

// zero page indexed addressing wraps within page zero: LDA $FF,X with X=1
// reads from $00, never $100.
func TestZeroPageWrap(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	mem.putInstructions(0x0000, 0x55)
	mem.putInstructions(0x0100, 0xaa)

	// LDX #$01; LDA $FF,X
	mem.putInstructions(origin, 0xa2, 0x01, 0xb5, 0xff)
	mc.Step()
	mc.Step()
	test.Equate(t, mc.A.Value(), 0x55)
}

// zero page pointer reads never cross into page one: the high byte of a
// pointer at $FF comes from $00.
func TestZeroPagePointerWrap(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	// pointer lo at $FF, hi at $00 -> 0x0410
	mem.putInstructions(0x00ff, 0x10)
	mem.putInstructions(0x0000, 0x04)
	mem.putInstructions(0x0410, 0x99)

	// LDA ($FF,X) with X=0
	mem.putInstructions(origin, 0xa1, 0xff)
	mc.Step()
	test.Equate(t, mc.A.Value(), 0x99)
}

func TestAbsoluteIndexed(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	mem.putInstructions(0x0405, 0x21)
	mem.putInstructions(0x0406, 0x81)

	// LDX #$05; LDY #$06; LDA $0400,X; ASL $0400,X; STA $0400,Y
	mem.putInstructions(origin,
		0xa2, 0x05, 0xa0, 0x06, 0xbd, 0x00, 0x04, 0x1e, 0x00, 0x04, 0x99, 0x00, 0x04)
	mc.Step()
	mc.Step()
	mc.Step()
	test.Equate(t, mc.A.Value(), 0x21)
	test.Equate(t, mc.PC.Address(), origin+7)
	mc.Step()
	mem.assert(t, 0x0405, 0x42)
	mc.Step()
	mem.assert(t, 0x0406, 0x21)
	test.Equate(t, mc.PC.Address(), origin+13)

	// LDA $0400,Y reads through the Y index
	mem.putInstructions(origin+13, 0xb9, 0x00, 0x04)
	mc.Step()
	test.Equate(t, mc.A.Value(), 0x21)
}

func TestIndirectIndexed(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	// pointer at $20 -> 0x0400; Y=5 -> effective 0x0405
	mem.putInstructions(0x0020, 0x00, 0x04)
	mem.putInstructions(0x0405, 0x77)

	// LDY #$05; LDA ($20),Y
	mem.putInstructions(origin, 0xa0, 0x05, 0xb1, 0x20)
	mc.Step()
	mc.Step()
	test.Equate(t, mc.A.Value(), 0x77)
}

// a push-pop pair returns the stack pointer and stack page to their prior
// state.
func TestStackPushPop(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	// LDA #$42; PHA; LDA #$00; PLA
	mem.putInstructions(origin, 0xa9, 0x42, 0x48, 0xa9, 0x00, 0x68)
	mc.Step()
	mc.Step()
	test.Equate(t, mc.SP.Value(), 0xfc)
	mem.assert(t, 0x01fd, 0x42)
	mc.Step()
	mc.Step()
	test.Equate(t, mc.SP.Value(), 0xfd)
	test.Equate(t, mc.A.Value(), 0x42)
}

// the stack pointer wraps modulo 256, keeping the stack within page one.
func TestStackWrap(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	mc.SP.Load(0x00)

	// LDA #$42; PHA
	mem.putInstructions(origin, 0xa9, 0x42, 0x48)
	mc.Step()
	mc.Step()
	mem.assert(t, 0x0100, 0x42)
	test.Equate(t, mc.SP.Value(), 0xff)
}

func TestJsrRtsFrame(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	// JSR $1000 at origin; RTS at $1000
	mem.putInstructions(origin, 0x20, 0x00, 0x10)
	mem.putInstructions(0x1000, 0x60)

	mc.Step()
	test.Equate(t, mc.PC.Address(), 0x1000)
	test.Equate(t, mc.SP.Value(), 0xfb)
	mem.assert(t, 0x01fd, 0x02)
	mem.assert(t, 0x01fc, 0x02)

	mc.Step()
	test.Equate(t, mc.PC.Address(), 0x0203)
	test.Equate(t, mc.SP.Value(), 0xfd)
}

func TestBrkRtiRoundTrip(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	// IRQ/BRK vector -> $2000 where an RTI waits
	mem.putInstructions(0xfffe, 0x00, 0x20)
	mem.putInstructions(0x2000, 0x40)

	mc.Status.InterruptDisable = false

	// BRK with padding byte
	mem.putInstructions(origin, 0x00, 0xea)

	mc.Step()
	test.Equate(t, mc.PC.Address(), 0x2000)
	test.Equate(t, mc.SP.Value(), 0xfa)
	test.Equate(t, mc.Status.InterruptDisable, true)

	// the pushed status byte has the break bit set
	if mem.internal[0x01fb]&0x10 != 0x10 {
		t.Errorf("BRK pushed status without break bit (%#02x)", mem.internal[0x01fb])
	}

	mc.Step()
	test.Equate(t, mc.PC.Address(), 0x0202)
	test.Equate(t, mc.SP.Value(), 0xfd)
}

// hardware interrupts push the status byte with the break bit clear.
func TestInterruptBreakBit(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	mem.putInstructions(0xfffe, 0x00, 0x20)
	mc.Status.InterruptDisable = false

	mem.putInstructions(origin, 0xea)
	mc.IRQ()
	mc.Step()

	test.Equate(t, mc.PC.Address(), 0x2000)
	if mem.internal[0x01fb]&0x10 != 0x00 {
		t.Errorf("IRQ pushed status with break bit (%#02x)", mem.internal[0x01fb])
	}
}

func TestNMIPriority(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	mem.putInstructions(0xfffa, 0x00, 0x30) // NMI -> $3000
	mem.putInstructions(0xfffe, 0x00, 0x20) // IRQ -> $2000

	mc.Status.InterruptDisable = false
	mc.NMI()
	mc.IRQ()

	// NOP at origin and at the NMI service routine
	mem.putInstructions(origin, 0xea)
	mem.putInstructions(0x3000, 0xea)

	mc.Step()
	test.Equate(t, mc.PC.Address(), 0x3000)

	// the IRQ is still pending but masked by the service sequence
	mc.Step()
	test.Equate(t, mc.PC.Address(), 0x3001)

	// unmasking lets the pending IRQ through at the next boundary
	mc.Status.InterruptDisable = false
	mem.putInstructions(0x3001, 0xea)
	mc.Step()
	test.Equate(t, mc.PC.Address(), 0x2000)
}

// NMI is never masked by the interrupt disable flag.
func TestNMIUnmaskable(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	mem.putInstructions(0xfffa, 0x00, 0x30)
	mc.Status.InterruptDisable = true
	mc.NMI()

	mem.putInstructions(origin, 0xea)
	mc.Step()
	test.Equate(t, mc.PC.Address(), 0x3000)
}

func TestBranches(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	// LDA #$01; BNE +2 (taken: Z clear); two skipped bytes; LDA #$00
	mem.putInstructions(origin, 0xa9, 0x01, 0xd0, 0x02, 0xff, 0xff, 0xa9, 0x00)
	mc.Step()
	mc.Step()
	test.Equate(t, mc.PC.Address(), origin+6)
	mc.Step()
	test.Equate(t, mc.Status.Zero, true)

	// backwards branch
	mem.putInstructions(origin+8, 0xf0, 0xf6) // BEQ -10
	mc.Step()
	test.Equate(t, mc.PC.Address(), origin)
}

func TestCompare(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	// LDA #$40; CMP #$30; CMP #$40; CMP #$50
	mem.putInstructions(origin, 0xa9, 0x40, 0xc9, 0x30, 0xc9, 0x40, 0xc9, 0x50)
	mc.Step()
	mc.Step()
	test.Equate(t, mc.Status.Carry, true)
	test.Equate(t, mc.Status.Zero, false)
	mc.Step()
	test.Equate(t, mc.Status.Carry, true)
	test.Equate(t, mc.Status.Zero, true)
	mc.Step()
	test.Equate(t, mc.Status.Carry, false)
	test.Equate(t, mc.Status.Zero, false)
	test.Equate(t, mc.Status.Sign, true)
}

func TestBit(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	mem.putInstructions(0x0010, 0xc0)

	// LDA #$0F; BIT $10
	mem.putInstructions(origin, 0xa9, 0x0f, 0x24, 0x10)
	mc.Step()
	mc.Step()
	test.Equate(t, mc.Status.Sign, true)
	test.Equate(t, mc.Status.Overflow, true)
	test.Equate(t, mc.Status.Zero, true)

	// A is not modified
	test.Equate(t, mc.A.Value(), 0x0f)
}

func TestMemoryShift(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	mem.putInstructions(0x0010, 0x81)

	// ASL $10; ROL $10
	mem.putInstructions(origin, 0x06, 0x10, 0x26, 0x10)
	mc.Step()
	mem.assert(t, 0x0010, 0x02)
	test.Equate(t, mc.Status.Carry, true)
	mc.Step()
	mem.assert(t, 0x0010, 0x05)
	test.Equate(t, mc.Status.Carry, false)
}

// decimal mode ADC at the 99 boundary: 0x99 + 0x01 = 0x00 with carry out.
func TestDecimalBoundary(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	// SED; LDA #$99; ADC #$01
	mem.putInstructions(origin, 0xf8, 0xa9, 0x99, 0x69, 0x01)
	mc.Status.Carry = false
	mc.Step()
	mc.Step()
	mc.Step()
	test.Equate(t, mc.A.Value(), 0x00)
	test.Equate(t, mc.Status.Carry, true)
}

// the V flag in decimal mode is the only behavioural difference between
// the two CPU variants: forced clear on the NMOS 6502, computed from the
// binary result on the 65C02.
func TestDecimalOverflowVariants(t *testing.T) {
	run := func(variant cpu.Variant) *cpu.CPU {
		mem := newMockMem()
		mc := newTestCPU(mem)
		mc.Variant = variant

		// SED; LDA #$80; ADC #$80
		mem.putInstructions(origin, 0xf8, 0xa9, 0x80, 0x69, 0x80)
		mc.Status.Carry = false
		mc.Step()
		mc.Step()
		mc.Step()
		return mc
	}

	mc := run(cpu.NMOS6502)
	test.Equate(t, mc.Status.Overflow, false)
	test.Equate(t, mc.Status.Carry, true)

	mc = run(cpu.CMOS65C02)
	test.Equate(t, mc.Status.Overflow, true)
	test.Equate(t, mc.Status.Carry, true)
}

func TestCMOSExtensions(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	// LDX #$42; PHX; LDX #$00; PLX
	mem.putInstructions(origin, 0xa2, 0x42, 0xda, 0xa2, 0x00, 0xfa)
	mc.Step()
	mc.Step()
	mem.assert(t, 0x01fd, 0x42)
	mc.Step()
	mc.Step()
	test.Equate(t, mc.X.Value(), 0x42)

	// STZ $10 clears previously written memory
	next := mem.putInstructions(origin+6, 0x64, 0x10)
	mem.putInstructions(0x0010, 0xff)
	mc.Step()
	mem.assert(t, 0x0010, 0x00)

	// INC A; DEC A
	next = mem.putInstructions(next, 0x1a, 0x3a)
	mc.Step()
	test.Equate(t, mc.A.Value(), 0x01)
	mc.Step()
	test.Equate(t, mc.A.Value(), 0x00)
	test.Equate(t, mc.Status.Zero, true)

	// BRA is an unconditional branch
	mem.putInstructions(next, 0x80, 0x02)
	mc.Step()
	test.Equate(t, mc.PC.Address(), next+4)
}

func TestTrbTsb(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	mem.putInstructions(0x0010, 0x0f)

	// LDA #$03; TRB $10; TSB $10
	mem.putInstructions(origin, 0xa9, 0x03, 0x14, 0x10, 0x04, 0x10)
	mc.Step()
	mc.Step()
	mem.assert(t, 0x0010, 0x0c)
	test.Equate(t, mc.Status.Zero, false)
	mc.Step()
	mem.assert(t, 0x0010, 0x0f)
	test.Equate(t, mc.Status.Zero, true)
}

func TestZeroPageIndirect(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	mem.putInstructions(0x0020, 0x00, 0x04)
	mem.putInstructions(0x0400, 0x5a)

	// LDA ($20)
	mem.putInstructions(origin, 0xb2, 0x20)
	mc.Step()
	test.Equate(t, mc.A.Value(), 0x5a)
}

func TestAbsoluteIndexedIndirectJmp(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	// jump table at $0400: entry 1 -> $1234
	mem.putInstructions(0x0402, 0x34, 0x12)

	// LDX #$02; JMP ($0400,X)
	mem.putInstructions(origin, 0xa2, 0x02, 0x7c, 0x00, 0x04)
	mc.Step()
	mc.Step()
	test.Equate(t, mc.PC.Address(), 0x1234)
}

func TestHaltStopsRun(t *testing.T) {
	mem := newMockMem()
	mc := newTestCPU(mem)

	// an infinite loop: JMP origin
	mem.putInstructions(origin, 0x4c, 0x00, 0x02)

	steps := 0
	mc.TickFn = func() {
		steps++
		if steps >= 10 {
			mc.Halt()
		}
	}

	mc.Run()
	test.Equate(t, mc.Halted, true)
	test.Equate(t, steps, 10)
}

// recordingMem notes every address read, for checking that store
// instructions never read their target.
type recordingMem struct {
	mockMem
	reads []uint16
}

func (mem *recordingMem) Read(address uint16) uint8 {
	mem.reads = append(mem.reads, address)
	return mem.mockMem.Read(address)
}

// store instructions compute the effective address but never read it,
// which matters when the target is a device register with read side
// effects.
func TestStoreDoesNotReadTarget(t *testing.T) {
	mem := &recordingMem{}
	mem.putInstructions(0xfffc, 0x00, 0x02)

	mc := cpu.NewCPU(mem)
	mc.Step()

	// STA $0400; STZ $0401
	mem.putInstructions(origin, 0x8d, 0x00, 0x04, 0x9c, 0x01, 0x04)
	mc.Step()
	mc.Step()

	for _, a := range mem.reads {
		if a == 0x0400 || a == 0x0401 {
			t.Errorf("store instruction read its target (%#04x)", a)
		}
	}
}

// charDevMem maps a character device at 0xff00, as the hello-world ROM
// expects.
type charDevMem struct {
	mockMem
	output bytes.Buffer
}

func (mem *charDevMem) Write(address uint16, data uint8) {
	if address == 0xff00 {
		mem.output.WriteByte(data)
		return
	}
	mem.mockMem.Write(address, data)
}

func TestHelloWorldROM(t *testing.T) {
	mem := &charDevMem{}

	image := []uint8{
		0xa2, 0xff, 0x9a, 0xa2, 0x00, 0xbd, 0x12, 0x10,
		0xf0, 0x07, 0x8d, 0x00, 0xff, 0xe8, 0x4c, 0x05,
		0x10, 0x00, 0x48, 0x65, 0x6c, 0x6c, 0x6f, 0x2c,
		0x20, 0x77, 0x6f, 0x72, 0x6c, 0x64, 0x21, 0x5c,
		0x6e, 0x00,
	}
	mem.putInstructions(0x1000, image...)
	mem.putInstructions(0xfffc, 0x00, 0x10)

	mc := cpu.NewCPU(mem)
	mc.Step()
	test.Equate(t, mc.PC.Address(), 0x1000)

	// run until the terminating BRK comes up, with a generous step bound
	for i := 0; i < 200 && mc.PC.Address() != 0x1011; i++ {
		mc.Step()
	}

	test.Equate(t, mc.PC.Address(), 0x1011)
	test.Equate(t, mem.output.String(), "Hello, world!\\n")
}
