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

package hardware_test

import (
	"os"
	"testing"

	"github.com/aminglis/mach65/hardware"
	"github.com/aminglis/mach65/hardware/memory/addresses"
	"github.com/aminglis/mach65/hardware/peripherals/via"
	"github.com/aminglis/mach65/romfile"
	"github.com/aminglis/mach65/test"
)

// newTestMachine builds a machine with both serial adapters disconnected
// and a ROM that starts with the given program at 0xd000.
func newTestMachine(t *testing.T, program ...uint8) *hardware.Machine {
	t.Helper()

	m := hardware.NewMachine(hardware.Config{})

	rom := make([]uint8, hardware.ROMSize)
	copy(rom, program)

	// reset vector at the top of ROM -> 0xd000
	rom[addresses.Reset-addresses.ROMBase] = 0x00
	rom[addresses.Reset-addresses.ROMBase+1] = 0xd0

	m.LoadROM(rom)
	m.Reset()

	return m
}

func TestResetEntersROM(t *testing.T) {
	m := newTestMachine(t, 0xea)
	test.Equate(t, m.CPU.PC.Address(), 0xd000)
	test.Equate(t, m.CPU.SP.Value(), 0xfd)
}

// the ROM area is write-protected by the bus.
func TestROMWriteProtect(t *testing.T) {
	m := newTestMachine(t, 0xea)

	before := m.Mem.Read(0xd000)
	m.Mem.Write(0xd000, ^before)
	test.Equate(t, m.Mem.Read(0xd000), before)
}

// devices are reachable at their documented windows.
func TestDeviceMap(t *testing.T) {
	m := newTestMachine(t, 0xea)

	// VIA port A at 0xc031
	m.Mem.Write(0xc031, 0x5a)
	test.Equate(t, m.Mem.Read(0xc031), 0x5a)

	// file-I/O port status at 0xc040
	test.Equate(t, m.Mem.Read(0xc040), 0x80)

	// serial adapter status at 0xc011: TDRE set, RDRF clear when
	// disconnected
	test.Equate(t, m.Mem.Read(0xc011), 0x10)
}

// a VIA timer interrupt reaches the CPU when enabled and unmasked.
func TestVIAInterruptDelivery(t *testing.T) {
	// CLI; then spin: JMP 0xd001
	m := newTestMachine(t, 0x58, 0x4c, 0x01, 0xd0)

	// IRQ vector -> 0xe000. nothing is placed there; we only check that
	// the PC arrives
	m.Mem.RAM[addresses.IRQ] = 0x00
	m.Mem.RAM[addresses.IRQ+1] = 0xe0

	// enable the T1 interrupt and start a short one-shot timer through
	// the bus
	m.Mem.Write(0xc03e, 0x80|via.IntT1) // IER
	m.Mem.Write(0xc034, 0x04)           // T1 latch low
	m.Mem.Write(0xc035, 0x00)           // T1 high: start

	// step until the interrupt is taken
	arrived := false
	for i := 0; i < 32 && !arrived; i++ {
		m.CPU.Step()
		m.Tick()
		arrived = m.CPU.PC.Address() == 0xe000
	}

	test.Equate(t, arrived, true)
	test.Equate(t, m.CPU.Status.InterruptDisable, true)
}

// a masked interrupt is not delivered.
func TestVIAInterruptMasked(t *testing.T) {
	// SEI; spin
	m := newTestMachine(t, 0x78, 0x4c, 0x01, 0xd0)

	m.Mem.RAM[addresses.IRQ] = 0x00
	m.Mem.RAM[addresses.IRQ+1] = 0xe0

	m.Mem.Write(0xc03e, 0x80|via.IntT1)
	m.Mem.Write(0xc034, 0x04)
	m.Mem.Write(0xc035, 0x00)

	for i := 0; i < 32; i++ {
		m.CPU.Step()
		m.Tick()
		if m.CPU.PC.Address() == 0xe000 {
			t.Fatal("masked interrupt was delivered")
		}
	}
}

// ROM images load through the romfile package into the protected area.
func TestLoadROMFromFile(t *testing.T) {
	path := t.TempDir() + "/rom.woz"
	content := "D000: EA EA EA\nFFFC: 00 D0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m := hardware.NewMachine(hardware.Config{})
	err := romfile.Load(path, m.Mem.RAM[:], addresses.ROMBase)
	test.ExpectedSuccess(t, err)

	m.Reset()
	test.Equate(t, m.CPU.PC.Address(), 0xd000)
	test.Equate(t, m.Mem.Read(0xd001), 0xea)
}
