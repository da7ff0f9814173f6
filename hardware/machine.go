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

// Package hardware assembles the CPU, the memory bus and the peripheral set
// into a complete machine: a simple serial-console computer in the spirit
// of the Apple II but with no graphics or sound.
package hardware

import (
	"os"
	"time"

	"github.com/aminglis/mach65/hardware/cpu"
	"github.com/aminglis/mach65/hardware/memory"
	"github.com/aminglis/mach65/hardware/memory/addresses"
	"github.com/aminglis/mach65/hardware/peripherals/acia"
	"github.com/aminglis/mach65/hardware/peripherals/fileio"
	"github.com/aminglis/mach65/hardware/peripherals/via"
)

// ROMSize is the size of the write-protected ROM area.
const ROMSize = int(addresses.ROMTop) - int(addresses.ROMBase) + 1

// Config collects the options for a new Machine.
type Config struct {
	// CPU variant. selects decimal mode overflow behaviour
	Variant cpu.Variant

	// how long the machine sleeps between instructions. zero means no
	// pacing
	TickDuration time.Duration

	// streams for the primary serial adapter, typically stdin and stdout
	ACIA1Input  *os.File
	ACIA1Output *os.File

	// streams for the secondary serial adapter, typically disconnected
	ACIA2Input  *os.File
	ACIA2Output *os.File
}

// Machine is a 6502 computer with two serial adapters, a timer/interface
// adapter and a file-I/O port, all reachable through the memory bus.
type Machine struct {
	Mem *memory.Bus
	CPU *cpu.CPU

	ACIA1  *acia.ACIA
	ACIA2  *acia.ACIA
	VIA    *via.VIA
	FileIO *fileio.FileIO

	// TraceFn, if not nil, is called after every machine tick. used by the
	// monitor to report CPU state changes during TRACE
	TraceFn func()

	tickDuration time.Duration
}

// NewMachine is the preferred method of initialisation for the Machine
// type. The returned machine has the ROM area write-protected and the CPU
// reset latched; load a ROM image and call Reset() before running.
func NewMachine(config Config) *Machine {
	m := &Machine{
		Mem:          memory.NewBus(),
		ACIA1:        acia.NewACIA("acia1", config.ACIA1Input, config.ACIA1Output),
		ACIA2:        acia.NewACIA("acia2", config.ACIA2Input, config.ACIA2Output),
		VIA:          via.NewVIA(),
		FileIO:       fileio.NewFileIO(),
		tickDuration: config.TickDuration,
	}

	m.Mem.Map(addresses.ACIA1Base, addresses.ACIA1Top, 0x03, m.ACIA1)
	m.Mem.Map(addresses.ACIA2Base, addresses.ACIA2Top, 0x03, m.ACIA2)
	m.Mem.Map(addresses.VIABase, addresses.VIATop, 0x0f, m.VIA)
	m.Mem.Map(addresses.FileIOBase, addresses.FileIOTop, 0x0f, m.FileIO)

	m.Mem.Protect(addresses.ROMBase, addresses.ROMTop)

	m.CPU = cpu.NewCPU(m.Mem)
	m.CPU.Variant = config.Variant
	m.CPU.TickFn = m.Tick

	return m
}

// LoadROM copies a ROM image into the ROM area. Images larger than the ROM
// area are truncated. The copy goes directly to RAM, bypassing the write
// protection.
func (m *Machine) LoadROM(data []byte) {
	if len(data) > ROMSize {
		data = data[:ROMSize]
	}
	copy(m.Mem.RAM[addresses.ROMBase:], data)
}

// Reset the machine: the CPU reset sequence runs immediately and the
// peripherals return to their power-on state.
func (m *Machine) Reset() {
	m.ACIA1.Reset()
	m.ACIA2.Reset()
	m.VIA.Reset()
	m.FileIO.Reset()
	m.CPU.Reset()
	m.CPU.Step()
}

// Tick advances the peripherals by one time unit and forwards the VIA's
// interrupt line to the CPU. Wired into the CPU's tick hook by
// NewMachine(); called between instructions.
func (m *Machine) Tick() {
	m.VIA.Tick()
	if m.VIA.IRQPending() {
		m.CPU.IRQ()
	}

	if m.TraceFn != nil {
		m.TraceFn()
	}

	if m.tickDuration > 0 {
		time.Sleep(m.tickDuration)
	}
}

// Run the CPU until halted.
func (m *Machine) Run() {
	m.CPU.Run()
}
