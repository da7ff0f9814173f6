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

// Package addresses records the fixed points of the 6502 address space and
// the memory map of the assembled machine.
package addresses

// Interrupt vectors. Each is the address of a two byte little-endian
// pointer near the top of the address space.
const (
	NMI   uint16 = 0xfffa
	Reset uint16 = 0xfffc
	IRQ   uint16 = 0xfffe
)

// The stack occupies page one of the address space.
const StackBase uint16 = 0x0100

// Memory map of the assembled machine. The core does not mandate this
// arrangement; hosts embedding the CPU and bus directly are free to rewire.
const (
	ACIA1Base uint16 = 0xc010
	ACIA1Top  uint16 = 0xc013

	ACIA2Base uint16 = 0xc020
	ACIA2Top  uint16 = 0xc023

	VIABase uint16 = 0xc030
	VIATop  uint16 = 0xc03f

	FileIOBase uint16 = 0xc040
	FileIOTop  uint16 = 0xc04f

	// ROM area, write-protected by the bus on machine creation
	ROMBase uint16 = 0xd000
	ROMTop  uint16 = 0xffff
)
