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

package monitor

import (
	"fmt"
)

// rows of memory output between repeats of the column header
const headerInterval = 23

func (mon *Monitor) printRegister(name string, value uint8) {
	fmt.Fprintf(mon.output, "%s : %02X\n", name, value)
}

func (mon *Monitor) printRegisterChange(name string, old, new uint8) {
	if old == new {
		return
	}
	fmt.Fprintf(mon.output, "%s : %02X -> %02X\n", name, old, new)
}

func (mon *Monitor) printPC(value uint16) {
	fmt.Fprintf(mon.output, "PC : %04X\n", value)
}

func (mon *Monitor) printPCChange(old, new uint16) {
	if old == new {
		return
	}
	fmt.Fprintf(mon.output, "PC : %04X -> %04X\n", old, new)
}

// printStateChange reports every register that changed between two CPU
// snapshots. Used by TRACE.
func (mon *Monitor) printStateChange(prev, cur cpuState) {
	mon.printPCChange(prev.pc, cur.pc)
	mon.printRegisterChange(" A", prev.a, cur.a)
	mon.printRegisterChange(" X", prev.x, cur.x)
	mon.printRegisterChange(" Y", prev.y, cur.y)
	mon.printRegisterChange("SR", prev.sr, cur.sr)
	mon.printRegisterChange("SP", prev.sp, cur.sp)
}

// printMemory dumps the range [start, end], sixteen bytes per row, rows
// aligned to sixteen byte boundaries. Note that the dump reads through the
// bus, so dumping a device window has the same side effects as the CPU
// reading it.
func (mon *Monitor) printMemory(start, end uint16) {
	current := uint32(start) & 0xfff0
	column := 0
	row := 0

	for current <= uint32(end) {
		if column == 0 {
			if current != uint32(start)&0xfff0 {
				fmt.Fprintln(mon.output)
			}
			if row == 0 {
				fmt.Fprintln(mon.output, "       0  1  2  3  4  5  6  7  8  9  A  B  C  D  E  F")
			}
			row = (row + 1) % headerInterval
			fmt.Fprintf(mon.output, "%04X: ", current)
		}

		if current >= uint32(start) {
			fmt.Fprintf(mon.output, "%02X ", mon.mach.Mem.Read(uint16(current)))
		} else {
			fmt.Fprint(mon.output, "   ")
		}

		current++
		column = (column + 1) % 16
	}

	fmt.Fprintln(mon.output)
}

func (mon *Monitor) printHelp() {
	help := []string{
		"Commands:",
		"  H | HELP         - show this help screen",
		"  R | RESET        - reset CPU",
		"  S | STEP         - step",
		"  G | GO [10F0]    - start execution [at address 10F0 if provided]",
		"  T | TRACE [10F0] - start execution and print all changes to CPU state",
		"  V | VERBOSE      - toggle verbose output",
		"  Q | QUIT         - quit",
		"",
		"Working with Registers:",
		"  ?         - print all register values",
		"  PC [FFFF] - print or set the program counter",
		"  A [FF]    - print or set the accumulator",
		"  X [FF]    - print or set the X index register",
		"  Y [FF]    - print or set the Y index register",
		"  SR [FF]   - print or set the status register",
		"  SP [FF]   - print or set the stack pointer",
		"  CPU [6502|65C02] - print or set CPU variant for BCD behavior",
		"",
		"Memory Access (Wozmon Compatible)",
		"  FFFF            - print value at address FFFF",
		"  FF00.FFFF       - print values of addresses FF00 to FFFF",
		"  FFFF: FF [FE..] - set values starting at address FFFF",
		"  FF00.FFFF: FF   - set addresses FF00 to FFFF to the value FF",
		"  .FFFF           - print values from last used addresses to FFFF",
		"  :FF [FE..]      - set the value FF starting at last used address",
		"  10F0 R          - start execution at address 10F0 (alias for GO)",
		"",
		"Data Import / Export:",
		"  LOAD <FILENAME>           - Load Wozmon formatted data.",
		"  SAVE 1000.10F0 <FILENAME> - Save data in Wozmon format.",
		"  PROTECT D000.FFFF         - Protect memory range from writes.",
		"  UNPROTECT D000.FFFF       - Unprotect memory range for writes.",
		"  MEMVIZ <FILENAME>         - Dump the machine graph as graphviz dot.",
	}

	for _, line := range help {
		fmt.Fprintln(mon.output, line)
	}
}
