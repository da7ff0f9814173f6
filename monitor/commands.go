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
	"os"
	"strconv"
	"strings"

	"github.com/aminglis/mach65/hardware/cpu"
	"github.com/aminglis/mach65/romfile"
	"github.com/bradleyjkemp/memviz"
)

func parseByte(s string) (uint8, bool) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}

func parseAddress(s string) (uint16, bool) {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}

// parseAddressRange parses "AAAA.BBBB" expressions.
func parseAddressRange(s string) (uint16, uint16, bool) {
	p := strings.SplitN(s, ".", 2)
	if len(p) != 2 {
		return 0, 0, false
	}

	start, ok := parseAddress(p[0])
	if !ok {
		return 0, 0, false
	}
	end, ok := parseAddress(p[1])
	if !ok {
		return 0, 0, false
	}

	return start, end, true
}

// parseCommand handles one line of monitor input. Returns true when the
// monitor should quit.
func (mon *Monitor) parseCommand(line string) bool {
	line = strings.TrimSpace(line)

	// comment lines are ignored
	if strings.HasPrefix(line, ";") {
		return false
	}

	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}

	mc := mon.mach.CPU
	cmd := strings.ToUpper(args[0])

	switch cmd {
	case "H", "HELP":
		mon.printHelp()

	case "Q", "QUIT":
		return true

	case "R", "RESET":
		mc.Reset()
		mc.Step()

	case "S", "STEP":
		mc.Step()

	case "G", "GO", "T", "TRACE":
		trace := cmd == "T" || cmd == "TRACE"
		if len(args) > 1 {
			a, ok := parseAddress(args[1])
			if !ok {
				fmt.Fprintf(mon.output, "Invalid address: %s\n", args[1])
				return false
			}
			mc.PC.Load(a)
		}
		mon.run(trace)

	case "V", "VERBOSE":
		mon.toggleVerbose()

	case "?":
		mon.printPC(mc.PC.Address())
		mon.printRegister(" A", mc.A.Value())
		mon.printRegister(" X", mc.X.Value())
		mon.printRegister(" Y", mc.Y.Value())
		mon.printRegister("SR", mc.Status.Value())
		mon.printRegister("SP", mc.SP.Value())

	case "PC":
		if len(args) == 1 {
			mon.printPC(mc.PC.Address())
			return false
		}
		a, ok := parseAddress(args[1])
		if !ok {
			fmt.Fprintf(mon.output, "Invalid address: %s\n", args[1])
			return false
		}
		old := mc.PC.Address()
		mc.PC.Load(a)
		mon.printPCChange(old, a)

	case "A":
		mon.registerCommand(args, "A", mc.A.Value(), mc.A.Load)

	case "X":
		mon.registerCommand(args, "X", mc.X.Value(), mc.X.Load)

	case "Y":
		mon.registerCommand(args, "Y", mc.Y.Value(), mc.Y.Load)

	case "SR":
		mon.registerCommand(args, "SR", mc.Status.Value(), mc.Status.FromValue)

	case "SP":
		mon.registerCommand(args, "SP", mc.SP.Value(), mc.SP.Load)

	case "CPU":
		if len(args) == 1 {
			fmt.Fprintf(mon.output, "CPU : %s\n", mc.Variant)
			return false
		}
		switch strings.ToUpper(args[1]) {
		case "6502":
			mc.Variant = cpu.NMOS6502
			fmt.Fprintln(mon.output, "CPU : 65C02 -> 6502")
		case "65C02":
			mc.Variant = cpu.CMOS65C02
			fmt.Fprintln(mon.output, "CPU : 6502 -> 65C02")
		default:
			fmt.Fprintf(mon.output, "Invalid CPU variant: %s (use 6502 or 65C02)\n", args[1])
		}

	case "LOAD":
		if len(args) == 1 {
			fmt.Fprintln(mon.output, "Please provide a filename.")
			return false
		}
		if err := mon.LoadScript(args[1]); err != nil {
			fmt.Fprintf(mon.output, "Could not open file: %s\n", args[1])
		}

	case "SAVE":
		mon.saveCommand(args)

	case "PROTECT":
		if start, end, ok := mon.rangeArgument(args); ok {
			fmt.Fprintf(mon.output, "Protecting memory range %04X.%04X\n", start, end)
			mon.mach.Mem.Protect(start, end)
		}

	case "UNPROTECT":
		if start, end, ok := mon.rangeArgument(args); ok {
			fmt.Fprintf(mon.output, "Unprotecting memory range %04X.%04X\n", start, end)
			mon.mach.Mem.Unprotect(start, end)
		}

	case "MEMVIZ":
		if len(args) == 1 {
			fmt.Fprintln(mon.output, "Please provide a filename.")
			return false
		}
		mon.memvizCommand(args[1])

	default:
		mon.wozmon(args)
	}

	return false
}

// registerCommand prints or sets an 8 bit register.
func (mon *Monitor) registerCommand(args []string, name string, value uint8, load func(uint8)) {
	if len(args) == 1 {
		mon.printRegister(name, value)
		return
	}

	b, ok := parseByte(args[1])
	if !ok {
		fmt.Fprintf(mon.output, "Invalid value: %s\n", args[1])
		return
	}

	load(b)
	mon.printRegisterChange(name, value, b)
}

// rangeArgument parses the address range argument shared by the PROTECT and
// UNPROTECT commands.
func (mon *Monitor) rangeArgument(args []string) (uint16, uint16, bool) {
	if len(args) == 1 {
		fmt.Fprintln(mon.output, "Please provide an address range.")
		return 0, 0, false
	}

	start, end, ok := parseAddressRange(args[1])
	if !ok {
		fmt.Fprintf(mon.output, "Invalid address range: %s\n", args[1])
		return 0, 0, false
	}

	return start, end, true
}

// saveCommand writes a memory range to a file in Wozmon format.
func (mon *Monitor) saveCommand(args []string) {
	if len(args) == 1 {
		fmt.Fprintln(mon.output, "Please provide an address range and a filename.")
		return
	}
	if len(args) == 2 {
		fmt.Fprintln(mon.output, "Please provide a filename.")
		return
	}

	start, end, ok := parseAddressRange(args[1])
	if !ok {
		fmt.Fprintf(mon.output, "Invalid address range: %s\n", args[1])
		return
	}

	filename := args[2]
	fmt.Fprintf(mon.output, "Writing %04X.%04X to %s\n", start, end, filename)

	f, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(mon.output, "Could not open file: %s\n", filename)
		return
	}
	defer f.Close()

	if err := romfile.Write(f, mon.mach.Mem.Read, start, end); err != nil {
		fmt.Fprintf(mon.output, "Could not write file: %s\n", filename)
	}
}

// memvizCommand dumps the machine's object graph as graphviz dot, a
// diagnostic for inspecting device state in bulk.
func (mon *Monitor) memvizCommand(filename string) {
	f, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(mon.output, "Could not open file: %s\n", filename)
		return
	}
	defer f.Close()

	memviz.Map(f, mon.mach)
	fmt.Fprintf(mon.output, "Machine graph written to %s\n", filename)
}

// wozmon handles the Wozmon memory expressions: examine, deposit, range
// fill and the "addr R" run alias.
func (mon *Monitor) wozmon(args []string) {
	type editState int
	const (
		notEditing editState = iota
		editing
		editingRange
	)

	state := notEditing
	var current uint16
	var fillStart, fillEnd uint16
	var fill []uint8

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if state == notEditing {
			// ":BB ..." deposits from the last used address
			if strings.HasPrefix(arg, ":") {
				state = editing
				current = mon.lastAddr
				if len(arg) > 1 {
					// reprocess the remainder of the token as a byte value
					args[i] = arg[1:]
					i--
				}
				continue
			}

			deposit := strings.HasSuffix(arg, ":")
			if deposit {
				arg = arg[:len(arg)-1]
			}

			// ".BBBB" ranges continue from the last used address
			if strings.HasPrefix(arg, ".") {
				end, ok := parseAddress(arg[1:])
				if !ok {
					fmt.Fprintf(mon.output, "Invalid value: %s\n", arg)
					return
				}
				arg = fmt.Sprintf("%04x.%04x", mon.lastAddr, end)
			}

			if start, end, ok := parseAddressRange(arg); ok {
				mon.lastAddr = start
				if deposit {
					state = editingRange
					fillStart = start
					fillEnd = end
					fill = fill[:0]
				} else {
					mon.printMemory(start, end)
				}
				continue
			}

			if a, ok := parseAddress(arg); ok {
				mon.lastAddr = a
				if deposit {
					state = editing
					current = a
				} else if i < len(args)-1 && strings.ToUpper(args[i+1]) == "R" {
					// wozmon alias for the GO command, supported for
					// backwards compatibility
					old := mon.mach.CPU.PC.Address()
					mon.mach.CPU.PC.Load(a)
					mon.printPCChange(old, a)
					mon.run(false)
					return
				} else {
					mon.printMemory(a, a)
				}
				continue
			}

			if i == 0 {
				fmt.Fprintf(mon.output, "Invalid command: %s\n", arg)
				return
			}
			fmt.Fprintf(mon.output, "Invalid value: %s\n", arg)
			continue
		}

		// the deposit states accept only byte values
		b, ok := parseByte(arg)
		if !ok {
			fmt.Fprintf(mon.output, "Invalid value: %s\n", arg)
			continue
		}

		switch state {
		case editing:
			mon.mach.Mem.Write(current, b)
			current++

		case editingRange:
			fill = append(fill, b)
		}
	}

	// a range deposit repeats its byte values until the range is filled
	if state == editingRange && len(fill) > 0 {
		j := 0
		for a := uint32(fillStart); a <= uint32(fillEnd); a++ {
			mon.mach.Mem.Write(uint16(a), fill[j])
			j = (j + 1) % len(fill)
		}
	}
}
