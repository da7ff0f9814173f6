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

// Package monitor implements the interactive REPL of the emulator. The
// command language is Wozmon compatible: bare hex addresses examine memory,
// colon expressions deposit into it, and a handful of named commands
// control the CPU, the protected ranges and file import/export.
//
// Because the memory syntax is also the file format written by the romfile
// package, loading a saved file is simply a matter of replaying it through
// the same parser.
package monitor

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/aminglis/mach65/curated"
	"github.com/aminglis/mach65/hardware"
	"github.com/aminglis/mach65/logger"
)

// sentinal errors returned by the monitor.
const (
	ScriptError = "monitor: script %s: %v"
)

// Monitor is the interactive REPL. It owns no hardware; it drives the
// machine it is given.
type Monitor struct {
	mach *hardware.Machine

	output io.Writer

	// the last address used in a memory expression. the '.' and ':'
	// shorthands continue from here
	lastAddr uint16

	// whether log entries are echoed to the output as they arrive
	verbose bool

	// register state at the previous tick, for TRACE output
	prev cpuState
}

// cpuState is a plain copy of the CPU's register values, for change
// reporting during TRACE.
type cpuState struct {
	pc uint16
	a  uint8
	x  uint8
	y  uint8
	sr uint8
	sp uint8
}

// NewMonitor is the preferred method of initialisation for the Monitor
// type.
func NewMonitor(mach *hardware.Machine, output io.Writer) *Monitor {
	return &Monitor{
		mach:   mach,
		output: output,
	}
}

func (mon *Monitor) snapshot() cpuState {
	mc := mon.mach.CPU
	return cpuState{
		pc: mc.PC.Address(),
		a:  mc.A.Value(),
		x:  mc.X.Value(),
		y:  mc.Y.Value(),
		sr: mc.Status.Value(),
		sp: mc.SP.Value(),
	}
}

// Run the REPL, reading commands from input until end of input or a QUIT
// command. The prompt is only printed when interactive is true.
func (mon *Monitor) Run(input io.Reader, interactive bool) {
	scanner := bufio.NewScanner(input)

	for {
		if interactive {
			fmt.Fprint(mon.output, "=> ")
		}

		if !scanner.Scan() {
			return
		}

		if mon.parseCommand(scanner.Text()) {
			return
		}
	}
}

// LoadScript replays the named file through the command parser. Used by
// the LOAD command and for script files named on the command line.
func (mon *Monitor) LoadScript(filename string) error {
	fmt.Fprintf(mon.output, "Loading %s\n", filename)

	f, err := os.Open(filename)
	if err != nil {
		return curated.Errorf(ScriptError, filename, err)
	}
	defer f.Close()

	mon.Run(f, false)

	return nil
}

// run the machine until the CPU halts, optionally reporting CPU state
// changes after every instruction.
func (mon *Monitor) run(trace bool) {
	if trace {
		mon.prev = mon.snapshot()
		mon.mach.TraceFn = func() {
			cur := mon.snapshot()
			mon.printStateChange(mon.prev, cur)
			mon.prev = cur
		}
		defer func() {
			mon.mach.TraceFn = nil
		}()
	}

	mon.mach.CPU.Halted = false
	mon.mach.Run()
}

// toggle echoing of log entries to the monitor's output.
func (mon *Monitor) toggleVerbose() {
	mon.verbose = !mon.verbose
	if mon.verbose {
		logger.SetEcho(mon.output)
	} else {
		logger.SetEcho(nil)
	}

	state := "disabled"
	if mon.verbose {
		state = "enabled"
	}
	fmt.Fprintf(mon.output, "Verbose output %s\n", state)
}
