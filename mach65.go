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

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/aminglis/mach65/console"
	"github.com/aminglis/mach65/hardware"
	"github.com/aminglis/mach65/hardware/cpu"
	"github.com/aminglis/mach65/hardware/memory/addresses"
	"github.com/aminglis/mach65/logger"
	"github.com/aminglis/mach65/modalflag"
	"github.com/aminglis/mach65/monitor"
	"github.com/aminglis/mach65/romfile"
	"github.com/aminglis/mach65/statsview"
	"github.com/aminglis/mach65/version"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("RUN", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Printf("* %s\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "VERSION":
		fmt.Println(version.Title())

	case "RUN":
		if err := run(md); err != nil {
			fmt.Printf("* %s\n", err)
			os.Exit(10)
		}
	}
}

func run(md *modalflag.Modes) error {
	md.NewMode()

	rom := md.AddString("rom", "", "ROM image to load (raw binary or Wozmon text)")
	offset := md.AddUint("offset", uint(addresses.ROMBase), "load address of the ROM image")
	variant := md.AddString("cpu", "6502", "CPU variant: 6502 or 65C02")
	tick := md.AddDuration("tick", 0, "pause between instructions (eg. 1ms). 0 means no pacing")
	acia2in := md.AddString("acia2in", "", "input file for the second serial adapter")
	acia2out := md.AddString("acia2out", "", "output file for the second serial adapter")
	logEcho := md.AddBool("log", false, "echo log entries to stderr")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%t)", statsview.Available()))

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	if *logEcho {
		logger.SetEcho(os.Stderr)
	}

	if *stats {
		statsview.Launch(os.Stdout)
	}

	config := hardware.Config{
		TickDuration: *tick,
		ACIA1Input:   os.Stdin,
		ACIA1Output:  os.Stdout,
	}

	switch *variant {
	case "6502":
		config.Variant = cpu.NMOS6502
	case "65C02":
		config.Variant = cpu.CMOS65C02
	default:
		return fmt.Errorf("unrecognised CPU variant (%s)", *variant)
	}

	if *acia2in != "" {
		f, err := os.Open(*acia2in)
		if err != nil {
			return err
		}
		defer f.Close()
		config.ACIA2Input = f
	}

	if *acia2out != "" {
		f, err := os.Create(*acia2out)
		if err != nil {
			return err
		}
		defer f.Close()
		config.ACIA2Output = f
	}

	m := hardware.NewMachine(config)

	if *rom != "" {
		if err := romfile.Load(*rom, m.Mem.RAM[:], uint16(*offset)); err != nil {
			return err
		}
	}

	m.Reset()

	// characters must reach the serial adapter one at a time, unechoed
	con := console.NewConsole(os.Stdin)
	con.RawMode()
	defer con.CleanUp()

	// ctrl-c halts the CPU and drops back to the monitor prompt rather
	// than killing the process
	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt)
	go func() {
		for range intr {
			fmt.Println("BREAK")
			m.CPU.Halt()
		}
	}()

	fmt.Println(version.Title())
	fmt.Println()

	mon := monitor.NewMonitor(m, os.Stdout)

	// files named on the command line are replayed as monitor scripts
	for _, script := range md.RemainingArgs() {
		if err := mon.LoadScript(script); err != nil {
			return err
		}
	}

	fmt.Println("Type 'help' for help.")
	fmt.Println()

	mon.Run(os.Stdin, true)

	return nil
}
