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

// Package console prepares the host terminal for use as the machine's
// serial console. It is a thin wrapper around "github.com/pkg/term/termios"
// that switches the terminal between canonical mode and a raw mode in which
// characters are delivered to the serial adapter one at a time, unechoed.
//
// When the input stream is not a terminal (a pipe or a file) every function
// is a no-op, so the emulator behaves sensibly in scripted use.
package console

import (
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Console manages the terminal modes of the emulator's input and output
// streams.
type Console struct {
	input *os.File

	// attributes for the two terminal modes we switch between
	canAttr unix.Termios
	rawAttr unix.Termios

	// false when the input stream is not a terminal. all mode switching is
	// skipped in that case
	isTerminal bool
}

// NewConsole is the preferred method of initialisation for the Console
// type.
func NewConsole(input *os.File) *Console {
	con := &Console{input: input}

	if input == nil {
		return con
	}

	if err := termios.Tcgetattr(input.Fd(), &con.canAttr); err != nil {
		return con
	}
	con.isTerminal = true

	// raw mode: no canonical line editing and no echo, reads returning
	// after a single byte. output keeps NL to CRNL mapping so emulated
	// output lines up on the host terminal
	con.rawAttr = con.canAttr
	con.rawAttr.Lflag &^= unix.ICANON | unix.ECHO
	con.rawAttr.Iflag &^= unix.ICRNL
	con.rawAttr.Oflag &^= unix.OCRNL
	con.rawAttr.Oflag |= unix.OPOST | unix.ONLCR
	con.rawAttr.Cc[unix.VMIN] = 1
	con.rawAttr.Cc[unix.VTIME] = 0

	return con
}

// IsTerminal returns true if the console's input stream is a real
// terminal.
func (con *Console) IsTerminal() bool {
	return con.isTerminal
}

// RawMode puts the terminal into raw mode for the serial adapter.
func (con *Console) RawMode() {
	if !con.isTerminal {
		return
	}
	termios.Tcsetattr(con.input.Fd(), termios.TCIFLUSH, &con.rawAttr)
}

// CanonicalMode puts the terminal back into normal, everyday canonical
// mode.
func (con *Console) CanonicalMode() {
	if !con.isTerminal {
		return
	}
	termios.Tcsetattr(con.input.Fd(), termios.TCIFLUSH, &con.canAttr)
}

// CleanUp restores the terminal to the state it was in when the Console was
// created.
func (con *Console) CleanUp() {
	con.CanonicalMode()
}
