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

// Package acia emulates a 6551 style asynchronous communications interface
// adapter over a pair of host streams. The transmit side writes to the
// output stream and flushes immediately; the receive side reads single
// bytes from the input stream's file descriptor, never blocking and never
// consuming input during a status poll.
package acia

import (
	"os"

	"github.com/aminglis/mach65/logger"
	"golang.org/x/sys/unix"
)

// Register offsets within the adapter's four byte window.
const (
	RegData    = 0x00
	RegStatus  = 0x01
	RegCommand = 0x02
	RegControl = 0x03
)

// Status register bits.
const (
	StatusPE   = 0x01 // parity error
	StatusFE   = 0x02 // framing error
	StatusOVR  = 0x04 // overrun
	StatusRDRF = 0x08 // receive data register full
	StatusTDRE = 0x10 // transmit data register empty
	StatusDCD  = 0x20
	StatusDSR  = 0x40
	StatusIRQ  = 0x80
)

// ACIA is one serial adapter. Either stream may be nil, leaving that side
// of the adapter disconnected.
type ACIA struct {
	label string

	input  *os.File
	output *os.File

	command uint8
	control uint8

	// one byte receive latch
	rxData uint8
	rxFull bool
}

// NewACIA is the preferred method of initialisation for the ACIA type. The
// label identifies the adapter in the log.
func NewACIA(label string, input *os.File, output *os.File) *ACIA {
	dev := &ACIA{
		label:  label,
		input:  input,
		output: output,
	}
	dev.Reset()
	return dev
}

// Reset the adapter. Clears the command and control registers and empties
// the receive latch.
func (dev *ACIA) Reset() {
	dev.command = 0x00
	dev.control = 0x00
	dev.rxData = 0x00
	dev.rxFull = false
}

// inputAvailable checks if a byte can be read from the input stream without
// blocking. The check must not consume input: it asks the kernel directly
// with a zero timeout select on the underlying file descriptor, which works
// on terminals, pipes and ptys alike.
func (dev *ACIA) inputAvailable() bool {
	if dev.input == nil {
		return false
	}

	fd := int(dev.input.Fd())
	fds := &unix.FdSet{}
	fds.Set(fd)
	tv := unix.Timeval{}

	n, err := unix.Select(fd+1, fds, nil, nil, &tv)
	return err == nil && n > 0
}

// RegisterRead services a CPU read of one of the adapter's registers.
//
// Implements the memory.Device interface.
func (dev *ACIA) RegisterRead(reg uint8) uint8 {
	switch reg & 0x03 {
	case RegData:
		// if the latch is empty but input is available, latch it now. the
		// read is a single byte straight from the file descriptor so that
		// the availability check stays meaningful for the next byte
		if !dev.rxFull && dev.inputAvailable() {
			buf := make([]byte, 1)
			n, err := dev.input.Read(buf)
			if err == nil && n == 1 {
				c := buf[0]

				// unix terminals send LF but firmware expects CR as the
				// line terminator
				if c == '\n' {
					c = '\r'
				}

				dev.rxData = c & 0x7f
				dev.rxFull = true
				logger.Logf(dev.label, "rx %02x", dev.rxData)
			}
		}

		// the read empties the latch
		dev.rxFull = false
		return dev.rxData

	case RegStatus:
		// always ready to transmit
		status := uint8(StatusTDRE)

		// receive-full reflects the latch or, failing that, unread input
		// on the host stream. the input is not consumed here
		if dev.rxFull || dev.inputAvailable() {
			status |= StatusRDRF
		}

		return status

	case RegCommand:
		return dev.command

	case RegControl:
		return dev.control
	}

	return 0xff
}

// RegisterWrite services a CPU write to one of the adapter's registers. A
// write to the status register is a programmed reset.
//
// Implements the memory.Device interface.
func (dev *ACIA) RegisterWrite(reg uint8, data uint8) {
	switch reg & 0x03 {
	case RegData:
		if dev.output != nil {
			logger.Logf(dev.label, "tx %02x", data)
			dev.output.Write([]byte{data})
			dev.output.Sync()
		}

	case RegStatus:
		dev.Reset()

	case RegCommand:
		dev.command = data

	case RegControl:
		dev.control = data
	}
}
