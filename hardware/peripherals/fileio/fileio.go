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

// Package fileio emulates a block file-I/O port, a simple command driven
// device that gives firmware LOAD and SAVE access to host files. The
// firmware spells a filename one character at a time into the name buffer,
// issues an open command and then transfers bytes through the data
// register.
//
// Errors on the host side never surface as errors to the CPU; they set the
// error bit in the status register and the command completes.
package fileio

import (
	"io"
	"os"

	"github.com/aminglis/mach65/logger"
)

// Register offsets within the port's window.
const (
	RegStatus    = 0x00 // read: status. write: command
	RegData      = 0x01
	RegNameIndex = 0x02
	RegNameChar  = 0x03
)

// Commands accepted by a write to the command register.
const (
	CmdReset     = 0x00
	CmdOpenRead  = 0x01
	CmdOpenWrite = 0x02
	CmdRead      = 0x03
	CmdWrite     = 0x04
	CmdClose     = 0x05
)

// Status register bits.
const (
	StatusOpen  = 0x01
	StatusEOF   = 0x02
	StatusError = 0x04
	StatusReady = 0x80
)

// NameMaxLen is the size of the filename buffer.
const NameMaxLen = 256

// FileIO is the file-I/O port. Files opened through the port are owned by
// it: a new open or a reset closes the previous handle.
type FileIO struct {
	file      *os.File
	status    uint8
	data      uint8
	nameIndex uint8
	filename  [NameMaxLen]byte
}

// NewFileIO is the preferred method of initialisation for the FileIO type.
func NewFileIO() *FileIO {
	dev := &FileIO{}
	dev.Reset()
	return dev
}

// Reset the port: close any open file, clear the status and data registers
// and zero the name buffer.
func (dev *FileIO) Reset() {
	if dev.file != nil {
		dev.file.Close()
		dev.file = nil
	}
	dev.status = StatusReady
	dev.data = 0x00
	dev.nameIndex = 0
	for i := range dev.filename {
		dev.filename[i] = 0
	}
}

// the filename as accumulated so far, terminated at the current index.
func (dev *FileIO) name() string {
	return string(dev.filename[:dev.nameIndex])
}

// RegisterRead services a CPU read of one of the port's registers.
//
// Implements the memory.Device interface.
func (dev *FileIO) RegisterRead(reg uint8) uint8 {
	switch reg & 0x0f {
	case RegStatus:
		return dev.status
	case RegData:
		return dev.data
	case RegNameIndex:
		return dev.nameIndex
	case RegNameChar:
		return dev.filename[dev.nameIndex]
	}
	return 0xff
}

// RegisterWrite services a CPU write to one of the port's registers. A
// write to the status register offset dispatches a command.
//
// Implements the memory.Device interface.
func (dev *FileIO) RegisterWrite(reg uint8, data uint8) {
	switch reg & 0x0f {
	case RegStatus:
		dev.command(data)

	case RegData:
		dev.data = data

	case RegNameIndex:
		dev.nameIndex = data

	case RegNameChar:
		// store at the current index and auto-increment. the index wraps
		// with the buffer
		dev.filename[dev.nameIndex] = data
		dev.nameIndex++
	}
}

func (dev *FileIO) command(cmd uint8) {
	switch cmd {
	case CmdReset:
		dev.Reset()

	case CmdOpenRead:
		dev.open(os.O_RDONLY)

	case CmdOpenWrite:
		dev.open(os.O_WRONLY | os.O_CREATE | os.O_TRUNC)

	case CmdRead:
		if dev.file == nil {
			dev.status |= StatusError
			return
		}
		buf := make([]byte, 1)
		n, err := dev.file.Read(buf)
		if n == 1 {
			dev.data = buf[0]
			return
		}
		if err == io.EOF {
			dev.status |= StatusEOF
			dev.data = 0x00
			return
		}
		dev.status |= StatusError

	case CmdWrite:
		if dev.file == nil {
			dev.status |= StatusError
			return
		}
		if _, err := dev.file.Write([]byte{dev.data}); err != nil {
			dev.status |= StatusError
		}

	case CmdClose:
		if dev.file != nil {
			dev.file.Close()
			dev.file = nil
		}
		dev.status = StatusReady
	}
}

func (dev *FileIO) open(flags int) {
	if dev.file != nil {
		dev.file.Close()
		dev.file = nil
	}

	f, err := os.OpenFile(dev.name(), flags, 0644)
	if err != nil {
		logger.Logf("fileio", "open %s: %v", dev.name(), err)
		dev.status = StatusReady | StatusError
		return
	}

	dev.file = f
	dev.status = StatusReady | StatusOpen
}
