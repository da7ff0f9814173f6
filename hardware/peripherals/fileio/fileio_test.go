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

package fileio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aminglis/mach65/hardware/peripherals/fileio"
	"github.com/aminglis/mach65/test"
)

// spellFilename writes a filename into the device's name buffer the way
// firmware would, one character at a time.
func spellFilename(dev *fileio.FileIO, name string) {
	dev.RegisterWrite(fileio.RegNameIndex, 0)
	for _, c := range []byte(name) {
		dev.RegisterWrite(fileio.RegNameChar, c)
	}
}

func TestInitialStatus(t *testing.T) {
	dev := fileio.NewFileIO()
	test.Equate(t, dev.RegisterRead(fileio.RegStatus), fileio.StatusReady)
}

func TestNameBuffer(t *testing.T) {
	dev := fileio.NewFileIO()

	spellFilename(dev, "abc")
	test.Equate(t, dev.RegisterRead(fileio.RegNameIndex), 3)

	// characters are readable back through the index register
	dev.RegisterWrite(fileio.RegNameIndex, 1)
	test.Equate(t, dev.RegisterRead(fileio.RegNameChar), int('b'))
}

func TestWriteReadRoundTrip(t *testing.T) {
	dev := fileio.NewFileIO()
	path := filepath.Join(t.TempDir(), "out.dat")

	spellFilename(dev, path)
	dev.RegisterWrite(fileio.RegStatus, fileio.CmdOpenWrite)
	test.Equate(t, dev.RegisterRead(fileio.RegStatus), fileio.StatusReady|fileio.StatusOpen)

	for _, b := range []uint8{0x01, 0x02, 0x03} {
		dev.RegisterWrite(fileio.RegData, b)
		dev.RegisterWrite(fileio.RegStatus, fileio.CmdWrite)
	}

	dev.RegisterWrite(fileio.RegStatus, fileio.CmdClose)
	test.Equate(t, dev.RegisterRead(fileio.RegStatus), fileio.StatusReady)

	// read the file back through the device
	spellFilename(dev, path)
	dev.RegisterWrite(fileio.RegStatus, fileio.CmdOpenRead)
	test.Equate(t, dev.RegisterRead(fileio.RegStatus), fileio.StatusReady|fileio.StatusOpen)

	for _, want := range []uint8{0x01, 0x02, 0x03} {
		dev.RegisterWrite(fileio.RegStatus, fileio.CmdRead)
		test.Equate(t, dev.RegisterRead(fileio.RegData), want)
	}

	// end of file: EOF bit raised, data register zeroed
	dev.RegisterWrite(fileio.RegStatus, fileio.CmdRead)
	status := dev.RegisterRead(fileio.RegStatus)
	test.Equate(t, status&fileio.StatusEOF, fileio.StatusEOF)
	test.Equate(t, dev.RegisterRead(fileio.RegData), 0x00)
}

func TestOpenFailure(t *testing.T) {
	dev := fileio.NewFileIO()

	spellFilename(dev, filepath.Join(t.TempDir(), "no", "such", "file"))
	dev.RegisterWrite(fileio.RegStatus, fileio.CmdOpenRead)
	test.Equate(t, dev.RegisterRead(fileio.RegStatus), fileio.StatusReady|fileio.StatusError)
}

// read and write commands with no open file raise the error bit.
func TestCommandsWithoutFile(t *testing.T) {
	dev := fileio.NewFileIO()

	dev.RegisterWrite(fileio.RegStatus, fileio.CmdRead)
	test.Equate(t, dev.RegisterRead(fileio.RegStatus)&fileio.StatusError, fileio.StatusError)

	dev.RegisterWrite(fileio.RegStatus, fileio.CmdReset)
	dev.RegisterWrite(fileio.RegStatus, fileio.CmdWrite)
	test.Equate(t, dev.RegisterRead(fileio.RegStatus)&fileio.StatusError, fileio.StatusError)
}

// a reset clears the status, the data register and the name buffer.
func TestResetCommand(t *testing.T) {
	dev := fileio.NewFileIO()

	spellFilename(dev, "stale")
	dev.RegisterWrite(fileio.RegData, 0x42)
	dev.RegisterWrite(fileio.RegStatus, fileio.CmdReset)

	test.Equate(t, dev.RegisterRead(fileio.RegStatus), fileio.StatusReady)
	test.Equate(t, dev.RegisterRead(fileio.RegData), 0x00)
	test.Equate(t, dev.RegisterRead(fileio.RegNameIndex), 0x00)
	test.Equate(t, dev.RegisterRead(fileio.RegNameChar), 0x00)
}

// opening a new file closes the previous handle.
func TestReopen(t *testing.T) {
	dev := fileio.NewFileIO()
	dir := t.TempDir()

	first := filepath.Join(dir, "first.dat")
	os.WriteFile(first, []byte{0xaa}, 0644)
	second := filepath.Join(dir, "second.dat")
	os.WriteFile(second, []byte{0xbb}, 0644)

	spellFilename(dev, first)
	dev.RegisterWrite(fileio.RegStatus, fileio.CmdOpenRead)

	spellFilename(dev, second)
	dev.RegisterWrite(fileio.RegStatus, fileio.CmdOpenRead)

	dev.RegisterWrite(fileio.RegStatus, fileio.CmdRead)
	test.Equate(t, dev.RegisterRead(fileio.RegData), 0xbb)
}
