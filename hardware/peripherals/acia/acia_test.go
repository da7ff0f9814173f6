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

package acia_test

import (
	"os"
	"testing"

	"github.com/aminglis/mach65/hardware/peripherals/acia"
	"github.com/aminglis/mach65/test"
)

// pipePair builds an adapter whose input and output are host pipes,
// returning the write end feeding the adapter and the read end watching
// its transmissions.
func pipePair(t *testing.T) (*acia.ACIA, *os.File, *os.File) {
	t.Helper()

	inR, inW, err := os.Pipe()
	test.ExpectedSuccess(t, err)
	outR, outW, err := os.Pipe()
	test.ExpectedSuccess(t, err)

	t.Cleanup(func() {
		inR.Close()
		inW.Close()
		outR.Close()
		outW.Close()
	})

	return acia.NewACIA("test", inR, outW), inW, outR
}

func TestStatusIdle(t *testing.T) {
	dev, _, _ := pipePair(t)

	// transmit always ready, nothing to receive
	status := dev.RegisterRead(acia.RegStatus)
	test.Equate(t, status&acia.StatusTDRE, acia.StatusTDRE)
	test.Equate(t, status&acia.StatusRDRF, 0)
}

// polling the status register reports pending input without consuming it.
func TestStatusDoesNotConsume(t *testing.T) {
	dev, in, _ := pipePair(t)

	in.Write([]byte{'A'})

	for i := 0; i < 3; i++ {
		status := dev.RegisterRead(acia.RegStatus)
		test.Equate(t, status&acia.StatusRDRF, acia.StatusRDRF)
	}

	test.Equate(t, dev.RegisterRead(acia.RegData), int('A'))

	// the byte has now been consumed
	status := dev.RegisterRead(acia.RegStatus)
	test.Equate(t, status&acia.StatusRDRF, 0)
}

// line feeds are translated to carriage returns on the way in, for
// firmware that expects CR line termination.
func TestLineFeedTranslation(t *testing.T) {
	dev, in, _ := pipePair(t)

	in.Write([]byte{'\n'})
	test.Equate(t, dev.RegisterRead(acia.RegData), int('\r'))
}

// received bytes are masked to seven bits.
func TestSevenBitMask(t *testing.T) {
	dev, in, _ := pipePair(t)

	in.Write([]byte{0xc1})
	test.Equate(t, dev.RegisterRead(acia.RegData), 0x41)
}

func TestTransmit(t *testing.T) {
	dev, _, out := pipePair(t)

	dev.RegisterWrite(acia.RegData, 'H')
	dev.RegisterWrite(acia.RegData, 'i')

	buf := make([]byte, 2)
	n, err := out.Read(buf)
	test.ExpectedSuccess(t, err)
	test.Equate(t, n, 2)
	test.Equate(t, string(buf), "Hi")
}

func TestCommandControl(t *testing.T) {
	dev, _, _ := pipePair(t)

	dev.RegisterWrite(acia.RegCommand, 0x0b)
	dev.RegisterWrite(acia.RegControl, 0x1e)
	test.Equate(t, dev.RegisterRead(acia.RegCommand), 0x0b)
	test.Equate(t, dev.RegisterRead(acia.RegControl), 0x1e)

	// a write to the status register is a programmed reset
	dev.RegisterWrite(acia.RegStatus, 0x00)
	test.Equate(t, dev.RegisterRead(acia.RegCommand), 0x00)
	test.Equate(t, dev.RegisterRead(acia.RegControl), 0x00)
}

// a disconnected adapter discards transmissions and never reports input.
func TestDisconnected(t *testing.T) {
	dev := acia.NewACIA("test", nil, nil)

	dev.RegisterWrite(acia.RegData, 0x41)

	status := dev.RegisterRead(acia.RegStatus)
	test.Equate(t, status&acia.StatusRDRF, 0)
	test.Equate(t, dev.RegisterRead(acia.RegData), 0x00)
}
