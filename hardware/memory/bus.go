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

// Package memory implements the bus that connects the CPU to RAM and to the
// memory mapped peripheral devices. An address presented to the bus is
// either routed to a device window, checked against the write-protected
// ranges, or resolved against the 64KB RAM array.
package memory

import (
	"github.com/aminglis/mach65/hardware/memory/rangelist"
	"github.com/aminglis/mach65/logger"
)

// RAMSize is the size of the bus's backing store, covering the whole of the
// 6502 address space.
const RAMSize = 0x10000

// Device is any peripheral that can be mapped into a window of the address
// space. The bus presents devices with register offsets, not absolute
// addresses.
type Device interface {
	RegisterRead(reg uint8) uint8
	RegisterWrite(reg uint8, data uint8)
}

// a window maps a range of the address space onto a device. the offset into
// the window is masked before being passed on, mirroring the way address
// lines are wired on real hardware.
type window struct {
	base uint16
	top  uint16
	mask uint8
	dev  Device
}

// Bus routes CPU memory accesses to RAM or to a mapped device and enforces
// the write-protected ranges.
type Bus struct {
	RAM [RAMSize]uint8

	windows   []window
	protected rangelist.List
}

// NewBus is the preferred method of initialisation for the Bus type.
func NewBus() *Bus {
	return &Bus{}
}

// Map a device into the address window [base, top]. The window offset of an
// access is masked with mask before being passed to the device.
//
// Windows are searched in the order they were added. Mapping a window that
// overlaps an existing one is not rejected but only the earlier mapping
// will ever be reached.
func (b *Bus) Map(base, top uint16, mask uint8, dev Device) {
	b.windows = append(b.windows, window{
		base: base,
		top:  top,
		mask: mask,
		dev:  dev,
	})
}

// Protect the address range [start, end] from writes. Writes to a protected
// address are dropped silently.
func (b *Bus) Protect(start, end uint16) {
	b.protected.Add(rangelist.Range{Start: start, End: end})
}

// Unprotect the address range [start, end], making it writable again.
func (b *Bus) Unprotect(start, end uint16) {
	b.protected.Remove(rangelist.Range{Start: start, End: end})
}

// Protected checks if an address is within a write-protected range.
func (b *Bus) Protected(address uint16) bool {
	return b.protected.Contains(address)
}

// ProtectedRanges returns the current list of write-protected ranges.
func (b *Bus) ProtectedRanges() []rangelist.Range {
	return b.protected.Ranges()
}

// Read the byte at the specified address, from a device if one is mapped
// there and from RAM otherwise.
//
// Implements the cpu.Memory interface.
func (b *Bus) Read(address uint16) uint8 {
	for _, w := range b.windows {
		if address >= w.base && address <= w.top {
			if w.dev == nil {
				return 0xff
			}
			return w.dev.RegisterRead(uint8(address-w.base) & w.mask)
		}
	}
	return b.RAM[address]
}

// Write the byte at the specified address, to a device if one is mapped
// there and to RAM otherwise. Writes to protected RAM are dropped.
//
// Implements the cpu.Memory interface.
func (b *Bus) Write(address uint16, data uint8) {
	for _, w := range b.windows {
		if address >= w.base && address <= w.top {
			if w.dev != nil {
				w.dev.RegisterWrite(uint8(address-w.base)&w.mask, data)
			}
			return
		}
	}
	if b.protected.Contains(address) {
		logger.Logf("bus", "write to protected address %04x ignored", address)
		return
	}
	b.RAM[address] = data
}
