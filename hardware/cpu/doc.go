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

// Package cpu is an instruction-level emulation of the MOS 6502 and WDC
// 65C02 processors. It is concerned with the observable behaviour of
// registers, flags and memory; it makes no attempt at cycle accuracy.
//
// The CPU reaches memory through the Memory interface, which the embedding
// host supplies. A fake implementation over a byte slice is all that is
// needed for testing; the bus in the hardware/memory package is the real
// thing.
//
// Interrupts, resets and the halt condition are latched by the IRQ(), NMI(),
// Reset() and Halt() functions and serviced at instruction boundaries. An
// instruction in progress is never preempted: Step() is strictly
// synchronous and performs exactly one instruction per call.
package cpu
