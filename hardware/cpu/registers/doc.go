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

// Package registers implements the register types of the 6502: the general
// purpose 8 bit Register, the 16 bit ProgramCounter, the page one bound
// StackPointer and the flag based StatusRegister.
//
// Arithmetic operations on the Register type return carry and overflow
// information rather than setting flags directly; it is the CPU's job to
// decide which flags to update. Decimal mode arithmetic additionally returns
// zero and sign information because those flags are derived from the binary
// result rather than the adjusted decimal result.
package registers
