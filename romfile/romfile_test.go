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

package romfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aminglis/mach65/curated"
	"github.com/aminglis/mach65/romfile"
	"github.com/aminglis/mach65/test"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBinary(t *testing.T) {
	path := writeTemp(t, "image.bin", "\x01\x02\x03")

	mem := make([]uint8, 0x10000)
	err := romfile.Load(path, mem, 0xd000)
	test.ExpectedSuccess(t, err)

	test.Equate(t, mem[0xd000], 0x01)
	test.Equate(t, mem[0xd001], 0x02)
	test.Equate(t, mem[0xd002], 0x03)
}

func TestLoadWozmon(t *testing.T) {
	content := strings.Join([]string{
		"; a comment line, ignored",
		"D000: DE AD BE EF",
		"this line has no colon and is ignored",
		"D010: 01",
		"",
	}, "\n")
	path := writeTemp(t, "image.woz", content)

	mem := make([]uint8, 0x10000)
	err := romfile.Load(path, mem, 0xd000)
	test.ExpectedSuccess(t, err)

	test.Equate(t, mem[0xd000], 0xde)
	test.Equate(t, mem[0xd001], 0xad)
	test.Equate(t, mem[0xd002], 0xbe)
	test.Equate(t, mem[0xd003], 0xef)
	test.Equate(t, mem[0xd010], 0x01)
}

// bytes addressed below the load origin are skipped.
func TestLoadWozmonOriginSkip(t *testing.T) {
	content := "CFFE: 11 22 33 44\n"
	path := writeTemp(t, "image.woz", content)

	mem := make([]uint8, 0x10000)
	err := romfile.Load(path, mem, 0xd000)
	test.ExpectedSuccess(t, err)

	test.Equate(t, mem[0xcffe], 0x00)
	test.Equate(t, mem[0xcfff], 0x00)
	test.Equate(t, mem[0xd000], 0x33)
	test.Equate(t, mem[0xd001], 0x44)
}

// bytes addressed past the end of the buffer are skipped.
func TestLoadWozmonBufferEnd(t *testing.T) {
	content := "FFFE: 11 22 33 44\n"
	path := writeTemp(t, "image.woz", content)

	mem := make([]uint8, 0x10000)
	err := romfile.Load(path, mem, 0xd000)
	test.ExpectedSuccess(t, err)

	test.Equate(t, mem[0xfffe], 0x11)
	test.Equate(t, mem[0xffff], 0x22)
}

func TestLoadMissingFile(t *testing.T) {
	mem := make([]uint8, 0x10000)
	err := romfile.Load(filepath.Join(t.TempDir(), "missing"), mem, 0)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, romfile.NotFound), true)
}

func TestWriteFormat(t *testing.T) {
	mem := make([]uint8, 0x10000)
	for i := 0; i < 12; i++ {
		mem[0x1000+i] = uint8(i)
	}

	s := &strings.Builder{}
	err := romfile.Write(s, func(a uint16) uint8 { return mem[a] }, 0x1000, 0x100b)
	test.ExpectedSuccess(t, err)

	expected := "1000: 00 01 02 03 04 05 06 07\n1008: 08 09 0A 0B\n"
	test.Equate(t, s.String(), expected)
}

// a write followed by a load restores the original bytes.
func TestWozmonRoundTrip(t *testing.T) {
	mem := make([]uint8, 0x10000)
	for i := 0; i < 300; i++ {
		mem[0x2000+i] = uint8(i * 7)
	}

	s := &strings.Builder{}
	err := romfile.Write(s, func(a uint16) uint8 { return mem[a] }, 0x2000, 0x212b)
	test.ExpectedSuccess(t, err)

	path := writeTemp(t, "dump.woz", s.String())

	restored := make([]uint8, 0x10000)
	err = romfile.Load(path, restored, 0)
	test.ExpectedSuccess(t, err)

	for i := 0; i < 300; i++ {
		if restored[0x2000+i] != mem[0x2000+i] {
			t.Fatalf("round trip mismatch at %#04x", 0x2000+i)
		}
	}
}
