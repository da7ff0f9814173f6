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

// Package romfile reads and writes memory images. Two formats are
// supported: raw binary, and the line oriented "Wozmon" hex text of the
// form
//
//	AAAA: BB BB BB ...
//
// with one address prefix per line and space separated byte values. The
// format is fingerprinted from the content, not the filename.
package romfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aminglis/mach65/curated"
)

// Sentinal errors returned by the package.
const (
	NotFound = "romfile: cannot open %s: %v"
	Invalid  = "romfile: %s: %v"
)

// number of byte values per line written by Write()
const bytesPerLine = 8

// Load reads the named image into mem. Raw binary images are copied
// starting at origin. Wozmon images carry their own addresses: lines
// without a colon are ignored, bytes addressed below origin are skipped
// and bytes addressed past the end of mem are skipped.
func Load(filename string, mem []uint8, origin uint16) error {
	f, err := os.Open(filename)
	if err != nil {
		return curated.Errorf(NotFound, filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return curated.Errorf(Invalid, filename, err)
	}

	if isWozmon(data) {
		return loadWozmon(data, mem, origin)
	}

	// raw binary: copy at origin, truncating at the end of mem
	copy(mem[origin:], data)

	return nil
}

// isWozmon fingerprints the image format: printable text containing at
// least one line beginning with a hex address followed by a colon is taken
// to be Wozmon text.
func isWozmon(data []byte) bool {
	// binary images contain bytes that never appear in hex text
	for _, b := range data {
		if b != '\n' && b != '\r' && b != '\t' && (b < ' ' || b > '~') {
			return false
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		idx := strings.IndexRune(line, ':')
		if idx < 1 || idx > 4 {
			continue
		}
		if _, err := strconv.ParseUint(line[:idx], 16, 16); err == nil {
			return true
		}
	}
	return false
}

func loadWozmon(data []byte, mem []uint8, origin uint16) error {
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := scanner.Text()

		// lines without a colon are ignored
		idx := strings.IndexRune(line, ':')
		if idx < 0 {
			continue
		}

		addr, err := strconv.ParseUint(strings.TrimSpace(line[:idx]), 16, 16)
		if err != nil {
			continue
		}

		a := int(addr)
		for _, field := range strings.Fields(line[idx+1:]) {
			b, err := strconv.ParseUint(field, 16, 8)
			if err != nil {
				return curated.Errorf(Invalid, "wozmon", fmt.Errorf("bad byte value %q", field))
			}

			// skip bytes below the load origin or past the end of the
			// buffer
			if a >= int(origin) && a < len(mem) {
				mem[a] = uint8(b)
			}
			a++
		}
	}

	return nil
}

// Write the memory range [start, end] to output as Wozmon text, eight byte
// values per line. The read function supplies the memory contents.
func Write(output io.Writer, read func(uint16) uint8, start, end uint16) error {
	a := uint32(start)
	col := 0

	for a <= uint32(end) {
		if col == 0 {
			if _, err := fmt.Fprintf(output, "%04X:", a); err != nil {
				return curated.Errorf(Invalid, "wozmon", err)
			}
		}

		if _, err := fmt.Fprintf(output, " %02X", read(uint16(a))); err != nil {
			return curated.Errorf(Invalid, "wozmon", err)
		}

		a++
		col++
		if col >= bytesPerLine && a <= uint32(end) {
			if _, err := io.WriteString(output, "\n"); err != nil {
				return curated.Errorf(Invalid, "wozmon", err)
			}
			col = 0
		}
	}

	_, err := io.WriteString(output, "\n")
	if err != nil {
		return curated.Errorf(Invalid, "wozmon", err)
	}

	return nil
}
