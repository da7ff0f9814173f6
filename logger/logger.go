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

// Package logger collects log entries for the whole application in a single
// central log. Entries are tagged with the name of the subsystem that raised
// them. Immediately repeated entries are folded into one.
//
// By default nothing is printed. SetEcho() directs new entries to an
// io.Writer as they arrive, which is how the verbose mode of the emulator is
// implemented.
package logger

import (
	"fmt"
	"io"
	"strings"
)

// Entry is a single line in the log.
type Entry struct {
	Tag      string
	Detail   string
	Repeated int
}

func (e Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.Tag, e.Detail))
	if e.Repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.Repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

type logger struct {
	maxEntries int
	entries    []Entry
	echo       io.Writer
}

// maximum number of entries in the central log.
const maxCentral = 256

// only one central log for the entire application.
var central = &logger{maxEntries: maxCentral}

func (l *logger) log(tag, detail string) {
	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	// fold repeats of the most recent entry
	if len(l.entries) > 0 {
		e := &l.entries[len(l.entries)-1]
		if e.Tag == tag && e.Detail == detail {
			e.Repeated++
			return
		}
	}

	l.entries = append(l.entries, Entry{Tag: tag, Detail: detail})

	if len(l.entries) > l.maxEntries {
		l.entries = l.entries[len(l.entries)-l.maxEntries:]
	}

	if l.echo != nil {
		io.WriteString(l.echo, l.entries[len(l.entries)-1].String())
	}
}

// Log adds an entry to the central log.
func Log(tag, detail string) {
	central.log(tag, detail)
}

// Logf adds a formatted entry to the central log.
func Logf(tag, detail string, args ...interface{}) {
	central.log(tag, fmt.Sprintf(detail, args...))
}

// Clear all entries from the central log.
func Clear() {
	central.entries = central.entries[:0]
}

// SetEcho prints new log entries to output as they arrive. A nil output
// turns echoing off.
func SetEcho(output io.Writer) {
	central.echo = output
}

// Write the contents of the central log to output.
func Write(output io.Writer) {
	for _, e := range central.entries {
		io.WriteString(output, e.String())
	}
}

// Tail writes the last number entries to output.
func Tail(output io.Writer, number int) {
	if number > len(central.entries) {
		number = len(central.entries)
	}
	for _, e := range central.entries[len(central.entries)-number:] {
		io.WriteString(output, e.String())
	}
}
