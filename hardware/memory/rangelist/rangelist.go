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

// Package rangelist maintains an ordered list of address ranges. The list is
// kept sorted by start address and its entries never overlap and are never
// adjacent: adding a range merges it with any range it touches, removing a
// range trims or splits the ranges it intersects.
//
// The expected list size is small (single digit) so operations are simple
// linear scans.
package rangelist

import (
	"fmt"
	"strings"
)

// Range is an inclusive range of addresses.
type Range struct {
	Start uint16
	End   uint16
}

func (r Range) String() string {
	return fmt.Sprintf("%04x.%04x", r.Start, r.End)
}

// Contains checks if an address is within the range.
func (r Range) Contains(address uint16) bool {
	return address >= r.Start && address <= r.End
}

// List is an ordered list of non-overlapping, non-adjacent address ranges.
// The zero value is an empty list ready for use.
type List struct {
	ranges []Range
}

func (l List) String() string {
	s := make([]string, 0, len(l.ranges))
	for _, r := range l.ranges {
		s = append(s, r.String())
	}
	return strings.Join(s, " ")
}

// Ranges returns a copy of the ranges in the list.
func (l List) Ranges() []Range {
	r := make([]Range, len(l.ranges))
	copy(r, l.ranges)
	return r
}

// Add a range to the list, merging it with any existing range it overlaps
// or is adjacent to.
func (l *List) Add(ar Range) {
	for i := 0; i < len(l.ranges); i++ {
		cur := &l.ranges[i]

		// new range ends before the current range begins, with a gap of at
		// least one address. insert here
		if cur.Start > 0 && ar.End < cur.Start-1 {
			l.ranges = append(l.ranges, Range{})
			copy(l.ranges[i+1:], l.ranges[i:])
			l.ranges[i] = ar
			return
		}

		// new range begins after the current range ends, with a gap. keep
		// looking
		if cur.End < 0xffff && ar.Start > cur.End+1 {
			continue
		}

		// ranges overlap or are adjacent. merge into the current range and
		// then fold in any later ranges the merged range now touches
		if ar.Start < cur.Start {
			cur.Start = ar.Start
		}
		if ar.End > cur.End {
			cur.End = ar.End
		}
		for i+1 < len(l.ranges) && (cur.End == 0xffff || l.ranges[i+1].Start <= cur.End+1) {
			if l.ranges[i+1].End > cur.End {
				cur.End = l.ranges[i+1].End
			}
			l.ranges = append(l.ranges[:i+1], l.ranges[i+2:]...)
		}
		return
	}

	l.ranges = append(l.ranges, ar)
}

// Remove a range from the list. Ranges that are partially covered are
// trimmed; a range that strictly contains the removed range is split in
// two. Removing a range disjoint from all existing ranges is a no-op.
func (l *List) Remove(ar Range) {
	for i := 0; i < len(l.ranges); i++ {
		cur := l.ranges[i]

		// no more overlaps possible
		if ar.End < cur.Start {
			return
		}

		// no overlap with this range
		if ar.Start > cur.End {
			continue
		}

		switch {
		case ar.Start <= cur.Start && ar.End >= cur.End:
			// removed range covers the current range entirely
			l.ranges = append(l.ranges[:i], l.ranges[i+1:]...)
			i--

		case ar.Start > cur.Start && ar.End < cur.End:
			// removed range lies strictly inside the current range. split
			l.ranges = append(l.ranges, Range{})
			copy(l.ranges[i+2:], l.ranges[i+1:])
			l.ranges[i] = Range{Start: cur.Start, End: ar.Start - 1}
			l.ranges[i+1] = Range{Start: ar.End + 1, End: cur.End}
			return

		case ar.Start <= cur.Start:
			// trim the front of the current range
			l.ranges[i].Start = ar.End + 1

		default:
			// trim the back of the current range
			l.ranges[i].End = ar.Start - 1
		}
	}
}

// Contains checks if an address is within any range in the list.
func (l List) Contains(address uint16) bool {
	for _, r := range l.ranges {
		if r.Contains(address) {
			return true
		}
	}
	return false
}

// Clear removes all ranges from the list.
func (l *List) Clear() {
	l.ranges = l.ranges[:0]
}
