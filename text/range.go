// Package text provides byte ranges over source text and a line index for
// converting between offsets and line/column pairs.
package text

import "fmt"

// Range is a half-open byte range [Start, End) into a source text.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewRange returns the range [start, end). It panics if start > end.
func NewRange(start, end int) Range {
	if start > end {
		panic(fmt.Sprintf("text: invalid range [%d; %d)", start, end))
	}
	return Range{Start: start, End: end}
}

// RangeOfLen returns the range starting at offset with the given length.
func RangeOfLen(offset, length int) Range {
	return NewRange(offset, offset+length)
}

func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether Start <= offset < End.
func (r Range) Contains(offset int) bool {
	return r.Start <= offset && offset < r.End
}

// ContainsInclusive reports whether Start <= offset <= End.
func (r Range) ContainsInclusive(offset int) bool {
	return r.Start <= offset && offset <= r.End
}

// ContainsRange reports whether other lies entirely within r.
func (r Range) ContainsRange(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Intersects reports whether the two ranges share at least one byte, or an
// empty range sits strictly inside the other one.
func (r Range) Intersects(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d; %d)", r.Start, r.End)
}
